package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/hugo-lorenzo-mato/wide-research/internal/core"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestRecordAndRecent(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	base := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)

	for i, verdict := range []core.Verdict{core.VerdictPass, core.VerdictFail, core.VerdictPassWithWarnings} {
		err := s.Record(ctx, Entry{
			RunID:     string(rune('a'+i)) + "-run",
			Workspace: "/tmp/ws",
			StartedAt: base.Add(time.Duration(i) * time.Minute),
			Verdict:   verdict,
			Issues:    i,
			Warnings:  i * 2,
			Stats:     core.RunStatistics{TotalSubtasks: 5, CompletedSubtasks: 5 - i, FailedSubtasks: i},
		})
		if err != nil {
			t.Fatalf("Record %d: %v", i, err)
		}
	}

	entries, err := s.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	// Newest first.
	if entries[0].RunID != "c-run" || entries[2].RunID != "a-run" {
		t.Fatalf("unexpected order: %s .. %s", entries[0].RunID, entries[2].RunID)
	}
	if entries[0].Verdict != core.VerdictPassWithWarnings {
		t.Fatalf("verdict not round-tripped: %s", entries[0].Verdict)
	}
	if entries[0].Stats.TotalSubtasks != 5 || entries[0].Stats.FailedSubtasks != 2 {
		t.Fatalf("statistics not round-tripped: %+v", entries[0].Stats)
	}
	if !entries[2].StartedAt.Equal(base) {
		t.Fatalf("timestamp not round-tripped: %s", entries[2].StartedAt)
	}
}

func TestRecentLimit(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		err := s.Record(ctx, Entry{
			RunID:     string(rune('a' + i)),
			Workspace: "/tmp/ws",
			StartedAt: time.Now().Add(time.Duration(i) * time.Second),
			Verdict:   core.VerdictPass,
		})
		if err != nil {
			t.Fatalf("Record: %v", err)
		}
	}
	entries, err := s.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
}

func TestOpenReusesExistingDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	s1, err := Open(path)
	if err != nil {
		t.Fatalf("first Open: %v", err)
	}
	if err := s1.Record(context.Background(), Entry{RunID: "r1", Workspace: "/w", StartedAt: time.Now(), Verdict: core.VerdictPass}); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if err := s1.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	s2, err := Open(path)
	if err != nil {
		t.Fatalf("second Open: %v", err)
	}
	defer func() { _ = s2.Close() }()
	entries, err := s2.Recent(context.Background(), 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(entries) != 1 || entries[0].RunID != "r1" {
		t.Fatalf("expected persisted run, got %+v", entries)
	}
}
