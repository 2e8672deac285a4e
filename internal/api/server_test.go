package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hugo-lorenzo-mato/wide-research/internal/core"
	"github.com/hugo-lorenzo-mato/wide-research/internal/history"
	"github.com/hugo-lorenzo-mato/wide-research/internal/workspace"
)

func newTestWorkspace(t *testing.T) *workspace.Workspace {
	t.Helper()
	dir := t.TempDir()
	write := func(rel, content string) {
		t.Helper()
		path := filepath.Join(dir, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatalf("write %s: %v", rel, err)
		}
	}
	write("subtasks.json", `{"subtasks": [{"id": "item-1"}]}`)
	write("outputs/item-1.md", "# 子题\n\n"+strings.Repeat("内容充实。", 40))
	write("final_report.md", "# 报告\n\n## 执行摘要\n\n## 主要发现\n\n## 结论\n")
	write("metadata.json", `{
		"task": {"name": "测试任务"},
		"execution": {"status": "completed", "created_at": "2026-08-01T09:00:00Z",
			"phases_completed": ["phase0","phase1","phase2","phase3","phase4","phase5"]}
	}`)
	return workspace.New(dir)
}

func TestHandleHealth(t *testing.T) {
	t.Parallel()
	srv := NewServer(newTestWorkspace(t))

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if body["status"] != "healthy" {
		t.Fatalf("unexpected body: %v", body)
	}
}

func TestHandleCheck(t *testing.T) {
	t.Parallel()
	srv := NewServer(newTestWorkspace(t))

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/check", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body)
	}
	var rep struct {
		RunID   string             `json:"run_id"`
		Verdict core.Verdict       `json:"verdict"`
		Stats   core.RunStatistics `json:"statistics"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &rep); err != nil {
		t.Fatalf("decoding report: %v", err)
	}
	if rep.RunID == "" {
		t.Fatal("expected run id")
	}
	if rep.Stats.TotalSubtasks != 1 {
		t.Fatalf("unexpected statistics: %+v", rep.Stats)
	}
}

func TestHandleCheck_MissingWorkspace(t *testing.T) {
	t.Parallel()
	srv := NewServer(workspace.New(filepath.Join(t.TempDir(), "absent")))

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/check", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestHandleMetadata(t *testing.T) {
	t.Parallel()
	srv := NewServer(newTestWorkspace(t))

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/metadata", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var doc map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &doc); err != nil {
		t.Fatalf("decoding metadata: %v", err)
	}
	if _, ok := doc["task"]; !ok {
		t.Fatalf("expected task section: %v", doc)
	}
}

func TestHandleMetadata_NotFound(t *testing.T) {
	t.Parallel()
	srv := NewServer(workspace.New(t.TempDir()))

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/metadata", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestHandleHistory(t *testing.T) {
	t.Parallel()
	store, err := history.Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("opening history: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	srv := NewServer(newTestWorkspace(t), WithHistory(store))

	// A check through the API is recorded.
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/check", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("check failed: %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/history", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var entries []history.Entry
	if err := json.Unmarshal(rec.Body.Bytes(), &entries); err != nil {
		t.Fatalf("decoding history: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 recorded run, got %d", len(entries))
	}
}

func TestHandleHistory_Unconfigured(t *testing.T) {
	t.Parallel()
	srv := NewServer(newTestWorkspace(t))

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/history", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
