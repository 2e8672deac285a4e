package cmd

import (
	"strings"
	"testing"
)

func TestRootCmd_Structure(t *testing.T) {
	if rootCmd.Use != "widectl" {
		t.Errorf("expected 'widectl', got '%s'", rootCmd.Use)
	}
	if rootCmd.Short == "" {
		t.Error("expected non-empty short description")
	}
}

func TestSubcommandsRegistered(t *testing.T) {
	want := map[string]bool{
		"check":     false,
		"aggregate": false,
		"metadata":  false,
		"history":   false,
		"serve":     false,
		"show":      false,
		"version":   false,
	}
	for _, cmd := range rootCmd.Commands() {
		name := strings.Fields(cmd.Use)[0]
		if _, ok := want[name]; ok {
			want[name] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("command %q not registered", name)
		}
	}
}

func TestSetVersion(t *testing.T) {
	SetVersion("1.2.3", "abc123", "2026-08-01")
	if GetVersion() != "1.2.3" {
		t.Errorf("expected '1.2.3', got '%s'", GetVersion())
	}
}

func TestParsePhaseArg(t *testing.T) {
	phase, err := parsePhaseArg("phase3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(phase) != "phase3" {
		t.Errorf("expected phase3, got %s", phase)
	}
}

func TestParsePhaseArg_SuggestsOnTypo(t *testing.T) {
	_, err := parsePhaseArg("pase3")
	if err == nil {
		t.Fatal("expected error for unknown phase")
	}
	if !strings.Contains(err.Error(), "did you mean") {
		t.Errorf("expected a suggestion, got: %v", err)
	}
}

func TestParsePhaseArg_Unknown(t *testing.T) {
	if _, err := parsePhaseArg("zzz"); err == nil {
		t.Fatal("expected error for unknown phase")
	}
}
