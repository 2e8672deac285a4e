package fsutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestReadFileScoped_ReadsFile(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "item-1.md")
	if err := os.WriteFile(p, []byte("# 报告"), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}

	b, err := ReadFileScoped(p)
	if err != nil {
		t.Fatalf("ReadFileScoped error: %v", err)
	}
	if string(b) != "# 报告" {
		t.Fatalf("unexpected content: %q", string(b))
	}
}

func TestReadFileScoped_RejectsInvalidPath(t *testing.T) {
	for _, p := range []string{"", ".", string(filepath.Separator)} {
		if _, err := ReadFileScoped(p); err == nil {
			t.Fatalf("expected error for %q", p)
		}
	}
}

func TestReadTextScoped_MissingFile(t *testing.T) {
	dir := t.TempDir()
	if _, err := ReadTextScoped(filepath.Join(dir, "missing.md")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
