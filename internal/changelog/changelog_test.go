package changelog

import (
	"os"
	"path/filepath"
	"testing"
)

const sample = `# Changelog

- stray bullet

## v1.2.0 (2025-08-02)

- Add update command
* Rewrite session references

## 1.10.0

- Resume picker

## v1.1.3 (2025-06-01)
`

func TestParse(t *testing.T) {
	entries := Parse(sample)
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(entries))
	}

	first := entries[0]
	if first.Version != "1.2.0" || first.Date != "2025-08-02" {
		t.Errorf("first = %+v", first)
	}
	if len(first.Changes) != 2 || first.Changes[1] != "Rewrite session references" {
		t.Errorf("first.Changes = %q", first.Changes)
	}
	if entries[1].Date != "" {
		t.Errorf("undated entry has date %q", entries[1].Date)
	}
	if len(entries[2].Changes) != 0 {
		t.Errorf("empty entry has changes %q", entries[2].Changes)
	}
}

func TestNewest(t *testing.T) {
	entries := Parse(sample)

	got := Newest(entries, 2)
	if len(got) != 2 {
		t.Fatalf("got %d entries, want 2", len(got))
	}
	if got[0].Version != "1.10.0" || got[1].Version != "1.2.0" {
		t.Errorf("order = %s, %s; want 1.10.0, 1.2.0", got[0].Version, got[1].Version)
	}
	if entries[0].Version != "1.2.0" {
		t.Error("Newest reordered its input")
	}
	if all := Newest(entries, -1); len(all) != 3 {
		t.Errorf("Newest(-1) returned %d entries, want 3", len(all))
	}
}

func TestCompareVersions(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"1.0.0", "1.0.0", 0},
		{"v1.0.1", "1.0.0", 1},
		{"1.9.9", "1.10.0", -1},
		{"2.0", "1.99.99", 1},
		{"", "0.0.0", 0},
	}
	for _, tt := range tests {
		if got := CompareVersions(tt.a, tt.b); got != tt.want {
			t.Errorf("CompareVersions(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestRead(t *testing.T) {
	dir := t.TempDir()

	entries, err := Read(filepath.Join(dir, FileName))
	if err != nil || entries != nil {
		t.Errorf("missing file: got %v, %v; want nil, nil", entries, err)
	}

	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, []byte(sample), 0644); err != nil {
		t.Fatal(err)
	}
	entries, err = Read(path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(entries) != 3 {
		t.Errorf("got %d entries, want 3", len(entries))
	}
}
