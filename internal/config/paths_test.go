package config

import (
	"path/filepath"
	"testing"
)

func TestResolvePaths(t *testing.T) {
	tmp := t.TempDir()

	tests := []struct {
		name     string
		flag     string
		env      string
		cwd      string
		wantRoot string
	}{
		{"default under cwd", "", "", tmp, filepath.Join(tmp, ".atlas")},
		{"flag wins", filepath.Join(tmp, "custom"), filepath.Join(tmp, "env"), tmp, filepath.Join(tmp, "custom")},
		{"env beats cwd", "", filepath.Join(tmp, "env"), tmp, filepath.Join(tmp, "env")},
		{"inside atlas dir", "", "", filepath.Join(tmp, "proj", ".atlas", "scripts"), filepath.Join(tmp, "proj", ".atlas")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(RootEnv, tt.env)
			p, err := ResolvePaths(tt.flag, tt.cwd)
			if err != nil {
				t.Fatalf("ResolvePaths() error = %v", err)
			}
			if p.Root != tt.wantRoot {
				t.Errorf("Root = %q, want %q", p.Root, tt.wantRoot)
			}
			if p.ProjectRoot != filepath.Dir(tt.wantRoot) {
				t.Errorf("ProjectRoot = %q, want %q", p.ProjectRoot, filepath.Dir(tt.wantRoot))
			}
		})
	}
}

func TestPathsLayout(t *testing.T) {
	p := NewPaths("/work/proj/.atlas")

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"sessions", p.SessionsDir(), "/work/proj/.atlas/sessions"},
		{"working log", p.WorkingLogDir(), "/work/proj/.atlas/WORKING_LOG"},
		{"memory", p.MemoryDir(), "/work/proj/.atlas/MEMORY"},
		{"short memory", p.ShortMemoryPath(), "/work/proj/.atlas/SHORT_IMPORTANT_MEMORY.md"},
		{"logs", p.LogsDir(), "/work/proj/.atlas/logs"},
		{"config", p.ConfigPath(), "/work/proj/.atlas/config.yaml"},
		{"backups", p.BackupsDir(), "/work/proj/.atlas/backups"},
		{"rel inside", p.Rel("/work/proj/.atlas/sessions/LATEST.json"), "sessions/LATEST.json"},
		{"rel outside", p.Rel("/elsewhere/x"), "/elsewhere/x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if filepath.ToSlash(tt.got) != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
	if p.ProjectRoot != "/work/proj" {
		t.Errorf("ProjectRoot = %q, want /work/proj", p.ProjectRoot)
	}
}
