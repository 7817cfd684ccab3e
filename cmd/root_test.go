package cmd

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/daveygoode/atlas/internal/config"
	atlaserrors "github.com/daveygoode/atlas/internal/errors"
	"github.com/daveygoode/atlas/internal/logger"
)

func TestDebugFlagDefaultFalse(t *testing.T) {
	flag := rootCmd.PersistentFlags().Lookup("debug")
	if flag == nil {
		t.Fatal("--debug flag not found")
	}
	if flag.DefValue != "false" {
		t.Errorf("--debug default = %q, want %q", flag.DefValue, "false")
	}
}

func TestQuietFlagExists(t *testing.T) {
	flag := rootCmd.PersistentFlags().Lookup("quiet")
	if flag == nil {
		t.Fatal("--quiet flag not found")
	}
	if flag.DefValue != "false" {
		t.Errorf("--quiet default = %q, want %q", flag.DefValue, "false")
	}
	if flag.Shorthand != "q" {
		t.Errorf("--quiet shorthand = %q, want %q", flag.Shorthand, "q")
	}
}

func TestRootFlagExists(t *testing.T) {
	flag := rootCmd.PersistentFlags().Lookup("root")
	if flag == nil {
		t.Fatal("--root flag not found")
	}
	if flag.DefValue != "" {
		t.Errorf("--root default = %q, want empty", flag.DefValue)
	}
}

func TestSubcommandsRegistered(t *testing.T) {
	for _, name := range []string{"save", "resume", "note", "setup", "migrate", "update"} {
		c, _, err := rootCmd.Find([]string{name})
		if err != nil || c.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestInitConfig_DebugEnabled(t *testing.T) {
	origDebug, origQuiet := debugMode, quietMode
	defer func() { debugMode, quietMode = origDebug, origQuiet }()

	debugMode = true
	quietMode = false

	// Should not panic
	initConfig()
}

func TestInitConfig_QuietOverridesDebug(t *testing.T) {
	origDebug, origQuiet := debugMode, quietMode
	defer func() { debugMode, quietMode = origDebug, origQuiet }()

	debugMode = true
	quietMode = true

	// Should not panic - quiet should take precedence
	initConfig()
}

func TestVersionTemplate(t *testing.T) {
	origV, origC, origD := version, commit, date
	defer SetVersionInfo(origV, origC, origD)

	SetVersionInfo("1.2.3", "none", "unknown")
	if got, want := versionTemplate(), "atlas 1.2.3\n"; got != want {
		t.Errorf("versionTemplate() = %q, want %q", got, want)
	}

	SetVersionInfo("1.2.3", "abc123", "2026-01-02")
	if got := versionTemplate(); !bytes.Contains([]byte(got), []byte("commit: abc123")) {
		t.Errorf("versionTemplate() = %q, want commit line", got)
	}
}

func TestInitEnv_LoadsConfig(t *testing.T) {
	root := filepath.Join(t.TempDir(), config.DirName)
	if err := os.MkdirAll(root, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "config.yaml"), []byte("list_limit: 3\nuser: dana\n"), 0644); err != nil {
		t.Fatal(err)
	}

	_, _, err := runAtlas(t, "", "--root", root, "resume", "--list")
	if err != nil {
		t.Fatalf("resume --list: %v", err)
	}
	if env.paths.Root != root {
		t.Errorf("root = %q, want %q", env.paths.Root, root)
	}
	if env.cfg.ListLimit != 3 {
		t.Errorf("ListLimit = %d, want 3", env.cfg.ListLimit)
	}
	if got := env.cfg.ResolveUser(); got != "dana" {
		t.Errorf("user = %q, want dana", got)
	}
}

func TestInitEnv_InvalidConfig(t *testing.T) {
	root := filepath.Join(t.TempDir(), config.DirName)
	if err := os.MkdirAll(root, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "config.yaml"), []byte("list_limit: 0\n"), 0644); err != nil {
		t.Fatal(err)
	}

	_, _, err := runAtlas(t, "", "--root", root, "resume", "--list")
	if err == nil {
		t.Fatal("expected error for list_limit 0")
	}
	if got := ExitCode(err); got != 2 {
		t.Errorf("ExitCode = %d, want 2", got)
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, 0},
		{"exit error", &ExitError{Code: 3}, 3},
		{"not found", atlaserrors.SessionNotFound("x"), 1},
		{"invalid", atlaserrors.ExtendedContextInvalid(errors.New("bad")), 2},
		{"config", atlaserrors.ConfigInvalid("bad"), 2},
		{"io", atlaserrors.RecordWriteFailed("/x", errors.New("disk full")), 1},
		{"plain", errors.New("boom"), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

// runAtlas executes the root command with args and returns what it wrote.
// Flag values are restored afterwards since cobra keeps them in package vars.
func runAtlas(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	resetFlags(rootCmd)
	t.Cleanup(func() {
		resetFlags(rootCmd)
		rootCmd.SetArgs(nil)
		logger.Reset()
	})

	var stdout, stderr bytes.Buffer
	rootCmd.SetIn(bytes.NewBufferString(stdin))
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}
