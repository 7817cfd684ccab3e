package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/daveygoode/atlas/internal/config"
	atlaserrors "github.com/daveygoode/atlas/internal/errors"
	"github.com/daveygoode/atlas/internal/logger"
	"github.com/daveygoode/atlas/internal/ui"
)

var (
	debugMode             bool
	quietMode             bool
	rootFlag              string
	version, commit, date string
)

// env is resolved once per invocation before any subcommand runs.
var env struct {
	paths config.Paths
	cfg   *config.Config
	cwd   string
}

// ExitError ends the process with Code without printing anything further;
// the command has already reported the problem.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// Exit codes by error kind.
const (
	exitFailure = 1
	exitUsage   = 2
)

// ExitCode maps err to a process exit status. Invalid input and config
// problems exit 2; not found and I/O failures exit 1.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exit *ExitError
	if errors.As(err, &exit) {
		return exit.Code
	}
	switch atlaserrors.GetKind(err) {
	case atlaserrors.KindInvalid, atlaserrors.KindConfig:
		return exitUsage
	default:
		return exitFailure
	}
}

// SetVersionInfo sets version information from ldflags
func SetVersionInfo(v, c, d string) {
	version, commit, date = v, c, d
}

var rootCmd = &cobra.Command{
	Use:   "atlas",
	Short: "Session bookkeeping and project scaffolding for ATLAS",
	Long: `Atlas records development sessions as JSON snapshots (context, next task,
git state, short-term memory) under .atlas/sessions, keeps a date-bucketed
working log, and installs the ATLAS instruction files into a project.`,
	PersistentPreRunE: initEnv,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVarP(&quietMode, "quiet", "q", false, "Reduce logging to info level only")
	rootCmd.PersistentFlags().StringVar(&rootFlag, "root", "", "Atlas directory (default: $ATLAS_ROOT or the nearest .atlas)")
}

func initConfig() {
	if quietMode {
		logger.SetDebug(false)
	} else if debugMode {
		logger.SetDebug(true)
	}
}

// initEnv resolves the atlas root, moves the log file into it when it
// exists, and loads config.yaml.
func initEnv(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("error resolving working directory: %w", err)
	}
	paths, err := config.ResolvePaths(rootFlag, cwd)
	if err != nil {
		return fmt.Errorf("error resolving atlas root: %w", err)
	}

	if info, err := os.Stat(paths.Root); err == nil && info.IsDir() {
		if err := logger.Init(filepath.Join(paths.LogsDir(), "atlas.log")); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Warning: could not open log file: %v\n", err)
		} else {
			logger.Debug("Root: logging to %s", logger.Path())
		}
	}

	cfg, err := config.Load(paths.ConfigPath())
	if err != nil {
		return err
	}
	if !ui.IsThemeName(cfg.Theme) {
		logger.Warn("Config: unknown theme %q, using %s", cfg.Theme, ui.DefaultTheme)
	}
	ui.SetThemeByName(cfg.Theme)

	env.paths, env.cfg, env.cwd = paths, cfg, cwd
	logger.Debug("Root: atlas root=%s project=%s command=%s", paths.Root, paths.ProjectRoot, cmd.Name())
	return nil
}

// Execute runs the root command
func Execute() error {
	defer logger.Close()

	// Set version dynamically
	rootCmd.Version = version
	rootCmd.SetVersionTemplate(versionTemplate())
	return rootCmd.Execute()
}

func versionTemplate() string {
	if commit != "none" && commit != "" {
		return fmt.Sprintf("atlas %s\n  commit: %s\n  built:  %s\n", version, commit, date)
	}
	return fmt.Sprintf("atlas %s\n", version)
}

// printer writes styled output to the command's stdout.
func printer(cmd *cobra.Command) *ui.Printer {
	return ui.NewPrinter(cmd.OutOrStdout())
}

// errPrinter writes styled output to the command's stderr.
func errPrinter(cmd *cobra.Command) *ui.Printer {
	return ui.NewPrinter(cmd.ErrOrStderr())
}

// interactive reports whether prompts can be shown.
func interactive(cmd *cobra.Command) bool {
	return ui.IsTerminal(cmd.InOrStdin()) && ui.IsTerminal(cmd.OutOrStdout())
}
