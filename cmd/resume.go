package cmd

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/daveygoode/atlas/internal/clipboard"
	atlaserrors "github.com/daveygoode/atlas/internal/errors"
	"github.com/daveygoode/atlas/internal/logger"
	"github.com/daveygoode/atlas/internal/session"
	"github.com/daveygoode/atlas/internal/ui"
)

var (
	resumeID      string
	resumeList    bool
	resumeMachine bool
	resumeJSON    bool
	resumeCopy    bool
	resumePick    bool
)

const (
	listIDWidth   = 20
	listTimeWidth = 18
	listAgeWidth  = 16
	listRuleWidth = 100
)

var resumeCmd = &cobra.Command{
	Use:   "resume [session-id]",
	Short: "Resume the latest or a specific session",
	Long: `Shows a saved session. Without arguments the latest session is shown as a full
report. --machine-format prints a single-line digest for pasting into another
tool; --list enumerates saved sessions newest first.`,
	Example: `  atlas resume                      # Resume latest session
  atlas resume -c 20240316_143022   # Resume specific session
  atlas resume -l                   # List all sessions
  atlas resume --machine-format     # Single-line digest for copy/paste`,
	Args: cobra.MaximumNArgs(1),
	RunE: runResume,
}

func init() {
	resumeCmd.Flags().StringVarP(&resumeID, "id", "c", "", "Specific session ID to resume")
	resumeCmd.Flags().BoolVarP(&resumeList, "list", "l", false, "List all available sessions")
	resumeCmd.Flags().BoolVar(&resumeMachine, "machine-format", false, "Output a single-line digest for copy/paste")
	resumeCmd.Flags().BoolVar(&resumeJSON, "json", false, "Print the stored session record as JSON")
	resumeCmd.Flags().BoolVar(&resumeCopy, "copy", false, "Copy the digest to the clipboard (default from copy_digest)")
	resumeCmd.Flags().BoolVar(&resumePick, "pick", false, "Choose a session interactively")
	resumeCmd.MarkFlagsMutuallyExclusive("list", "pick", "id")
	resumeCmd.MarkFlagsMutuallyExclusive("json", "machine-format")
	rootCmd.AddCommand(resumeCmd)
}

func runResume(cmd *cobra.Command, args []string) error {
	resumer := session.NewResumer(env.paths)
	out := printer(cmd)

	if resumeList {
		return listSessions(out, resumer)
	}

	id := resumeID
	if len(args) == 1 {
		if id != "" {
			return fmt.Errorf("session id given both as argument and --id")
		}
		id = args[0]
	}

	if resumePick {
		picked, err := pickSession(cmd, resumer)
		if err != nil {
			if errors.Is(err, ui.ErrAborted) {
				out.Muted("Aborted.")
				return nil
			}
			return err
		}
		if picked == "" {
			return &ExitError{Code: 1}
		}
		id = picked
	}

	if resumeJSON {
		raw, err := resumer.LoadRaw(id)
		if err != nil {
			return err
		}
		if raw == nil {
			return reportMissing(cmd, id)
		}
		text := strings.TrimRight(string(raw), "\n")
		if out.Styled() {
			text = ui.HighlightJSON(text)
		}
		out.Println(text)
		return nil
	}

	rec, err := resumer.Load(id)
	if err != nil {
		return err
	}
	if rec == nil {
		return reportMissing(cmd, id)
	}

	if resumeMachine {
		digest := session.RenderDigest(rec)
		fmt.Fprintln(cmd.OutOrStdout(), digest)

		copyDigest := env.cfg.CopyDigest
		if cmd.Flags().Changed("copy") {
			copyDigest = resumeCopy
		}
		if copyDigest {
			if err := clipboard.WriteText(digest); err != nil {
				errPrinter(cmd).Warn(fmt.Sprintf("Warning: could not copy to clipboard: %v", err))
			} else {
				errPrinter(cmd).Muted("Copied to clipboard.")
			}
		}
		return nil
	}

	var theme session.Theme = session.PlainTheme{}
	if out.Styled() {
		theme = ui.ReportTheme{}
	}
	out.Println(session.RenderFull(rec, theme))
	printQuickCommands(out, rec)
	return nil
}

// reportMissing tells a missing id apart from an empty store.
func reportMissing(cmd *cobra.Command, id string) error {
	err, msg := atlaserrors.NoSessions(), "No sessions found. Save a session first using atlas save"
	if id != "" {
		err, msg = atlaserrors.SessionNotFound(id), fmt.Sprintf("Session '%s' not found.", id)
	}
	logger.Info("Resume: %v", err)
	errPrinter(cmd).Error(msg)
	return &ExitError{Code: ExitCode(err)}
}

func listSessions(out *ui.Printer, resumer *session.Resumer) error {
	sessions, err := resumer.List()
	if err != nil {
		return err
	}
	if len(sessions) == 0 {
		out.Println("No sessions found.")
		return nil
	}

	limit := env.cfg.ListLimit
	out.Println("")
	out.Println(ui.HeadingStyle.Render("Available Atlas Sessions:"))
	out.Muted(strings.Repeat("-", listRuleWidth))
	out.Println(ui.LabelStyle.Render(listRow("Session ID", "Timestamp", "Saved", "Context")))
	out.Muted(strings.Repeat("-", listRuleWidth))

	now := time.Now()
	for i, s := range sessions {
		if i == limit {
			break
		}
		out.Println(listRow(s.ID, listTimestamp(s), listAge(s, now), s.Preview))
	}

	if len(sessions) > limit {
		out.Println("")
		out.Muted(fmt.Sprintf("... and %d more sessions", len(sessions)-limit))
	}
	out.Println("")
	out.Println("To resume a session: atlas resume -c <session_id>")
	return nil
}

// listRow pads columns by display width so wide characters stay aligned.
func listRow(id, timestamp, age, preview string) string {
	return runewidth.FillRight(runewidth.Truncate(id, listIDWidth, ""), listIDWidth) + " " +
		runewidth.FillRight(timestamp, listTimeWidth) + " " +
		runewidth.FillRight(age, listAgeWidth) + " " +
		preview
}

func listTimestamp(s session.Summary) string {
	if s.Time.IsZero() {
		return s.Timestamp
	}
	return s.Time.Format("2006-01-02 15:04")
}

func listAge(s session.Summary, now time.Time) string {
	if s.Time.IsZero() {
		return ""
	}
	return humanize.RelTime(s.Time, now, "ago", "from now")
}

func pickSession(cmd *cobra.Command, resumer *session.Resumer) (string, error) {
	if !interactive(cmd) {
		return "", fmt.Errorf("--pick needs an interactive terminal")
	}
	sessions, err := resumer.List()
	if err != nil {
		return "", err
	}
	if len(sessions) == 0 {
		errPrinter(cmd).Error("No sessions found. Save a session first using atlas save")
		return "", nil
	}

	options := make([]ui.PickOption, 0, len(sessions))
	for _, s := range sessions {
		options = append(options, ui.PickOption{
			Label: fmt.Sprintf("%s  %s  %s", s.ID, listTimestamp(s), s.Preview),
			ID:    s.ID,
		})
	}
	return ui.PickSession(options)
}

func printQuickCommands(out *ui.Printer, rec *session.Record) {
	out.Println("")
	out.Println(ui.HeadingStyle.Render("QUICK COMMANDS"))
	out.Muted(strings.Repeat("-", 40))
	out.Println("View full working log:")
	if ref := session.WorkLogRef(rec); ref != "" {
		out.Printf("  cat %s", displayPath(filepath.Join(env.paths.Root, ref)))
	}
	out.Println("")
	out.Println("View short-term memory:")
	out.Printf("  cat %s", displayPath(env.paths.ShortMemoryPath()))
	out.Println("")
	out.Println("Save new session:")
	out.Println(`  atlas save -c "What you did" -n "What's next"`)
}

// displayPath shortens path relative to the working directory when it
// lies beneath it.
func displayPath(path string) string {
	rel, err := filepath.Rel(env.cwd, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return rel
}
