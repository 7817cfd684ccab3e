package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	atlaserrors "github.com/daveygoode/atlas/internal/errors"
	"github.com/daveygoode/atlas/internal/git"
	"github.com/daveygoode/atlas/internal/logger"
	"github.com/daveygoode/atlas/internal/notification"
	"github.com/daveygoode/atlas/internal/session"
	"github.com/daveygoode/atlas/internal/ui"
)

var (
	saveContext  string
	saveNext     string
	saveExtended string
	saveNotify   bool
)

var saveCmd = &cobra.Command{
	Use:   "save",
	Short: "Save the current development session",
	Long: `Records a session snapshot: what was accomplished, what comes next, optional
extended context as JSON, the git state of the working directory and a copy of
SHORT_IMPORTANT_MEMORY.md. The snapshot becomes the latest session and an entry
is appended to today's working log.

An "important_notes" key in the extended context is also appended to the
Critical Notes section of SHORT_IMPORTANT_MEMORY.md.`,
	Example: `  atlas save -c "Implemented user authentication" -n "Add password reset"
  atlas save -c "Fixed API bugs" -n "Write tests" -e '{"decisions": ["Use JWT tokens"]}'`,
	Args: cobra.NoArgs,
	RunE: runSave,
}

func init() {
	saveCmd.Flags().StringVarP(&saveContext, "context", "c", "", "What was accomplished in this session")
	saveCmd.Flags().StringVarP(&saveNext, "next", "n", "", "What needs to be done next")
	saveCmd.Flags().StringVarP(&saveExtended, "extended", "e", "", "Extended context as JSON (technical decisions, important notes)")
	saveCmd.Flags().BoolVar(&saveNotify, "notify", false, "Send a desktop notification (default from notify_on_save)")
	rootCmd.AddCommand(saveCmd)
}

func runSave(cmd *cobra.Command, args []string) error {
	out := printer(cmd)
	answers := ui.SaveAnswers{Context: saveContext, NextTask: saveNext, Extended: saveExtended}

	if answers.Context == "" || answers.NextTask == "" {
		if !interactive(cmd) {
			return atlaserrors.E(atlaserrors.Op("cmd.save"), atlaserrors.KindInvalid,
				errors.New(`required flags "context" and "next" must be set`))
		}
		if err := ui.PromptSave(&answers); err != nil {
			if errors.Is(err, ui.ErrAborted) {
				out.Muted("Aborted.")
				return nil
			}
			return err
		}
	}

	ext, err := session.ParseExtended(answers.Extended)
	if err != nil {
		logger.Warn("Save: ignoring extended context: %v", err)
		errPrinter(cmd).Warn("Warning: Invalid JSON in extended context, ignoring")
		ext = nil
	}

	store := session.NewStore(env.paths, session.Options{
		User:       env.cfg.ResolveUser(),
		Identity:   env.cfg.Identity,
		WorkingDir: env.cwd,
		Git:        git.NewCollector(env.cfg.CommitCount),
	})
	res, err := store.Save(cmd.Context(), answers.Context, answers.NextTask, ext)
	if err != nil {
		return err
	}

	printSaveConfirmation(out, res)

	if note, ok := ext.Get(session.ImportantNotesKey); ok && session.NoteText(note) != "" {
		if res.NoteAppended {
			out.Success("Critical note added to " + env.paths.Rel(env.paths.ShortMemoryPath()))
		} else {
			out.Warn("No Critical Notes section found; important_notes was not added to short memory")
		}
	}

	notify := env.cfg.NotifyOnSave
	if cmd.Flags().Changed("notify") {
		notify = saveNotify
	}
	if notify {
		if err := notification.SessionSaved(res.Record.SessionID); err != nil {
			errPrinter(cmd).Warn(fmt.Sprintf("Warning: notification failed: %v", err))
		}
	}
	return nil
}

func printSaveConfirmation(out *ui.Printer, res *session.SaveResult) {
	rec := res.Record

	out.Println("")
	out.Success("Atlas Session Saved Successfully!")
	out.Println("")
	out.Printf("Session ID: %s", rec.SessionID)
	out.Printf("Session File: %s", env.paths.Rel(res.RecordPath))
	out.Printf("Working Log: %s", session.WorkLogRef(rec))
	out.Println("")
	out.Printf("Context: %s", rec.Context)
	out.Printf("Next Task: %s", rec.NextTask)
	out.Println("")
	out.Println("Professional Mode: Active")
	out.Printf("Identity: %s", rec.Identity)
	out.Println("")
	out.Println("To resume this session:")
	out.Println("  atlas resume")

	if g := rec.GitInfo; g != nil {
		out.Println("")
		out.Printf("Git Branch: %s", g.Branch)
		if len(g.ModifiedFiles) > 0 {
			out.Printf("Modified Files: %d", len(g.ModifiedFiles))
		}
	}
}
