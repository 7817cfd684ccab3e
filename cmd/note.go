package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/daveygoode/atlas/internal/session"
)

var noteCmd = &cobra.Command{
	Use:   "note <text...>",
	Short: "Append a dated line to the Critical Notes of short memory",
	Long: `Adds "- YYYY-MM-DD: <text>" to the end of the "## Critical Notes" section of
SHORT_IMPORTANT_MEMORY.md without saving a session.`,
	Example: `  atlas note "Never run migrations against prod from a laptop"`,
	Args:    cobra.MinimumNArgs(1),
	RunE:    runNote,
}

func init() {
	rootCmd.AddCommand(noteCmd)
}

func runNote(cmd *cobra.Command, args []string) error {
	text := strings.Join(args, " ")
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("note text is empty")
	}

	store := session.NewStore(env.paths, session.Options{})
	added, err := store.Annotate(time.Now(), text)
	if err != nil {
		return err
	}

	path := env.paths.Rel(env.paths.ShortMemoryPath())
	if !added {
		errPrinter(cmd).Warn(fmt.Sprintf("No Critical Notes section found in %s; note not added", path))
		return &ExitError{Code: 1}
	}
	printer(cmd).Success("Critical note added to " + path)
	return nil
}
