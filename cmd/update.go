package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/daveygoode/atlas/internal/deploy"
	"github.com/daveygoode/atlas/internal/ui"
)

var updateYes bool

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Regenerate the project CLAUDE.md from the atlas copy",
	Long: `Backs up short memory, project-specific instructions, session data and the
current project CLAUDE.md into .atlas/backups/<timestamp>, then rewrites the
project CLAUDE.md from the atlas copy. Recent atlas commits are listed as a
changelog when the atlas directory is a git checkout.

Pull the atlas checkout first; update does not touch the network.`,
	Args: cobra.NoArgs,
	RunE: runUpdate,
}

func init() {
	updateCmd.Flags().BoolVarP(&updateYes, "yes", "y", false, "Continue without asking when the atlas directory has local changes")
	updateCmd.Flags().StringVar(&projectDir, "project", "", "Project directory (default: parent of the atlas root)")
	rootCmd.AddCommand(updateCmd)
}

func runUpdate(cmd *cobra.Command, args []string) error {
	out := printer(cmd)
	d := deploy.New(env.paths, projectDir)

	if !updateYes && d.Dirty(cmd.Context()) {
		out.Warn("The atlas directory has uncommitted changes.")
		ok, err := askContinue(cmd)
		if err != nil {
			if errors.Is(err, ui.ErrAborted) {
				ok = false
			} else {
				return err
			}
		}
		if !ok {
			out.Muted("Update cancelled.")
			return nil
		}
	}

	report, err := d.Update(cmd.Context())
	if err != nil {
		return err
	}

	out.Println(ui.BannerStyle.Render("ATLAS Update"))
	printSteps(out, report)
	out.Println("")
	out.Printf("Backup: %s", displayPath(report.BackupDir))

	if len(report.Changelog) > 0 {
		out.Println("")
		out.Println(ui.HeadingStyle.Render("Recent changes:"))
		for _, line := range report.Changelog {
			out.Println("  " + line)
		}
	}
	if len(report.Releases) > 0 {
		out.Println("")
		out.Println(ui.HeadingStyle.Render("What's new:"))
		for _, rel := range report.Releases {
			header := "v" + rel.Version
			if rel.Date != "" {
				header += " (" + rel.Date + ")"
			}
			out.Println("  " + ui.LabelStyle.Render(header))
			for _, change := range rel.Changes {
				out.Println("    - " + change)
			}
		}
	}
	out.Println("")
	out.Success("Update complete.")
	return nil
}

func askContinue(cmd *cobra.Command) (bool, error) {
	if interactive(cmd) {
		return ui.Confirm("Continue with update?", "Local changes in the atlas directory are kept as they are.")
	}
	return confirm(cmd.InOrStdin(), cmd.OutOrStdout(), "Continue with update?"), nil
}

// confirm prompts the user for y/N confirmation
func confirm(input io.Reader, output io.Writer, prompt string) bool {
	reader := bufio.NewReader(input)
	fmt.Fprintf(output, "%s [y/N]: ", prompt)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	response = strings.ToLower(strings.TrimSpace(response))
	return response == "y" || response == "yes"
}
