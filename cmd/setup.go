package cmd

import (
	"github.com/spf13/cobra"

	"github.com/daveygoode/atlas/internal/deploy"
	"github.com/daveygoode/atlas/internal/ui"
)

var projectDir string

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Install atlas into a new project",
	Long: `Writes a project CLAUDE.md generated from the atlas copy, creates the session,
working log and memory directories, seeds SHORT_IMPORTANT_MEMORY.md from its
template and adds the atlas block to .gitignore.

Run it from the project root with the atlas checkout at ./.atlas.`,
	Args: cobra.NoArgs,
	RunE: runSetup,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Convert a project that already has its own CLAUDE.md",
	Long: `Backs up the existing CLAUDE.md, keeps it as CLAUDE_PROJECT_SPECIFIC.md and
writes a new CLAUDE.md that references it. Instruction files missing from the
project are copied in and the atlas work directories are created.`,
	Args: cobra.NoArgs,
	RunE: runMigrate,
}

func init() {
	for _, c := range []*cobra.Command{setupCmd, migrateCmd} {
		c.Flags().StringVar(&projectDir, "project", "", "Project directory (default: parent of the atlas root)")
		rootCmd.AddCommand(c)
	}
}

func runSetup(cmd *cobra.Command, args []string) error {
	report, err := deploy.New(env.paths, projectDir).Setup()
	if err != nil {
		return err
	}
	out := printer(cmd)
	out.Println(ui.BannerStyle.Render("ATLAS Setup"))
	printSteps(out, report)
	out.Println("")
	out.Success("Setup complete.")
	out.Println("Next steps:")
	out.Println("  1. Review CLAUDE.md in the project root")
	out.Println(`  2. Save your first session: atlas save -c "Initial setup" -n "Start development"`)
	return nil
}

func runMigrate(cmd *cobra.Command, args []string) error {
	report, err := deploy.New(env.paths, projectDir).Migrate()
	if err != nil {
		return err
	}
	out := printer(cmd)
	out.Println(ui.BannerStyle.Render("ATLAS Migration"))
	printSteps(out, report)
	out.Println("")
	out.Success("Migration complete.")
	out.Println("Project-specific instructions are preserved in " + deploy.ProjectSpecificFile + ".")
	return nil
}

func printSteps(out *ui.Printer, report *deploy.Report) {
	for _, step := range report.Steps {
		out.Println("  " + ui.SuccessStyle.Render("✓") + " " + step)
	}
}
