package cmd

import (
	"github.com/abhisek/prepterm/internal/app"
	"github.com/abhisek/prepterm/internal/localstate"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "prepterm",
	Short: "Terminal interview practice",
	Long:  "Prepterm — terminal client for AI-driven interview practice: drills, mock interviews, quizzes, and progress tracking.",
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return err
		}
		return app.Run(app.Options{DBPath: dbPath})
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to the local state database (overrides PREPTERM_DB env var)")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(signupCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(sessionsCmd)
	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(weakTopicsCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(roadmapCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(updateCmd)
}

// resolveDBPath returns the local state path using --db (highest priority),
// then PREPTERM_DB, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, localstate.EnsureDir(p)
	}
	return localstate.DefaultDBPath()
}
