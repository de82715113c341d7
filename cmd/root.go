package cmd

import (
	"github.com/glossa-app/glossa/internal/content"
	"github.com/glossa-app/glossa/internal/progress"
	"github.com/glossa-app/glossa/internal/store"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "glossa",
	Short: "Terminal English grammar workbook",
	Long:  "Glossa is a terminal workbook for adult learners drilling English grammar, with graded exercises and an optional AI tutor.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite history database (overrides GLOSSA_DB env var)")
	rootCmd.PersistentFlags().String("data-dir", "", "Directory for progress files (overrides GLOSSA_DATA_DIR env var)")
	rootCmd.PersistentFlags().String("content-dir", "", "Directory with extra exercise files (overrides GLOSSA_CONTENT_DIR env var)")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(tutorCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then GLOSSA_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

// resolveGateway builds the progress gateway from --data-dir or defaults.
func resolveGateway(cmd *cobra.Command) (*progress.Gateway, error) {
	dir, _ := cmd.Flags().GetString("data-dir")
	if dir == "" {
		var err error
		dir, err = progress.DefaultDir()
		if err != nil {
			return nil, err
		}
	}
	return progress.NewGateway(dir)
}

// resolveLibrary builds the content library from --content-dir or defaults.
func resolveLibrary(cmd *cobra.Command) *content.Library {
	dir, _ := cmd.Flags().GetString("content-dir")
	if dir == "" {
		dir = content.DefaultDir()
	}
	return content.NewLibrary(dir)
}
