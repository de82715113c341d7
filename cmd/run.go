package cmd

import (
	"fmt"
	"os"

	"github.com/glossa-app/glossa/internal/app"
	"github.com/glossa-app/glossa/internal/tutor"
	"github.com/spf13/cobra"

	"github.com/glossa-app/glossa/internal/store"
)

// runApp opens the store, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	ctx := cmd.Context()

	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	gateway, err := resolveGateway(cmd)
	if err != nil {
		return fmt.Errorf("open progress directory: %w", err)
	}

	deps := app.Deps{
		Library: resolveLibrary(cmd),
		Gateway: gateway,
		Events:  st.Events(),
	}

	provider, err := tutor.NewProviderFromEnv(ctx, st.Events())
	if err != nil {
		fmt.Fprintln(os.Stderr, "Tutor not configured:", err)
		fmt.Fprintln(os.Stderr, "Explanations will be unavailable.")
	} else {
		deps.Explainer = tutor.NewExplainer(provider, tutor.DefaultExplainerConfig())
	}

	return app.Run(deps)
}
