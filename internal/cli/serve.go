package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"answerthere/internal/config"
	"answerthere/internal/mcp"
	"answerthere/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the built-in SQLite tool server on stdin/stdout",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	cfg, err := config.Load(config.Options{Path: globalFlags.ConfigPath})
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	applyFlagOverrides(&cfg)

	st := store.New(cfg.DB.Path)
	if err := st.Init(ctx); err != nil {
		return fmt.Errorf("open %s: %w", cfg.DB.Path, err)
	}
	defer func() {
		_ = st.Close()
	}()

	return mcp.NewServer(st).Serve(ctx, os.Stdin, os.Stdout)
}
