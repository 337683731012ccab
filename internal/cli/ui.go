package cli

import (
	"context"

	"github.com/spf13/cobra"

	"answerthere/internal/tui"
	"answerthere/internal/ui"
)

var uiCmd = &cobra.Command{
	Use:   "ui",
	Short: "Full-screen chat interface",
	Args:  cobra.NoArgs,
	RunE:  runUI,
}

func runUI(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	sess, err := OpenSession(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = sess.Close()
	}()

	banner := []string{
		ui.Info("answerthere", "Jeopardy database assistant"),
		ui.Info("Model:", sess.Config.Model),
		ui.Dim("Direct commands: read_query <SQL>, list_tables, describe_table <name>. Esc to quit."),
	}
	return tui.Run(ctx, banner, func(ctx context.Context, input string) (string, error) {
		res, err := sess.Engine.Turn(ctx, input)
		if err != nil {
			return "", err
		}
		return formatTurn(res), nil
	})
}
