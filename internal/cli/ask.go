package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var askCmd = &cobra.Command{
	Use:   "ask [prompt]",
	Short: "Run one prompt or direct command and exit",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAsk,
}

func runAsk(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	sess, err := OpenSession(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = sess.Close()
	}()

	res, err := sess.Engine.Turn(ctx, strings.Join(args, " "))
	if err != nil {
		return err
	}
	if out := formatTurn(res); out != "" {
		fmt.Println(out)
	}
	return nil
}
