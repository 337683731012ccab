package cli

import (
	"bufio"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"answerthere/internal/ui"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Interactive console loop",
	Args:  cobra.NoArgs,
	RunE:  runChat,
}

func runChat(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	sess, err := OpenSession(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = sess.Close()
	}()

	// An interrupt while blocked on stdin ends the session; the deferred
	// Close above never runs in that case, so release the channel here.
	go func() {
		<-ctx.Done()
		fmt.Println()
		fmt.Println(ui.Dim("Exiting..."))
		_ = sess.Close()
		os.Exit(0)
	}()

	interactive := ui.Interactive()
	if interactive {
		fmt.Println(ui.Info("answerthere", "database assistant ready"))
		for _, tool := range sess.Tools {
			fmt.Println(ui.Dim("  - " + tool.Name + ": " + tool.Description))
		}
		fmt.Println(ui.Dim("Type SQL with 'read_query <SQL>', 'list_tables', 'describe_table <name>',"))
		fmt.Println(ui.Dim("or ask in plain language. 'quit' to exit."))
		fmt.Println()
	}

	scanner := bufio.NewScanner(os.Stdin)
	for {
		if interactive {
			fmt.Print(ui.Prompt("answerthere"))
		}
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		switch strings.ToLower(input) {
		case "quit", "exit", "q":
			return scanner.Err()
		}

		res, err := sess.Engine.Turn(ctx, input)
		if err != nil {
			fmt.Println(ui.Errorf("%v", err))
			fmt.Println(ui.Dim("Try a direct command like 'read_query <SQL>'."))
			continue
		}
		if out := formatTurn(res); out != "" {
			fmt.Println(out)
		}
	}
	return scanner.Err()
}
