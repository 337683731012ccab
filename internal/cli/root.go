package cli

import (
	"github.com/spf13/cobra"
)

// GlobalFlags holds flags shared across all commands.
type GlobalFlags struct {
	ConfigPath string
	DBPath     string
	Model      string
	OllamaURL  string
	Verbose    bool
}

var globalFlags GlobalFlags

var rootCmd = &cobra.Command{
	Use:   "answerthere",
	Short: "Conversational assistant for a SQLite Jeopardy database",
	Long: "answerthere answers questions about a Jeopardy corpus by translating\n" +
		"natural-language prompts into SQL tool calls through a local model,\n" +
		"or by running direct commands (read_query, list_tables, describe_table).",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&globalFlags.ConfigPath, "config", "answerthere.toml", "config file path")
	rootCmd.PersistentFlags().StringVar(&globalFlags.DBPath, "db", "", "path to the SQLite database (default from config)")
	rootCmd.PersistentFlags().StringVar(&globalFlags.Model, "model", "", "chat model name (default from config)")
	rootCmd.PersistentFlags().StringVar(&globalFlags.OllamaURL, "ollama-url", "", "model backend base URL (default from config)")
	rootCmd.PersistentFlags().BoolVar(&globalFlags.Verbose, "verbose", false, "log tool channel traffic to stderr")

	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(uiCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command; exit status is handled by main.
func Execute() error {
	return rootCmd.Execute()
}
