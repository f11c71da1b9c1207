package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	port       string
	configPath string
	apiBase    string
)

// Execute runs the CLI.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	envPort := os.Getenv("PORT")
	if envPort == "" {
		envPort = "8080"
	}
	envConfig := os.Getenv("CONFIG_PATH")
	if envConfig == "" {
		envConfig = "config/config.yaml"
	}
	cmd := &cobra.Command{
		Use:   "pdfmcq",
		Short: "Generate MCQ quizzes from PDFs and take them in the terminal",
	}

	cmd.PersistentFlags().StringVar(&configPath, "config", envConfig, "path to YAML config")
	cmd.PersistentFlags().StringVar(&port, "port", envPort, "port for the serve command")
	cmd.PersistentFlags().StringVar(&apiBase, "api-base", os.Getenv("API_BASE"), "backend base URL for the play command")

	cmd.AddCommand(NewServeCmd(&configPath, &port))
	cmd.AddCommand(NewPlayCmd(&configPath, &apiBase))
	cmd.AddCommand(NewMigrateCmd(&configPath))
	return cmd
}
