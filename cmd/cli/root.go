package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	githubToken  string
	geminiAPIKey string
)

var rootCmd = &cobra.Command{
	Use:   "openguard",
	Short: "openguard is the command-line interface for OpenGuard.",
	Long:  `A CLI for running OpenGuard pull-request reviews from a terminal, without going through the HTTP API.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() { //nolint:gochecknoinits // Cobra's init function for command registration
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&githubToken, "github-token", "t", "", "GitHub Token")
	rootCmd.PersistentFlags().StringVarP(&geminiAPIKey, "gemini-api-key", "k", "", "Gemini API Key")

	if err := viper.BindPFlag("GITHUB_TOKEN", rootCmd.PersistentFlags().Lookup("github-token")); err != nil {
		slog.Error("Error binding flag", "error", err)
		os.Exit(1)
	}
	if err := viper.BindPFlag("GEMINI_API_KEY", rootCmd.PersistentFlags().Lookup("gemini-api-key")); err != nil {
		slog.Error("Error binding flag", "error", err)
		os.Exit(1)
	}
}

// initConfig reads in ENV variables if set.
func initConfig() {
	viper.AutomaticEnv()
}
