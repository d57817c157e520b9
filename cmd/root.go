// Package cmd implements the memorychat command line.
package cmd

import "github.com/spf13/cobra"

func Execute() error {
	return newRootCmd().Execute()
}

type rootOptions struct {
	envFile string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:           "memorychat",
		Short:         "memorychat: a chat service that remembers every conversation",
		Long:          "memorychat serves a chat UI and JSON API backed by an OpenAI-compatible model. Every exchange is persisted and replayed as context on later requests.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	rootCmd.PersistentFlags().StringVar(&opts.envFile, "env-file", "", "dotenv file read before the environment (default .env)")

	rootCmd.AddCommand(
		newServeCmd(opts),
		newHistoryCmd(opts),
		newResetCmd(opts),
		newChatCmd(),
	)

	return rootCmd
}
