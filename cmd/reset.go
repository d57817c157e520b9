package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newResetCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Delete every persisted conversation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := wireApp(cmd.Context(), opts.envFile, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer app.Close()

			if err := app.service.ClearHistory(cmd.Context()); err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), "All conversations deleted")
			return err
		},
	}
}
