package cmd

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newHistoryCmd(opts *rootOptions) *cobra.Command {
	var (
		limit  int
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Print the persisted conversation log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := wireApp(cmd.Context(), opts.envFile, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer app.Close()

			exchanges := app.service.History(cmd.Context(), limit)

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(exchanges)
			}

			out := cmd.OutOrStdout()
			if len(exchanges) == 0 {
				_, err := fmt.Fprintln(out, "no conversations yet")
				return err
			}
			for _, ex := range exchanges {
				if _, err := fmt.Fprintf(out, "[%s]\nuser: %s\nbot:  %s\n\n", ex.Timestamp.Format(time.RFC3339), ex.User, ex.Bot); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "number of most recent exchanges to print (0 prints all)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")

	return cmd
}
