package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/xiaot623/gogo/memorychat/internal/transport/ws"
)

func newChatCmd() *cobra.Command {
	var (
		addr    string
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Chat with a running server from the terminal",
		Long:  "chat connects to the WebSocket endpoint of a running memorychat server. Type a message and press Enter; /reset forgets everything, /quit exits.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dialCtx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			client, err := ws.Dial(dialCtx, addr)
			if err != nil {
				return err
			}
			defer client.Close()

			out := cmd.OutOrStdout()
			client.OnPush(func(msg ws.OutboundMessage) {
				if msg.Type == ws.TypeResetAck {
					fmt.Fprintln(out, "(conversations were reset from another window)")
				}
			})

			fmt.Fprintf(out, "Connected to %s. /reset forgets everything, /quit exits.\n", addr)
			return repl(cmd.Context(), client, cmd.InOrStdin(), out, timeout)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "ws://localhost:3000/ws", "WebSocket address of the server")
	cmd.Flags().DurationVar(&timeout, "timeout", 90*time.Second, "how long to wait for each reply")

	return cmd
}

type chatClient interface {
	Chat(ctx context.Context, message string) (string, error)
	Reset(ctx context.Context) error
}

func repl(ctx context.Context, client chatClient, in io.Reader, out io.Writer, timeout time.Duration) error {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}

		input := strings.TrimSpace(scanner.Text())
		switch input {
		case "":
			continue
		case "/quit":
			fmt.Fprintln(out, "Bye!")
			return nil
		case "/reset":
			reqCtx, cancel := context.WithTimeout(ctx, timeout)
			err := client.Reset(reqCtx)
			cancel()
			if err != nil {
				return fmt.Errorf("reset: %w", err)
			}
			fmt.Fprintln(out, "All conversations deleted")
			continue
		}

		reqCtx, cancel := context.WithTimeout(ctx, timeout)
		reply, err := client.Chat(reqCtx, input)
		cancel()

		var ferr *ws.FrameError
		switch {
		case errors.As(err, &ferr):
			fmt.Fprintf(out, "error: %s\n", ferr)
		case err != nil:
			return err
		default:
			fmt.Fprintf(out, "bot: %s\n", reply)
		}
	}
}
