package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"pocketchat/internal/session"
)

func init() {
	chatCmd.Flags().StringP("message", "m", "", "Send a single message and exit")
}

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with the last used model",
	Long: `chat reloads the last used model and reads messages from stdin, one per line.
Replies stream as they are generated. Type /reset to start a new conversation
and /quit (or EOF) to leave.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd)
		if err != nil {
			return err
		}
		defer a.Close()
		ctx := cmd.Context()
		if !a.mgr.Recover(ctx) {
			return fmt.Errorf("no model to chat with; download one with `pocketchat pull`: %w", session.ErrNoActiveSession)
		}
		out := cmd.OutOrStdout()

		if msg, _ := cmd.Flags().GetString("message"); msg != "" {
			return streamReply(ctx, a, out, msg)
		}

		fmt.Fprintf(out, "chatting with %s\n", a.mgr.Status().Current)
		sc := bufio.NewScanner(cmd.InOrStdin())
		for {
			fmt.Fprint(out, "> ")
			if !sc.Scan() {
				fmt.Fprintln(out)
				return sc.Err()
			}
			line := strings.TrimSpace(sc.Text())
			switch line {
			case "":
				continue
			case "/quit", "/exit":
				return nil
			case "/reset":
				a.chat.Reset(a.mgr.Status().Current)
				continue
			}
			if err := streamReply(ctx, a, out, line); err != nil {
				if errors.Is(err, context.Canceled) {
					return nil
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "error: %v\n", err)
			}
		}
	},
}

func streamReply(ctx context.Context, a *app, out io.Writer, text string) error {
	for frag, err := range a.chat.SendStream(ctx, text) {
		if err != nil {
			fmt.Fprintln(out)
			return err
		}
		fmt.Fprint(out, frag)
	}
	fmt.Fprintln(out)
	return nil
}
