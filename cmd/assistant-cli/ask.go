package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"childcare-assistant/internal/assistant"
)

func newAskCommand() *cobra.Command {
	var (
		userID  string
		verbose bool
	)

	command := &cobra.Command{
		Use:   "ask [question]",
		Short: "Ask the assistant a question about the childcare data",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			reply := a.Assistant.Ask(cmd.Context(), userID, strings.Join(args, " "))
			return printReply(cmd.OutOrStdout(), reply, verbose)
		},
	}

	command.Flags().StringVar(&userID, "user", "cli", "User the conversation history belongs to")
	command.Flags().BoolVarP(&verbose, "verbose", "v", false, "Print the interpreted intent and outcome")

	return command
}

func printReply(w io.Writer, reply assistant.Reply, verbose bool) error {
	if _, err := fmt.Fprintln(w, reply.Answer); err != nil {
		return err
	}
	if !verbose {
		return nil
	}

	intent, err := json.Marshal(reply.Intent)
	if err != nil {
		return fmt.Errorf("json.Marshal() > %w", err)
	}
	_, err = fmt.Fprintf(w, "\nintent:  %s\noutcome: %s\n", intent, reply.Outcome)
	return err
}
