package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"childcare-assistant/internal/journal"
)

func newJournalCommand() *cobra.Command {
	var limit int

	command := &cobra.Command{
		Use:   "journal [userId]",
		Short: "Print a user's most recent journaled questions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			if a.Postgres == nil {
				return fmt.Errorf("query journal is disabled: set database.postgres.host")
			}
			entries, err := a.Journal.Recent(cmd.Context(), args[0], limit)
			if err != nil {
				return fmt.Errorf("Journal.Recent() > %w", err)
			}
			return printJournal(cmd.OutOrStdout(), entries)
		},
	}

	command.Flags().IntVar(&limit, "limit", 20, "Number of entries to print")

	return command
}

func printJournal(w io.Writer, entries []journal.Entry) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, "no journaled questions")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tOUTCOME\tINTENT\tMS\tQUESTION")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s/%s\t%d\t%s\n",
			e.CreatedAt.UTC().Format(time.RFC3339), e.Outcome, e.Intent.Type, e.Intent.Entity, e.DurationMs, e.Question)
	}
	return tw.Flush()
}
