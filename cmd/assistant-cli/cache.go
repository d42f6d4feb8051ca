package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCacheCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and maintain the translation cache",
	}
	command.AddCommand(
		&cobra.Command{
			Use:   "sweep",
			Short: "Remove expired translations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				a, err := openApp(cmd.Context())
				if err != nil {
					return err
				}
				defer a.Close()

				removed, err := a.Translation.Cache().ClearExpired(cmd.Context())
				if err != nil {
					return fmt.Errorf("ClearExpired() > %w", err)
				}
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "removed %d expired entries, %d remaining\n", removed, a.Translation.Cache().Len())
				return err
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Remove every cached translation",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				a, err := openApp(cmd.Context())
				if err != nil {
					return err
				}
				defer a.Close()

				if err := a.Translation.Cache().Clear(cmd.Context()); err != nil {
					return fmt.Errorf("Clear() > %w", err)
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), "translation cache cleared")
				return err
			},
		},
		&cobra.Command{
			Use:   "stats",
			Short: "Print the number of cached translations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				a, err := openApp(cmd.Context())
				if err != nil {
					return err
				}
				defer a.Close()

				_, err = fmt.Fprintf(cmd.OutOrStdout(), "%d entries (ttl %s, provider %s)\n",
					a.Translation.Cache().Len(), a.Translation.Cache().TTL(), a.Translation.ProviderName())
				return err
			},
		},
	)
	return command
}
