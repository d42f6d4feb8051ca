package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

func newTranslateCommand() *cobra.Command {
	var target, source string

	command := &cobra.Command{
		Use:   "translate [text...]",
		Short: "Translate texts through the cached translation service",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			translations, err := a.Translation.TranslateBatch(cmd.Context(), args, target, source)
			if err != nil {
				return fmt.Errorf("TranslateBatch() > %w", err)
			}
			return printLines(cmd.OutOrStdout(), translations)
		},
	}

	command.Flags().StringVar(&target, "to", "", "Target language tag, e.g. es or pt-BR")
	command.Flags().StringVar(&source, "from", "", "Source language tag; detected by the provider when empty")
	_ = command.MarkFlagRequired("to")

	return command
}

func newDetectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "detect [text]",
		Short: "Detect the language of a text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			detection, err := a.Translation.DetectLanguage(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("DetectLanguage() > %w", err)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s (%.2f)\n", detection.Language, detection.Confidence)
			return err
		},
	}
}

func printLines(w io.Writer, lines []string) error {
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
