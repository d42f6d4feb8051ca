package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"childcare-assistant/pkg/registry"
)

func newActivitiesCommand() *cobra.Command {
	var path string

	command := &cobra.Command{
		Use:   "activities",
		Short: "Inspect the activity registry of the workers",
	}
	command.PersistentFlags().StringVar(&path, "registry", registry.DefaultPath, "Path to the activity registry")

	command.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List the registered activities",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				reg, err := registry.LoadRegistry(path)
				if err != nil {
					return fmt.Errorf("registry.LoadRegistry() > %w", err)
				}
				return printActivities(cmd.OutOrStdout(), reg)
			},
		},
		&cobra.Command{
			Use:   "validate",
			Short: "Check the registry for duplicate or broken entries",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				reg, err := registry.LoadRegistry(path)
				if err != nil {
					return fmt.Errorf("registry.LoadRegistry() > %w", err)
				}
				errs := reg.Validate()
				for _, e := range errs {
					fmt.Fprintln(cmd.ErrOrStderr(), e)
				}
				if len(errs) > 0 {
					return fmt.Errorf("registry has %d error(s)", len(errs))
				}
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "%d activities OK\n", len(reg.Activities))
				return err
			},
		},
		&cobra.Command{
			Use:   "check-input [taskType] [variables.json]",
			Short: "Validate job variables against an activity's input schema",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				reg, err := registry.LoadRegistry(path)
				if err != nil {
					return fmt.Errorf("registry.LoadRegistry() > %w", err)
				}
				activity, ok := reg.Find(args[0])
				if !ok {
					return fmt.Errorf("no activity registered for %q", args[0])
				}

				raw, err := os.ReadFile(args[1])
				if err != nil {
					return err
				}
				var variables interface{}
				if err := json.Unmarshal(raw, &variables); err != nil {
					return fmt.Errorf("parse %s: %w", args[1], err)
				}

				result, err := activity.ValidateInput(variables)
				if err != nil {
					return err
				}
				if !result.Valid {
					return result.Error()
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), "input valid")
				return err
			},
		},
	)
	return command
}

func printActivities(w io.Writer, reg *registry.ActivityRegistry) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TASK TYPE\tPROCESS\tTIMEOUT\tERROR CODES")
	for _, a := range reg.Activities {
		codes := make([]string, 0, len(a.ErrorCodes))
		for _, c := range a.ErrorCodes {
			codes = append(codes, string(c))
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", a.TaskType, a.Process, a.Timeout, strings.Join(codes, ","))
	}
	return tw.Flush()
}
