package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"tasklist/internal/model"
	"tasklist/internal/task"
	"tasklist/internal/view"
)

func listCmd(opts *rootOptions) *cobra.Command {
	var filter string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := view.ParseFilter(filter)
			if err != nil {
				return err
			}
			a, err := opts.open(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.Close()

			all := a.store.List()
			out := cmd.OutOrStdout()
			shown := view.Apply(all, f)
			if len(shown) == 0 {
				fmt.Fprintln(out, "No tasks.")
			}
			for _, t := range shown {
				fmt.Fprintln(out, formatTask(t))
			}
			p := view.ComputeProgress(all)
			fmt.Fprintf(out, "%d/%d completed (%.0f%%)\n", p.Completed, p.Total, p.Percent)
			return nil
		},
	}
	cmd.Flags().StringVar(&filter, "filter", "all", "all, active or completed")
	return cmd
}

func addCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "add <text...>",
		Short: "Add a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.open(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.Close()

			t, err := a.store.Add(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatTask(t))
			return nil
		},
	}
}

func toggleCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <id>",
		Short: "Flip a task between active and completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.open(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.Close()

			id := strings.TrimSpace(args[0])
			t, ok := a.store.Toggle(cmd.Context(), id)
			if !ok {
				return fmt.Errorf("%w %q", task.ErrNotFound, id)
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatTask(t))
			return nil
		},
	}
}

func editCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "edit <id> <text...>",
		Short: "Replace a task's description",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.open(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.Close()

			id := strings.TrimSpace(args[0])
			t, ok, err := a.store.Edit(cmd.Context(), id, strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("%w %q", task.ErrNotFound, id)
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatTask(t))
			return nil
		},
	}
}

func rmCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.open(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.Close()

			id := strings.TrimSpace(args[0])
			if !a.store.Delete(cmd.Context(), id) {
				return fmt.Errorf("%w %q", task.ErrNotFound, id)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Deleted", id)
			return nil
		},
	}
}

func formatTask(t model.Task) string {
	mark := "[ ]"
	if t.Completed {
		mark = "[x]"
	}
	return fmt.Sprintf("%s %s  %s", mark, t.ID, t.Text)
}
