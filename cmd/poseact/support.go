package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/hupe1980/poseact/persistence"
)

func newSupportCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "support",
		Short: "Manage saved support sets",
	}

	var examples []string
	save := &cobra.Command{
		Use:   "save NAME",
		Short: "Register examples and save them as a support set",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			manager, err := a.newManager(ctx)
			if err != nil {
				return err
			}
			rec, err := a.newRecognizer()
			if err != nil {
				return err
			}
			if err := a.registerExamples(cmd, rec, examples); err != nil {
				return err
			}
			if err := manager.Save(ctx, args[0], rec); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "saved %q with %d labels\n", args[0], rec.Len())
			return nil
		},
	}
	save.Flags().StringArrayVarP(&examples, "example", "e", nil, "example recording as label=path (repeatable)")
	_ = save.MarkFlagRequired("example")

	load := &cobra.Command{
		Use:   "load NAME",
		Short: "Load a support set and list its slots",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			manager, err := a.newManager(ctx)
			if err != nil {
				return err
			}
			rec, err := a.newRecognizer()
			if err != nil {
				return err
			}
			snap, err := manager.Load(ctx, args[0], rec)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(w, "saved %s\n", snap.CreatedAt.Format("2006-01-02 15:04:05Z07:00"))
			fmt.Fprintln(w, "SLOT\tLABEL")
			for _, s := range rec.Slots() {
				label := s.Label
				if !s.Occupied() {
					label = "-"
				}
				fmt.Fprintf(w, "%d\t%s\n", s.Index, label)
			}
			return w.Flush()
		},
	}

	ls := &cobra.Command{
		Use:   "ls",
		Short: "List saved support sets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			manager, err := a.newManager(cmd.Context())
			if err != nil {
				return err
			}
			names, err := manager.List(cmd.Context())
			if err != nil {
				return err
			}
			for _, n := range names {
				fmt.Fprintln(cmd.OutOrStdout(), n)
			}
			return nil
		},
	}

	rm := &cobra.Command{
		Use:   "rm NAME",
		Short: "Delete a saved support set",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := a.newManager(cmd.Context())
			if err != nil {
				return err
			}
			return manager.Delete(cmd.Context(), args[0])
		},
	}

	cmd.AddCommand(save, load, ls, rm)
	return cmd
}

func (a *app) newManager(ctx context.Context) (*persistence.Manager, error) {
	store, err := a.cfg.NewStore(ctx)
	if err != nil {
		return nil, err
	}
	return a.cfg.NewManager(store, a.logger)
}
