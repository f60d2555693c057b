// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	gitpkg "github.com/petar-djukic/rsplit/internal/git"
	"github.com/petar-djukic/rsplit/internal/journal"
)

// openJournal opens the configured journal; it must already exist.
func (a *app) openJournal() (*journal.Journal, error) {
	path := a.journalPath()
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("no journal at %s", path)
	}
	return journal.Open(path)
}

// newRollbackCmd creates the "rollback" command.
func newRollbackCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rollback [run-id]",
		Short: "Undo the files written by a split run",
		Long:  "Rollback removes the files a run created and restores the files it overwrote. Without a run ID the latest run is undone.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			j, err := a.openJournal()
			if err != nil {
				return err
			}
			defer j.Close()

			id := ""
			if len(args) == 1 {
				id = args[0]
			}
			run, err := j.Rollback(id)
			if err != nil {
				if errors.Is(err, journal.ErrEmpty) {
					return errors.New("nothing to roll back")
				}
				return err
			}
			fmt.Fprintf(a.stdout, "Rolled back %s: removed %d files, restored %d files.\n", run.ID, len(run.Created), len(run.Overwritten))
			return nil
		},
	}
}

// newHistoryCmd creates the "history" command.
func newHistoryCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "List recorded split runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			j, err := a.openJournal()
			if err != nil {
				return err
			}
			defer j.Close()

			runs, err := j.History()
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Fprintln(a.stdout, "No runs recorded.")
				return nil
			}
			tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tTIME\tINPUT\tFILES\tSTATE")
			for _, r := range runs {
				state := "live"
				if r.RolledBack {
					state = "rolled back"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n", r.ID, r.Time.Local().Format("2006-01-02 15:04:05"), r.Input, len(r.Files()), state)
			}
			return tw.Flush()
		},
	}
}

// newUndoCmd creates the "undo" command.
func newUndoCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "undo",
		Short: "Revert the last rsplit commit",
		Long:  "Undo performs a soft reset of the last commit if it was made by rsplit.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := gitpkg.Open(gitpkg.Config{WorkDir: a.baseDir()})
			if err != nil {
				return fmt.Errorf("opening repository: %w", err)
			}
			if err := repo.Undo(); err != nil {
				return fmt.Errorf("undo failed: %w", err)
			}
			fmt.Fprintln(a.stdout, "Successfully reverted last rsplit commit.")
			return nil
		},
	}
}
