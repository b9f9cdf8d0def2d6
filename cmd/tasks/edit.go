package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"taskboard/pkg/client"
	"taskboard/pkg/task"
)

var (
	editTitle       string
	editDescription string
)

var editCmd = &cobra.Command{
	Use:   "edit <task-id>",
	Short: "Change the title or description of a task",
	Args:  cobra.ExactArgs(1),
	RunE:  editTask,
}

var doneCmd = &cobra.Command{
	Use:   "done <task-id>",
	Short: "Mark a task completed",
	Args:  cobra.ExactArgs(1),
	RunE:  func(cmd *cobra.Command, args []string) error { return setCompleted(cmd, args[0], true) },
}

var undoCmd = &cobra.Command{
	Use:   "undo <task-id>",
	Short: "Mark a task pending",
	Args:  cobra.ExactArgs(1),
	RunE:  func(cmd *cobra.Command, args []string) error { return setCompleted(cmd, args[0], false) },
}

var toggleCmd = &cobra.Command{
	Use:   "toggle <task-id>",
	Short: "Flip a task between completed and pending",
	Args:  cobra.ExactArgs(1),
	RunE:  toggleTask,
}

func init() {
	editCmd.Flags().StringVarP(&editTitle, "title", "t", "", "New title")
	editCmd.Flags().StringVarP(&editDescription, "description", "d", "", "New description (may be empty)")
}

func editTask(cmd *cobra.Command, args []string) error {
	var p task.Patch
	if cmd.Flags().Changed("title") {
		title, err := task.NormalizeTitle(editTitle)
		if err != nil {
			return errors.New("el título es obligatorio")
		}
		p.Title = &title
	}
	if cmd.Flags().Changed("description") {
		desc := editDescription
		p.Description = &desc
	}
	if p.Empty() {
		return errors.New("nothing to change: pass --title and/or --description")
	}
	return applyPatch(cmd, args[0], p)
}

func setCompleted(cmd *cobra.Command, id string, done bool) error {
	return applyPatch(cmd, id, task.Patch{Completed: &done})
}

func applyPatch(cmd *cobra.Command, id string, p task.Patch) error {
	t, err := newSession().Update(ctxOf(cmd), id, p)
	if err != nil {
		return describe(id, err)
	}
	return printTask(cmd.OutOrStdout(), t)
}

// toggleTask loads the list first so the flip is based on the server's current value.
func toggleTask(cmd *cobra.Command, args []string) error {
	ctx := ctxOf(cmd)
	sess := newSession()
	if err := sess.Load(ctx); err != nil {
		return fmt.Errorf("list tasks: %w", err)
	}
	t, err := sess.Toggle(ctx, args[0])
	if err != nil {
		return describe(args[0], err)
	}
	return printTask(cmd.OutOrStdout(), t)
}

func describe(id string, err error) error {
	if client.IsNotFound(err) || errors.Is(err, task.ErrNotFound) {
		return fmt.Errorf("tarea no encontrada: %s", id)
	}
	return err
}
