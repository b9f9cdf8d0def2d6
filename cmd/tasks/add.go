package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"taskboard/pkg/client"
)

var (
	addTitle       string
	addDescription string
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a new task",
	Args:  cobra.NoArgs,
	RunE:  addTask,
}

func init() {
	addCmd.Flags().StringVarP(&addTitle, "title", "t", "", "Task title (required)")
	addCmd.Flags().StringVarP(&addDescription, "description", "d", "", "Task description")
	if err := addCmd.MarkFlagRequired("title"); err != nil {
		panic(fmt.Sprintf("mark title flag required: %v", err))
	}
}

func addTask(cmd *cobra.Command, args []string) error {
	sess := newSession()
	sess.SetDraft(addTitle, addDescription)

	t, err := sess.Create(ctxOf(cmd))
	if errors.Is(err, client.ErrEmptyTitle) {
		return errors.New("el título es obligatorio")
	}
	if err != nil {
		return fmt.Errorf("create task: %w", err)
	}

	out := cmd.OutOrStdout()
	if jsonOut {
		return printJSON(out, t)
	}
	fmt.Fprintf(out, "✓ Tarea creada: %s\n", t.ID)
	fmt.Fprintf(out, "  %s\n", t.Title)
	return nil
}
