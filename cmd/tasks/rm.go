package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"taskboard/pkg/client"
)

var rmYes bool

var rmCmd = &cobra.Command{
	Use:     "rm <task-id>",
	Aliases: []string{"delete"},
	Short:   "Delete a task",
	Args:    cobra.ExactArgs(1),
	RunE:    removeTask,
}

func init() {
	rmCmd.Flags().BoolVarP(&rmYes, "yes", "y", false, "Skip the confirmation prompt")
}

func removeTask(cmd *cobra.Command, args []string) error {
	confirm := func(string) bool { return true }
	if !rmYes {
		confirm = promptConfirm(cmd.InOrStdin(), cmd.OutOrStdout())
	}

	sess := newSession(client.WithConfirm(confirm))
	err := sess.Delete(ctxOf(cmd), args[0])
	if errors.Is(err, client.ErrDeclined) {
		fmt.Fprintln(cmd.OutOrStdout(), "Cancelado.")
		return nil
	}
	if err != nil {
		return describe(args[0], err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Tarea eliminada: %s\n", args[0])
	return nil
}

// promptConfirm asks on out and accepts y, yes, s or si from in. Anything else declines.
func promptConfirm(in io.Reader, out io.Writer) client.ConfirmFunc {
	return func(prompt string) bool {
		fmt.Fprintf(out, "%s [y/N] ", prompt)
		line, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && line == "" {
			return false
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes", "s", "si", "sí":
			return true
		}
		return false
	}
}
