package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks, newest first",
	Args:  cobra.NoArgs,
	RunE:  listTasks,
}

var getCmd = &cobra.Command{
	Use:   "get <task-id>",
	Short: "Show one task",
	Args:  cobra.ExactArgs(1),
	RunE:  getTask,
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show total, completed and pending counts",
	Args:  cobra.NoArgs,
	RunE:  showStats,
}

func listTasks(cmd *cobra.Command, args []string) error {
	sess := newSession()
	if err := sess.Load(ctxOf(cmd)); err != nil {
		return fmt.Errorf("list tasks: %w", err)
	}
	st := sess.Snapshot()
	out := cmd.OutOrStdout()

	if jsonOut {
		return printJSON(out, st.Tasks)
	}
	if len(st.Tasks) == 0 {
		fmt.Fprintln(out, "No hay tareas. ¡Crea tu primera tarea!")
		return nil
	}
	for _, t := range st.Tasks {
		fmt.Fprintf(out, "%s %s  [%s]\n", checkbox(t.Completed), t.Title, t.ID)
	}
	c := st.Counts()
	fmt.Fprintf(out, "\nTotal: %d  Completadas: %d  Pendientes: %d\n", c.Total, c.Completed, c.Pending)
	return nil
}

func getTask(cmd *cobra.Command, args []string) error {
	sess := newSession()
	t, err := sess.API().Get(ctxOf(cmd), args[0])
	if err != nil {
		return fmt.Errorf("get task: %w", err)
	}
	return printTask(cmd.OutOrStdout(), t)
}

func showStats(cmd *cobra.Command, args []string) error {
	counts, err := newSession().API().Status(ctxOf(cmd))
	if err != nil {
		return fmt.Errorf("stats: %w", err)
	}
	out := cmd.OutOrStdout()
	if jsonOut {
		return printJSON(out, counts)
	}
	fmt.Fprintf(out, "Total:       %d\n", counts.Total)
	fmt.Fprintf(out, "Completadas: %d\n", counts.Completed)
	fmt.Fprintf(out, "Pendientes:  %d\n", counts.Pending)
	return nil
}
