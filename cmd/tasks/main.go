package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"taskboard/internal/config"
	"taskboard/internal/logging"
	"taskboard/pkg/client"
	"taskboard/pkg/task"
)

var (
	apiURL   string
	logLevel string
	jsonOut  bool

	logger = logging.Discard()
)

var rootCmd = &cobra.Command{
	Use:           "tasks",
	Short:         "Command line client for the task API",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if !cmd.Flags().Changed("api") {
			apiURL = cfg.APIURL
		}
		if !cmd.Flags().Changed("log-level") {
			logLevel = cfg.LogLevel
		}
		logger = logging.New(os.Stderr, logLevel, cfg.LogFormat, "tasks")
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", config.DefaultAPIURL, "API base URL (env API_URL)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", config.DefaultLogLevel, "debug, info, warn or error")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "print JSON instead of text")

	rootCmd.AddCommand(listCmd, getCmd, statsCmd, addCmd, editCmd, doneCmd, undoCmd, toggleCmd, rmCmd, tuiCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fatal("%v", err)
	}
}

func newSession(opts ...client.SessionOption) *client.Session {
	opts = append([]client.SessionOption{client.WithSessionLogger(logger)}, opts...)
	return client.NewSession(client.New(apiURL, nil), opts...)
}

func ctxOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printTask(w io.Writer, t *task.Task) error {
	if jsonOut {
		return printJSON(w, t)
	}
	fmt.Fprintf(w, "%s %s  [%s]\n", checkbox(t.Completed), t.Title, t.ID)
	if t.Description != "" {
		fmt.Fprintf(w, "    %s\n", t.Description)
	}
	fmt.Fprintf(w, "    creada %s\n", t.CreatedAt.Local().Format("02 Jan 2006 15:04"))
	return nil
}

func checkbox(done bool) string {
	if done {
		return "✓"
	}
	return "○"
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "tasks: "+format+"\n", args...)
	os.Exit(1)
}
