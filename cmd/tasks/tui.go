package main

import (
	"github.com/spf13/cobra"

	"taskboard/internal/tui"
	"taskboard/pkg/client"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the interactive terminal view",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return tui.Run(ctxOf(cmd), client.New(apiURL, nil), logger)
	},
}
