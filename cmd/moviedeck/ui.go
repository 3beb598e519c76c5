package main

import (
	"github.com/spf13/cobra"

	"github.com/meur/moviedeck/internal/tui"
)

func newUICommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "ui",
		Short: "Open the interactive movie browser",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, err := ctx.controller(true)
			if err != nil {
				return err
			}
			return tui.Run(cmd.Context(), ctrl)
		},
	}
}
