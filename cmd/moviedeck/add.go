package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/meur/moviedeck/internal/models"
)

func newAddCommand(ctx *commandContext) *cobra.Command {
	var draft models.MovieCreate

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a movie to the collection",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			draft.Title = strings.Join(args, " ")
			ctrl, err := ctx.controller(false)
			if err != nil {
				return err
			}
			movie, err := ctrl.Add(cmd.Context(), draft)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Added %q (%s)\n", movie.Title, movie.ID)
			hero, ok := ctrl.Hero()
			fmt.Fprintln(out, heroLine(hero, ok))
			return nil
		},
	}

	cmd.Flags().StringVar(&draft.Genre, "genre", "", "Movie genre")
	cmd.Flags().IntVar(&draft.Year, "year", 0, "Release year")
	cmd.Flags().Float64Var(&draft.Rating, "rating", 0, "Rating from 0 to 10")
	return cmd
}
