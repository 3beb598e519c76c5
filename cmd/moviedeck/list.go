package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/meur/moviedeck/internal/models"
)

func newListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "Show the movie collection and the featured hero",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, err := ctx.syncedController(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			state := ctrl.Snapshot()
			out := cmd.OutOrStdout()
			if len(state.Movies) == 0 {
				fmt.Fprintln(out, "No movies yet")
			} else {
				fmt.Fprintln(out, renderMovies(state.Movies))
			}
			fmt.Fprintln(out, heroLine(state.Hero, state.HasHero))
			return nil
		},
	}
}

func renderMovies(movies []models.Movie) string {
	headers := []string{"ID", "Title", "Genre", "Year", "Rating"}
	rows := make([][]string, 0, len(movies))
	for _, m := range movies {
		rows = append(rows, []string{
			m.ID,
			m.Title,
			m.Genre,
			formatYear(m.Year),
			strconv.FormatFloat(m.Rating, 'f', 1, 64),
		})
	}
	return renderTable(headers, rows, []columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight})
}

func formatYear(year int) string {
	if year == 0 {
		return "-"
	}
	return strconv.Itoa(year)
}

func heroLine(hero string, ok bool) string {
	if !ok {
		return "Hero: none"
	}
	return "Hero: " + hero
}
