package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/meur/moviedeck/internal/models"
)

var (
	heroStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FAFAFA")).Background(lipgloss.Color("#7D56F4")).Padding(0, 2)
	heroIdleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Padding(0, 2)
	statsStyle    = lipgloss.NewStyle().Faint(true)
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	rowStyle      = lipgloss.NewStyle()
	formBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	labelStyle    = lipgloss.NewStyle().Width(8).Faint(true)
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	failureStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	helpStyle     = lipgloss.NewStyle().Faint(true)
)

func (m model) View() string {
	var b strings.Builder

	b.WriteString(m.heroView())
	b.WriteString("\n")
	b.WriteString(statsStyle.Render(statsLine(m.state.Movies, m.pending)))
	b.WriteString("\n\n")

	for i, movie := range m.state.Movies {
		line := movieLine(movie)
		if i == m.cursor && m.mode == modeBrowse {
			b.WriteString(cursorStyle.Render("> " + line))
		} else {
			b.WriteString(rowStyle.Render("  " + line))
		}
		b.WriteString("\n")
	}

	if m.mode == modeForm {
		b.WriteString("\n")
		b.WriteString(m.formView())
		b.WriteString("\n")
	}

	if m.status != "" {
		b.WriteString("\n")
		if m.failed {
			b.WriteString(failureStyle.Render(m.status))
		} else {
			b.WriteString(statusStyle.Render(m.status))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.mode == modeForm {
		b.WriteString(helpStyle.Render("tab: next field  enter: save  esc: cancel"))
	} else {
		b.WriteString(helpStyle.Render("a: add  d: delete  r: refresh  j/k: move  q: quit"))
	}
	return b.String()
}

func (m model) heroView() string {
	if m.state.HasHero {
		return heroStyle.Render("Now featuring: " + m.state.Hero)
	}
	return heroIdleStyle.Render("Add a movie to summon a hero")
}

func (m model) formView() string {
	labels := []string{"Title", "Genre", "Year", "Rating"}
	rows := make([]string, len(m.inputs))
	for i, in := range m.inputs {
		rows[i] = lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(labels[i]), in.View())
	}
	return formBoxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func movieLine(m models.Movie) string {
	var meta []string
	if m.Genre != "" {
		meta = append(meta, m.Genre)
	}
	if m.Year > 0 {
		meta = append(meta, fmt.Sprintf("%d", m.Year))
	}
	if m.Rating > 0 {
		meta = append(meta, fmt.Sprintf("★ %.1f", m.Rating))
	}
	if len(meta) == 0 {
		return m.Title
	}
	return fmt.Sprintf("%s  (%s)", m.Title, strings.Join(meta, " · "))
}

func statsLine(movies []models.Movie, pending int) string {
	line := fmt.Sprintf("%d movies", len(movies))
	if len(movies) == 1 {
		line = "1 movie"
	}
	var total float64
	rated := 0
	for _, m := range movies {
		if m.Rating > 0 {
			total += m.Rating
			rated++
		}
	}
	if rated > 0 {
		line += fmt.Sprintf("  ·  avg rating %.1f", total/float64(rated))
	}
	if pending > 0 {
		line += "  ·  syncing…"
	}
	return line
}
