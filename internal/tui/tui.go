// Package tui writes stop groups and selections to a terminal, with route
// badges in the route's own colors.
package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"busmap.org/internal/app"
	"busmap.org/internal/models"
)

type Printer struct {
	w        io.Writer
	renderer *lipgloss.Renderer

	stopName  lipgloss.Style
	countdown lipgloss.Style
	times     lipgloss.Style
	dim       lipgloss.Style
	live      lipgloss.Style
}

// NewPrinter writes to w. Colors are dropped when w is not a terminal.
func NewPrinter(w io.Writer) *Printer {
	r := lipgloss.NewRenderer(w)
	return &Printer{
		w:         w,
		renderer:  r,
		stopName:  r.NewStyle().Bold(true),
		countdown: r.NewStyle().Foreground(lipgloss.Color("205")).Bold(true),
		times:     r.NewStyle().Foreground(lipgloss.Color("86")),
		dim:       r.NewStyle().Foreground(lipgloss.Color("240")),
		live:      r.NewStyle().Foreground(lipgloss.Color("42")),
	}
}

// badge renders a route name on its route color.
func (p *Printer) badge(name, color, textColor string) string {
	style := p.renderer.NewStyle().Bold(true).Padding(0, 1)
	if color != "" {
		style = style.Background(lipgloss.Color(color))
	}
	if textColor != "" {
		style = style.Foreground(lipgloss.Color(textColor))
	}
	return style.Render(name)
}

// Groups prints one block per group: stop name, direction and countdown,
// then a line per route with its departure times.
func (p *Printer) Groups(views []app.GroupView) error {
	if len(views) == 0 {
		_, err := fmt.Fprintln(p.w, p.dim.Render("No departures near here."))
		return err
	}

	var b strings.Builder
	for i, g := range views {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%s %s  %s\n",
			p.stopName.Render(g.StopName),
			p.dim.Render("("+g.Compass+")"),
			p.countdown.Render(g.Countdown))

		for _, s := range g.Stops {
			marker := p.dim.Render("sched")
			if s.Live {
				marker = p.live.Render("live")
			}
			line := fmt.Sprintf("  %s %s %s",
				p.badge(s.DisplayName, s.RouteColor, g.RouteTextColor),
				p.times.Render(s.DepartureText),
				marker)
			if s.Headsign != "" {
				line += " " + p.dim.Render("to "+s.Headsign)
			}
			b.WriteString(line + "\n")
		}
	}

	_, err := io.WriteString(p.w, b.String())
	return err
}

// Selection prints the stops ahead of the selected stop and any live
// vehicles.
func (p *Printer) Selection(sel *models.Selection) error {
	var b strings.Builder

	color := sel.AfterLine.Color
	fmt.Fprintf(&b, "%s %s\n", p.badge(sel.RouteKey, color, ""), p.dim.Render(sel.StopID))

	for i, label := range sel.Labels {
		prefix := "  "
		if i == 0 {
			prefix = "> "
		}
		fmt.Fprintf(&b, "%s%s\n", prefix, label.Text)
	}

	if n := len(sel.VehicleMarkers); n > 0 {
		noun := "vehicles"
		if n == 1 {
			noun = "vehicle"
		}
		fmt.Fprintf(&b, "%s\n", p.live.Render(fmt.Sprintf("%d live %s", n, noun)))
	}

	_, err := io.WriteString(p.w, b.String())
	return err
}
