// Package tui implements the live status dashboard behind
// `collabctl status --watch`: a bubbletea model that re-evaluates the
// deployment on a ticker and renders the result full-screen.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"collabctl/internal/health"
)

const refreshInterval = 5 * time.Second

// Evaluate is the polling function the dashboard drives, satisfied by
// the health evaluator.
type Evaluate func(ctx context.Context) (*health.Report, error)

type refreshMsg struct {
	report *health.Report
	err    error
}

type tickMsg time.Time

// Run starts the dashboard and blocks until the user quits.
func Run(ctx context.Context, evaluate Evaluate) error {
	m := newModel(ctx, evaluate)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

type model struct {
	ctx        context.Context
	evaluate   Evaluate
	spin       spinner.Model
	report     *health.Report
	err        error
	refreshing bool
	width      int
}

func newModel(ctx context.Context, evaluate Evaluate) model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	return model{ctx: ctx, evaluate: evaluate, spin: s, refreshing: true}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(m.fetch(), tickCmd(), m.spin.Tick)
}

func tickCmd() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m model) fetch() tea.Cmd {
	return func() tea.Msg {
		report, err := m.evaluate(m.ctx)
		return refreshMsg{report: report, err: err}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "r":
			m.refreshing = true
			return m, m.fetch()
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case refreshMsg:
		m.report = msg.report
		m.err = msg.err
		m.refreshing = false
	case tickMsg:
		m.refreshing = true
		return m, tea.Batch(m.fetch(), tickCmd())
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}
	return m, nil
}

var (
	dashTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#06B6D4"))
	dashOKStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))
	dashWarnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B"))
	dashBadStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))
	dashMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
)

func verdictCell(v health.Verdict) string {
	switch v {
	case health.VerdictHealthy:
		return dashOKStyle.Render(string(v))
	case health.VerdictStarting, health.VerdictWarning:
		return dashWarnStyle.Render(string(v))
	case health.VerdictSkipped:
		return dashMutedStyle.Render(string(v))
	default:
		return dashBadStyle.Render(string(v))
	}
}

func (m model) View() string {
	var b strings.Builder

	header := "collabctl: deployment status"
	if m.refreshing {
		header += "  " + m.spin.View()
	}
	b.WriteString(dashTitleStyle.Render(header))
	b.WriteString("\n\n")

	switch {
	case m.err != nil:
		b.WriteString(dashBadStyle.Render(fmt.Sprintf("evaluation failed: %v", m.err)))
		b.WriteString("\n")
	case m.report == nil:
		b.WriteString(dashMutedStyle.Render("gathering first snapshot..."))
		b.WriteString("\n")
	default:
		for _, sh := range m.report.Services {
			b.WriteString(fmt.Sprintf("  %-18s %-14s %s\n",
				sh.Service.Name,
				string(sh.Service.Group),
				verdictCell(sh.Verdict)))
		}
		b.WriteString("\n")
		b.WriteString(fmt.Sprintf("  overall: %s    generated: %s\n",
			verdictCell(m.report.Overall),
			m.report.GeneratedAt.Format("15:04:05")))
	}

	b.WriteString("\n")
	b.WriteString(dashMutedStyle.Render("r refresh · q quit"))
	b.WriteString("\n")
	return b.String()
}
