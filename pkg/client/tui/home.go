// Package tui renders the interactive home screen.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"techknowledgepills/pkg/client/model"
	"techknowledgepills/pkg/client/viewmodel"
)

// Styles used by the home screen
type Styles struct {
	Title  lipgloss.Style
	Header lipgloss.Style
	Item   lipgloss.Style
	Muted  lipgloss.Style
	Error  lipgloss.Style
}

// DefaultStyles returns the standard palette
func DefaultStyles() Styles {
	return Styles{
		Title:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C4DFF")).MarginBottom(1),
		Header: lipgloss.NewStyle().Bold(true).Underline(true),
		Item:   lipgloss.NewStyle().PaddingLeft(2),
		Muted:  lipgloss.NewStyle().Foreground(lipgloss.Color("#9E9E9E")),
		Error:  lipgloss.NewStyle().Foreground(lipgloss.Color("#F44336")).Bold(true),
	}
}

type loadedMsg struct {
	err error
}

// HomeModel shows the latest stress level and the recommendations
type HomeModel struct {
	vm      *viewmodel.HomeViewModel
	spinner spinner.Model
	styles  Styles
	timeout time.Duration
	loading bool
	err     error
}

// NewHomeModel creates the screen for vm
func NewHomeModel(vm *viewmodel.HomeViewModel) HomeModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	return HomeModel{
		vm:      vm,
		spinner: s,
		styles:  DefaultStyles(),
		timeout: 30 * time.Second,
		loading: true,
	}
}

func (m HomeModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.load())
}

func (m HomeModel) load() tea.Cmd {
	vm, timeout := m.vm, m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return loadedMsg{err: vm.Load(ctx)}
	}
}

func (m HomeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "r":
			if m.loading {
				return m, nil
			}
			m.loading = true
			return m, tea.Batch(m.spinner.Tick, m.load())
		}
	case loadedMsg:
		m.loading = false
		m.err = msg.err
		return m, nil
	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m HomeModel) View() string {
	var sb strings.Builder
	sb.WriteString(m.styles.Title.Render("TechKnowledgePills"))
	sb.WriteString("\n")

	if m.loading {
		sb.WriteString(m.spinner.View() + " Loading...\n")
		return sb.String()
	}
	if m.err != nil {
		sb.WriteString(m.styles.Error.Render("Error: "+m.err.Error()) + "\n\n")
	}

	sb.WriteString(m.styles.Header.Render("Current stress"))
	sb.WriteString("\n")
	sb.WriteString(RenderStress(m.vm.LatestStress.Get()))
	sb.WriteString("\n\n")

	sb.WriteString(m.styles.Header.Render("Recommended for you"))
	sb.WriteString("\n")
	recs := m.vm.Recommendations.Get()
	if len(recs) == 0 {
		sb.WriteString(m.styles.Item.Render(m.styles.Muted.Render("Nothing to recommend right now")) + "\n")
	}
	for _, c := range recs {
		sb.WriteString(m.styles.Item.Render(fmt.Sprintf("%-8s %s", "["+c.Type.String()+"]", c.Title)) + "\n")
	}

	sb.WriteString("\n" + m.styles.Muted.Render("r: refresh  q: quit") + "\n")
	return sb.String()
}

// RenderStress draws a colored badge for the latest reading
func RenderStress(latest *model.StressIndicator) string {
	if latest == nil {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(viewmodel.StressLevelColor(0))).Render("No data yet")
	}
	badge := lipgloss.NewStyle().
		Bold(true).
		Padding(0, 1).
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(lipgloss.Color(viewmodel.StressLevelColor(latest.StressLevel))).
		Render(latest.StressLevel.String())
	return badge + " " + latest.Timestamp.Local().Format("2006-01-02 15:04")
}
