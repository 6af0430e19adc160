package tui

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/amishk599/jobwatch/internal/model"
)

// ErrCancelled is returned by RunLoader when the user presses ctrl+c.
var ErrCancelled = errors.New("cancelled")

type fetchDoneMsg struct {
	postings []model.Posting
	err      error
}

type loaderModel struct {
	ctx      context.Context
	siteName string
	fetchFn  func(ctx context.Context) ([]model.Posting, error)
	spinner  spinner.Model
	result   []model.Posting
	err      error
	done     bool
}

func newLoaderModel(ctx context.Context, siteName string, fetchFn func(context.Context) ([]model.Posting, error)) loaderModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("33"))
	return loaderModel{
		ctx:      ctx,
		siteName: siteName,
		fetchFn:  fetchFn,
		spinner:  s,
	}
}

func (m loaderModel) Init() tea.Cmd {
	return tea.Batch(m.doFetch(), m.spinner.Tick)
}

func (m loaderModel) doFetch() tea.Cmd {
	ctx, fetchFn := m.ctx, m.fetchFn
	return func() tea.Msg {
		postings, err := fetchFn(ctx)
		return fetchDoneMsg{postings: postings, err: err}
	}
}

func (m loaderModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case fetchDoneMsg:
		m.result = msg.postings
		m.err = msg.err
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.done = true
			m.err = ErrCancelled
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m loaderModel) View() string {
	if m.done {
		return ""
	}
	return fmt.Sprintf("%s Rendering %s listings...\n", m.spinner.View(), m.siteName)
}

// RunLoader shows a spinner while fetching postings. It renders inline (no alt screen).
func RunLoader(ctx context.Context, siteName string, fetchFn func(ctx context.Context) ([]model.Posting, error)) ([]model.Posting, error) {
	p := tea.NewProgram(newLoaderModel(ctx, siteName, fetchFn), tea.WithContext(ctx))
	result, err := p.Run()
	if err != nil {
		return nil, err
	}
	final := result.(loaderModel)
	return final.result, final.err
}
