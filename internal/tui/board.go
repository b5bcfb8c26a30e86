package tui

import (
	"context"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"emberline/internal/engine"
)

// RunBoard launches the interactive month view against an open session.
func RunBoard(ctx context.Context, sess *engine.Session, out io.Writer) error {
	m := newBoardModel(ctx, sess)
	p := tea.NewProgram(m, tea.WithOutput(out))
	_, err := p.Run()
	return err
}
