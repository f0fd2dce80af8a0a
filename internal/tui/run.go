package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/cloo-solutions/movierec/internal/session"
)

// Run shows the UI for s until the user quits or ctx is cancelled
func Run(ctx context.Context, s *session.Session) error {
	p := tea.NewProgram(NewApp(s), tea.WithAltScreen(), tea.WithContext(ctx))

	unsubscribe := s.Subscribe(func(st session.State) {
		p.Send(StateMsg{State: st})
	})
	defer unsubscribe()

	_, err := p.Run()
	if err == tea.ErrProgramKilled && ctx.Err() != nil {
		return nil
	}
	return err
}
