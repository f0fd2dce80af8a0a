package tui

import "github.com/cloo-solutions/movierec/internal/session"

// StateMsg carries a new session snapshot into the program
type StateMsg struct {
	State session.State
}
