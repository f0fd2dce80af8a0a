// Package tui is the terminal front end. It renders session snapshots and
// forwards user intents; it holds no session state of its own.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/cloo-solutions/movierec/internal/artwork"
	"github.com/cloo-solutions/movierec/internal/domain"
	"github.com/cloo-solutions/movierec/internal/recommend"
	"github.com/cloo-solutions/movierec/internal/search"
	"github.com/cloo-solutions/movierec/internal/selection"
	"github.com/cloo-solutions/movierec/internal/session"
)

const cardGenres = 3

// Session is the set of intents the UI can send
type Session interface {
	SetQuery(text string)
	Dismiss()
	Focus()
	Choose(movie domain.Movie)
	Remove(id string)
	Recommend()
	ClearAlert()
}

type focusArea int

const (
	focusQuery focusArea = iota
	focusChips
)

// App is the root bubbletea model
type App struct {
	session Session
	state   session.State

	input   textinput.Model
	spinner spinner.Model

	focus      focusArea
	cursor     int
	chipCursor int

	width  int
	height int
}

// NewApp creates the model. The first StateMsg replaces the empty state.
func NewApp(s Session) App {
	ti := textinput.New()
	ti.Placeholder = "Search for a movie you like..."
	ti.CharLimit = 100
	ti.Width = 50
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(colorSpinner)

	return App{
		session: s,
		input:   ti,
		spinner: sp,
	}
}

func (a App) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, a.spinner.Tick)
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return a.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case StateMsg:
		a.state = msg.State
		a.clampCursors()
		return a, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd
	}

	return a, nil
}

func (a App) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return a, tea.Quit
	case tea.KeyCtrlR:
		if a.state.CanRecommend {
			a.session.Recommend()
		}
		return a, nil
	case tea.KeyTab:
		return a.toggleFocus()
	case tea.KeyEsc:
		a.session.Dismiss()
		if a.state.Alert != "" {
			a.session.ClearAlert()
		}
		return a, nil
	}

	if a.focus == focusChips {
		return a.handleChipKey(msg)
	}
	return a.handleQueryKey(msg)
}

func (a App) toggleFocus() (tea.Model, tea.Cmd) {
	if a.focus == focusQuery {
		if len(a.state.Selection) == 0 {
			return a, nil
		}
		a.focus = focusChips
		a.input.Blur()
		a.session.Dismiss()
		return a, nil
	}
	a.focus = focusQuery
	a.session.Focus()
	return a, a.input.Focus()
}

func (a App) handleQueryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyUp:
		if a.cursor > 0 {
			a.cursor--
		}
		return a, nil
	case tea.KeyDown:
		if a.cursor < len(a.visibleResults())-1 {
			a.cursor++
		}
		return a, nil
	case tea.KeyEnter:
		return a.chooseHighlighted()
	}

	before := a.input.Value()
	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	if after := a.input.Value(); after != before {
		a.cursor = 0
		a.session.SetQuery(after)
	}
	return a, cmd
}

func (a App) chooseHighlighted() (tea.Model, tea.Cmd) {
	results := a.visibleResults()
	if a.cursor < 0 || a.cursor >= len(results) {
		return a, nil
	}
	movie := results[a.cursor]
	if a.state.Selected(movie.ID) {
		return a, nil
	}
	a.session.Choose(movie)
	a.input.SetValue("")
	a.cursor = 0
	return a, nil
}

func (a App) handleChipKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyLeft:
		if a.chipCursor > 0 {
			a.chipCursor--
		}
	case tea.KeyRight:
		if a.chipCursor < len(a.state.Selection)-1 {
			a.chipCursor++
		}
	case tea.KeyDelete, tea.KeyBackspace:
		a.removeChip()
	case tea.KeyRunes:
		if string(msg.Runes) == "x" {
			a.removeChip()
		}
	}
	return a, nil
}

func (a *App) removeChip() {
	if a.chipCursor < 0 || a.chipCursor >= len(a.state.Selection) {
		return
	}
	a.session.Remove(a.state.Selection[a.chipCursor].ID)
}

func (a *App) clampCursors() {
	if n := len(a.visibleResults()); a.cursor >= n {
		a.cursor = max(n-1, 0)
	}
	if n := len(a.state.Selection); a.chipCursor >= n {
		a.chipCursor = max(n-1, 0)
	}
	if len(a.state.Selection) == 0 && a.focus == focusChips {
		a.focus = focusQuery
		a.input.Focus()
	}
}

func (a App) visibleResults() []domain.Movie {
	if !a.state.Search.Open {
		return nil
	}
	return a.state.Search.Results
}

func (a App) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("movierec"))
	b.WriteString("\n\n")
	b.WriteString(a.renderInput())
	b.WriteString("\n")

	if panel := a.renderResults(); panel != "" {
		b.WriteString(panel)
		b.WriteString("\n")
	}

	b.WriteString(a.renderChips())
	b.WriteString("\n\n")
	b.WriteString(a.renderButton())
	b.WriteString("\n")

	if a.state.Alert != "" {
		b.WriteString(alertStyle.Render(a.state.Alert))
		b.WriteString("\n")
	}

	if cards := a.renderRecommendations(); cards != "" {
		b.WriteString("\n")
		b.WriteString(cards)
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("enter choose • esc close • tab chips • x remove • ctrl+r recommend • ctrl+c quit"))
	return b.String()
}

func (a App) renderInput() string {
	style := inputStyle
	if a.focus == focusQuery {
		style = inputFocusedStyle
	}
	return style.Render(a.input.View())
}

func (a App) renderResults() string {
	view := a.state.Search
	if !view.Open {
		return ""
	}

	var lines []string
	switch {
	case len(view.Results) == 0 && (view.Phase == search.PhaseAwaiting || view.Phase == search.PhaseDebouncing):
		lines = append(lines, a.spinner.View()+" Searching...")
	case len(view.Results) == 0:
		lines = append(lines, genreStyle.Render("No movies found"))
	default:
		for i, m := range view.Results {
			lines = append(lines, a.renderResult(i, m))
		}
	}
	return panelStyle.Render(strings.Join(lines, "\n"))
}

func (a App) renderResult(i int, m domain.Movie) string {
	genres := genreStyle.Render(strings.Join(m.Genres, ", "))
	switch {
	case a.state.Selected(m.ID):
		return resultChosenStyle.Render("  ✓ "+m.Title) + " " + genres
	case i == a.cursor && a.focus == focusQuery:
		return resultSelectedStyle.Render("› "+m.Title) + " " + genres
	default:
		return resultStyle.Render("  "+m.Title) + " " + genres
	}
}

func (a App) renderChips() string {
	header := fmt.Sprintf("Selected (%d/%d)", len(a.state.Selection), selection.MaxSize)
	if len(a.state.Selection) == 0 {
		return genreStyle.Render(header + ": pick up to 10 movies")
	}

	chips := make([]string, 0, len(a.state.Selection))
	for i, m := range a.state.Selection {
		style := chipStyle
		if a.focus == focusChips && i == a.chipCursor {
			style = chipFocusedStyle
		}
		chips = append(chips, style.Render(m.Title+" ×"))
	}
	return header + "\n" + strings.Join(chips, " ")
}

func (a App) renderButton() string {
	run := a.state.Recommendation
	if run.Loading() {
		return buttonDisabledStyle.Render(a.spinner.View() + " Processing...")
	}
	if !a.state.CanRecommend {
		return buttonDisabledStyle.Render("Get Recommendations")
	}
	return buttonStyle.Render("Get Recommendations")
}

func (a App) renderRecommendations() string {
	run := a.state.Recommendation
	if run.Phase != recommend.PhaseSucceeded {
		return ""
	}
	if len(run.Results) == 0 {
		return genreStyle.Render("No recommendations for this selection")
	}

	cards := make([]string, 0, len(run.Results))
	for i, m := range run.Results {
		cards = append(cards, a.renderCard(i, m))
	}
	return strings.Join(cards, "\n")
}

func (a App) renderCard(rank int, m domain.Movie) string {
	header := fmt.Sprintf("#%d %s  %s", rank+1, m.Title, scoreStyle.Render(fmt.Sprintf("%d%% match", recommend.MatchScore(rank))))
	genres := genreStyle.Render(strings.Join(m.TopGenres(cardGenres), " • "))
	return cardStyle.Render(header + "\n" + genres + "\n" + a.posterLine(m))
}

func (a App) posterLine(m domain.Movie) string {
	entry := a.state.ArtworkFor(m)
	switch entry.Status {
	case artwork.StatusAvailable:
		return "Poster: " + entry.PosterURL
	case artwork.StatusPending:
		return genreStyle.Render("Poster: loading...")
	default:
		return genreStyle.Render("Poster: unavailable")
	}
}

// ChipsFocused reports whether the chips, rather than the query, have focus
func (a App) ChipsFocused() bool {
	return a.focus == focusChips
}

// Cursor returns the highlighted result index
func (a App) Cursor() int {
	return a.cursor
}

// Query returns the text in the input box
func (a App) Query() string {
	return a.input.Value()
}
