package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/singme/internal/models"
	"github.com/desertthunder/singme/internal/recommendations"
	"github.com/desertthunder/singme/internal/shared"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	AllView ViewState = iota
	TopView
	RandomView
)

func (v ViewState) String() string {
	switch v {
	case AllView:
		return "All"
	case TopView:
		return "Top"
	case RandomView:
		return "Random"
	default:
		return "Unknown"
	}
}

// DefaultTopAmount is the size of the top view when none is configured.
const DefaultTopAmount = 10

// Model represents the TUI application state.
type Model struct {
	ctx       context.Context
	engine    recommendations.ScoringEngine
	view      ViewState
	topAmount int
	width     int
	height    int
	list      list.Model
	pick      *models.Recommendation
	status    string
	err       error
	help      help.Model
	keys      keyMap
}

// NewModel creates a new TUI model backed by engine. A non-positive topAmount uses [DefaultTopAmount].
func NewModel(ctx context.Context, engine recommendations.ScoringEngine, topAmount int) *Model {
	if topAmount <= 0 {
		topAmount = DefaultTopAmount
	}

	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.SetShowHelp(false)
	l.Title = AllView.String()

	return &Model{
		ctx:       ctx,
		engine:    engine,
		view:      AllView,
		topAmount: topAmount,
		list:      l,
		help:      help.New(),
		keys:      newKeyMap(),
	}
}

// Init loads the initial listing.
func (m *Model) Init() tea.Cmd {
	return m.load(AllView)
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(max(msg.Width-4, 0), max(msg.Height-8, 0))
		return m, nil

	case tea.KeyMsg:
		return m.handleKeys(msg)

	case Msg:
		return m.handleMsg(msg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *Model) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.list.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.all):
		return m, m.load(AllView)
	case key.Matches(msg, m.keys.top):
		return m, m.load(TopView)
	case key.Matches(msg, m.keys.random):
		return m, m.pickRandom()
	case key.Matches(msg, m.keys.refresh):
		if m.view == RandomView {
			return m, m.pickRandom()
		}
		return m, m.load(m.view)
	case key.Matches(msg, m.keys.upvote):
		return m, m.vote(models.Increment)
	case key.Matches(msg, m.keys.downvote):
		return m, m.vote(models.Decrement)
	}

	if m.view == RandomView {
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgRecommendationsLoaded:
		data := msg.data.(loaded)
		if data.err != nil {
			m.err = data.err
			return m, nil
		}
		m.err = nil
		m.view = data.view
		m.pick = nil
		m.list.Title = data.view.String()
		cmd := m.list.SetItems(toItems(data.recs))
		return m, cmd

	case MsgRandomPicked:
		data := msg.data.(picked)
		m.view = RandomView
		m.pick = data.rec
		m.err = nil
		if errors.Is(data.err, shared.ErrNotFound) {
			m.status = "Nothing to pick yet, add a recommendation first."
			return m, nil
		}
		m.err = data.err
		return m, nil

	case MsgVoted:
		data := msg.data.(voted)
		if data.err != nil {
			m.err = data.err
			return m, nil
		}
		m.err = nil
		switch {
		case data.evicted:
			m.status = fmt.Sprintf("%s dropped below %d and was removed", data.rec.Name, recommendations.EvictionThreshold)
			if m.view == RandomView {
				m.pick = nil
				return m, nil
			}
		case data.direction == models.Increment:
			m.status = fmt.Sprintf("Upvoted %s", data.rec.Name)
		default:
			m.status = fmt.Sprintf("Downvoted %s", data.rec.Name)
		}
		if m.view == RandomView {
			return m, m.refreshPick(data.rec.ID)
		}
		return m, m.load(m.view)
	}

	return m, nil
}

// selected returns the recommendation a vote applies to.
func (m *Model) selected() (models.Recommendation, bool) {
	if m.view == RandomView {
		if m.pick == nil {
			return models.Recommendation{}, false
		}
		return *m.pick, true
	}

	item, ok := m.list.SelectedItem().(recommendationItem)
	if !ok {
		return models.Recommendation{}, false
	}
	return item.rec, true
}

func (m *Model) load(view ViewState) tea.Cmd {
	return func() tea.Msg {
		var (
			recs []models.Recommendation
			err  error
		)
		if view == TopView {
			recs, err = m.engine.GetTop(m.ctx, m.topAmount)
		} else {
			recs, err = m.engine.Get(m.ctx)
		}
		return loadedMsg(view, recs, err)
	}
}

func (m *Model) pickRandom() tea.Cmd {
	return func() tea.Msg {
		rec, err := m.engine.GetRandom(m.ctx)
		return pickedMsg(rec, err)
	}
}

func (m *Model) refreshPick(id int64) tea.Cmd {
	return func() tea.Msg {
		rec, err := m.engine.GetByID(m.ctx, id)
		return pickedMsg(rec, err)
	}
}

func (m *Model) vote(direction models.Direction) tea.Cmd {
	rec, ok := m.selected()
	if !ok {
		return nil
	}

	return func() tea.Msg {
		var err error
		if direction == models.Increment {
			err = m.engine.Upvote(m.ctx, rec.ID)
		} else {
			err = m.engine.Downvote(m.ctx, rec.ID)
		}
		if err != nil {
			return votedMsg(rec, direction, false, err)
		}

		evicted := false
		if direction == models.Decrement {
			_, lookupErr := m.engine.GetByID(m.ctx, rec.ID)
			evicted = errors.Is(lookupErr, shared.ErrNotFound)
		}
		return votedMsg(rec, direction, evicted, nil)
	}
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(styles.title.Render("singme"))
	b.WriteString("\n")
	b.WriteString(m.renderTabs())
	b.WriteString("\n\n")

	if m.view == RandomView {
		b.WriteString(m.renderPick())
	} else {
		b.WriteString(m.list.View())
	}
	b.WriteString("\n\n")

	if m.err != nil {
		b.WriteString(styles.err.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteString("\n")
	} else if m.status != "" {
		b.WriteString(styles.ok.Render(m.status))
		b.WriteString("\n")
	}

	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m *Model) renderTabs() string {
	tabs := make([]string, 0, 3)
	for _, v := range []ViewState{AllView, TopView, RandomView} {
		if v == m.view {
			tabs = append(tabs, styles.ok.Render("["+v.String()+"]"))
		} else {
			tabs = append(tabs, styles.help.Render(" "+v.String()+" "))
		}
	}
	return strings.Join(tabs, " ")
}

func (m *Model) renderPick() string {
	if m.pick == nil {
		return styles.warn.Render("No pick. Press r to draw again.")
	}

	bucket := recommendations.LowBucket
	if m.pick.Score > recommendations.HighScoreThreshold {
		bucket = recommendations.HighBucket
	}

	return fmt.Sprintf("%s\n%s\n%s",
		styles.ok.Render(m.pick.Name),
		m.pick.YouTubeLink,
		scoreStyle(m.pick.Score).Render(fmt.Sprintf("score %+d • %s bucket", m.pick.Score, bucket)),
	)
}
