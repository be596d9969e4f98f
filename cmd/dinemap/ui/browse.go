package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"dinemap/internal/model"
	"dinemap/internal/reconcile"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// BrowseModel is the interactive restaurant browser: cursor over the
// filtered list, cuisine/neighborhood cycling, favorite toggling, and an
// inline detail view with reviews.
type BrowseModel struct {
	state      *reconcile.State
	reconciler *reconcile.Reconciler
	styles     Styles

	cuisines      []string
	neighborhoods []string
	cuisineIdx    int
	neighborIdx   int

	cursor     int
	showDetail bool
	reviews    []model.Review
	status     string

	spin    spinner.Model
	working bool
}

// NewBrowseModel builds the browser over already-fetched state.
func NewBrowseModel(state *reconcile.State, rec *reconcile.Reconciler) *BrowseModel {
	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = lipgloss.NewStyle().Foreground(Accent)
	return &BrowseModel{
		state:         state,
		reconciler:    rec,
		styles:        DefaultStyles(),
		cuisines:      withWildcard(reconcile.DistinctCuisines(state.Restaurants)),
		neighborhoods: withWildcard(reconcile.DistinctNeighborhoods(state.Restaurants)),
		spin:          spin,
	}
}

func withWildcard(values []string) []string {
	return append([]string{reconcile.Wildcard}, values...)
}

type favoriteResultMsg struct {
	restaurant model.Restaurant
	err        error
}

type reviewsMsg struct {
	reviews []model.Review
	err     error
}

// Init implements tea.Model.
func (m *BrowseModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *BrowseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		if !m.working {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case favoriteResultMsg:
		m.working = false
		if msg.err != nil {
			m.status = "favorite failed: " + msg.err.Error()
			return m, nil
		}
		for i := range m.state.Restaurants {
			if m.state.Restaurants[i].ID == msg.restaurant.ID {
				m.state.Restaurants[i] = msg.restaurant
			}
		}
		m.status = fmt.Sprintf("%s favorite=%v", msg.restaurant.Name, bool(msg.restaurant.IsFavorite))
		return m, nil

	case reviewsMsg:
		m.working = false
		if msg.err != nil {
			m.status = "reviews unavailable: " + msg.err.Error()
			m.reviews = nil
		} else {
			m.reviews = msg.reviews
		}
		return m, nil
	}
	return m, nil
}

func (m *BrowseModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	filtered := m.state.Filtered()

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "esc":
		m.showDetail = false
		m.reviews = nil
		return m, nil

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case "down", "j":
		if m.cursor < len(filtered)-1 {
			m.cursor++
		}
		return m, nil

	case "c":
		m.cuisineIdx = (m.cuisineIdx + 1) % len(m.cuisines)
		m.state.Cuisine = m.cuisines[m.cuisineIdx]
		m.cursor = 0
		return m, nil

	case "n":
		m.neighborIdx = (m.neighborIdx + 1) % len(m.neighborhoods)
		m.state.Neighborhood = m.neighborhoods[m.neighborIdx]
		m.cursor = 0
		return m, nil

	case "f":
		if m.cursor >= len(filtered) {
			return m, nil
		}
		target := filtered[m.cursor]
		m.working = true
		return m, tea.Batch(m.toggleFavorite(target), m.spin.Tick)

	case "enter":
		if m.cursor >= len(filtered) {
			return m, nil
		}
		target := filtered[m.cursor]
		m.state.Select(target.ID)
		m.showDetail = true
		m.working = true
		return m, tea.Batch(m.loadReviews(target.ID), m.spin.Tick)
	}
	return m, nil
}

func (m *BrowseModel) toggleFavorite(r model.Restaurant) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		updated, err := m.reconciler.ToggleFavorite(ctx, r.ID, !bool(r.IsFavorite))
		return favoriteResultMsg{restaurant: updated, err: err}
	}
}

func (m *BrowseModel) loadReviews(id int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		reviews, err := m.reconciler.ReviewsForRestaurant(ctx, id)
		return reviewsMsg{reviews: reviews, err: err}
	}
}

// View implements tea.Model.
func (m *BrowseModel) View() string {
	var sb strings.Builder

	sb.WriteString(m.styles.Title.Render("dinemap"))
	sb.WriteString("\n")
	sb.WriteString(m.styles.Muted.Render(fmt.Sprintf("cuisine: %s  neighborhood: %s", m.state.Cuisine, m.state.Neighborhood)))
	sb.WriteString("\n\n")

	if m.showDetail && m.state.Selected != nil {
		sb.WriteString(m.detailView(*m.state.Selected))
	} else {
		sb.WriteString(m.listView())
	}

	if m.working {
		sb.WriteString("\n" + m.spin.View() + m.styles.Muted.Render("talking to the api..."))
	}
	if m.status != "" {
		sb.WriteString("\n" + m.styles.Muted.Render(m.status))
	}
	sb.WriteString("\n" + m.styles.Muted.Render("↑/↓ move · c cuisine · n neighborhood · f favorite · enter details · q quit"))
	return sb.String()
}

func (m *BrowseModel) listView() string {
	filtered := m.state.Filtered()
	if len(filtered) == 0 {
		return m.styles.Muted.Render("(no restaurants match the filters)")
	}

	var sb strings.Builder
	for i, r := range filtered {
		line := fmt.Sprintf("%-28s %-16s %s", r.Name, r.CuisineType, r.Neighborhood)
		if r.IsFavorite {
			line += " " + m.styles.Favorite.Render("★")
		}
		if i == m.cursor {
			sb.WriteString(m.styles.Selected.Render("> " + line))
		} else {
			sb.WriteString(m.styles.Row.Render("  " + line))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func (m *BrowseModel) detailView(r model.Restaurant) string {
	var sb strings.Builder
	sb.WriteString(m.styles.Header.Render(r.Name))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("%s · %s\n", r.CuisineType, r.Neighborhood))
	if r.Address != "" {
		sb.WriteString(r.Address + "\n")
	}
	if r.IsFavorite {
		sb.WriteString(m.styles.Favorite.Render("★ favorite") + "\n")
	}

	sb.WriteString("\n" + m.styles.Header.Render("Reviews") + "\n")
	if len(m.reviews) == 0 {
		sb.WriteString(m.styles.Muted.Render("(none loaded)") + "\n")
	}
	for _, rv := range m.reviews {
		sb.WriteString(fmt.Sprintf("%s (%d/5): %s\n", rv.Name, rv.Rating, rv.Comments))
	}
	return sb.String()
}
