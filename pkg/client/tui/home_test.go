package tui

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"techknowledgepills/pkg/client/model"
	"techknowledgepills/pkg/client/viewmodel"
)

type stubRecommendations struct {
	list []model.Content
	err  error
}

func (s stubRecommendations) GetRecommendations(ctx context.Context) ([]model.Content, error) {
	return s.list, s.err
}

type stubStress struct {
	latest *model.StressIndicator
}

func (s stubStress) GetAll(ctx context.Context) ([]model.StressIndicator, error) { return nil, nil }
func (s stubStress) GetLatest(ctx context.Context) (*model.StressIndicator, error) {
	return s.latest, nil
}
func (s stubStress) Create(ctx context.Context, level model.StressLevel, notes string) (*model.StressIndicator, error) {
	return nil, nil
}
func (s stubStress) GenerateMock(ctx context.Context, count int) ([]model.StressIndicator, error) {
	return nil, nil
}

func TestHomeModel(t *testing.T) {
	t.Run("renders recommendations after loading", func(t *testing.T) {
		latest := &model.StressIndicator{StressLevel: model.StressLevelHigh, Timestamp: time.Now()}
		vm := viewmodel.NewHomeViewModel(
			stubRecommendations{list: []model.Content{{ID: "a1", Title: "Box breathing", Type: model.ContentTypeArticle}}},
			stubStress{latest: latest},
		)
		m := NewHomeModel(vm)
		assert.Contains(t, m.View(), "Loading")

		msg := m.load()()
		updated, _ := m.Update(msg)
		view := updated.View()

		assert.Contains(t, view, "Box breathing")
		assert.Contains(t, view, "[Article]")
		assert.Contains(t, view, "High")
	})

	t.Run("shows the load error", func(t *testing.T) {
		vm := viewmodel.NewHomeViewModel(stubRecommendations{err: errors.New("server down")}, stubStress{})
		m := NewHomeModel(vm)

		updated, _ := m.Update(m.load()())
		assert.Contains(t, updated.View(), "server down")
		assert.Contains(t, updated.View(), "No data yet")
	})

	t.Run("quits on q", func(t *testing.T) {
		m := NewHomeModel(viewmodel.NewHomeViewModel(stubRecommendations{}, stubStress{}))
		_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
		require.NotNil(t, cmd)
		assert.IsType(t, tea.QuitMsg{}, cmd())
	})
}
