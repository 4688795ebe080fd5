package viewmodel

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"techknowledgepills/pkg/client/model"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeContent struct {
	list      []model.Content
	err       error
	completed []string
}

func (f *fakeContent) GetAll(ctx context.Context) ([]model.Content, error) { return f.list, f.err }

func (f *fakeContent) GetByID(ctx context.Context, id string) (*model.Content, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.list {
		if f.list[i].ID == id {
			return &f.list[i], nil
		}
	}
	return nil, errors.New("missing")
}

func (f *fakeContent) GetByType(ctx context.Context, t model.ContentType) ([]model.Content, error) {
	var out []model.Content
	for _, c := range f.list {
		if c.Type == t {
			out = append(out, c)
		}
	}
	return out, f.err
}

func (f *fakeContent) Complete(ctx context.Context, id string, rating *int) error {
	f.completed = append(f.completed, id)
	return f.err
}

type fakeRecommendations struct {
	list  []model.Content
	err   error
	delay time.Duration
}

func (f *fakeRecommendations) GetRecommendations(ctx context.Context) ([]model.Content, error) {
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	return f.list, f.err
}

type fakeStress struct {
	list    []model.StressIndicator
	latest  *model.StressIndicator
	err     error
	delay   time.Duration
	created int32
}

func (f *fakeStress) GetAll(ctx context.Context) ([]model.StressIndicator, error) { return f.list, f.err }

func (f *fakeStress) GetLatest(ctx context.Context) (*model.StressIndicator, error) {
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	return f.latest, f.err
}

func (f *fakeStress) Create(ctx context.Context, level model.StressLevel, notes string) (*model.StressIndicator, error) {
	atomic.AddInt32(&f.created, 1)
	s := model.StressIndicator{ID: "new", StressLevel: level}
	f.list = append([]model.StressIndicator{s}, f.list...)
	f.latest = &s
	return &s, nil
}

func (f *fakeStress) GenerateMock(ctx context.Context, count int) ([]model.StressIndicator, error) {
	batch := make([]model.StressIndicator, count)
	f.list = append(f.list, batch...)
	return batch, nil
}

func TestState(t *testing.T) {
	t.Run("delivers the current value on subscribe", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		s := NewState(1)
		ch := s.Subscribe(ctx)

		assert.Equal(t, 1, <-ch)
		cancel()
		for range ch {
		}
	})

	t.Run("keeps only the latest value for slow subscribers", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		s := NewState(0)
		ch := s.Subscribe(ctx)

		s.Set(1)
		s.Set(2)
		s.Set(3)

		assert.Equal(t, 3, <-ch)
		assert.Equal(t, 3, s.Get())
		cancel()
		for range ch {
		}
	})

	t.Run("closes the channel when the context ends", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		s := NewState("a")
		ch := s.Subscribe(ctx)
		<-ch
		cancel()

		select {
		case _, ok := <-ch:
			assert.False(t, ok)
		case <-time.After(time.Second):
			t.Fatal("subscription not closed")
		}
		s.Set("b")
	})
}

func TestContentViewModel(t *testing.T) {
	ctx := context.Background()
	pills := []model.Content{
		{ID: "a1", Title: "Breathing", Type: model.ContentTypeArticle},
		{ID: "q1", Title: "Sleep quiz", Type: model.ContentTypeQuiz},
	}

	t.Run("loads all content", func(t *testing.T) {
		vm := NewContentViewModel(&fakeContent{list: pills})
		require.NoError(t, vm.LoadAll(ctx))

		if diff := cmp.Diff(pills, vm.Contents.Get()); diff != "" {
			t.Errorf("contents mismatch (-want +got):\n%s", diff)
		}
		assert.False(t, vm.IsLoading.Get())
		assert.NoError(t, vm.Err.Get())
	})

	t.Run("empties the list on failure", func(t *testing.T) {
		vm := NewContentViewModel(&fakeContent{err: errors.New("offline")})
		vm.Contents.Set(pills)

		require.Error(t, vm.LoadAll(ctx))
		assert.Empty(t, vm.Contents.Get())
		assert.NotNil(t, vm.Contents.Get())
		assert.EqualError(t, vm.Err.Get(), "offline")
	})

	t.Run("filters by type and loads one", func(t *testing.T) {
		vm := NewContentViewModel(&fakeContent{list: pills})

		require.NoError(t, vm.LoadByType(ctx, model.ContentTypeQuiz))
		require.Len(t, vm.Contents.Get(), 1)
		assert.Equal(t, "q1", vm.Contents.Get()[0].ID)

		require.NoError(t, vm.Load(ctx, "a1"))
		assert.Equal(t, "Breathing", vm.Content.Get().Title)
	})

	t.Run("completes content", func(t *testing.T) {
		repo := &fakeContent{list: pills}
		vm := NewContentViewModel(repo)
		rating := 5

		require.NoError(t, vm.Complete(ctx, "a1", &rating))
		assert.Equal(t, []string{"a1"}, repo.completed)
	})
}

func TestRecommendationViewModel(t *testing.T) {
	vm := NewRecommendationViewModel(&fakeRecommendations{err: errors.New("failed to fetch recommendations: timeout")})

	require.Error(t, vm.Load(context.Background()))
	assert.Empty(t, vm.Recommendations.Get())
	assert.Contains(t, vm.Err.Get().Error(), "timeout")
}

func TestStressIndicatorViewModel(t *testing.T) {
	ctx := context.Background()

	t.Run("reloads after recording", func(t *testing.T) {
		repo := &fakeStress{}
		vm := NewStressIndicatorViewModel(repo)

		require.NoError(t, vm.Record(ctx, model.StressLevelHigh, "deadline"))
		assert.Len(t, vm.Indicators.Get(), 1)
		require.NotNil(t, vm.Latest.Get())
		assert.Equal(t, model.StressLevelHigh, vm.Latest.Get().StressLevel)
	})

	t.Run("reloads after generating mock data", func(t *testing.T) {
		repo := &fakeStress{}
		vm := NewStressIndicatorViewModel(repo)

		require.NoError(t, vm.GenerateMock(ctx, 30))
		assert.Len(t, vm.Indicators.Get(), 30)
	})

	t.Run("keeps a nil latest when there is no data", func(t *testing.T) {
		vm := NewStressIndicatorViewModel(&fakeStress{})
		require.NoError(t, vm.Load(ctx))
		assert.Nil(t, vm.Latest.Get())
		assert.NotNil(t, vm.Indicators.Get())
	})
}

func TestHomeViewModel(t *testing.T) {
	ctx := context.Background()

	t.Run("loads both halves in parallel", func(t *testing.T) {
		latest := &model.StressIndicator{ID: "s1", StressLevel: model.StressLevelCritical}
		recs := &fakeRecommendations{list: []model.Content{{ID: "a1"}}, delay: 100 * time.Millisecond}
		stress := &fakeStress{latest: latest, delay: 100 * time.Millisecond}
		vm := NewHomeViewModel(recs, stress)

		start := time.Now()
		require.NoError(t, vm.Load(ctx))
		assert.Less(t, time.Since(start), 190*time.Millisecond)

		assert.Equal(t, latest, vm.LatestStress.Get())
		assert.Len(t, vm.Recommendations.Get(), 1)
		assert.False(t, vm.IsLoading.Get())
	})

	t.Run("publishes the half that succeeded", func(t *testing.T) {
		latest := &model.StressIndicator{ID: "s1", StressLevel: model.StressLevelLow}
		vm := NewHomeViewModel(&fakeRecommendations{err: errors.New("down")}, &fakeStress{latest: latest})

		require.Error(t, vm.Load(ctx))
		assert.Equal(t, latest, vm.LatestStress.Get())
		assert.EqualError(t, vm.Err.Get(), "down")
	})

	t.Run("notifies subscribers of loading", func(t *testing.T) {
		sctx, cancel := context.WithCancel(ctx)
		vm := NewHomeViewModel(&fakeRecommendations{}, &fakeStress{})
		updates := vm.Recommendations.Subscribe(sctx)
		<-updates

		require.NoError(t, vm.Load(ctx))
		assert.NotNil(t, <-updates)

		cancel()
		for range updates {
		}
	})
}

func TestStressLevelColor(t *testing.T) {
	cases := map[model.StressLevel]string{
		model.StressLevelLow:      "#4CAF50",
		model.StressLevelMedium:   "#FFC107",
		model.StressLevelHigh:     "#FF9800",
		model.StressLevelCritical: "#F44336",
		model.StressLevel(0):      "#9E9E9E",
	}
	for level, want := range cases {
		assert.Equal(t, want, StressLevelColor(level), level.String())
	}
}
