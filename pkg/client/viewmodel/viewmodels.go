package viewmodel

import (
	"context"

	"golang.org/x/sync/errgroup"

	"techknowledgepills/pkg/client/model"
)

// ContentSource is what ContentViewModel needs from the content repository
type ContentSource interface {
	GetAll(ctx context.Context) ([]model.Content, error)
	GetByID(ctx context.Context, id string) (*model.Content, error)
	GetByType(ctx context.Context, t model.ContentType) ([]model.Content, error)
	Complete(ctx context.Context, id string, rating *int) error
}

// RecommendationSource is what the recommendation and home screens need
type RecommendationSource interface {
	GetRecommendations(ctx context.Context) ([]model.Content, error)
}

// StressSource is what the stress and home screens need
type StressSource interface {
	GetAll(ctx context.Context) ([]model.StressIndicator, error)
	GetLatest(ctx context.Context) (*model.StressIndicator, error)
	Create(ctx context.Context, level model.StressLevel, notes string) (*model.StressIndicator, error)
	GenerateMock(ctx context.Context, count int) ([]model.StressIndicator, error)
}

// ContentViewModel backs the content list and detail screens
type ContentViewModel struct {
	repo ContentSource

	Contents  *State[[]model.Content]
	Content   *State[*model.Content]
	IsLoading *State[bool]
	Err       *State[error]
}

func NewContentViewModel(repo ContentSource) *ContentViewModel {
	return &ContentViewModel{
		repo:      repo,
		Contents:  NewState([]model.Content{}),
		Content:   NewState[*model.Content](nil),
		IsLoading: NewState(false),
		Err:       NewState[error](nil),
	}
}

// LoadAll replaces Contents; a failure leaves an empty list and sets Err
func (vm *ContentViewModel) LoadAll(ctx context.Context) error {
	return vm.loadList(func() ([]model.Content, error) { return vm.repo.GetAll(ctx) })
}

func (vm *ContentViewModel) LoadByType(ctx context.Context, t model.ContentType) error {
	return vm.loadList(func() ([]model.Content, error) { return vm.repo.GetByType(ctx, t) })
}

func (vm *ContentViewModel) loadList(fetch func() ([]model.Content, error)) error {
	vm.IsLoading.Set(true)
	defer vm.IsLoading.Set(false)

	list, err := fetch()
	if err != nil {
		vm.Contents.Set([]model.Content{})
		vm.Err.Set(err)
		return err
	}
	if list == nil {
		list = []model.Content{}
	}
	vm.Contents.Set(list)
	vm.Err.Set(nil)
	return nil
}

// Load fetches a single pill into Content
func (vm *ContentViewModel) Load(ctx context.Context, id string) error {
	vm.IsLoading.Set(true)
	defer vm.IsLoading.Set(false)

	c, err := vm.repo.GetByID(ctx, id)
	if err != nil {
		vm.Content.Set(nil)
		vm.Err.Set(err)
		return err
	}
	vm.Content.Set(c)
	vm.Err.Set(nil)
	return nil
}

func (vm *ContentViewModel) Complete(ctx context.Context, id string, rating *int) error {
	if err := vm.repo.Complete(ctx, id, rating); err != nil {
		vm.Err.Set(err)
		return err
	}
	vm.Err.Set(nil)
	return nil
}

// RecommendationViewModel backs the recommendations screen
type RecommendationViewModel struct {
	repo RecommendationSource

	Recommendations *State[[]model.Content]
	IsLoading       *State[bool]
	Err             *State[error]
}

func NewRecommendationViewModel(repo RecommendationSource) *RecommendationViewModel {
	return &RecommendationViewModel{
		repo:            repo,
		Recommendations: NewState([]model.Content{}),
		IsLoading:       NewState(false),
		Err:             NewState[error](nil),
	}
}

func (vm *RecommendationViewModel) Load(ctx context.Context) error {
	vm.IsLoading.Set(true)
	defer vm.IsLoading.Set(false)

	list, err := vm.repo.GetRecommendations(ctx)
	if err != nil {
		vm.Recommendations.Set([]model.Content{})
		vm.Err.Set(err)
		return err
	}
	if list == nil {
		list = []model.Content{}
	}
	vm.Recommendations.Set(list)
	vm.Err.Set(nil)
	return nil
}

// StressIndicatorViewModel backs the stress history screen
type StressIndicatorViewModel struct {
	repo StressSource

	Indicators *State[[]model.StressIndicator]
	Latest     *State[*model.StressIndicator]
	IsLoading  *State[bool]
	Err        *State[error]
}

func NewStressIndicatorViewModel(repo StressSource) *StressIndicatorViewModel {
	return &StressIndicatorViewModel{
		repo:       repo,
		Indicators: NewState([]model.StressIndicator{}),
		Latest:     NewState[*model.StressIndicator](nil),
		IsLoading:  NewState(false),
		Err:        NewState[error](nil),
	}
}

// Load refreshes the history and the latest reading
func (vm *StressIndicatorViewModel) Load(ctx context.Context) error {
	vm.IsLoading.Set(true)
	defer vm.IsLoading.Set(false)

	list, err := vm.repo.GetAll(ctx)
	if err != nil {
		vm.Indicators.Set([]model.StressIndicator{})
		vm.Err.Set(err)
		return err
	}
	latest, err := vm.repo.GetLatest(ctx)
	if err != nil {
		vm.Err.Set(err)
		return err
	}

	if list == nil {
		list = []model.StressIndicator{}
	}
	vm.Indicators.Set(list)
	vm.Latest.Set(latest)
	vm.Err.Set(nil)
	return nil
}

// GenerateMock asks the server for count synthetic readings and reloads
func (vm *StressIndicatorViewModel) GenerateMock(ctx context.Context, count int) error {
	if _, err := vm.repo.GenerateMock(ctx, count); err != nil {
		vm.Err.Set(err)
		return err
	}
	return vm.Load(ctx)
}

// Record stores a manual reading and reloads
func (vm *StressIndicatorViewModel) Record(ctx context.Context, level model.StressLevel, notes string) error {
	if _, err := vm.repo.Create(ctx, level, notes); err != nil {
		vm.Err.Set(err)
		return err
	}
	return vm.Load(ctx)
}

// HomeViewModel backs the home screen
type HomeViewModel struct {
	recommendations RecommendationSource
	stress          StressSource

	LatestStress    *State[*model.StressIndicator]
	Recommendations *State[[]model.Content]
	IsLoading       *State[bool]
	Err             *State[error]
}

func NewHomeViewModel(recommendations RecommendationSource, stress StressSource) *HomeViewModel {
	return &HomeViewModel{
		recommendations: recommendations,
		stress:          stress,
		LatestStress:    NewState[*model.StressIndicator](nil),
		Recommendations: NewState([]model.Content{}),
		IsLoading:       NewState(false),
		Err:             NewState[error](nil),
	}
}

// Load fetches the latest stress reading and the recommendations in
// parallel. Each half that succeeds is published even if the other fails.
func (vm *HomeViewModel) Load(ctx context.Context) error {
	vm.IsLoading.Set(true)
	defer vm.IsLoading.Set(false)

	var g errgroup.Group
	g.Go(func() error {
		latest, err := vm.stress.GetLatest(ctx)
		if err != nil {
			return err
		}
		vm.LatestStress.Set(latest)
		return nil
	})
	g.Go(func() error {
		list, err := vm.recommendations.GetRecommendations(ctx)
		if err != nil {
			return err
		}
		if list == nil {
			list = []model.Content{}
		}
		vm.Recommendations.Set(list)
		return nil
	})

	err := g.Wait()
	vm.Err.Set(err)
	return err
}

// StressLevelColor is the hex color used to render a stress level
func StressLevelColor(level model.StressLevel) string {
	switch level {
	case model.StressLevelLow:
		return "#4CAF50"
	case model.StressLevelMedium:
		return "#FFC107"
	case model.StressLevelHigh:
		return "#FF9800"
	case model.StressLevelCritical:
		return "#F44336"
	default:
		return "#9E9E9E"
	}
}
