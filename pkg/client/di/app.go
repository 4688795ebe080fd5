// Package di wires the CLI client's object graph.
package di

import (
	"net/http"
	"os"

	"github.com/google/wire"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"techknowledgepills/pkg/client/api"
	"techknowledgepills/pkg/client/config"
	"techknowledgepills/pkg/client/repository"
	"techknowledgepills/pkg/client/session"
	"techknowledgepills/pkg/client/viewmodel"
)

// View-model factories build a fresh view-model per screen from the
// shared repositories.
type (
	ContentViewModelFactory         func() *viewmodel.ContentViewModel
	RecommendationViewModelFactory  func() *viewmodel.RecommendationViewModel
	StressIndicatorViewModelFactory func() *viewmodel.StressIndicatorViewModel
	HomeViewModelFactory            func() *viewmodel.HomeViewModel
)

// App is the client's singleton graph plus the per-screen factories
type App struct {
	Config *config.Config
	Logger *zap.Logger
	Tokens *session.TokenManager
	API    *api.Service

	Auth            *repository.AuthRepository
	Content         *repository.ContentRepository
	Recommendations *repository.RecommendationRepository
	Stress          *repository.StressIndicatorRepository

	ContentViewModel         ContentViewModelFactory
	RecommendationViewModel  RecommendationViewModelFactory
	StressIndicatorViewModel StressIndicatorViewModelFactory
	HomeViewModel            HomeViewModelFactory
}

// ProvideLogger logs to stderr; debug mode switches to the development
// console encoder at debug level.
func ProvideLogger(cfg *config.Config) (*zap.Logger, func(), error) {
	var zcfg zap.Config
	if cfg.Debug {
		zcfg = zap.NewDevelopmentConfig()
	} else {
		zcfg = zap.NewProductionConfig()
		zcfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
		zcfg.Encoding = "console"
		zcfg.EncoderConfig = zap.NewDevelopmentEncoderConfig()
	}
	zcfg.OutputPaths = []string{"stderr"}
	zcfg.ErrorOutputPaths = []string{"stderr"}

	logger, err := zcfg.Build()
	if err != nil {
		return nil, nil, err
	}
	return logger, func() { _ = logger.Sync() }, nil
}

// ProvideTokenManager loads the stored session
func ProvideTokenManager(cfg *config.Config) (*session.TokenManager, error) {
	dir := cfg.SessionDir
	if dir == "" {
		if v := os.Getenv("TKP_SESSION_DIR"); v != "" {
			dir = v
		}
	}
	return session.NewTokenManager(dir)
}

// ProvideHTTPClient builds the transport chain
func ProvideHTTPClient(cfg *config.Config, tokens api.TokenSource, logger *zap.Logger) *http.Client {
	return api.NewHTTPClient(cfg, tokens, logger)
}

func ProvideContentViewModelFactory(repo *repository.ContentRepository) ContentViewModelFactory {
	return func() *viewmodel.ContentViewModel {
		return viewmodel.NewContentViewModel(repo)
	}
}

func ProvideRecommendationViewModelFactory(repo *repository.RecommendationRepository) RecommendationViewModelFactory {
	return func() *viewmodel.RecommendationViewModel {
		return viewmodel.NewRecommendationViewModel(repo)
	}
}

func ProvideStressIndicatorViewModelFactory(repo *repository.StressIndicatorRepository) StressIndicatorViewModelFactory {
	return func() *viewmodel.StressIndicatorViewModel {
		return viewmodel.NewStressIndicatorViewModel(repo)
	}
}

func ProvideHomeViewModelFactory(recs *repository.RecommendationRepository, stress *repository.StressIndicatorRepository) HomeViewModelFactory {
	return func() *viewmodel.HomeViewModel {
		return viewmodel.NewHomeViewModel(recs, stress)
	}
}

// NetworkSet provides the singleton network layer
var NetworkSet = wire.NewSet(
	ProvideLogger,
	ProvideTokenManager,
	wire.Bind(new(api.TokenSource), new(*session.TokenManager)),
	wire.Bind(new(api.TokenStore), new(*session.TokenManager)),
	api.NewCodec,
	ProvideHTTPClient,
	api.NewService,
)

// DataSet provides the singleton repositories
var DataSet = wire.NewSet(
	wire.Bind(new(repository.AuthAPI), new(*api.Service)),
	wire.Bind(new(repository.ContentAPI), new(*api.Service)),
	wire.Bind(new(repository.RecommendationAPI), new(*api.Service)),
	wire.Bind(new(repository.StressAPI), new(*api.Service)),
	wire.Bind(new(repository.SessionStore), new(*session.TokenManager)),
	repository.NewAuthRepository,
	repository.NewContentRepository,
	repository.NewRecommendationRepository,
	repository.NewStressIndicatorRepository,
)

// PresentationSet provides the per-screen factories
var PresentationSet = wire.NewSet(
	ProvideContentViewModelFactory,
	ProvideRecommendationViewModelFactory,
	ProvideStressIndicatorViewModelFactory,
	ProvideHomeViewModelFactory,
)

// AppSet builds the whole client graph
var AppSet = wire.NewSet(
	NetworkSet,
	DataSet,
	PresentationSet,
	wire.Struct(new(App), "*"),
)
