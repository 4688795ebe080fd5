package di

import (
	"github.com/google/wire"
	"go.uber.org/zap"

	commandhandlers "techknowledgepills/application/commands/handlers"
	"techknowledgepills/application/ports"
	queryhandlers "techknowledgepills/application/queries/handlers"
	"techknowledgepills/application/services"
	"techknowledgepills/infrastructure/config"
	"techknowledgepills/infrastructure/seed"
	"techknowledgepills/interfaces/http/rest"
	"techknowledgepills/interfaces/http/rest/middleware"
	"techknowledgepills/pkg/auth"
	"techknowledgepills/pkg/observability"
)

// Container holds all application dependencies
type Container struct {
	Config     *config.Config
	Logger     *zap.Logger
	LogLevel   zap.AtomicLevel
	Router     *rest.Router
	Seeder     *seed.Seeder
	CloudWatch *observability.CloudWatchRecorder
}

var InfrastructureSet = wire.NewSet(
	ProvideLogLevel,
	ProvideLogger,
	ProvideDomainConfig,
	ProvideAWSClients,
	ProvideStore,
	ProvideUserRepository,
	ProvideContentRepository,
	ProvideLocker,
	ProvideStressIndicatorRepository,
	ProvideHealthMetricRepository,
	ProvideCipherRepository,
	ProvideInteractionRepository,
	ProvideHealthChecker,
	ProvideEventPublisher,
	ProvideInMemoryCache,
	wire.Bind(new(ports.Cache), new(*InMemoryCache)),
	ProvideCollector,
	ProvideCloudWatchRecorder,
	ProvideMetricsRecorder,
	ProvideHTTPMetrics,
	ProvideMetricsEndpoint,
	ProvideTracer,
)

var ApplicationSet = wire.NewSet(
	ProvideHealthAnalyzer,
	ProvideMockStressGenerator,
	ProvideRecommendationPolicy,
	commandhandlers.NewContentHandlers,
	commandhandlers.NewStressHandlers,
	commandhandlers.NewHealthHandlers,
	commandhandlers.NewCipherHandlers,
	wire.Struct(new(CommandHandlers), "*"),
	queryhandlers.NewContentQueryHandlers,
	queryhandlers.NewStressQueryHandlers,
	queryhandlers.NewHealthQueryHandlers,
	queryhandlers.NewCipherQueryHandlers,
	queryhandlers.NewRecommendationsHandler,
	wire.Struct(new(QueryHandlers), "*"),
	ProvideCommandBus,
	ProvideQueryBus,
	services.NewAuthService,
	services.NewStressService,
	seed.NewSeeder,
)

var InterfaceSet = wire.NewSet(
	ProvideErrorHandler,
	ProvideJWTIssuer,
	wire.Bind(new(ports.TokenIssuer), new(*auth.JWTIssuer)),
	wire.Bind(new(middleware.TokenParser), new(*auth.JWTIssuer)),
	ProvidePasswordHasher,
	ProvideAuthLimiter,
	ProvideAPILimiter,
	wire.Struct(new(rest.Dependencies), "*"),
	rest.NewRouter,
)

// SuperSet is the main provider set containing all providers
var SuperSet = wire.NewSet(
	InfrastructureSet,
	ApplicationSet,
	InterfaceSet,
	wire.Struct(new(Container), "*"),
)
