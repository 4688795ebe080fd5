package di

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awscloudwatch "github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awseventbridge "github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-xray-sdk-go/instrumentation/awsv2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"techknowledgepills/application/commands"
	"techknowledgepills/application/commands/bus"
	commandhandlers "techknowledgepills/application/commands/handlers"
	"techknowledgepills/application/ports"
	"techknowledgepills/application/queries"
	querybus "techknowledgepills/application/queries/bus"
	queryhandlers "techknowledgepills/application/queries/handlers"
	domainconfig "techknowledgepills/domain/config"
	domainservices "techknowledgepills/domain/services"
	"techknowledgepills/infrastructure/config"
	"techknowledgepills/infrastructure/messaging/eventbridge"
	"techknowledgepills/infrastructure/messaging/logbus"
	"techknowledgepills/infrastructure/persistence/dynamodb"
	"techknowledgepills/infrastructure/persistence/sqlite"
	"techknowledgepills/interfaces/http/rest"
	"techknowledgepills/interfaces/http/rest/middleware"
	"techknowledgepills/pkg/auth"
	pkgerrors "techknowledgepills/pkg/errors"
	"techknowledgepills/pkg/observability"
)

const serviceName = "techknowledgepills"

// Store is the persistence backend, sqlite locally and DynamoDB in AWS
type Store interface {
	Users() ports.UserRepository
	Contents() ports.ContentRepository
	StressIndicators() ports.StressIndicatorRepository
	HealthMetrics() ports.HealthMetricRepository
	Ciphers() ports.CipherRepository
	Interactions() ports.InteractionRepository
	Locker() ports.Locker
	Ping(ctx context.Context) error
}

// AWSClients holds the SDK clients. All fields are nil outside AWS mode.
type AWSClients struct {
	DynamoDB    *awsdynamodb.Client
	EventBridge *awseventbridge.Client
	CloudWatch  *awscloudwatch.Client
}

// ProvideLogLevel parses the configured level; the config watcher changes it at runtime
func ProvideLogLevel(cfg *config.Config) zap.AtomicLevel {
	level, err := zap.ParseAtomicLevel(cfg.LogLevel)
	if err != nil {
		return zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}
	return level
}

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config, level zap.AtomicLevel) (*zap.Logger, error) {
	var zcfg zap.Config
	if cfg.IsDevelopment() {
		zcfg = zap.NewDevelopmentConfig()
	} else {
		zcfg = zap.NewProductionConfig()
	}
	zcfg.Level = level

	logger, err := zcfg.Build()
	if err != nil {
		return nil, err
	}
	return logger.With(zap.String("service", serviceName), zap.String("env", cfg.Environment)), nil
}

// ProvideDomainConfig returns the business rules
func ProvideDomainConfig() *domainconfig.DomainConfig {
	return domainconfig.DefaultDomainConfig()
}

// ProvideAWSClients loads the AWS configuration when the deployment needs it
func ProvideAWSClients(ctx context.Context, cfg *config.Config) (*AWSClients, error) {
	if !cfg.UsesAWS() {
		return &AWSClients{}, nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}
	if cfg.IsLambda && cfg.EnableTracing {
		awsv2.AWSV2Instrumentor(&awsCfg.APIOptions)
	}

	return &AWSClients{
		DynamoDB: awsdynamodb.NewFromConfig(awsCfg, func(o *awsdynamodb.Options) {
			if cfg.DynamoDBEndpoint != "" {
				o.BaseEndpoint = aws.String(cfg.DynamoDBEndpoint)
			}
		}),
		EventBridge: awseventbridge.NewFromConfig(awsCfg),
		CloudWatch:  awscloudwatch.NewFromConfig(awsCfg),
	}, nil
}

// ProvideStore opens the configured storage backend
func ProvideStore(cfg *config.Config, clients *AWSClients, logger *zap.Logger) (Store, func(), error) {
	switch cfg.StorageDriver {
	case config.StorageDynamoDB:
		if clients.DynamoDB == nil {
			return nil, nil, fmt.Errorf("dynamodb storage requires aws clients")
		}
		logger.Info("Using DynamoDB storage", zap.String("table", cfg.DynamoDBTable))
		return dynamodb.NewStore(clients.DynamoDB, cfg.DynamoDBTable, logger), func() {}, nil
	default:
		store, err := sqlite.NewStore(cfg.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("opening sqlite store: %w", err)
		}
		logger.Info("Using SQLite storage", zap.String("path", store.Path()))
		return store, func() {
			if err := store.Close(); err != nil {
				logger.Warn("Failed to close sqlite store", zap.Error(err))
			}
		}, nil
	}
}

func ProvideUserRepository(s Store) ports.UserRepository { return s.Users() }

func ProvideContentRepository(s Store) ports.ContentRepository { return s.Contents() }

func ProvideLocker(s Store) ports.Locker { return s.Locker() }

func ProvideStressIndicatorRepository(s Store) ports.StressIndicatorRepository {
	return s.StressIndicators()
}

func ProvideHealthMetricRepository(s Store) ports.HealthMetricRepository { return s.HealthMetrics() }

func ProvideCipherRepository(s Store) ports.CipherRepository { return s.Ciphers() }

func ProvideInteractionRepository(s Store) ports.InteractionRepository { return s.Interactions() }

func ProvideHealthChecker(s Store) ports.HealthChecker { return s }

// ProvideEventPublisher sends events to EventBridge when a bus is configured
// and to the log otherwise
func ProvideEventPublisher(cfg *config.Config, clients *AWSClients, logger *zap.Logger) ports.EventPublisher {
	if clients.EventBridge != nil && cfg.EventBusName != "" {
		return eventbridge.NewPublisher(clients.EventBridge, cfg.EventBusName, cfg.EventSource, logger)
	}
	return logbus.NewPublisher(logger)
}

// ProvideInMemoryCache creates the query cache
func ProvideInMemoryCache() (*InMemoryCache, func()) {
	cache := NewInMemoryCache(time.Minute)
	return cache, cache.Close
}

// ProvideCollector creates the Prometheus collector
func ProvideCollector() *observability.Collector {
	return observability.NewCollector("tkp")
}

// ProvideCloudWatchRecorder creates the Lambda metric buffer
func ProvideCloudWatchRecorder(cfg *config.Config, clients *AWSClients, logger *zap.Logger) *observability.CloudWatchRecorder {
	var api observability.CloudWatchAPI
	if clients.CloudWatch != nil && cfg.EnableMetrics {
		api = clients.CloudWatch
	}
	return observability.NewCloudWatchRecorder(api, cfg.MetricsNamespace, logger)
}

// ProvideMetricsRecorder picks CloudWatch inside Lambda and Prometheus elsewhere
func ProvideMetricsRecorder(cfg *config.Config, collector *observability.Collector, cw *observability.CloudWatchRecorder) ports.MetricsRecorder {
	if cfg.IsLambda {
		return cw
	}
	return collector
}

// ProvideHTTPMetrics returns nil when metrics are disabled
func ProvideHTTPMetrics(cfg *config.Config, collector *observability.Collector, cw *observability.CloudWatchRecorder) middleware.HTTPMetrics {
	switch {
	case !cfg.EnableMetrics:
		return nil
	case cfg.IsLambda:
		return cw
	default:
		return collector
	}
}

// ProvideMetricsEndpoint exposes /metrics outside Lambda
func ProvideMetricsEndpoint(cfg *config.Config, collector *observability.Collector) rest.MetricsEndpoint {
	if !cfg.EnableMetrics || cfg.IsLambda {
		return nil
	}
	return collector.Handler()
}

// ProvideTracer creates the X-Ray tracer, active only inside Lambda
func ProvideTracer(cfg *config.Config) *observability.Tracer {
	return observability.NewTracer(serviceName, cfg.IsLambda && cfg.EnableTracing)
}

// ProvideErrorHandler creates the HTTP error handler
func ProvideErrorHandler(cfg *config.Config, logger *zap.Logger) *pkgerrors.ErrorHandler {
	return pkgerrors.NewErrorHandler(logger, cfg.IsDevelopment())
}

// ProvideJWTIssuer creates the token issuer
func ProvideJWTIssuer(cfg *config.Config) (*auth.JWTIssuer, error) {
	return auth.NewJWTIssuer(cfg.JWTSecret, cfg.JWTIssuer, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
}

// ProvidePasswordHasher creates the bcrypt hasher
func ProvidePasswordHasher(cfg *config.Config) ports.PasswordHasher {
	return auth.NewBcryptHasher(cfg.BcryptCost)
}

// distributedCounter returns the DynamoDB client when limits must hold across instances
func distributedCounter(cfg *config.Config, clients *AWSClients) auth.DynamoDBCounterAPI {
	if cfg.IsLambda && cfg.StorageDriver == config.StorageDynamoDB && clients.DynamoDB != nil {
		return clients.DynamoDB
	}
	return nil
}

// ProvideAuthLimiter limits anonymous endpoints per client address
func ProvideAuthLimiter(cfg *config.Config, clients *AWSClients) (rest.AuthLimiter, func()) {
	if counter := distributedCounter(cfg, clients); counter != nil {
		return auth.NewIPRateLimiter(auth.NewDistributedRateLimiter(counter, cfg.DynamoDBTable, cfg.AuthRateLimit, cfg.RateLimitWindow)), func() {}
	}
	limiter := auth.NewSlidingWindowLimiter(cfg.AuthRateLimit, cfg.RateLimitWindow)
	return auth.NewIPRateLimiter(limiter), limiter.Close
}

// ProvideAPILimiter limits authenticated endpoints per user
func ProvideAPILimiter(cfg *config.Config, clients *AWSClients) (rest.APILimiter, func()) {
	if counter := distributedCounter(cfg, clients); counter != nil {
		return auth.NewUserRateLimiter(auth.NewDistributedRateLimiter(counter, cfg.DynamoDBTable, cfg.APIRateLimit, cfg.RateLimitWindow)), func() {}
	}
	limiter := auth.NewSlidingWindowLimiter(cfg.APIRateLimit, cfg.RateLimitWindow)
	return auth.NewUserRateLimiter(limiter), limiter.Close
}

func ProvideHealthAnalyzer() *domainservices.HealthAnalyzer {
	return domainservices.NewHealthAnalyzer()
}

func ProvideMockStressGenerator(cfg *domainconfig.DomainConfig) *domainservices.MockStressGenerator {
	return domainservices.NewMockStressGenerator(cfg)
}

func ProvideRecommendationPolicy(cfg *domainconfig.DomainConfig) *domainservices.RecommendationPolicy {
	return domainservices.NewRecommendationPolicy(cfg.MaxRecommendations)
}

// CommandHandlerAdapter adapts specific command handlers to the generic interface
type CommandHandlerAdapter struct {
	handler func(context.Context, bus.Command) error
}

func (a *CommandHandlerAdapter) Handle(ctx context.Context, cmd bus.Command) error {
	return a.handler(ctx, cmd)
}

func commandHandler[C bus.Command](fn func(context.Context, C) error) *CommandHandlerAdapter {
	return &CommandHandlerAdapter{
		handler: func(ctx context.Context, cmd bus.Command) error {
			typed, ok := cmd.(C)
			if !ok {
				return fmt.Errorf("invalid command type %T", cmd)
			}
			return fn(ctx, typed)
		},
	}
}

// CommandHandlers groups every write-side handler set
type CommandHandlers struct {
	Content *commandhandlers.ContentHandlers
	Stress  *commandhandlers.StressHandlers
	Health  *commandhandlers.HealthHandlers
	Cipher  *commandhandlers.CipherHandlers
}

// RegisterCommandHandlers binds each command type to its handler
func RegisterCommandHandlers(b *bus.CommandBus, h CommandHandlers) error {
	registrations := []struct {
		cmd     bus.Command
		handler bus.CommandHandler
	}{
		{commands.CreateContentCommand{}, commandHandler(h.Content.HandleCreate)},
		{commands.UpdateContentCommand{}, commandHandler(h.Content.HandleUpdate)},
		{commands.DeleteContentCommand{}, commandHandler(h.Content.HandleDelete)},
		{commands.CompleteContentCommand{}, commandHandler(h.Content.HandleComplete)},
		{commands.RecordStressIndicatorCommand{}, commandHandler(h.Stress.HandleRecord)},
		{commands.IngestHealthMetricCommand{}, commandHandler(h.Health.HandleIngest)},
		{commands.CreateCipherCommand{}, commandHandler(h.Cipher.HandleCreate)},
		{commands.UpdateCipherCommand{}, commandHandler(h.Cipher.HandleUpdate)},
		{commands.DeleteCipherCommand{}, commandHandler(h.Cipher.HandleDelete)},
	}
	for _, r := range registrations {
		if err := b.Register(r.cmd, r.handler); err != nil {
			return err
		}
	}
	return nil
}

// ProvideCommandBus creates a command bus with registered handlers
func ProvideCommandBus(h CommandHandlers, metrics ports.MetricsRecorder, logger *zap.Logger) (*bus.CommandBus, error) {
	commandBus := bus.NewCommandBus(
		bus.TracingMiddleware(),
		bus.LoggingMiddleware(logger),
		bus.MetricsMiddleware(commandMetrics{recorder: metrics}),
		bus.ValidationMiddleware(),
	)
	if err := RegisterCommandHandlers(commandBus, h); err != nil {
		return nil, err
	}
	return commandBus, nil
}

// QueryHandlerAdapter adapts specific query handlers to the generic interface
type QueryHandlerAdapter struct {
	handler func(context.Context, querybus.Query) (interface{}, error)
}

func (a *QueryHandlerAdapter) Handle(ctx context.Context, query querybus.Query) (interface{}, error) {
	return a.handler(ctx, query)
}

func queryHandler[Q querybus.Query, R any](fn func(context.Context, Q) (R, error)) *QueryHandlerAdapter {
	return &QueryHandlerAdapter{
		handler: func(ctx context.Context, query querybus.Query) (interface{}, error) {
			typed, ok := query.(Q)
			if !ok {
				return nil, fmt.Errorf("invalid query type %T", query)
			}
			return fn(ctx, typed)
		},
	}
}

// QueryHandlers groups every read-side handler set
type QueryHandlers struct {
	Content         *queryhandlers.ContentQueryHandlers
	Stress          *queryhandlers.StressQueryHandlers
	Health          *queryhandlers.HealthQueryHandlers
	Cipher          *queryhandlers.CipherQueryHandlers
	Recommendations *queryhandlers.RecommendationsHandler
}

// RegisterQueryHandlers binds each query type to its handler
func RegisterQueryHandlers(b *querybus.QueryBus, h QueryHandlers) error {
	registrations := []struct {
		query   querybus.Query
		handler querybus.QueryHandler
	}{
		{queries.ListContentQuery{}, queryHandler(h.Content.HandleList)},
		{queries.GetContentQuery{}, queryHandler(h.Content.HandleGet)},
		{queries.ListContentByTypeQuery{}, queryHandler(h.Content.HandleListByType)},
		{queries.ListStressIndicatorsQuery{}, queryHandler(h.Stress.HandleList)},
		{queries.LatestStressIndicatorQuery{}, queryHandler(h.Stress.HandleLatest)},
		{queries.ListHealthMetricsQuery{}, queryHandler(h.Health.HandleList)},
		{queries.LatestHealthMetricQuery{}, queryHandler(h.Health.HandleLatest)},
		{queries.ListCiphersQuery{}, queryHandler(h.Cipher.HandleList)},
		{queries.GetCipherQuery{}, queryHandler(h.Cipher.HandleGet)},
		{queries.GetCipherByKeyQuery{}, queryHandler(h.Cipher.HandleGetByKey)},
		{queries.RecommendationsQuery{}, queryHandler(h.Recommendations.Handle)},
	}
	for _, r := range registrations {
		if err := b.Register(r.query, r.handler); err != nil {
			return err
		}
	}
	return nil
}

// ProvideQueryBus creates a query bus with registered handlers
func ProvideQueryBus(
	h QueryHandlers,
	cache *InMemoryCache,
	metrics ports.MetricsRecorder,
	cfg *config.Config,
	logger *zap.Logger,
) (*querybus.QueryBus, error) {
	middlewares := []querybus.Middleware{
		querybus.TracingMiddleware{},
		querybus.NewMetricsMiddleware(queryMetrics{recorder: metrics}),
	}
	if cfg.QueryCacheActive() {
		middlewares = append(middlewares, querybus.NewCachingMiddleware(cache, cfg.CacheTTLSeconds, logger))
	} else {
		logger.Debug("Query cache disabled", zap.Bool("lambda", cfg.IsLambda), zap.String("storage", cfg.StorageDriver))
	}
	queryBus := querybus.NewQueryBus(middlewares...)
	if err := RegisterQueryHandlers(queryBus, h); err != nil {
		return nil, err
	}
	return queryBus, nil
}
