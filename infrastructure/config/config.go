package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Storage drivers
// DevelopmentJWTSecret signs tokens when no secret is configured outside production
const DevelopmentJWTSecret = "development-secret-change-in-production"

const (
	StorageSQLite   = "sqlite"
	StorageDynamoDB = "dynamodb"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	ServerAddress string `yaml:"serverAddress"`
	Environment   string `yaml:"environment"`

	// Storage
	StorageDriver string `yaml:"storageDriver"`
	SQLitePath    string `yaml:"sqlitePath"`
	SeedContent   bool   `yaml:"seedContent"`

	// AWS configuration
	AWSRegion        string `yaml:"awsRegion"`
	DynamoDBTable    string `yaml:"dynamodbTable"`
	DynamoDBEndpoint string `yaml:"dynamodbEndpoint"`
	EventBusName     string `yaml:"eventBusName"`
	EventSource      string `yaml:"eventSource"`
	MetricsNamespace string `yaml:"metricsNamespace"`

	// Lambda configuration
	IsLambda           bool   `yaml:"-"`
	LambdaFunctionName string `yaml:"-"`

	// Logging
	LogLevel string `yaml:"logLevel"`

	// Authentication
	JWTSecret       string        `yaml:"jwtSecret"`
	JWTIssuer       string        `yaml:"jwtIssuer"`
	AccessTokenTTL  time.Duration `yaml:"accessTokenTTL"`
	RefreshTokenTTL time.Duration `yaml:"refreshTokenTTL"`
	BcryptCost      int           `yaml:"bcryptCost"`

	// IoT devices must send this in X-Device-Key when set
	IoTAPIKey string `yaml:"iotApiKey"`

	// Rate limiting, requests per window per client
	AuthRateLimit   int           `yaml:"authRateLimit"`
	APIRateLimit    int           `yaml:"apiRateLimit"`
	RateLimitWindow time.Duration `yaml:"rateLimitWindow"`

	// Query cache. The cache lives in process memory, so it is only honoured
	// for a single sqlite-backed instance; see QueryCacheActive.
	QueryCache      bool `yaml:"queryCache"`
	CacheTTLSeconds int  `yaml:"cacheTTLSeconds"`

	// Tracing
	OTLPEndpoint string `yaml:"otlpEndpoint"`

	CORSAllowedOrigins []string `yaml:"corsAllowedOrigins"`

	// Feature flags
	EnableMetrics bool `yaml:"enableMetrics"`
	EnableTracing bool `yaml:"enableTracing"`
	EnableCORS    bool `yaml:"enableCORS"`

	// ConfigFile is the YAML file the values were layered from, if any
	ConfigFile string `yaml:"-"`
}

// Defaults returns the built-in configuration
func Defaults() *Config {
	return &Config{
		ServerAddress:      ":8080",
		Environment:        "development",
		StorageDriver:      StorageSQLite,
		SQLitePath:         "techknowledgepills.db",
		SeedContent:        true,
		AWSRegion:          "us-east-1",
		DynamoDBTable:      "techknowledgepills",
		EventBusName:       "techknowledgepills-events",
		EventSource:        "techknowledgepills.api",
		MetricsNamespace:   "TechKnowledgePills",
		LogLevel:           "info",
		JWTIssuer:          "techknowledgepills",
		AccessTokenTTL:     24 * time.Hour,
		RefreshTokenTTL:    30 * 24 * time.Hour,
		BcryptCost:         12,
		AuthRateLimit:      10,
		APIRateLimit:       300,
		RateLimitWindow:    time.Minute,
		CacheTTLSeconds:    300,
		CORSAllowedOrigins: []string{"*"},
		EnableMetrics:      true,
		EnableCORS:         true,
	}
}

// LoadConfig layers the optional YAML file named by CONFIG_FILE over the
// defaults, then environment variables over both.
func LoadConfig() (*Config, error) {
	cfg := Defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
		cfg.ConfigFile = path
	}
	cfg.applyEnv()

	// Validate required configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Load is an alias for LoadConfig
func Load() (*Config, error) {
	return LoadConfig()
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.ServerAddress = getEnv("SERVER_ADDRESS", c.ServerAddress)
	if port := os.Getenv("PORT"); port != "" && os.Getenv("SERVER_ADDRESS") == "" {
		c.ServerAddress = ":" + port
	}
	c.Environment = getEnv("ENVIRONMENT", c.Environment)

	c.StorageDriver = strings.ToLower(getEnv("STORAGE_DRIVER", c.StorageDriver))
	c.SQLitePath = getEnv("SQLITE_PATH", c.SQLitePath)
	c.SeedContent = getEnvBool("SEED_CONTENT", c.SeedContent)

	c.AWSRegion = getEnv("AWS_REGION", c.AWSRegion)
	c.DynamoDBTable = getEnv("TABLE_NAME", getEnv("DYNAMODB_TABLE", c.DynamoDBTable))
	c.DynamoDBEndpoint = getEnv("DYNAMODB_ENDPOINT", c.DynamoDBEndpoint)
	c.EventBusName = getEnv("EVENT_BUS_NAME", c.EventBusName)
	c.EventSource = getEnv("EVENT_SOURCE", c.EventSource)
	c.MetricsNamespace = getEnv("METRICS_NAMESPACE", c.MetricsNamespace)

	c.LambdaFunctionName = getEnv("AWS_LAMBDA_FUNCTION_NAME", c.LambdaFunctionName)
	c.IsLambda = getEnvBool("IS_LAMBDA", c.LambdaFunctionName != "")

	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)

	c.JWTSecret = getEnv("JWT_SECRET", c.JWTSecret)
	c.JWTIssuer = getEnv("JWT_ISSUER", c.JWTIssuer)
	c.AccessTokenTTL = getEnvDuration("ACCESS_TOKEN_TTL", c.AccessTokenTTL)
	c.RefreshTokenTTL = getEnvDuration("REFRESH_TOKEN_TTL", c.RefreshTokenTTL)
	c.BcryptCost = getEnvInt("BCRYPT_COST", c.BcryptCost)

	c.IoTAPIKey = getEnv("IOT_API_KEY", c.IoTAPIKey)

	c.AuthRateLimit = getEnvInt("AUTH_RATE_LIMIT", c.AuthRateLimit)
	c.APIRateLimit = getEnvInt("API_RATE_LIMIT", c.APIRateLimit)
	c.RateLimitWindow = getEnvDuration("RATE_LIMIT_WINDOW", c.RateLimitWindow)
	c.QueryCache = getEnvBool("QUERY_CACHE", c.QueryCache)
	c.CacheTTLSeconds = getEnvInt("CACHE_TTL_SECONDS", c.CacheTTLSeconds)

	c.OTLPEndpoint = getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", c.OTLPEndpoint)
	if origins := os.Getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
		c.CORSAllowedOrigins = splitList(origins)
	}

	c.EnableMetrics = getEnvBool("ENABLE_METRICS", c.EnableMetrics)
	c.EnableTracing = getEnvBool("ENABLE_TRACING", c.EnableTracing)
	c.EnableCORS = getEnvBool("ENABLE_CORS", c.EnableCORS)
}

// Validate checks if all required configuration is present
func (c *Config) Validate() error {
	switch c.StorageDriver {
	case StorageSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required for the sqlite driver")
		}
	case StorageDynamoDB:
		if c.DynamoDBTable == "" {
			return fmt.Errorf("DYNAMODB_TABLE is required for the dynamodb driver")
		}
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.StorageDriver)
	}

	if c.Environment == "production" {
		if c.JWTSecret == "" {
			return fmt.Errorf("JWT_SECRET is required in production")
		}
		if c.EventBusName == "" {
			return fmt.Errorf("EVENT_BUS_NAME is required in production")
		}
	}

	if c.AccessTokenTTL <= 0 || c.RefreshTokenTTL <= 0 {
		return fmt.Errorf("token lifetimes must be positive")
	}
	if c.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive")
	}
	return nil
}

// IsDevelopment checks if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction checks if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// UsesAWS reports whether AWS clients are needed
func (c *Config) UsesAWS() bool {
	return c.StorageDriver == StorageDynamoDB || c.IsLambda
}

// QueryCacheActive reports whether query results may be cached in memory.
// Lambda and DynamoDB deployments run several instances against shared
// storage, and a write through one would not evict the others' entries.
func (c *Config) QueryCacheActive() bool {
	return c.QueryCache && !c.IsLambda && c.StorageDriver == StorageSQLite && c.CacheTTLSeconds > 0
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool gets a boolean environment variable with a default value
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

// getEnvInt gets an integer environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
