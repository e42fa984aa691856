package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Mongo     MongoConfig
	Cache     CacheConfig
	Log       LogConfig
	Engine    EngineConfig
	Worker    WorkerConfig
	Firebase  FirebaseConfig
	Publisher PublisherConfig
}

type ServerConfig struct {
	Host        string
	Port        int
	Env         string
	CORSOrigins string
}

type DatabaseConfig struct {
	Enabled         bool
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxConns        int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type MongoConfig struct {
	URI                  string
	Database             string
	StationsCollection   string
	PassengersCollection string
	ConnectTimeout       time.Duration
}

type CacheConfig struct {
	ViewCacheTTL time.Duration
}

type LogConfig struct {
	Level          string
	File           string
	FileMaxSizeMB  int
	FileMaxBackups int
	FileMaxAgeDays int
}

type EngineConfig struct {
	Mode                 string
	MinJourneyDistanceKm float64
	PendingTTL           time.Duration
	NoShowRevertWindow   time.Duration
	SleeperCoaches       int
	ThreeTierACCoaches   int
	StrictInvariants     bool
}

type WorkerConfig struct {
	Enabled          bool
	ConsumerGroup    string
	ExpiryInterval   time.Duration
	NotifyMaxRetries int
}

type FirebaseConfig struct {
	Enabled           bool
	CredentialsBase64 string
}

type PublisherConfig struct {
	Concurrency        int
	SnapshotMaxElapsed time.Duration
}

func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		// .env опционален, переменные окружения достаточно
		var pathErr *fs.PathError
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &pathErr) && !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: viper.GetString("API_HOST"),
			Port: viper.GetInt("API_PORT"),
			Env:  viper.GetString("API_ENV"),

			CORSOrigins: viper.GetString("CORS_ORIGINS"),
		},
		Database: DatabaseConfig{
			Enabled:         viper.GetBool("DB_ENABLED"),
			Host:            viper.GetString("DB_HOST"),
			Port:            viper.GetInt("DB_PORT"),
			User:            viper.GetString("DB_USER"),
			Password:        viper.GetString("DB_PASSWORD"),
			DBName:          viper.GetString("DB_NAME"),
			SSLMode:         viper.GetString("DB_SSLMODE"),
			MaxConns:        viper.GetInt("DB_MAX_CONNS"),
			MaxIdleConns:    viper.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: time.Duration(viper.GetInt("DB_CONN_MAX_LIFETIME")) * time.Second,
			ConnMaxIdleTime: time.Duration(viper.GetInt("DB_CONN_MAX_IDLE_TIME")) * time.Second,
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetInt("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		Mongo: MongoConfig{
			URI:                  viper.GetString("MONGO_URI"),
			Database:             viper.GetString("MONGO_DATABASE"),
			StationsCollection:   viper.GetString("MONGO_STATIONS_COLLECTION"),
			PassengersCollection: viper.GetString("MONGO_PASSENGERS_COLLECTION"),
			ConnectTimeout:       time.Duration(viper.GetInt("MONGO_CONNECT_TIMEOUT")) * time.Second,
		},
		Cache: CacheConfig{
			ViewCacheTTL: time.Duration(viper.GetInt("VIEW_CACHE_TTL")) * time.Second,
		},
		Log: LogConfig{
			Level:          viper.GetString("LOG_LEVEL"),
			File:           viper.GetString("LOG_FILE"),
			FileMaxSizeMB:  viper.GetInt("LOG_FILE_MAX_SIZE_MB"),
			FileMaxBackups: viper.GetInt("LOG_FILE_MAX_BACKUPS"),
			FileMaxAgeDays: viper.GetInt("LOG_FILE_MAX_AGE_DAYS"),
		},
		Engine: EngineConfig{
			Mode:                 strings.ToUpper(strings.TrimSpace(viper.GetString("REALLOCATION_MODE"))),
			MinJourneyDistanceKm: viper.GetFloat64("MIN_JOURNEY_DISTANCE_KM"),
			PendingTTL:           time.Duration(viper.GetInt("PENDING_TTL")) * time.Second,
			NoShowRevertWindow:   time.Duration(viper.GetInt("NO_SHOW_REVERT_WINDOW")) * time.Second,
			SleeperCoaches:       viper.GetInt("SLEEPER_COACHES"),
			ThreeTierACCoaches:   viper.GetInt("THREE_TIER_AC_COACHES"),
			StrictInvariants:     viper.GetBool("ENGINE_STRICT_INVARIANTS"),
		},
		Worker: WorkerConfig{
			Enabled:          viper.GetBool("WORKER_ENABLED"),
			ConsumerGroup:    viper.GetString("WORKER_CONSUMER_GROUP"),
			ExpiryInterval:   time.Duration(viper.GetInt("EXPIRY_INTERVAL")) * time.Second,
			NotifyMaxRetries: viper.GetInt("NOTIFY_MAX_RETRIES"),
		},
		Firebase: FirebaseConfig{
			Enabled:           viper.GetBool("FIREBASE_ENABLED"),
			CredentialsBase64: viper.GetString("FIREBASE_CREDENTIALS_BASE64"),
		},
		Publisher: PublisherConfig{
			Concurrency:        viper.GetInt("SIDE_EFFECT_CONCURRENCY"),
			SnapshotMaxElapsed: time.Duration(viper.GetInt("SNAPSHOT_MAX_ELAPSED")) * time.Second,
		},
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults - значения по умолчанию для незаданных параметров
func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.CORSOrigins == "" {
		c.Server.CORSOrigins = "http://localhost:3000,http://localhost:5173"
	}
	if c.Redis.Host == "" {
		c.Redis.Host = "localhost"
	}
	if c.Redis.Port == 0 {
		c.Redis.Port = 6379
	}
	if c.Mongo.Database == "" {
		c.Mongo.Database = "rac"
	}
	if c.Mongo.StationsCollection == "" {
		c.Mongo.StationsCollection = "stations"
	}
	if c.Mongo.PassengersCollection == "" {
		c.Mongo.PassengersCollection = "passengers"
	}
	if c.Mongo.ConnectTimeout == 0 {
		c.Mongo.ConnectTimeout = 30 * time.Second
	}
	if c.Cache.ViewCacheTTL == 0 {
		c.Cache.ViewCacheTTL = 30 * time.Second
	}
	if c.Engine.Mode == "" {
		c.Engine.Mode = "APPROVAL"
	}
	if c.Engine.MinJourneyDistanceKm == 0 {
		c.Engine.MinJourneyDistanceKm = 70
	}
	if c.Engine.PendingTTL == 0 {
		c.Engine.PendingTTL = time.Hour
	}
	if c.Engine.NoShowRevertWindow == 0 {
		c.Engine.NoShowRevertWindow = 30 * time.Minute
	}
	if c.Engine.SleeperCoaches == 0 && c.Engine.ThreeTierACCoaches == 0 {
		c.Engine.SleeperCoaches = 9
	}
	if c.Worker.ConsumerGroup == "" {
		c.Worker.ConsumerGroup = "rac-notification-workers"
	}
	if c.Worker.ExpiryInterval == 0 {
		c.Worker.ExpiryInterval = time.Minute
	}
	if c.Worker.NotifyMaxRetries == 0 {
		c.Worker.NotifyMaxRetries = 3
	}
	if c.Publisher.Concurrency == 0 {
		c.Publisher.Concurrency = 4
	}
	if c.Publisher.SnapshotMaxElapsed == 0 {
		c.Publisher.SnapshotMaxElapsed = 10 * time.Second
	}
}

// Validate - проверка согласованности конфигурации
func (c *Config) Validate() error {
	switch c.Engine.Mode {
	case "AUTO", "APPROVAL":
	default:
		return fmt.Errorf("invalid REALLOCATION_MODE %q: expected AUTO or APPROVAL", c.Engine.Mode)
	}
	if c.Engine.SleeperCoaches < 0 || c.Engine.ThreeTierACCoaches < 0 {
		return fmt.Errorf("coach counts must not be negative")
	}
	if c.Firebase.Enabled && c.Firebase.CredentialsBase64 == "" {
		return fmt.Errorf("FIREBASE_ENABLED requires FIREBASE_CREDENTIALS_BASE64")
	}
	return nil
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
		c.Database.SSLMode,
	)
}

func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}
