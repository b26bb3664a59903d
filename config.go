package blockgen

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"

	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	Mode         string
	ApiPort      string
	MainDatabase struct {
		Host         string
		Port         string
		User         string
		Password     string
		DatabaseName string
		SSLMode      string
	}
	JWTConfig struct {
		Secret            string
		Expiration        int // in minutes
		RefreshExpiration int // in days
	}
	RedisConfig struct {
		Host     string
		Port     string
		Password string
		DB       int
	}
	NatsConfig struct {
		URL      string
		TenantID string
	}
	SmtpConfig struct {
		Host     string
		Port     int
		Username string
		Password string
		From     string
		UseTLS   bool
	}
	ExportConfig    ExportConfig
	GeneratorConfig GeneratorConfig
}

// ExportConfig names the external SQL table artifacts are copied to.
// Export is disabled when DSN is empty.
type ExportConfig struct {
	Dialect string
	DSN     string
	Table   string
}

// GeneratorConfig holds the editor defaults applied to every generation
// request that does not override them.
type GeneratorConfig struct {
	CommentWrap   int
	LoopTrap      bool
	LoopTrapLimit int
	Format        bool
	CacheTTL      time.Duration
}

var config AppConfig

// InitConfig loads the env file and the logger. Infrastructure is opened
// separately by ConnectAll so the CLI can run without it.
func InitConfig(envfile string) {
	err := godotenv.Load(envfile)
	if err != nil {
		log.Fatal(fmt.Sprintf("Error loading %s file: %s", envfile, err))
	}
	config = AppConfig{
		Mode:    getEnvOrPanic("RUN_MODE"),
		ApiPort: getEnvOrPanic("API_PORT"),
		MainDatabase: struct {
			Host         string
			Port         string
			User         string
			Password     string
			DatabaseName string
			SSLMode      string
		}{
			Host:         getEnvOrPanic("DB_HOSTNAME"),
			Port:         getEnvOrPanic("DB_PORT"),
			User:         getEnvOrPanic("DB_USERNAME"),
			Password:     getEnvOrPanic("DB_PASSWORD"),
			DatabaseName: getEnvOrPanic("DB_NAME"),
			SSLMode:      getEnvOrPanic("DB_SSL_MODE"),
		},
		JWTConfig: struct {
			Secret            string
			Expiration        int
			RefreshExpiration int
		}{
			Secret:            getEnvOrPanic("JWT_SECRET"),
			Expiration:        getIntEnvOrPanic("JWT_EXPIRATION_MINUTES"),
			RefreshExpiration: getIntEnvOrPanic("JWT_REFRESH_EXPIRATION_DAYS"),
		},
		RedisConfig: struct {
			Host     string
			Port     string
			Password string
			DB       int
		}{
			Host:     GetEnv("REDIS_HOST", "localhost"),
			Port:     GetEnv("REDIS_PORT", "6379"),
			Password: GetEnv("REDIS_PASSWORD", ""),
			DB:       getIntEnvOrDefault("REDIS_DB", 0),
		},
		NatsConfig: struct {
			URL      string
			TenantID string
		}{
			URL:      GetEnv("NATS_URL", nats.DefaultURL),
			TenantID: GetEnv("TENANT_ID", "default"),
		},
		SmtpConfig: struct {
			Host     string
			Port     int
			Username string
			Password string
			From     string
			UseTLS   bool
		}{
			Host:     GetEnv("SMTP_HOST", ""),
			Port:     getIntEnvOrDefault("SMTP_PORT", 587),
			Username: GetEnv("SMTP_USERNAME", ""),
			Password: GetEnv("SMTP_PASSWORD", ""),
			From:     GetEnv("SMTP_FROM", "blockgen@localhost"),
			UseTLS:   getBoolEnvOrDefault("SMTP_USE_TLS", false),
		},
		ExportConfig: ExportConfig{
			Dialect: GetEnv("EXPORT_DIALECT", "postgres"),
			DSN:     GetEnv("EXPORT_DSN", ""),
			Table:   GetEnv("EXPORT_TABLE", "chaincode_artifacts"),
		},
		GeneratorConfig: GeneratorConfig{
			CommentWrap:   getIntEnvOrDefault("GEN_COMMENT_WRAP", 60),
			LoopTrap:      getBoolEnvOrDefault("GEN_LOOP_TRAP", false),
			LoopTrapLimit: getIntEnvOrDefault("GEN_LOOP_TRAP_LIMIT", 1000000),
			Format:        getBoolEnvOrDefault("GEN_FORMAT", false),
			CacheTTL:      time.Duration(getIntEnvOrDefault("GEN_CACHE_TTL_MINUTES", 60)) * time.Minute,
		},
	}

	Logger = NewLogger()
}

// ConnectAll opens the database, the cache and the message bus used by the
// API.
func ConnectAll() {
	DB = connectToPostgres(config.MainDatabase.Host, config.MainDatabase.User, config.MainDatabase.Password, config.MainDatabase.DatabaseName, config.MainDatabase.Port, config.MainDatabase.SSLMode)
	Redis = connectToRedis(config.RedisConfig.Host, config.RedisConfig.Port, config.RedisConfig.Password, config.RedisConfig.DB)
	Nats = connectToNats(config.NatsConfig.URL)
}

func GetConfig() AppConfig {
	return config
}

// SetConfig replaces the loaded configuration, mainly for tests
func SetConfig(c AppConfig) {
	config = c
}

func getEnvOrPanic(key string) string {
	value := os.Getenv(key)
	if value == "" {
		log.Fatalf("%s must be set", key)
	}
	return value
}

func GetEnv(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getIntEnvOrPanic(key string) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		log.Fatalf("%s must be an integer", key)
	}
	return value
}

func getIntEnvOrDefault(key string, defaultValue int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return defaultValue
	}
	return value
}

func getBoolEnvOrDefault(key string, defaultValue bool) bool {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return defaultValue
	}
	return value
}

func connectToPostgres(host string, username string, password string, dbname string, port string, ssl string) *gorm.DB {
	var err error
	var db *gorm.DB
	var conn *sql.DB

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		host, username, password, dbname, port, ssl)
	if db, err = gorm.Open(postgres.Open(dsn),
		&gorm.Config{
			Logger: logger.New(
				log.New(os.Stdout, "\r\n", log.LstdFlags),
				logger.Config{
					SlowThreshold: 0,
					LogLevel:      logger.Error,
				},
			),
			TranslateError: true,
			NowFunc: func() time.Time {
				return time.Now()
			},
			NamingStrategy: schema.NamingStrategy{
				SingularTable: true,
			}}); err != nil {
		panic(err)
	}
	if conn, err = db.DB(); err != nil {
		panic(err)
	}
	conn.SetMaxIdleConns(10)
	conn.SetMaxOpenConns(10)
	conn.SetConnMaxLifetime(time.Hour)
	return db
}

// NewLogger builds the console logger shared by every binary
func NewLogger() zerolog.Logger {
	return NewLoggerTo(os.Stdout)
}

// NewLoggerTo builds the console logger on w
func NewLoggerTo(w io.Writer) zerolog.Logger {
	output := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: "15:04:05",
		NoColor:    false,
		FormatLevel: func(i interface{}) string {
			return strings.ToUpper(fmt.Sprintf("| %-6s|", i))
		},
		FormatMessage: func(i interface{}) string {
			return fmt.Sprintf("  %s  ", i)
		},
		FormatFieldName: func(i interface{}) string {
			return fmt.Sprintf("%s=", i)
		},
		FormatFieldValue: func(i interface{}) string {
			return fmt.Sprintf("%s", i)
		},
	}

	return zerolog.New(output).With().Timestamp().Caller().Logger()
}

func connectToRedis(host string, port string, password string, db int) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", host, port),
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		panic(fmt.Sprintf("Failed to connect to Redis: %v", err))
	}

	return client
}

func connectToNats(url string) *nats.Conn {
	nc, err := nats.Connect(url,
		nats.Name("blockgen-api"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		panic(fmt.Sprintf("Failed to connect to NATS: %v", err))
	}
	return nc
}
