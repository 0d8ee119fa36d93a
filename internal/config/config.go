package config

import (
	"os"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Cache    CacheConfig
	Storage  StorageConfig
	Drive    DriveConfig
	Planner  PlannerConfig
	Pipeline PipelineConfig
	Log      LogConfig
}

type ServerConfig struct {
	Port           string
	Mode           string
	ReadTimeout    int
	WriteTimeout   int
	AllowedOrigins []string
	MaxUploadMB    int
}

type DatabaseConfig struct {
	Enabled       bool
	Host          string
	Port          string
	User          string
	Password      string
	DBName        string
	SSLMode       string
	MaxConcurrent int
}

type CacheConfig struct {
	Enabled          bool
	RedisURL         string
	RedisHost        string
	RedisPort        string
	RedisPassword    string
	RedisDB          int
	ResultTTLSeconds int
}

// StorageConfig points at an S3-compatible bucket holding datasets and exports.
type StorageConfig struct {
	Endpoint      string
	AccessKey     string
	SecretKey     string
	Bucket        string
	Region        string
	UseSSL        bool
	DatasetPrefix string
	ExportPrefix  string
}

type DriveConfig struct {
	CredentialsFile string
	FolderPath      string
}

// PlannerConfig carries the tunable planning constants.
type PlannerConfig struct {
	FestivalMultiplier       float64
	FestivalScreenMultiplier float64
	BufferFactor             float64
	SafetyFactor             float64
	ReorderFactor            float64
	CostReference            float64
	FestivalDates            []time.Time
}

type PipelineConfig struct {
	Workers   int
	InputDir  string
	OutputDir string
}

type LogConfig struct {
	Level  string
	Format string
}

const festivalDateLayout = "2006-01-02"

var (
	once     sync.Once
	instance *Config
)

func Load() *Config {
	once.Do(func() {
		// Load .env file if it exists
		_ = godotenv.Load()

		setDefaults()

		// Read from environment variables
		viper.AutomaticEnv()

		ensureDir(viper.GetString("PIPELINE_OUTPUT_DIR"))

		instance = &Config{
			Server: ServerConfig{
				Port:           viper.GetString("SERVER_PORT"),
				Mode:           viper.GetString("SERVER_MODE"),
				ReadTimeout:    viper.GetInt("SERVER_READ_TIMEOUT"),
				WriteTimeout:   viper.GetInt("SERVER_WRITE_TIMEOUT"),
				AllowedOrigins: viper.GetStringSlice("SERVER_ALLOWED_ORIGINS"),
				MaxUploadMB:    viper.GetInt("SERVER_MAX_UPLOAD_MB"),
			},
			Database: DatabaseConfig{
				Enabled:       viper.GetBool("DB_ENABLED"),
				Host:          viper.GetString("DB_HOST"),
				Port:          viper.GetString("DB_PORT"),
				User:          viper.GetString("DB_USER"),
				Password:      viper.GetString("DB_PASSWORD"),
				DBName:        viper.GetString("DB_NAME"),
				SSLMode:       viper.GetString("DB_SSLMODE"),
				MaxConcurrent: viper.GetInt("DB_MAX_CONCURRENT"),
			},
			Cache: CacheConfig{
				Enabled:          viper.GetBool("CACHE_ENABLED"),
				RedisURL:         viper.GetString("REDIS_URL"),
				RedisHost:        viper.GetString("REDIS_HOST"),
				RedisPort:        viper.GetString("REDIS_PORT"),
				RedisPassword:    viper.GetString("REDIS_PASSWORD"),
				RedisDB:          viper.GetInt("REDIS_DB"),
				ResultTTLSeconds: viper.GetInt("CACHE_RESULT_TTL_SECONDS"),
			},
			Storage: StorageConfig{
				Endpoint:      viper.GetString("STORAGE_ENDPOINT"),
				AccessKey:     viper.GetString("STORAGE_ACCESS_KEY"),
				SecretKey:     viper.GetString("STORAGE_SECRET_KEY"),
				Bucket:        viper.GetString("STORAGE_BUCKET"),
				Region:        viper.GetString("STORAGE_REGION"),
				UseSSL:        viper.GetBool("STORAGE_USE_SSL"),
				DatasetPrefix: viper.GetString("STORAGE_DATASET_PREFIX"),
				ExportPrefix:  viper.GetString("STORAGE_EXPORT_PREFIX"),
			},
			Drive: DriveConfig{
				CredentialsFile: viper.GetString("GOOGLE_APPLICATION_CREDENTIALS"),
				FolderPath:      viper.GetString("DRIVE_FOLDER_PATH"),
			},
			Planner: PlannerConfig{
				FestivalMultiplier:       viper.GetFloat64("PLANNER_FESTIVAL_MULTIPLIER"),
				FestivalScreenMultiplier: viper.GetFloat64("PLANNER_FESTIVAL_SCREEN_MULTIPLIER"),
				BufferFactor:             viper.GetFloat64("PLANNER_BUFFER_FACTOR"),
				SafetyFactor:             viper.GetFloat64("PLANNER_SAFETY_FACTOR"),
				ReorderFactor:            viper.GetFloat64("PLANNER_REORDER_FACTOR"),
				CostReference:            viper.GetFloat64("PLANNER_COST_REFERENCE"),
				FestivalDates:            ParseFestivalDates(viper.GetString("PLANNER_FESTIVAL_DATES")),
			},
			Pipeline: PipelineConfig{
				Workers:   viper.GetInt("PIPELINE_WORKERS"),
				InputDir:  viper.GetString("PIPELINE_INPUT_DIR"),
				OutputDir: viper.GetString("PIPELINE_OUTPUT_DIR"),
			},
			Log: LogConfig{
				Level:  viper.GetString("LOG_LEVEL"),
				Format: viper.GetString("LOG_FORMAT"),
			},
		}
	})

	return instance
}

func setDefaults() {
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SERVER_MODE", "debug")
	viper.SetDefault("SERVER_READ_TIMEOUT", 15)
	viper.SetDefault("SERVER_WRITE_TIMEOUT", 30)
	viper.SetDefault("SERVER_ALLOWED_ORIGINS", []string{"*"})
	viper.SetDefault("SERVER_MAX_UPLOAD_MB", 20)

	viper.SetDefault("DB_ENABLED", false)
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_USER", "postgres")
	viper.SetDefault("DB_PASSWORD", "postgres")
	viper.SetDefault("DB_NAME", "supplyplan")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("DB_MAX_CONCURRENT", 4)

	viper.SetDefault("CACHE_ENABLED", false)
	viper.SetDefault("REDIS_URL", "")
	viper.SetDefault("REDIS_HOST", "127.0.0.1")
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("CACHE_RESULT_TTL_SECONDS", 300)

	viper.SetDefault("STORAGE_REGION", "us-east-1")
	viper.SetDefault("STORAGE_USE_SSL", true)
	viper.SetDefault("STORAGE_DATASET_PREFIX", "datasets/")
	viper.SetDefault("STORAGE_EXPORT_PREFIX", "exports/")

	viper.SetDefault("PLANNER_FESTIVAL_MULTIPLIER", 1.45)
	viper.SetDefault("PLANNER_FESTIVAL_SCREEN_MULTIPLIER", 1.35)
	viper.SetDefault("PLANNER_BUFFER_FACTOR", 1.2)
	viper.SetDefault("PLANNER_SAFETY_FACTOR", 0.3)
	viper.SetDefault("PLANNER_REORDER_FACTOR", 0.8)
	viper.SetDefault("PLANNER_COST_REFERENCE", 15.0)
	viper.SetDefault("PLANNER_FESTIVAL_DATES", "2025-10-20,2025-11-01")

	viper.SetDefault("PIPELINE_WORKERS", 4)
	viper.SetDefault("PIPELINE_INPUT_DIR", "./data/datasets")
	viper.SetDefault("PIPELINE_OUTPUT_DIR", "./data/output")

	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", "console")
}

// ParseFestivalDates parses a comma separated list of YYYY-MM-DD dates.
// Invalid entries are skipped.
func ParseFestivalDates(raw string) []time.Time {
	var dates []time.Time
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		d, err := time.Parse(festivalDateLayout, part)
		if err != nil {
			log.Warn().Str("value", part).Msg("Ignoring invalid festival date")
			continue
		}
		dates = append(dates, d)
	}
	return dates
}

func ensureDir(dir string) {
	if dir == "" {
		return
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Fatal().Err(err).Str("dir", dir).Msg("Failed to create directory")
		}
	}
}
