package config

import (
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Cache    CacheConfig
	Sim      SimConfig
	Report   ReportConfig
}

type ServerConfig struct {
	Port           string
	Mode           string
	ReadTimeout    int
	WriteTimeout   int
	AllowedOrigins []string
}

type DatabaseConfig struct {
	Enabled  bool
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type CacheConfig struct {
	Enabled           bool
	RedisURL          string
	RedisHost         string
	RedisPort         string
	RedisPassword     string
	RedisDB           int
	SummaryTTLSeconds int
}

// SimConfig holds the simulation tunables. The defaults mirror the
// warehouse the engine was calibrated against.
type SimConfig struct {
	WarehouseCapacity int
	LowStockThreshold int
	RestockTarget     int
	InitialGasPrice   float64
	Seed              int64
}

type ReportConfig struct {
	Enabled   bool
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	UseSSL    bool
}

var (
	once     sync.Once
	instance *Config
)

func Load() *Config {
	once.Do(func() {
		// Load .env file if it exists
		_ = godotenv.Load()

		// Set default values
		viper.SetDefault("SERVER_PORT", "8080")
		viper.SetDefault("SERVER_MODE", "debug")
		viper.SetDefault("SERVER_ALLOWED_ORIGINS", []string{"*"})
		viper.SetDefault("DB_ENABLED", false)
		viper.SetDefault("DB_HOST", "localhost")
		viper.SetDefault("DB_PORT", "5432")
		viper.SetDefault("DB_USER", "postgres")
		viper.SetDefault("DB_PASSWORD", "postgres")
		viper.SetDefault("DB_NAME", "wareflow")
		viper.SetDefault("DB_SSLMODE", "disable")
		viper.SetDefault("CACHE_ENABLED", false)
		viper.SetDefault("REDIS_URL", "")
		viper.SetDefault("REDIS_HOST", "127.0.0.1")
		viper.SetDefault("REDIS_PORT", "6379")
		viper.SetDefault("REDIS_PASSWORD", "")
		viper.SetDefault("REDIS_DB", 0)
		viper.SetDefault("CACHE_SUMMARY_TTL_SECONDS", 60)
		viper.SetDefault("SIM_WAREHOUSE_CAPACITY", 25000)
		viper.SetDefault("SIM_LOW_STOCK_THRESHOLD", 300)
		viper.SetDefault("SIM_RESTOCK_TARGET", 500)
		viper.SetDefault("SIM_INITIAL_GAS_PRICE", 3.0)
		viper.SetDefault("SIM_SEED", 0)
		viper.SetDefault("REPORT_ENABLED", false)
		viper.SetDefault("REPORT_ENDPOINT", "")
		viper.SetDefault("REPORT_ACCESS_KEY", "")
		viper.SetDefault("REPORT_SECRET_KEY", "")
		viper.SetDefault("REPORT_BUCKET", "wareflow-reports")
		viper.SetDefault("REPORT_REGION", "us-east-1")
		viper.SetDefault("REPORT_USE_SSL", true)

		// Read from environment variables
		viper.AutomaticEnv()

		instance = &Config{
			Server: ServerConfig{
				Port:           viper.GetString("SERVER_PORT"),
				Mode:           viper.GetString("SERVER_MODE"),
				ReadTimeout:    viper.GetInt("SERVER_READ_TIMEOUT"),
				WriteTimeout:   viper.GetInt("SERVER_WRITE_TIMEOUT"),
				AllowedOrigins: viper.GetStringSlice("SERVER_ALLOWED_ORIGINS"),
			},
			Database: DatabaseConfig{
				Enabled:  viper.GetBool("DB_ENABLED"),
				Host:     viper.GetString("DB_HOST"),
				Port:     viper.GetString("DB_PORT"),
				User:     viper.GetString("DB_USER"),
				Password: viper.GetString("DB_PASSWORD"),
				DBName:   viper.GetString("DB_NAME"),
				SSLMode:  viper.GetString("DB_SSLMODE"),
			},
			Cache: CacheConfig{
				Enabled:           viper.GetBool("CACHE_ENABLED"),
				RedisURL:          viper.GetString("REDIS_URL"),
				RedisHost:         viper.GetString("REDIS_HOST"),
				RedisPort:         viper.GetString("REDIS_PORT"),
				RedisPassword:     viper.GetString("REDIS_PASSWORD"),
				RedisDB:           viper.GetInt("REDIS_DB"),
				SummaryTTLSeconds: viper.GetInt("CACHE_SUMMARY_TTL_SECONDS"),
			},
			Sim: SimConfig{
				WarehouseCapacity: viper.GetInt("SIM_WAREHOUSE_CAPACITY"),
				LowStockThreshold: viper.GetInt("SIM_LOW_STOCK_THRESHOLD"),
				RestockTarget:     viper.GetInt("SIM_RESTOCK_TARGET"),
				InitialGasPrice:   viper.GetFloat64("SIM_INITIAL_GAS_PRICE"),
				Seed:              viper.GetInt64("SIM_SEED"),
			},
			Report: ReportConfig{
				Enabled:   viper.GetBool("REPORT_ENABLED"),
				Endpoint:  viper.GetString("REPORT_ENDPOINT"),
				AccessKey: viper.GetString("REPORT_ACCESS_KEY"),
				SecretKey: viper.GetString("REPORT_SECRET_KEY"),
				Bucket:    viper.GetString("REPORT_BUCKET"),
				Region:    viper.GetString("REPORT_REGION"),
				UseSSL:    viper.GetBool("REPORT_USE_SSL"),
			},
		}
	})

	return instance
}
