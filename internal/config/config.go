package config

import (
	"log"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Env        string
	DevPostID  int64
	Database   Database
	Redis      Redis
	Prometheus Prometheus
	Thumbnails Thumbnails
	Resolution Resolution
}

type Database struct {
	Username       string
	Password       string
	Host           string
	Port           string
	DbName         string
	MigrationsPath string
}

type Redis struct {
	Address  string
	Port     int
	Password string
	DB       int
	PoolSize int
}

type Prometheus struct {
	Address string
	Port    int
}

type Thumbnails struct {
	Dir          string
	MaxDimension int
}

type Resolution struct {
	BaseURL  string
	Timeout  time.Duration
	CacheTTL time.Duration
}

func MustLoad() *Config {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")

	viper.SetDefault("env", "dev")
	viper.SetDefault("dev_post_id", 1)

	viper.SetDefault("database.username", "postgres")
	viper.SetDefault("database.password", "admin")
	viper.SetDefault("database.host", "media-db")
	viper.SetDefault("database.port", "5432")
	viper.SetDefault("database.db_name", "mediasync")
	viper.SetDefault("database.migrations_path", "migrations")

	viper.SetDefault("redis.address", "redis")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("redis.pool_size", 10)

	viper.SetDefault("prometheus.address", "0.0.0.0")
	viper.SetDefault("prometheus.port", 9104)

	viper.SetDefault("thumbnails.dir", "")
	viper.SetDefault("thumbnails.max_dimension", 300)

	viper.SetDefault("resolution.base_url", "http://media-resolution:8080")
	viper.SetDefault("resolution.timeout_seconds", 10)
	viper.SetDefault("resolution.cache_ttl_minutes", 60)

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Error reading config file: %s", err)
		os.Exit(1)
	}

	config := &Config{
		Env:       viper.GetString("env"),
		DevPostID: viper.GetInt64("dev_post_id"),
		Database: Database{
			Username:       viper.GetString("database.username"),
			Password:       viper.GetString("database.password"),
			Host:           viper.GetString("database.host"),
			Port:           viper.GetString("database.port"),
			DbName:         viper.GetString("database.db_name"),
			MigrationsPath: viper.GetString("database.migrations_path"),
		},
		Redis: Redis{
			Address:  viper.GetString("redis.address"),
			Port:     viper.GetInt("redis.port"),
			Password: viper.GetString("redis.password"),
			DB:       viper.GetInt("redis.db"),
			PoolSize: viper.GetInt("redis.pool_size"),
		},
		Prometheus: Prometheus{
			Address: viper.GetString("prometheus.address"),
			Port:    viper.GetInt("prometheus.port"),
		},
		Thumbnails: Thumbnails{
			Dir:          viper.GetString("thumbnails.dir"),
			MaxDimension: viper.GetInt("thumbnails.max_dimension"),
		},
		Resolution: Resolution{
			BaseURL:  viper.GetString("resolution.base_url"),
			Timeout:  time.Duration(viper.GetInt("resolution.timeout_seconds")) * time.Second,
			CacheTTL: time.Duration(viper.GetInt("resolution.cache_ttl_minutes")) * time.Minute,
		},
	}

	return config
}
