package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Config struct {
	Env        string           `yaml:"env" env:"ENV" env-default:"local"`
	HTTPServer HTTPServerConfig `yaml:"http_server"`
	MongoDB    MongoDBConfig    `yaml:"mongo"`
	Redis      RedisConfig      `yaml:"redis"`
	NATS       NATSConfig       `yaml:"nats"`
	Auth       AuthConfig       `yaml:"auth"`
	Storage    StorageConfig    `yaml:"storage"`
	Catalog    CatalogConfig    `yaml:"catalog"`
	SMTP       SMTPConfig       `yaml:"smtp"`
	Logger     LoggerConfig     `yaml:"logger"`
	Metrics    MetricsConfig    `yaml:"metrics"`
	Tracing    TracingConfig    `yaml:"tracing"`
}

type HTTPServerConfig struct {
	Port            string        `yaml:"port" env:"HTTP_PORT" env-default:"5000"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env:"HTTP_READ_TIMEOUT" env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env:"HTTP_WRITE_TIMEOUT" env-default:"30s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"15s"`
}

type MongoDBConfig struct {
	URI      string `yaml:"uri" env:"MONGO_URI" env-default:"mongodb://localhost:27017"`
	User     string `yaml:"user" env:"MONGO_USER"`
	Password string `yaml:"password" env:"MONGO_PASSWORD"`
	Database string `yaml:"database" env:"MONGO_DATABASE" env-default:"sellsgoods"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr" env:"REDIS_ADDR" env-default:"localhost:6379"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"REDIS_DB" env-default:"0"`
}

type NATSConfig struct {
	URL string `yaml:"url" env:"NATS_URL" env-default:"nats://localhost:4222"`
}

type AuthConfig struct {
	JWTSecret string        `yaml:"jwt_secret" env:"JWT_SECRET" env-required:"true"`
	TokenTTL  time.Duration `yaml:"token_ttl" env:"TOKEN_TTL" env-default:"720h"`
}

// StorageConfig selects the image storage backend. Backend "disk" writes under
// UploadsDir and serves files from /uploads/; "minio" puts objects in a bucket.
type StorageConfig struct {
	Backend        string `yaml:"backend" env:"STORAGE_BACKEND" env-default:"disk"`
	UploadsDir     string `yaml:"uploads_dir" env:"UPLOADS_DIR" env-default:"uploads"`
	MinIOEndpoint  string `yaml:"minio_endpoint" env:"MINIO_ENDPOINT" env-default:"localhost:9000"`
	MinIOAccessKey string `yaml:"minio_access_key" env:"MINIO_ACCESS_KEY"`
	MinIOSecretKey string `yaml:"minio_secret_key" env:"MINIO_SECRET_KEY"`
	MinIOBucket    string `yaml:"minio_bucket" env:"MINIO_BUCKET" env-default:"product-images"`
	MinIOUseSSL    bool   `yaml:"minio_use_ssl" env:"MINIO_USE_SSL" env-default:"false"`
}

type CatalogConfig struct {
	GroupedPerCategory int           `yaml:"grouped_per_category" env:"CATALOG_GROUPED_PER_CATEGORY" env-default:"8"`
	GroupedCacheTTL    time.Duration `yaml:"grouped_cache_ttl" env:"CATALOG_GROUPED_CACHE_TTL" env-default:"1m"`
}

type SMTPConfig struct {
	Host        string `yaml:"host" env:"SMTP_HOST"`
	Port        int    `yaml:"port" env:"SMTP_PORT" env-default:"587"`
	Username    string `yaml:"username" env:"SMTP_USERNAME"`
	Password    string `yaml:"password" env:"SMTP_PASSWORD"`
	SenderEmail string `yaml:"sender_email" env:"SMTP_SENDER_EMAIL"`
	Encryption  string `yaml:"encryption" env:"SMTP_ENCRYPTION" env-default:"tls"`
}

type LoggerConfig struct {
	Level      string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
	Encoding   string `yaml:"encoding" env:"LOG_ENCODING" env-default:"json"`
	TimeFormat string `yaml:"time_format" env:"LOG_TIME_FORMAT" env-default:"2006-01-02T15:04:05.000Z07:00"`
}

type MetricsConfig struct {
	Port string `yaml:"port" env:"METRICS_PORT"`
}

type TracingConfig struct {
	Enabled      bool   `yaml:"enabled" env:"TRACING_ENABLED" env-default:"false"`
	OTLPEndpoint string `yaml:"otlp_endpoint" env:"OTEL_EXPORTER_OTLP_ENDPOINT" env-default:"localhost:4317"`
}

func LoadConfig(path string) (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if path == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, err
		}
		return &cfg, nil
	}

	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		if _, ok := err.(*os.PathError); ok {
			log.Printf("Warning: config file not found at %s, loading from environment only", path)
			if errEnv := cleanenv.ReadEnv(&cfg); errEnv != nil {
				return nil, errEnv
			}
			return &cfg, nil
		}
		return nil, err
	}
	return &cfg, nil
}

func MustLoad() *Config {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "config.yaml"
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		log.Fatalf("cannot load config: %v", err)
	}
	return cfg
}
