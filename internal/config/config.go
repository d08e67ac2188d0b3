package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env            string `yaml:"env" env:"APP_ENV" env-default:"local"`
	StorageBackend string `yaml:"storage_backend" env:"STORAGE_BACKEND" env-default:"redis"`
	StoragePath    string `yaml:"storage_path" env:"STORAGE_PATH" env-default:""`
	RedisAddr      string `yaml:"redis_addr" env:"REDIS_ADDR" env-default:"localhost:6379"`
	HTTPServer     `yaml:"http_server"`
	Inference      `yaml:"inference"`
}

type HTTPServer struct {
	Address         string        `yaml:"address" env-default:"localhost:8080"`
	Timeout         time.Duration `yaml:"timeout" env-default:"4s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env-default:"15s"`
}

type Inference struct {
	BaseURL string        `yaml:"base_url" env:"INFERENCE_URL" env-default:"http://localhost:8000"`
	Timeout time.Duration `yaml:"timeout" env:"INFERENCE_TIMEOUT" env-default:"10s"`
	Skip    bool          `yaml:"skip" env:"INFERENCE_SKIP" env-default:"true"`
}

func MustLoad() *Config {
	var cfg Config

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml"
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("Config file does not exist: %s", configPath)
	}

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("Failed to read config file: %v", err)
	}

	return &cfg
}
