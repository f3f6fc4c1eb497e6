package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL  string
	DatabaseName string
	Port         int
	LogLevel     string
	AppEnv       string
}

func Load() *Config {
	// .env is optional; deployments set real environment variables.
	_ = godotenv.Load()

	port, err := strconv.Atoi(os.Getenv("PORT"))
	if err != nil {
		port = 8000 // fallback
	}

	name := os.Getenv("DATABASE_NAME")
	if name == "" {
		name = "app"
	}

	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		level = "info"
	}

	return &Config{
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		DatabaseName: name,
		Port:         port,
		LogLevel:     level,
		AppEnv:       os.Getenv("APP_ENV"),
	}
}

func (c *Config) Addr() string {
	return ":" + strconv.Itoa(c.Port)
}
