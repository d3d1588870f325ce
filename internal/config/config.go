package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Config struct {
	Env          string     `yaml:"env" env:"ENV" env-default:"local"`
	StoragePath  string     `yaml:"storage_path" env:"STORAGE_PATH" env-default:"nerdhub.db"`
	AssetsDir    string     `yaml:"assets_dir" env:"ASSETS_DIR" env-default:"."`
	SeedTestUser string     `yaml:"seed_test_user" env:"SEED_TEST_USER"`
	HTTP         HTTPConfig `yaml:"http"`
}

type HTTPConfig struct {
	Host          string `yaml:"host" env:"HTTP_HOST" env-default:"127.0.0.1"`
	Port          string `yaml:"port" env:"HTTP_PORT" env-default:"8080"`
	Debug         bool   `yaml:"debug" env:"HTTP_DEBUG" env-default:"false"`
	SessionSecret string `yaml:"session_secret" env:"SESSION_SECRET" env-default:"nerdhub-local-secret"`
}

// MustLoad читает конфиг по пути из флага --config или CONFIG_PATH.
// Без файла все значения берутся из окружения.
func MustLoad(configPath string) *Config {
	// .env необязателен
	_ = godotenv.Load()

	if configPath == "" {
		configPath = os.Getenv("CONFIG_PATH")
	}

	var (
		cfg *Config
		err error
	)

	if configPath == "" {
		cfg, err = ReadEnv()
	} else {
		cfg, err = Load(configPath)
	}
	if err != nil {
		panic(err)
	}

	return cfg
}

func Load(configPath string) (*Config, error) {
	const op = "config.Load"

	// check if file exists
	if _, err := os.Stat(configPath); errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%s: config file does not exist: %s", op, configPath)
	}

	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, fmt.Errorf("%s: cannot read config: %w", op, err)
	}

	cfg.resolvePaths(executableDir())

	return &cfg, nil
}

func ReadEnv() (*Config, error) {
	const op = "config.ReadEnv"

	var cfg Config

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	cfg.resolvePaths(executableDir())

	return &cfg, nil
}

// SeedsTestUser: явное значение seed_test_user, иначе только в local.
func (c *Config) SeedsTestUser() bool {
	if v, err := strconv.ParseBool(c.SeedTestUser); err == nil {
		return v
	}

	return c.Env == "local"
}

// resolvePaths привязывает относительные пути к каталогу бинарника,
// чтобы база не зависела от рабочей директории.
func (c *Config) resolvePaths(base string) {
	if base == "" {
		return
	}

	if c.StoragePath != "" && !filepath.IsAbs(c.StoragePath) {
		c.StoragePath = filepath.Join(base, c.StoragePath)
	}
	if c.AssetsDir != "" && !filepath.IsAbs(c.AssetsDir) {
		c.AssetsDir = filepath.Join(base, c.AssetsDir)
	}
}

func executableDir() string {
	exe, err := os.Executable()
	if err != nil {
		return ""
	}

	return filepath.Dir(exe)
}
