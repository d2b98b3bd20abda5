package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

type Config struct {
	Tokenizer  TokenizerConfig  `mapstructure:"tokenizer"`
	Dictionary DictionaryConfig `mapstructure:"dictionary"`
	Input      InputConfig      `mapstructure:"input"`
	Collection CollectionConfig `mapstructure:"collection"`
	Templates  TemplatesConfig  `mapstructure:"templates"`
	Outputs    OutputsConfig    `mapstructure:"outputs"`
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
}

type TokenizerConfig struct {
	Backend        string `mapstructure:"backend" validate:"oneof=http kagome"`
	Endpoint       string `mapstructure:"endpoint" validate:"required_if=Backend http,omitempty,url"`
	Language       string `mapstructure:"language" validate:"required"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds" validate:"min=0"`
}

func (c TokenizerConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

type DictionaryConfig struct {
	Endpoint       string      `mapstructure:"endpoint" validate:"required,url"`
	Language       string      `mapstructure:"language" validate:"required"`
	TimeoutSeconds int         `mapstructure:"timeout_seconds" validate:"min=0"`
	RetryAttempts  int         `mapstructure:"retry_attempts" validate:"min=0"`
	Concurrency    int         `mapstructure:"concurrency" validate:"min=0"`
	Cache          CacheConfig `mapstructure:"cache"`
}

func (c DictionaryConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

type CacheConfig struct {
	Type      string `mapstructure:"type" validate:"oneof=memory file database"`
	Directory string `mapstructure:"directory" validate:"required_if=Type file"`
}

type InputConfig struct {
	DebounceMs int `mapstructure:"debounce_ms" validate:"min=1"`
}

type CollectionConfig struct {
	File string `mapstructure:"file"`
}

type TemplatesConfig struct {
	MarkdownTemplate string `mapstructure:"markdown_template" validate:"omitempty,file"`
	HTMLTemplate     string `mapstructure:"html_template" validate:"omitempty,file"`
}

type OutputsConfig struct {
	Directory string `mapstructure:"directory"`
}

type ServerConfig struct {
	Port int        `mapstructure:"port" validate:"min=0,max=65535"`
	CORS CORSConfig `mapstructure:"cors"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type DatabaseConfig struct {
	Host            string            `mapstructure:"host"`
	Port            int               `mapstructure:"port"`
	Database        string            `mapstructure:"database"`
	Username        string            `mapstructure:"username"`
	Password        string            `mapstructure:"password"`
	TLS             bool              `mapstructure:"tls"`
	Params          map[string]string `mapstructure:"params"`
	MaxOpenConns    int               `mapstructure:"max_open_conns"`
	MaxIdleConns    int               `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int               `mapstructure:"conn_max_lifetime_seconds"`
}

type ConfigLoader struct {
	viper      *viper.Viper
	validator  *validator.Validate
	translator ut.Translator
}

func NewConfigLoader(configFile string) (*ConfigLoader, error) {
	validate, trans, err := newValidator()
	if err != nil {
		return nil, fmt.Errorf("failed to create new validator: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/annotext")
	}

	return &ConfigLoader{
		viper:      v,
		validator:  validate,
		translator: trans,
	}, nil
}

func (loader *ConfigLoader) Load() (*Config, error) {
	v := loader.viper

	v.SetDefault("tokenizer.backend", "http")
	v.SetDefault("tokenizer.endpoint", "http://localhost:8000")
	v.SetDefault("tokenizer.language", "cn")
	v.SetDefault("tokenizer.timeout_seconds", 10)
	v.SetDefault("dictionary.endpoint", "http://localhost:8000")
	v.SetDefault("dictionary.language", "cn")
	v.SetDefault("dictionary.timeout_seconds", 10)
	v.SetDefault("dictionary.retry_attempts", 0)
	v.SetDefault("dictionary.concurrency", 4)
	v.SetDefault("dictionary.cache.type", "memory")
	v.SetDefault("dictionary.cache.directory", filepath.Join("dictionaries", "cache"))
	v.SetDefault("input.debounce_ms", 500)
	v.SetDefault("collection.file", filepath.Join("collections", "flashcards.yml"))
	v.SetDefault("outputs.directory", "outputs")
	// Templates are optional - if not specified, will use embedded fallback templates
	v.SetDefault("templates.markdown_template", "")
	v.SetDefault("templates.html_template", "")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.cors.allowed_origins", []string{"http://localhost:3000"})
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.database", "local")
	v.SetDefault("database.username", "user")

	// Service endpoints can be overridden by the environment
	if err := v.BindEnv("tokenizer.endpoint", "TOKENIZER_ENDPOINT"); err != nil {
		return nil, fmt.Errorf("failed to bind TOKENIZER_ENDPOINT environment variable: %w", err)
	}
	if err := v.BindEnv("dictionary.endpoint", "DICTIONARY_SERVER"); err != nil {
		return nil, fmt.Errorf("failed to bind DICTIONARY_SERVER environment variable: %w", err)
	}

	// Bind database password to environment variable
	if err := v.BindEnv("database.password", "DB_PASSWORD"); err != nil {
		return nil, fmt.Errorf("failed to bind DB_PASSWORD environment variable: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("configuration file found but could not be read: %w. Please check the file format and permissions", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration format: %w", err)
	}

	if err := loader.validator.Struct(cfg); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		var errorMsgs []string
		for _, e := range validationErrors {
			errorMsgs = append(errorMsgs, e.Translate(loader.translator))
		}
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(errorMsgs, ", "))
	}

	return &cfg, nil
}
