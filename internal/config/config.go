package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/Behyna/whatsapp-relay/pkg/cloudapi"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DefaultPort        = "3000"
	DefaultVerifyToken = "your_verify_token"
	DefaultEnvironment = "development"
)

type Config struct {
	API         API             `mapstructure:"api"`
	Webhook     Webhook         `mapstructure:"webhook"`
	CloudAPI    cloudapi.Config `mapstructure:"cloud_api"`
	Environment string          `mapstructure:"environment"`
}

type API struct {
	Port string `mapstructure:"port" validate:"required,numeric"`
}

// Address returns the fiber listen address.
func (a API) Address() string {
	return ":" + a.Port
}

type Webhook struct {
	VerifyToken string `mapstructure:"verify_token" validate:"required"`
	// ProcessAll walks every change, message and status of an entry instead
	// of only the first one.
	ProcessAll bool `mapstructure:"process_all"`
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

// Load reads configuration from the environment, after loading an optional
// .env file from the working directory.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	return FromViper(viper.New())
}

func FromViper(v *viper.Viper) (*Config, error) {
	v.AutomaticEnv()

	v.SetDefault("PORT", DefaultPort)
	v.SetDefault("VERIFY_TOKEN", DefaultVerifyToken)
	v.SetDefault("GRAPH_API_BASE_URL", "https://graph.facebook.com")
	v.SetDefault("GRAPH_API_VERSION", "v17.0")
	v.SetDefault("GRAPH_API_TIMEOUT", 30*time.Second)
	v.SetDefault("WEBHOOK_PROCESS_ALL", false)

	verifyToken := v.GetString("WEBHOOK_VERIFY_TOKEN")
	if verifyToken == "" {
		verifyToken = v.GetString("VERIFY_TOKEN")
	}

	environment := v.GetString("APP_ENV")
	if environment == "" {
		environment = v.GetString("NODE_ENV")
	}
	if environment == "" {
		environment = DefaultEnvironment
	}

	cfg := &Config{
		API: API{Port: v.GetString("PORT")},
		Webhook: Webhook{
			VerifyToken: verifyToken,
			ProcessAll:  v.GetBool("WEBHOOK_PROCESS_ALL"),
		},
		CloudAPI: cloudapi.Config{
			BaseURL:       v.GetString("GRAPH_API_BASE_URL"),
			APIVersion:    v.GetString("GRAPH_API_VERSION"),
			AccessToken:   v.GetString("ACCESS_TOKEN"),
			PhoneNumberID: v.GetString("PHONE_NUMBER_ID"),
			Timeout:       v.GetDuration("GRAPH_API_TIMEOUT"),
		},
		Environment: environment,
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}
