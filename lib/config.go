package lib

import (
	"fmt"
	"os"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

// Credentials are the three values the platform login needs.
type Credentials struct {
	Username string `env:"TWITTER_USERNAME" env-description:"account user name"`
	Email    string `env:"TWITTER_EMAIL" env-description:"account email"`
	Password string `env:"TWITTER_PASSWORD" env-description:"account password"`
}

// Config holds everything the post extractor reads from the environment.
type Config struct {
	Credentials Credentials
	API         struct {
		BaseURL string `env:"TWITTER_API_BASE_URL" env-default:"https://api.twitter.com" env-description:"platform API base URL"`
	}
	App struct {
		Env string `env:"MLNEWS_ENV" env-default:"development"`
	}
}

// ConfigError reports credential variables that are unset or empty.
type ConfigError struct {
	Missing []string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("please provide the %s environment variables", strings.Join(e.Missing, ", "))
}

// Validate fails with a *ConfigError naming every missing variable.
func (c Credentials) Validate() error {
	var missing []string
	if c.Username == "" {
		missing = append(missing, "TWITTER_USERNAME")
	}
	if c.Email == "" {
		missing = append(missing, "TWITTER_EMAIL")
	}
	if c.Password == "" {
		missing = append(missing, "TWITTER_PASSWORD")
	}
	if len(missing) > 0 {
		return &ConfigError{Missing: missing}
	}
	return nil
}

// LoadConfig loads envFile when it exists and then reads the process environment.
// Variables already set in the environment win over the file.
func LoadConfig(envFile string) (*Config, error) {
	if envFile != "" {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				return nil, errors.Wrapf(err, "failed to load %s", envFile)
			}
		}
	}

	cfg := &Config{}
	if err := cleanenv.ReadEnv(cfg); err != nil {
		help, _ := cleanenv.GetDescription(cfg, nil)
		return nil, errors.Wrapf(err, "failed to read configuration\n%s", help)
	}
	return cfg, nil
}
