package lib

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCredentialsValidate(t *testing.T) {
	tests := []struct {
		name    string
		creds   Credentials
		missing []string
	}{
		{"complete", Credentials{Username: "u", Email: "e", Password: "p"}, nil},
		{"no username", Credentials{Email: "e", Password: "p"}, []string{"TWITTER_USERNAME"}},
		{"no email", Credentials{Username: "u", Password: "p"}, []string{"TWITTER_EMAIL"}},
		{"no password", Credentials{Username: "u", Email: "e"}, []string{"TWITTER_PASSWORD"}},
		{"empty", Credentials{}, []string{"TWITTER_USERNAME", "TWITTER_EMAIL", "TWITTER_PASSWORD"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.creds.Validate()
			if tt.missing == nil {
				assert.NoError(t, err)
				return
			}
			var cfgErr *ConfigError
			require.True(t, errors.As(err, &cfgErr))
			assert.Equal(t, tt.missing, cfgErr.Missing)
			for _, name := range tt.missing {
				assert.Contains(t, err.Error(), name)
			}
		})
	}
}

func TestLoadConfig(t *testing.T) {
	t.Run("FromEnvironment", func(t *testing.T) {
		t.Setenv("TWITTER_USERNAME", "user")
		t.Setenv("TWITTER_EMAIL", "user@example.com")
		t.Setenv("TWITTER_PASSWORD", "secret")
		t.Setenv("TWITTER_API_BASE_URL", "http://localhost:1234")

		cfg, err := LoadConfig("")
		require.NoError(t, err)
		assert.Equal(t, Credentials{Username: "user", Email: "user@example.com", Password: "secret"}, cfg.Credentials)
		assert.Equal(t, "http://localhost:1234", cfg.API.BaseURL)
		assert.NoError(t, cfg.Credentials.Validate())
	})

	t.Run("Defaults", func(t *testing.T) {
		t.Setenv("TWITTER_API_BASE_URL", "")
		os.Unsetenv("TWITTER_API_BASE_URL")

		cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))
		require.NoError(t, err)
		assert.Equal(t, "https://api.twitter.com", cfg.API.BaseURL)
	})

	t.Run("FromEnvFile", func(t *testing.T) {
		// t.Setenv restores the variables godotenv sets during the test.
		t.Setenv("TWITTER_USERNAME", "")
		t.Setenv("TWITTER_EMAIL", "")
		t.Setenv("TWITTER_PASSWORD", "")
		os.Unsetenv("TWITTER_USERNAME")
		os.Unsetenv("TWITTER_EMAIL")
		os.Unsetenv("TWITTER_PASSWORD")

		path := filepath.Join(t.TempDir(), ".env")
		require.NoError(t, os.WriteFile(path, []byte("TWITTER_USERNAME=fromfile\nTWITTER_EMAIL=file@example.com\nTWITTER_PASSWORD=pw\n"), 0600))

		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, "fromfile", cfg.Credentials.Username)
		assert.Equal(t, "file@example.com", cfg.Credentials.Email)
		assert.Equal(t, "pw", cfg.Credentials.Password)
	})
}
