package sdk

import (
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// envConfig is the environment surface for scripted and CLI use of the
// SDK. Interactive apps build a Config directly and plug in a real
// session store instead.
type envConfig struct {
	BaseURL      string        `env:"FITROOM_BASE_URL" env-default:"https://api.fitroom.app/api/v1"`
	AccessToken  string        `env:"FITROOM_ACCESS_TOKEN"`
	RefreshToken string        `env:"FITROOM_REFRESH_TOKEN"`
	UserAgent    string        `env:"FITROOM_USER_AGENT"`
	RefreshSkew  time.Duration `env:"FITROOM_REFRESH_SKEW" env-default:"30s"`
}

// ConfigFromEnv builds a Config from FITROOM_* environment variables.
// Tokens load into a StaticTokens bridge; refreshed tokens stay in
// memory only.
func ConfigFromEnv() (Config, error) {
	var env envConfig
	if err := cleanenv.ReadEnv(&env); err != nil {
		return Config{}, ConfigError{Reason: "read environment: " + err.Error()}
	}
	return Config{
		BaseURL:     env.BaseURL,
		Session:     &StaticTokens{Access: env.AccessToken, Refresh: env.RefreshToken},
		UserAgent:   env.UserAgent,
		RefreshSkew: env.RefreshSkew,
	}, nil
}
