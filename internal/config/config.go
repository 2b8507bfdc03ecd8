package config

import "github.com/caarlos0/env/v10"

// Config centraliza la configuración del servicio.
type Config struct {
	HTTPPort    string `env:"HTTP_PORT" envDefault:"8080"`
	DatabaseURL string `env:"DATABASE_URL,required"`

	// Credencial unica para estimacion y render remotos. Vacia, ambos
	// fallan como unauthenticated antes de tocar la red.
	AIAPIKey    string `env:"AI_API_KEY"`
	AIBaseURL   string `env:"AI_BASE_URL" envDefault:"https://api.openai.com/v1"`
	VisionModel string `env:"VISION_MODEL" envDefault:"gpt-4o-mini"`
	RenderModel string `env:"RENDER_MODEL" envDefault:"dall-e-3"`

	UseRemoteEstimator bool  `env:"USE_REMOTE_ESTIMATOR" envDefault:"false"`
	IntakeDelayMs      int   `env:"INTAKE_DELAY_MS" envDefault:"1000"`
	SyntheticSeed      int64 `env:"SYNTHETIC_SEED" envDefault:"0"`

	RenderRateWindowSec int `env:"RENDER_RATE_WINDOW_SEC" envDefault:"60"`
	RenderRateMax       int `env:"RENDER_RATE_MAX" envDefault:"3"`

	JWTSecret        string `env:"JWT_SECRET,required"`
	JWTAccessTTLMin  int    `env:"JWT_ACCESS_TTL_MIN" envDefault:"15"`
	JWTRefreshTTLMin int    `env:"JWT_REFRESH_TTL_MIN" envDefault:"1440"`

	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`
}

// LoadConfig carga la configuración desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
