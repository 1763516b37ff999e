package config

type HTTP struct {
	Port           uint32   `env:"HTTP_PORT" envDefault:"3001"`
	AllowedOrigins []string `env:"HTTP_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
	Metrics        bool     `env:"HTTP_METRICS" envDefault:"true"`
}
