package config

import "fmt"

type Postgres struct {
	// URL, when set, is used as is and the discrete settings below are ignored.
	URL string `env:"DATABASE_URL"`

	Host     string `env:"POSTGRES_HOST" envDefault:"localhost"`
	Port     int    `env:"POSTGRES_PORT" envDefault:"5432"`
	User     string `env:"POSTGRES_USER" envDefault:"postgres"`
	Password string `env:"POSTGRES_PASSWORD"`
	DB       string `env:"POSTGRES_DB" envDefault:"ecommerce_db"`
	SSLMode  string `env:"POSTGRES_SSL_MODE" envDefault:"disable"`

	AutoMigrate bool `env:"DB_AUTO_MIGRATE" envDefault:"true"`
}

// DSN returns the connection string for the configured database.
func (p Postgres) DSN() string {
	if p.URL != "" {
		return p.URL
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.DB, p.SSLMode)
}
