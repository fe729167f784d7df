package config

import (
	"database/sql"
	"log"
	"os"
	"strings"

	_ "github.com/lib/pq"
)

type Config struct {
	DB          *sql.DB
	DatabaseURL string
	AppURL      string
	JWTSecret   string
	Port        string
	Google      GoogleOAuthConfig
}

// GoogleOAuthConfig holds the OAuth credentials for the identity provider.
// Sign-in is disabled (login page shows an error) when not configured.
type GoogleOAuthConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
}

func (g GoogleOAuthConfig) IsConfigured() bool {
	return g.ClientID != "" && g.ClientSecret != ""
}

var AppConfig *Config

// Load reads configuration from the environment. Missing required
// variables are fatal at process start.
func Load() *Config {
	cfg := &Config{
		DatabaseURL: os.Getenv("DATABASE_URL"),
		AppURL:      os.Getenv("APP_URL"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		Port:        os.Getenv("PORT"),
		Google: GoogleOAuthConfig{
			ClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
			ClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
			RedirectURI:  os.Getenv("GOOGLE_REDIRECT_URI"),
		},
	}

	var missing []string
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if cfg.AppURL == "" {
		missing = append(missing, "APP_URL")
	}
	if cfg.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if len(missing) > 0 {
		log.Fatalf("Missing required environment variables: %s", strings.Join(missing, ", "))
	}

	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.Google.RedirectURI == "" {
		cfg.Google.RedirectURI = cfg.AppURL + "/auth/callback"
	}

	AppConfig = cfg
	return cfg
}

// InitDB opens the connection pool and verifies connectivity.
func InitDB() {
	if AppConfig == nil {
		Load()
	}

	db, err := sql.Open("postgres", AppConfig.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to open database connection:", err)
	}

	// Connection pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	log.Println("Testing database connection...")
	if err = db.Ping(); err != nil {
		log.Fatal("Cannot establish database connection: ", err)
	}

	AppConfig.DB = db
	log.Println("Database connected successfully")
}

func GetDB() *sql.DB {
	return AppConfig.DB
}
