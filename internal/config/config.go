package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"digital-liver/internal/core/domain"
)

type Config struct {
	Server     ServerConfig
	Logger     LoggerConfig
	Simulation SimulationConfig
	Database   DatabaseConfig
	RunLog     RunLogConfig
}

type ServerConfig struct {
	Host string
	Port int
}

type LoggerConfig struct {
	Level  string
	Format string
}

type SimulationConfig struct {
	MaxCompounds  int
	Workers       int
	Points        int
	Substeps      int
	KineticsFile  string
	AlertsCatalog string
}

type DatabaseConfig struct {
	Enabled         bool
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

func (d DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:     d.Name,
		RawQuery: url.Values{"sslmode": []string{d.SSLMode}}.Encode(),
	}
	return u.String()
}

type RunLogConfig struct {
	Retention      time.Duration
	SweepSchedule  string
	MemoryCapacity int
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present; real environment variables win.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()

	// Defaults
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", 8501)
	v.SetDefault("LOGGER_LEVEL", "info")
	v.SetDefault("LOGGER_FORMAT", "json")

	v.SetDefault("SIM_MAX_COMPOUNDS", 20)
	v.SetDefault("SIM_WORKERS", 4)
	v.SetDefault("SIM_POINTS", 300)
	v.SetDefault("SIM_SUBSTEPS", 8)
	v.SetDefault("KINETICS_PROFILE", "")
	v.SetDefault("ALERTS_CATALOG", "")

	v.SetDefault("DATABASE_ENABLED", false)
	v.SetDefault("DATABASE_HOST", "localhost")
	v.SetDefault("DATABASE_PORT", 5432)
	v.SetDefault("DATABASE_USER", "postgres")
	v.SetDefault("DATABASE_PASSWORD", "postgres")
	v.SetDefault("DATABASE_NAME", "digital_liver")
	v.SetDefault("DATABASE_SSLMODE", "disable")
	v.SetDefault("DATABASE_MAX_OPEN_CONNS", 10)
	v.SetDefault("DATABASE_MAX_IDLE_CONNS", 2)
	v.SetDefault("DATABASE_CONN_MAX_LIFETIME", "30m")

	v.SetDefault("RUNLOG_RETENTION", "168h")
	v.SetDefault("RUNLOG_SWEEP_SCHEDULE", "@hourly")
	v.SetDefault("RUNLOG_MEMORY_CAPACITY", 500)

	// Env
	v.AutomaticEnv()

	lifetime, err := time.ParseDuration(v.GetString("DATABASE_CONN_MAX_LIFETIME"))
	if err != nil {
		return nil, fmt.Errorf("DATABASE_CONN_MAX_LIFETIME: %w", err)
	}
	retention, err := time.ParseDuration(v.GetString("RUNLOG_RETENTION"))
	if err != nil {
		return nil, fmt.Errorf("RUNLOG_RETENTION: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: v.GetString("SERVER_HOST"),
			Port: v.GetInt("SERVER_PORT"),
		},
		Logger: LoggerConfig{
			Level:  v.GetString("LOGGER_LEVEL"),
			Format: v.GetString("LOGGER_FORMAT"),
		},
		Simulation: SimulationConfig{
			MaxCompounds:  v.GetInt("SIM_MAX_COMPOUNDS"),
			Workers:       v.GetInt("SIM_WORKERS"),
			Points:        v.GetInt("SIM_POINTS"),
			Substeps:      v.GetInt("SIM_SUBSTEPS"),
			KineticsFile:  v.GetString("KINETICS_PROFILE"),
			AlertsCatalog: v.GetString("ALERTS_CATALOG"),
		},
		Database: DatabaseConfig{
			Enabled:         v.GetBool("DATABASE_ENABLED"),
			Host:            v.GetString("DATABASE_HOST"),
			Port:            v.GetInt("DATABASE_PORT"),
			User:            v.GetString("DATABASE_USER"),
			Password:        v.GetString("DATABASE_PASSWORD"),
			Name:            v.GetString("DATABASE_NAME"),
			SSLMode:         v.GetString("DATABASE_SSLMODE"),
			MaxOpenConns:    v.GetInt("DATABASE_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DATABASE_MAX_IDLE_CONNS"),
			ConnMaxLifetime: lifetime,
		},
		RunLog: RunLogConfig{
			Retention:      retention,
			SweepSchedule:  v.GetString("RUNLOG_SWEEP_SCHEDULE"),
			MemoryCapacity: v.GetInt("RUNLOG_MEMORY_CAPACITY"),
		},
	}

	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return nil, fmt.Errorf("SERVER_PORT %d out of range", cfg.Server.Port)
	}
	if cfg.Simulation.Points < 2 || cfg.Simulation.Points > domain.MaxPoints {
		return nil, fmt.Errorf("SIM_POINTS %d out of range 2..%d", cfg.Simulation.Points, domain.MaxPoints)
	}
	if cfg.Simulation.Substeps < 1 {
		return nil, fmt.Errorf("SIM_SUBSTEPS %d must be at least 1", cfg.Simulation.Substeps)
	}

	return cfg, nil
}
