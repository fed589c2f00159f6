package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds everything read at startup. Values come from config.yaml in the
// working directory, with environment-variable overrides (SERVER_PORT,
// SMTP_HOST, ...).
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	SMTP     SMTPConfig
	OTP      OTPConfig
	Logger   LoggerConfig
}

type ServerConfig struct {
	Port        string
	CORSOrigins string
	BodyLimitMB int
	UploadDir   string
}

type DatabaseConfig struct {
	Path string
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type OTPConfig struct {
	TTL           time.Duration
	SweepInterval string
}

type LoggerConfig struct {
	Mode       string
	FileEnable bool
	Filename   string
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("server.port", "5000")
	viper.SetDefault("server.cors_origins", "*")
	viper.SetDefault("server.body_limit_mb", 50)
	viper.SetDefault("server.upload_dir", "uploads")
	viper.SetDefault("database.path", "database.db")
	viper.SetDefault("smtp.port", 587)
	viper.SetDefault("smtp.from", "no-reply@productr.app")
	viper.SetDefault("otp.ttl", "5m")
	viper.SetDefault("otp.sweep_interval", "@every 1m")
	viper.SetDefault("logger.mode", "development")
	viper.SetDefault("logger.file_enable", false)
	viper.SetDefault("logger.filename", "productr.log")

	if err := viper.ReadInConfig(); err != nil {
		// Missing config file is fine, defaults and env vars cover everything.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:        viper.GetString("server.port"),
			CORSOrigins: viper.GetString("server.cors_origins"),
			BodyLimitMB: viper.GetInt("server.body_limit_mb"),
			UploadDir:   viper.GetString("server.upload_dir"),
		},
		Database: DatabaseConfig{
			Path: viper.GetString("database.path"),
		},
		SMTP: SMTPConfig{
			Host:     viper.GetString("smtp.host"),
			Port:     viper.GetInt("smtp.port"),
			Username: viper.GetString("smtp.username"),
			Password: viper.GetString("smtp.password"),
			From:     viper.GetString("smtp.from"),
		},
		OTP: OTPConfig{
			TTL:           viper.GetDuration("otp.ttl"),
			SweepInterval: viper.GetString("otp.sweep_interval"),
		},
		Logger: LoggerConfig{
			Mode:       viper.GetString("logger.mode"),
			FileEnable: viper.GetBool("logger.file_enable"),
			Filename:   viper.GetString("logger.filename"),
		},
	}
	return cfg, nil
}
