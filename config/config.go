package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/Mohanapriya2828/schoolapp-ado/pkg/errs"
	"github.com/joho/godotenv"
)

type PostgreSQLConfig struct {
	DBHost     string
	DBName     string
	DBPort     string
	DBUsername string
	DBPassword string
}

type JWTConfig struct {
	Secret        string
	Issuer        string
	Audience      string
	ExpiryMinutes int
	Kid           string
}

type KafkaConfig struct {
	BrokerAddress   string
	BrokerTopic     string
	BrokerPartition int
}

type SMTPConfig struct {
	Sender   string
	Password string
	Host     string
	Port     int
}

type TracingConfig struct {
	CollectorHost string
}

type Config struct {
	Environment      string
	ServicePort      string
	MetricsPort      string
	PostgreSQLConfig PostgreSQLConfig
	JWTConfig        JWTConfig
	KafkaConfig      KafkaConfig
	SMTPConfig       SMTPConfig
	TracingConfig    TracingConfig
	// ShowInactiveUsers controls whether GetUserByID returns soft-deleted
	// records. Listings always exclude them.
	ShowInactiveUsers bool
}

func CreateNewConfig() *Config {
	godotenv.Load(".env")

	conf := Config{
		Environment: os.Getenv("ENVIRONMENT"),
		ServicePort: os.Getenv("SERVICE_PORT"),
		MetricsPort: os.Getenv("METRICS_PORT"),
		PostgreSQLConfig: PostgreSQLConfig{
			DBHost:     os.Getenv("DB_HOST"),
			DBName:     os.Getenv("DB_NAME"),
			DBPort:     os.Getenv("DB_PORT"),
			DBUsername: os.Getenv("DB_USERNAME"),
			DBPassword: os.Getenv("DB_PASSWORD"),
		},
		JWTConfig: JWTConfig{
			Secret:   os.Getenv("JWT_SECRET"),
			Issuer:   os.Getenv("JWT_ISSUER"),
			Audience: os.Getenv("JWT_AUDIENCE"),
			Kid:      os.Getenv("JWT_KID"),
		},
		KafkaConfig: KafkaConfig{
			BrokerAddress: os.Getenv("BROKER_ADDRESS"),
			BrokerTopic:   os.Getenv("BROKER_TOPIC"),
		},
		SMTPConfig: SMTPConfig{
			Sender:   os.Getenv("SMTP_SENDER"),
			Password: os.Getenv("SMTP_PASSWORD"),
			Host:     os.Getenv("SMTP_HOST"),
		},
		TracingConfig: TracingConfig{
			CollectorHost: os.Getenv("COLLECTOR_HOST"),
		},
	}

	expiryMinutes, err := strconv.Atoi(os.Getenv("JWT_EXPIRY_MINUTES"))
	if err == nil {
		conf.JWTConfig.ExpiryMinutes = expiryMinutes
	}

	brokerPartition, err := strconv.Atoi(os.Getenv("BROKER_PARTITION"))
	if err == nil {
		conf.KafkaConfig.BrokerPartition = brokerPartition
	}

	smtpPort, err := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if err == nil {
		conf.SMTPConfig.Port = smtpPort
	}

	showInactive, err := strconv.ParseBool(os.Getenv("SHOW_INACTIVE_USERS"))
	if err == nil {
		conf.ShowInactiveUsers = showInactive
	}

	return &conf
}

// Validate checks the settings the token issuer cannot run without. A miss
// here is a startup fault, not a per-request one.
func (c *Config) Validate() error {
	if c.JWTConfig.Secret == "" {
		return fmt.Errorf("%w: JWT_SECRET is not set", errs.ErrConfig)
	}
	if c.JWTConfig.Issuer == "" {
		return fmt.Errorf("%w: JWT_ISSUER is not set", errs.ErrConfig)
	}
	if c.JWTConfig.Audience == "" {
		return fmt.Errorf("%w: JWT_AUDIENCE is not set", errs.ErrConfig)
	}
	if c.JWTConfig.ExpiryMinutes <= 0 {
		return fmt.Errorf("%w: JWT_EXPIRY_MINUTES must be a positive integer", errs.ErrConfig)
	}

	return nil
}
