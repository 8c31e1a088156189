// Package config builds runtime configuration from environment variables so
// main stays lean. Absent backends (postgres, redis, kafka) leave their URLs
// empty and the server falls back to in-memory stores.
package config

import (
	"os"
	"strings"
	"time"
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr          string
	JWTSigningKey string
	JWTIssuer     string

	// Account is the custody account name the ledger rows are scoped to.
	Account string

	// Bootstrap principals and destinations seeded on first start.
	InitialAdmin    string
	InitialGovernor string
	FounderDest     string
	DaoDest         string
	CharityDest     string

	// PassthroughDest enables the immutable single-destination router when set.
	PassthroughDest string

	PostgresURL string
	Redis       RedisConfig
	Kafka       KafkaConfig
}

// RedisConfig captures connection settings for the redis client.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KafkaConfig captures the audit sink settings.
type KafkaConfig struct {
	Brokers []string
}

// FromEnv builds a Server config from environment variables.
func FromEnv() Server {
	addr := os.Getenv("TREASURY_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	jwtSigningKey := os.Getenv("TREASURY_JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Development default; override in production.
		jwtSigningKey = "dev-secret-key-change-in-production"
	}
	jwtIssuer := os.Getenv("TREASURY_JWT_ISSUER")
	if jwtIssuer == "" {
		jwtIssuer = "treasury"
	}

	account := os.Getenv("TREASURY_ACCOUNT")
	if account == "" {
		account = "phased"
	}

	var brokers []string
	if raw := os.Getenv("TREASURY_KAFKA_BROKERS"); raw != "" {
		for _, b := range strings.Split(raw, ",") {
			if b = strings.TrimSpace(b); b != "" {
				brokers = append(brokers, b)
			}
		}
	}

	return Server{
		Addr:            addr,
		JWTSigningKey:   jwtSigningKey,
		JWTIssuer:       jwtIssuer,
		Account:         account,
		InitialAdmin:    os.Getenv("TREASURY_INITIAL_ADMIN"),
		InitialGovernor: os.Getenv("TREASURY_INITIAL_GOVERNOR"),
		FounderDest:     os.Getenv("TREASURY_FOUNDER_DEST"),
		DaoDest:         os.Getenv("TREASURY_DAO_DEST"),
		CharityDest:     os.Getenv("TREASURY_CHARITY_DEST"),
		PassthroughDest: os.Getenv("TREASURY_PASSTHROUGH_DEST"),
		PostgresURL:     os.Getenv("TREASURY_POSTGRES_URL"),
		Redis: RedisConfig{
			URL:          os.Getenv("TREASURY_REDIS_URL"),
			PoolSize:     10,
			MinIdleConns: 2,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		Kafka: KafkaConfig{Brokers: brokers},
	}
}
