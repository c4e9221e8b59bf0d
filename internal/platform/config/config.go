package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// StatusCacheTTL bounds how long a cached KYC status may be served without
// re-reading the status store.
var StatusCacheTTL = 5 * time.Minute

// VerifierTimeout bounds a single remote PAN validation call.
var VerifierTimeout = 30 * time.Second

// Server captures HTTP server level configuration.
type Server struct {
	Addr string

	// AdminTokenHash is the bcrypt hash of the admin reset token. The
	// plaintext token is never stored.
	AdminTokenHash string
	JWTSigningKey  string

	PostgresDSN string
	Redis       RedisConfig
	Kafka       KafkaConfig
	Verifier    VerifierConfig
}

// RedisConfig configures the optional Redis-backed status cache.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KafkaConfig configures the optional audit event publisher.
type KafkaConfig struct {
	Brokers    []string
	AuditTopic string
}

// VerifierConfig configures the outbound PAN verification provider.
type VerifierConfig struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
	Timeout      time.Duration

	// UseMock short-circuits the provider with a deterministic stub for
	// local development where no provider credentials exist.
	UseMock bool
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("VAULTLY_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	auditTopic := os.Getenv("VAULTLY_AUDIT_TOPIC")
	if auditTopic == "" {
		auditTopic = "vaultly.kyc.audit"
	}

	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Use a default for development - should be overridden in production
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	return Server{
		Addr:           addr,
		AdminTokenHash: os.Getenv("VAULTLY_ADMIN_TOKEN_HASH"),
		JWTSigningKey:  jwtSigningKey,
		PostgresDSN:    os.Getenv("VAULTLY_POSTGRES_DSN"),
		Redis: RedisConfig{
			URL:          os.Getenv("VAULTLY_REDIS_URL"),
			PoolSize:     envInt("VAULTLY_REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("VAULTLY_REDIS_MIN_IDLE", 2),
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		Kafka: KafkaConfig{
			Brokers:    splitNonEmpty(os.Getenv("VAULTLY_KAFKA_BROKERS")),
			AuditTopic: auditTopic,
		},
		Verifier: VerifierConfig{
			BaseURL:      os.Getenv("VAULTLY_VERIFIER_URL"),
			ClientID:     os.Getenv("VAULTLY_VERIFIER_CLIENT_ID"),
			ClientSecret: os.Getenv("VAULTLY_VERIFIER_CLIENT_SECRET"),
			Timeout:      VerifierTimeout,
			UseMock:      os.Getenv("VAULTLY_VERIFIER_MOCK") == "true",
		},
	}
}

func envInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}

func splitNonEmpty(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
