// Package config loads per-service configuration. Development mode reads a
// flat JSON document from ./config/development.json; production mode resolves
// the same keys through a SecretSource backed by the platform key vault.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Secret keys resolved from the vault in production. The development JSON
// file uses the same names.
const (
	KeyDatabaseURI       = "database-uri"
	KeyMongoURI          = "mongo-uri"
	KeyCacheURI          = "cache-uri"
	KeyBrokerURI         = "broker-uri"
	KeyJWTSecret         = "jwt-secret"
	KeyJWTIssuer         = "jwt-issuer"
	KeyJWTAudience       = "jwt-audience"
	KeyPostServiceAddr   = "post-service-address"
	KeyReplyServiceAddr  = "reply-service-address"
	KeyUserServiceAddr   = "user-profile-service-address"
	KeyRelationshipAddr  = "relationship-service-address"
	KeyFeedServiceAddr   = "feed-service-address"
	KeyOTLPCollectorAddr = "otlp-collector-address"
	KeyMediaBucket       = "media-bucket"
	KeyMediaEndpoint     = "media-endpoint"
	KeyMediaAccessKey    = "media-access-key"
	KeyMediaSecretKey    = "media-secret-key"
	KeyMediaURLExpiry    = "media-url-expiry"
	KeyCacheTTL          = "cache-ttl"
)

// SecretSource resolves named secrets. The production implementation talks to
// the key-vault collaborator; it is injected by the caller so this package
// carries no vault client of its own.
type SecretSource interface {
	Secret(name string) (string, error)
}

// Config carries everything the three services need. Each binary reads the
// subset relevant to it.
type Config struct {
	Environment string

	DatabaseURI string
	MongoURI    string
	CacheURI    string
	BrokerURI   string

	JWTSecret   string
	JWTIssuer   string
	JWTAudience string

	PostServiceAddr         string
	ReplyServiceAddr        string
	UserProfileServiceAddr  string
	RelationshipServiceAddr string
	FeedServiceAddr         string

	OTLPCollectorAddr string

	MediaBucket    string
	MediaEndpoint  string
	MediaAccessKey string
	MediaSecretKey string
	MediaURLExpiry time.Duration

	CacheTTL time.Duration
}

const developmentFile = "./config/development.json"

// IsProduction reports whether the APP_ENV value selects production mode.
// The comparison is case-insensitive.
func IsProduction() bool {
	return strings.EqualFold(os.Getenv("APP_ENV"), "production")
}

// Load selects the configuration mode from APP_ENV. In production every key
// is resolved through the given SecretSource; otherwise the development JSON
// file is read.
func Load(secrets SecretSource) (*Config, error) {
	if IsProduction() {
		return loadFromSecrets(secrets)
	}
	return loadFromFile(developmentFile)
}

// EnvSecretSource resolves secrets from environment variables, mapping
// "database-uri" to DATABASE_URI and so on. Used where the vault collaborator
// is not reachable (CI, local production-mode runs).
type EnvSecretSource struct{}

// Secret returns the environment variable matching the secret name.
func (EnvSecretSource) Secret(name string) (string, error) {
	key := strings.ToUpper(strings.ReplaceAll(name, "-", "_"))
	v, ok := os.LookupEnv(key)
	if !ok {
		return "", fmt.Errorf("secret %s not set", name)
	}
	return v, nil
}

func loadFromSecrets(secrets SecretSource) (*Config, error) {
	if secrets == nil {
		return nil, fmt.Errorf("production mode requires a secret source")
	}

	get := func(name string) (string, error) {
		v, err := secrets.Secret(name)
		if err != nil {
			return "", fmt.Errorf("failed to resolve secret %s: %w", name, err)
		}
		return v, nil
	}

	cfg := &Config{Environment: "production"}
	var err error

	required := []struct {
		key string
		dst *string
	}{
		{KeyDatabaseURI, &cfg.DatabaseURI},
		{KeyMongoURI, &cfg.MongoURI},
		{KeyCacheURI, &cfg.CacheURI},
		{KeyBrokerURI, &cfg.BrokerURI},
		{KeyJWTSecret, &cfg.JWTSecret},
		{KeyJWTIssuer, &cfg.JWTIssuer},
		{KeyJWTAudience, &cfg.JWTAudience},
		{KeyPostServiceAddr, &cfg.PostServiceAddr},
		{KeyReplyServiceAddr, &cfg.ReplyServiceAddr},
		{KeyUserServiceAddr, &cfg.UserProfileServiceAddr},
		{KeyRelationshipAddr, &cfg.RelationshipServiceAddr},
		{KeyFeedServiceAddr, &cfg.FeedServiceAddr},
		{KeyOTLPCollectorAddr, &cfg.OTLPCollectorAddr},
		{KeyMediaBucket, &cfg.MediaBucket},
		{KeyMediaEndpoint, &cfg.MediaEndpoint},
		{KeyMediaAccessKey, &cfg.MediaAccessKey},
		{KeyMediaSecretKey, &cfg.MediaSecretKey},
	}
	for _, r := range required {
		if *r.dst, err = get(r.key); err != nil {
			return nil, err
		}
	}

	expiry, err := get(KeyMediaURLExpiry)
	if err != nil {
		return nil, err
	}
	if cfg.MediaURLExpiry, err = parseDuration(KeyMediaURLExpiry, expiry); err != nil {
		return nil, err
	}

	ttl, err := get(KeyCacheTTL)
	if err != nil {
		return nil, err
	}
	if cfg.CacheTTL, err = parseDuration(KeyCacheTTL, ttl); err != nil {
		return nil, err
	}

	return cfg, nil
}

func loadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var raw map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	cfg := &Config{
		Environment:             "development",
		DatabaseURI:             raw[KeyDatabaseURI],
		MongoURI:                raw[KeyMongoURI],
		CacheURI:                raw[KeyCacheURI],
		BrokerURI:               raw[KeyBrokerURI],
		JWTSecret:               raw[KeyJWTSecret],
		JWTIssuer:               raw[KeyJWTIssuer],
		JWTAudience:             raw[KeyJWTAudience],
		PostServiceAddr:         raw[KeyPostServiceAddr],
		ReplyServiceAddr:        raw[KeyReplyServiceAddr],
		UserProfileServiceAddr:  raw[KeyUserServiceAddr],
		RelationshipServiceAddr: raw[KeyRelationshipAddr],
		FeedServiceAddr:         raw[KeyFeedServiceAddr],
		OTLPCollectorAddr:       raw[KeyOTLPCollectorAddr],
		MediaBucket:             raw[KeyMediaBucket],
		MediaEndpoint:           raw[KeyMediaEndpoint],
		MediaAccessKey:          raw[KeyMediaAccessKey],
		MediaSecretKey:          raw[KeyMediaSecretKey],
	}

	if cfg.MediaURLExpiry, err = parseDuration(KeyMediaURLExpiry, raw[KeyMediaURLExpiry]); err != nil {
		return nil, err
	}
	if cfg.CacheTTL, err = parseDuration(KeyCacheTTL, raw[KeyCacheTTL]); err != nil {
		return nil, err
	}

	return cfg, nil
}

// parseDuration accepts either a Go duration string ("15m") or a bare number
// of seconds, which is how the vault stores intervals.
func parseDuration(key, value string) (time.Duration, error) {
	if value == "" {
		return 0, fmt.Errorf("config key %s is required", key)
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("config key %s has invalid duration %q: %w", key, value, err)
	}
	return d, nil
}
