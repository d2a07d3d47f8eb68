// Package config handles configuration for the server component,
// including defaults, JSON overlay, and command-line flags.
package config

import (
	"os"
	"time"
)

// Config holds runtime settings for the NutriGenie server.
//
// Fields:
//   - EndpointAddrHTTP: bind address for the public HTTP endpoint.
//   - DatabaseDSN: sqlite file path, or a postgres:// DSN (pgx).
//   - SecretKey: HMAC secret for signing session tokens (HS256). Do not use test defaults in prod.
//   - SessionTokenValidityDuration: session cookie token lifetime.
//   - GenAIAPIKey / GenAIBaseURL: credentials and endpoint of the generative-language API.
//   - Models: ordered fallback list of model identifiers for the dispatcher.
//   - S3RootUser / S3RootPassword: credentials for the S3-compatible photo archive.
//   - S3Bucket / S3Region / S3BaseEndpoint: object storage settings.
type Config struct {
	EndpointAddrHTTP             string
	DatabaseDSN                  string
	SecretKey                    string
	SessionTokenValidityDuration time.Duration
	GenAIAPIKey                  string
	GenAIBaseURL                 string
	Models                       []string
	S3RootUser                   string
	S3RootPassword               string
	S3Bucket                     string
	S3Region                     string
	S3BaseEndpoint               string
}

// DefaultModels is the fallback order used when no model list is configured.
var DefaultModels = []string{
	"models/gemini-2.0-flash",
	"models/gemini-2.0-flash-lite",
	"models/gemini-1.5-pro",
	"models/gemini-1.5-flash",
}

// LoadDefaults populates Config with sensible development defaults.
// NOTE: These values are insecure for production and should be overridden.
func (c *Config) LoadDefaults() {
	c.EndpointAddrHTTP = ":8080"
	c.DatabaseDSN = "nutrigenie.db"
	c.SecretKey = "secretKey"
	c.SessionTokenValidityDuration = 24 * time.Hour
	c.GenAIAPIKey = os.Getenv("GOOGLE_API_KEY")
	c.GenAIBaseURL = "https://generativelanguage.googleapis.com"
	c.Models = append([]string(nil), DefaultModels...)
	c.S3RootUser = "admin"
	c.S3RootPassword = "secretpassword"
	c.S3Bucket = "meal-photos"
	c.S3Region = "us-east-1"
	c.S3BaseEndpoint = "http://127.0.0.1:9000/"
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file and finally from command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
