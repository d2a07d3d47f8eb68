package config

import (
	"flag"
	"os"
	"strings"
	"time"

	"github.com/dkovalev/nutrigenie/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-d string   database DSN (sqlite file path or postgres:// URL)
//	-s string   session token HMAC secret key
//	-t int      session token validity, minutes
//	-k string   generative API key
//	-l string   generative API base URL
//	-m string   comma-separated ordered model list
//	-u string   S3 root user
//	-p string   S3 root password
//	-b string   S3 bucket name
//	-g string   S3 region
//	-e string   S3 base endpoint (e.g., "http://127.0.0.1:9000/")
//
// Notes:
//   - The function first filters os.Args to only the flags it recognizes using
//     flagx.FilterArgs, avoiding collisions with other components.
//   - The validity flag is accepted as an integer in minutes and converted to
//     a time.Duration.
func parseFlags(config *Config) {
	// Filter args to include only the flags handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-s", "-t", "-k", "-l", "-m", "-u", "-p", "-b", "-g", "-e"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	sessionTokenValidityDuration := fs.Int("t", int(config.SessionTokenValidityDuration.Minutes()), "session_token_validity_duration (in minutes)")

	fs.StringVar(&config.GenAIAPIKey, "k", config.GenAIAPIKey, "generative API key")
	fs.StringVar(&config.GenAIBaseURL, "l", config.GenAIBaseURL, "generative API base URL")

	models := fs.String("m", strings.Join(config.Models, ","), "ordered model list, comma-separated")

	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 root bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 root region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	// the flag carries whole minutes; an absent flag must not truncate a
	// finer-grained value set via JSON
	if set["t"] {
		config.SessionTokenValidityDuration = time.Duration(*sessionTokenValidityDuration) * time.Minute
	}

	config.Models = config.Models[:0]
	for _, m := range strings.Split(*models, ",") {
		if m = strings.TrimSpace(m); m != "" {
			config.Models = append(config.Models, m)
		}
	}
}
