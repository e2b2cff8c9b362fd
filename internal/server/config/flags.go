package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/chatrelay/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   bind address (e.g., ":8080")
//	-d string   PostgreSQL DSN
//	-s string   JWT HMAC secret key
//
// The websocket timing knobs are JSON-file-only: they change rarely and
// have no short-flag ergonomics. The function filters os.Args to only the
// flags it recognizes using flagx.FilterArgs, avoiding collisions with
// other components.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-s"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddr, "a", config.EndpointAddr, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
