package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/usermanagement/internal/flagx"
)

// FlagNames lists every command-line flag owned by the config loader,
// including the config file flags. Other parsers sharing os.Args use it to
// skip these.
var FlagNames = []string{"-a", "-d", "-s", "-t", "-l", "-f", "-c", "-config"}

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":3000")
//	-d string   PostgreSQL DSN
//	-s string   JWT HMAC secret key
//	-t int      transaction timeout, seconds (0 disables)
//	-l string   log level (debug, info, warn, error)
//	-f string   log format (json, text)
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, avoiding collisions with other components.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-s", "-t", "-l", "-f"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.HTTPAddr, "a", config.HTTPAddr, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	txTimeout := fs.Int("t", 0, "transaction timeout (in seconds)")

	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")
	fs.StringVar(&config.LogFormat, "f", config.LogFormat, "log format")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	// -t only overrides when given, so sub-second values from earlier
	// sources are not truncated.
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			config.TxTimeout = time.Duration(*txTimeout) * time.Second
		}
	})
}
