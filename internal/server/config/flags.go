package config

import (
	"flag"
	"os"
	"time"

	"github.com/watchdeck/watchdeck/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":3089")
//	-d string   data directory for persisted documents
//	-w string   static assets (frontend build) directory
//	-t int      session TTL, hours
//	-i int      expired-session sweep interval, minutes (0 disables)
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, avoiding collisions with other components.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-w", "-t", "-i"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run server")
	fs.StringVar(&config.DataDir, "d", config.DataDir, "data directory")
	fs.StringVar(&config.StaticDir, "w", config.StaticDir, "static assets directory")

	sessionTTL := fs.Int("t", int(config.SessionTTL.Hours()), "session ttl (in hours)")
	sweepInterval := fs.Int("i", int(config.SweepInterval.Minutes()), "sweep interval (in minutes)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.SessionTTL = time.Duration(*sessionTTL) * time.Hour
	config.SweepInterval = time.Duration(*sweepInterval) * time.Minute
}
