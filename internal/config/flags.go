package config

import (
	"flag"
	"os"
	"time"

	"github.com/kendallhq/managerpro/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   address and port the web UI listens on
//	-d string   path to the SQLite database file
//	-s int      session duration in minutes
//	-p int      storage poll interval in milliseconds
//
// The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-s", "-p"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ListenAddr, "a", cfg.ListenAddr, "address and port to listen on")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "path to database file")
	sessionMinutes := fs.Int("s", int(cfg.SessionDuration.Minutes()), "session duration (in minutes)")
	pollMillis := fs.Int("p", int(cfg.PollInterval.Milliseconds()), "storage poll interval (in milliseconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.SessionDuration = time.Duration(*sessionMinutes) * time.Minute
	cfg.PollInterval = time.Duration(*pollMillis) * time.Millisecond
}
