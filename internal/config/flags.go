package config

import (
	"flag"
	"os"
	"time"

	"github.com/staffdesk/staffdesk/internal/flagx"
)

// parseFlags overlays Config with command-line flags:
//
//	-d string   Postgres connection string
//	-offline    use in-memory collections
//	-p int      page size
//	-t int      operation timeout in seconds
//
// Only these flags are parsed here; flagx.Keep shields the FlagSet from
// flags owned by other packages (like -c/-config).
func parseFlags(cfg *Config) {
	args := flagx.Keep(os.Args[1:], []string{"-d", "-offline", "-p", "-t"})

	fs := flag.NewFlagSet("console", flag.ContinueOnError)
	fs.StringVar(&cfg.DatabaseURL, "d", cfg.DatabaseURL, "postgres connection string")
	fs.BoolVar(&cfg.Offline, "offline", cfg.Offline, "use in-memory collections")
	pageSize := fs.Int("p", cfg.PageSize, "page size")
	timeout := fs.Int("t", int(cfg.OpTimeout.Seconds()), "operation timeout (seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	if *pageSize > 0 {
		cfg.PageSize = *pageSize
	}
	if *timeout > 0 {
		cfg.OpTimeout = time.Duration(*timeout) * time.Second
	}
}
