package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/chatdesk/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   API base URL
//	-d string   documents API base URL
//	-s string   session state file
//	-l string   log file ("" disables file logging)
//	-i int      online check interval in seconds
//	-t int      request timeout in seconds
//	-k int      document list cache TTL in seconds (0 disables)
//
// The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-s", "-l", "-i", "-t", "-k"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.APIURL, "a", cfg.APIURL, "API base URL")
	fs.StringVar(&cfg.DocumentsURL, "d", cfg.DocumentsURL, "documents API base URL")
	fs.StringVar(&cfg.StatePath, "s", cfg.StatePath, "session state file")
	fs.StringVar(&cfg.LogFile, "l", cfg.LogFile, "log file")
	onlineCheckInterval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")
	requestTimeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	documentsCacheTTL := fs.Int("k", int(cfg.DocumentsCacheTTL.Seconds()), "document list cache TTL (in seconds, 0 disables)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.OnlineCheckInterval = time.Duration(*onlineCheckInterval) * time.Second
	cfg.RequestTimeout = time.Duration(*requestTimeout) * time.Second
	cfg.DocumentsCacheTTL = time.Duration(*documentsCacheTTL) * time.Second
}
