package main

import (
	"flag"
	"os"
	"strings"

	"github.com/alxayo/go-decodebin/internal/config"
)

// version is injected at build time with -ldflags "-X main.version=...".
var version = "dev"

func parseFlags(args []string) (*config.Config, bool, error) {
	cfg, err := config.Load(findConfigPath(args))
	if err != nil {
		return nil, false, err
	}

	fs := flag.NewFlagSet("decodebin-cli", flag.ContinueOnError)
	fs.SetOutput(os.Stdout)

	var showVersion bool
	var configPath string
	fs.StringVar(&configPath, "config", "", "Path to a YAML config file")
	fs.BoolVar(&showVersion, "version", false, "Print version and exit")
	config.BindFlags(fs, &cfg)

	if err := fs.Parse(args); err != nil {
		return nil, false, err
	}

	return &cfg, showVersion, nil
}

// findConfigPath scans args for -config/--config before the flag set that
// also declares domain flags is built, so the file tier can be loaded first
// and flags can override its values per internal/config's precedence order.
func findConfigPath(args []string) string {
	for i, a := range args {
		switch {
		case a == "-config" || a == "--config":
			if i+1 < len(args) {
				return args[i+1]
			}
		case strings.HasPrefix(a, "-config="):
			return strings.TrimPrefix(a, "-config=")
		case strings.HasPrefix(a, "--config="):
			return strings.TrimPrefix(a, "--config=")
		}
	}
	return ""
}
