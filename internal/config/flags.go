package config

import "flag"

// BindFlags registers CLI flags that override cfg's current values (file and
// env tiers already applied) when the user passes them explicitly. It
// mirrors flag.FlagSet usage rather than pflag/cobra, matching the cmd
// wiring this config package feeds.
func BindFlags(fs *flag.FlagSet, cfg *Config) {
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug|info|warn|error")
	fs.StringVar(&cfg.StopCapsName, "stop-caps", cfg.StopCapsName, "Capability name autoplug stops expanding at (e.g. video/x-raw)")
	fs.BoolVar(&cfg.ExposeAllStreams, "expose-all-streams", cfg.ExposeAllStreams, "Keep streams that cannot reach the stop caps instead of discarding them")
	fs.Uint64Var(&cfg.ConnectionSpeed, "connection-speed", cfg.ConnectionSpeed, "Assumed downstream connection speed in kbit/s (0 = unknown)")
	fs.StringVar(&cfg.SubtitleEncoding, "subtitle-encoding", cfg.SubtitleEncoding, "Character encoding to assume for subtitle streams lacking one")
	fs.Uint64Var(&cfg.BufferingTotalBudgetBytes, "buffering-budget-bytes", cfg.BufferingTotalBudgetBytes, "Total byte budget shared across buffering slots")
	fs.StringVar(&cfg.SourceURI, "source", cfg.SourceURI, "Source URI to decode")
	fs.StringVar(&cfg.MetricsAddr, "metrics-addr", cfg.MetricsAddr, "Address to serve Prometheus metrics on (empty disables)")
	fs.StringVar(&cfg.HookStdioFormat, "hook-stdio-format", cfg.HookStdioFormat, "Enable structured stdio signal output: json|env (empty=disabled)")
	fs.StringVar(&cfg.HookTimeout, "hook-timeout", cfg.HookTimeout, "Timeout for signal hook execution")
	fs.IntVar(&cfg.HookConcurrency, "hook-concurrency", cfg.HookConcurrency, "Maximum concurrent signal hook executions")
}
