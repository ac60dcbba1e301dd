package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/alxayo/go-decodebin/internal/bin"
	"github.com/alxayo/go-decodebin/internal/core/element"
	"github.com/alxayo/go-decodebin/internal/core/registry"
	"github.com/alxayo/go-decodebin/internal/core/source"
	"github.com/alxayo/go-decodebin/internal/events"
	"github.com/alxayo/go-decodebin/internal/logger"
)

func main() {
	cfg, showVersion, err := parseFlags(os.Args[1:])
	if err != nil {
		os.Exit(2)
	}
	if showVersion {
		fmt.Println(version)
		return
	}
	if cfg.SourceURI == "" {
		fmt.Println("decodebin-cli: -source is required")
		os.Exit(2)
	}

	logger.Init()
	if err := logger.SetLevel(cfg.LogLevel); err != nil {
		fmt.Printf("warning: invalid log level %q, using default\n", cfg.LogLevel)
	}
	log := logger.Logger().With("component", "cli")

	reg := registry.NewDefaultRegistry()
	reg.Add(source.TSDemuxFactory)

	b := bin.New(bin.Config{
		StopCapsName:              cfg.StopCapsName,
		ExposeAllStreams:          cfg.ExposeAllStreams,
		ConnectionSpeed:           cfg.ConnectionSpeed,
		SubtitleEncoding:          cfg.SubtitleEncoding,
		BufferingTotalBudgetBytes: cfg.BufferingTotalBudgetBytes,
	}, reg, bin.NewDefaultBuilder())

	wireSignalSinks(b, cfg.HookStdioFormat, cfg.HookWebhooks)

	if cfg.MetricsAddr != "" {
		go serveMetrics(b, cfg.MetricsAddr, log)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	class, err := source.Classify(cfg.SourceURI, source.SchedulingUnknown, source.Properties{
		ConnectionSpeed: cfg.ConnectionSpeed,
	})
	if err != nil {
		log.Error("failed to classify source", "uri", cfg.SourceURI, "error", err)
		os.Exit(1)
	}
	log.Info("source classified", "uri", cfg.SourceURI, "class", class.String())

	var srcElement element.Element
	var srcPad *element.Pad
	switch class {
	case source.ClassAdaptive:
		hls := source.NewHLSSource(cfg.SourceURI, nil)
		srcElement = hls
		if err := hls.Start(); err != nil {
			log.Error("failed to start hls source", "error", err)
			os.Exit(1)
		}
	default:
		f, err := os.Open(cfg.SourceURI)
		if err != nil {
			log.Error("failed to open source", "uri", cfg.SourceURI, "error", err)
			os.Exit(1)
		}
		defer f.Close()
		ts := source.NewTSDemuxElement(ctx, f, nil)
		srcElement = ts
	}

	if srcPad == nil {
		pads := srcElement.Pads()
		for _, p := range pads {
			if p.Direction() == registry.DirSource {
				srcPad = p
				break
			}
		}
	}
	if srcPad == nil {
		log.Error("source produced no pads")
		os.Exit(1)
	}

	if err := b.Start(ctx, srcElement, srcPad); err != nil {
		log.Error("bin start failed", "error", err)
		os.Exit(1)
	}
	if _, err := b.Expose(); err != nil {
		log.Warn("initial expose pending", "error", err)
	}

	log.Info("decodebin running", "version", version)
	<-ctx.Done()
	log.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	done := make(chan struct{})
	go func() {
		b.Stop()
		close(done)
	}()

	select {
	case <-done:
		log.Info("bin stopped cleanly")
	case <-shutdownCtx.Done():
		log.Error("forced exit after timeout")
	}
}

func serveMetrics(b *bin.Bin, addr string, log *slog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(b.Metrics.Gatherer(), promhttp.HandlerOpts{}))
	log.Info("serving metrics", "addr", addr)
	_ = http.ListenAndServe(addr, mux)
}

func wireSignalSinks(b *bin.Bin, stdioFormat string, webhooks []string) {
	if stdioFormat != "" {
		_ = b.Signals.EnableStdioOutput(stdioFormat)
	}
	for i, url := range webhooks {
		hook := events.NewWebhookHook(fmt.Sprintf("webhook-%d", i), url, 10*time.Second)
		_ = b.Signals.Register(events.TypeDrained, hook)
		_ = b.Signals.Register(events.TypeUnknownType, hook)
	}
}
