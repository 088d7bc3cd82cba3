package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"seeshare/metrics"
	"seeshare/svc/mockapi"
	"seeshare/svc/util"
)

// seemock serves an in-memory stand-in for the sharing service, for
// developing the client without an account or network access.
func main() {
	addr := flag.String("addr", "127.0.0.1:8925", "listen address")
	key := flag.String("key", "dev-key", "API key the mock accepts")
	domains := flag.String("domains", "s.ee,fast.io", "comma-separated domain list")
	logLevel := flag.String("log-level", "debug", "zerolog level")
	flag.Parse()

	util.InitLog(*logLevel, true)
	metrics.Init()

	var list []string
	for _, d := range strings.Split(*domains, ",") {
		if d = strings.TrimSpace(d); d != "" {
			list = append(list, d)
		}
	}

	mock := mockapi.New(*key, list)
	srv := &http.Server{
		Addr:              *addr,
		Handler:           mock.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		util.Info().Str("addr", *addr).Strs("domains", list).Msg("mock sharing service listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			util.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	util.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		util.Error().Err(err).Msg("graceful shutdown failed")
	}
}
