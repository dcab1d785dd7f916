// Command my-cache-proxy is a forwarding HTTP/1.x proxy with an in-memory,
// single-flight streaming response cache.
package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/arishaaaaa/my-cache-proxy/pkg/admin"
	"github.com/arishaaaaa/my-cache-proxy/pkg/cache"
	"github.com/arishaaaaa/my-cache-proxy/pkg/config"
	"github.com/arishaaaaa/my-cache-proxy/pkg/httpproxy"
	"github.com/arishaaaaa/my-cache-proxy/pkg/logging"
	"github.com/arishaaaaa/my-cache-proxy/pkg/metrics"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.FromEnviron()
	if err != nil {
		return err
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	log := logging.New(level)

	m := metrics.New()
	directory := cache.NewDirectory(cfg.Entries, cfg.MaxBytes)
	directory.OnEvict = m.IncEviction

	handler := httpproxy.NewHandler(directory, httpproxy.TCPDialer{Timeout: 10 * time.Second}, m, log, cfg.FollowerTimeout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	listener, err := net.Listen("tcp", cfg.ListenAddr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", cfg.ListenAddr, err)
	}
	log.Infof("proxy listening on %s", cfg.ListenAddr)

	adminServer := &http.Server{
		Addr:    cfg.AdminAddr,
		Handler: admin.New(directory, m, log),
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return acceptLoop(gctx, listener, handler, log)
	})

	g.Go(func() error {
		log.Infof("admin API listening on %s", cfg.AdminAddr)
		if err := adminServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Infof("shutting down")
		directory.Shutdown()
		listener.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return adminServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && gctx.Err() == nil {
		return err
	}
	return nil
}

func acceptLoop(ctx context.Context, listener net.Listener, handler *httpproxy.Handler, log logging.Logger) error {
	for {
		conn, err := listener.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			log.Warnf("accept failed: %v", err)
			continue
		}
		go handler.Handle(ctx, conn)
	}
}
