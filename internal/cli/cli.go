// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Jason Giese (Bl4cky99)

package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/Bl4cky99/sessiongate/internal/auth"
	"github.com/Bl4cky99/sessiongate/internal/config"
	"github.com/Bl4cky99/sessiongate/internal/httpx"
	"github.com/Bl4cky99/sessiongate/internal/metrics"
	"github.com/Bl4cky99/sessiongate/internal/render"
	"github.com/Bl4cky99/sessiongate/internal/sessionstore"
	"github.com/fatih/color"
)

type httpServer interface {
	ListenAndServe() error
	Shutdown(context.Context) error
}

var (
	loadConfig    = config.Load
	newHTTPServer = func(ctx context.Context, cfg *config.Config, opts ...httpx.Option) (httpServer, error) {
		return httpx.New(ctx, cfg, opts...)
	}
	openSessionStore = sessionstore.New
	getenv           = os.Getenv
	notifyContext    = signal.NotifyContext
	runServer        = cmdServer
	runValidate      = cmdValidate
	runHashPassword  = cmdHashPassword
)

const usageHeader = `sessiongate - login, session and token gate for a single tenant

Usage:
	sessiongate <command> [flags]

Commands:
	serve          Start the auth server
	validate       Validate a config file and exit
	hash-password  Print a bcrypt hash for auth.users
	version        Print version info

Run 'sessiongate <command> --help' for command-specific flags.
`

func Execute(version, commit, date string) int {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usageHeader)
		return 2
	}

	switch os.Args[1] {
	case "-h", "-help", "--help", "help":
		fmt.Fprint(os.Stdout, usageHeader)
		return 0
	case "serve":
		return runServer(version, commit, date, os.Args[2:])
	case "validate":
		return runValidate(os.Args[2:])
	case "hash-password":
		return runHashPassword(os.Args[2:])
	case "version", "-v", "--version":
		fmt.Printf("sessiongate %s (commit %s, built %s)\n", version, commit, date)
		return 0
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", os.Args[1], usageHeader)
		return 2
	}
}

func cmdServer(version, commit, date string, args []string) int {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), `Usage: sessiongate serve [flags]

Flags:
	-c, --config string		Path to config file (yaml|yml|json|toml) (default "config.yaml")
	-a, --addr string		Override server address (e.g. :9000)
	-l, --log-level string 		Log level: debug|info|warn|error (default: "info")
	-p, --pretty			Colourised human-readable logs instead of JSON
	    --version			Print version on startup
`)
	}
	cfgPath := fs.String("config", "config.yaml", "")
	fs.StringVar(cfgPath, "c", *cfgPath, "path to config file")

	addr := fs.String("addr", "", "")
	fs.StringVar(addr, "a", *addr, "override server address")

	logLevel := fs.String("log-level", "info", "")
	fs.StringVar(logLevel, "l", *logLevel, "log level (debug|info|warn|error)")

	pretty := fs.Bool("pretty", false, "")
	fs.BoolVar(pretty, "p", *pretty, "human-readable logs")

	printVersion := fs.Bool("version", false, "")

	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "%v", err.Error())
		return 2
	}

	log := newLogger(os.Stdout, parseLevel(*logLevel), *pretty).
		With("svc", "sessiongate", "version", version, "commit", commit)

	if *printVersion {
		log.Info("version", "version", version, "commit", commit, "date", date)
	}

	ctx, stop := notifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		log.Error("load config", "path", *cfgPath, "err", err)
		return 1
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}

	var m *metrics.Metrics
	if cfg.Server.Metrics.Enabled {
		m = metrics.New()
	}

	svc, store, err := buildAuth(ctx, cfg, log)
	if err != nil {
		log.Error("init auth", "err", err)
		return 1
	}
	if store != nil {
		defer func() {
			if err := store.Close(); err != nil {
				log.Error("close session store", "err", err)
			}
		}()
	}

	srv, err := newHTTPServer(ctx, cfg,
		httpx.WithLogger(log),
		httpx.WithAuth(svc),
		httpx.WithRenderer(render.New()),
		httpx.WithMetrics(m),
	)
	if err != nil {
		log.Error("init server", "err", err)
		return 1
	}

	var wg sync.WaitGroup
	if store != nil {
		sw := auth.NewSweeper(store, cfg.Session.Sweep(),
			auth.WithLogger(log), auth.WithSweepObserver(m.ObserveSwept))
		wg.Add(1)
		go func() {
			defer wg.Done()
			sw.Run(ctx)
		}()
	}

	go func() {
		log.Info("server starting", "addr", cfg.Server.Addr, "basePath", cfg.Server.BasePath)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "err", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	log.Info("shutting down...")
	err = srv.Shutdown(shutCtx)
	wg.Wait()
	if err != nil {
		log.Error("graceful shutdown failed", "err", err)
		return 1
	}
	log.Info("bye")
	return 0
}

func cmdValidate(args []string) int {
	fs := flag.NewFlagSet("validate", flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), `Usage: sessiongate validate -c <file>

Flags:
	-c, --config string		Path to config file (yaml|yml|json|toml) (required)
`)
	}
	cfgPath := fs.String("config", "", "")
	fs.StringVar(cfgPath, "c", *cfgPath, "path to config file")

	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "%v", err.Error())
		return 2
	}

	if *cfgPath == "" {
		fs.Usage()
		return 2
	}

	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "invalid config: %v\n", err)
		return 1
	}

	// Token deployments cannot start without their secret.
	if cfg.Auth.Transport == config.TransportToken {
		if _, err := cfg.Secret(getenv); err != nil {
			color.New(color.FgYellow).Fprintf(os.Stderr, "warning: %v\n", err)
		}
	}

	color.New(color.FgGreen).Fprintln(os.Stdout, "config ok")
	fmt.Fprintf(os.Stdout, "transport=%s carrier=%s ttl=%s users=%d endpoints=%d\n",
		cfg.Auth.Transport, cfg.Auth.Carrier, cfg.Auth.TTL.Std(), len(cfg.Auth.Users), len(cfg.Endpoints))
	return 0
}
