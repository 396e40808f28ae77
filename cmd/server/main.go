package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/falcondocs/internal/api"
	"github.com/dgallion1/falcondocs/internal/config"
	"github.com/dgallion1/falcondocs/internal/docsource"
	"github.com/dgallion1/falcondocs/internal/render"
	"github.com/samber/oops"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(os.Args); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return newRootCommand().Run(ctx, args)
}

func newRootCommand() *cli.Command {
	return &cli.Command{
		Name:  "falcondocs",
		Usage: "Serve the Falcon documentation site",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "Path to config file"},
			&cli.StringFlag{Name: "port", Aliases: []string{"p"}, Usage: "Port to listen on"},
		},
		Commands: []*cli.Command{
			newServeCommand(),
			newRoutesCommand(),
		},
		Action: serveAction,
	}
}

func newServeCommand() *cli.Command {
	return &cli.Command{
		Name:   "serve",
		Usage:  "Start the HTTP server (default)",
		Action: serveAction,
	}
}

// loadConfig reads the config file named by --config and applies --port.
func loadConfig(cmd *cli.Command) (config.Config, error) {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return config.Config{}, err
	}
	if port := cmd.String("port"); port != "" {
		cfg.Port = port
		if err := cfg.Validate(); err != nil {
			return config.Config{}, err
		}
	}
	return cfg, nil
}

// app is the wired site: the upstream client and the HTTP handler using it.
type app struct {
	client *docsource.Client
	server *api.Server
}

func newApp(cfg config.Config, log *slog.Logger) (*app, error) {
	pages, err := render.New(render.Site{
		Name:    cfg.Framework.Name,
		Version: cfg.Framework.Version,
		Module:  cfg.Framework.Module,
		RepoURL: cfg.Framework.RepoURL,
		PkgURL:  cfg.Framework.PkgURL,
	}, render.WithHighlightStyle(cfg.HighlightStyle))
	if err != nil {
		return nil, oops.Code("RENDER_INIT").Wrapf(err, "loading templates")
	}

	client := docsource.NewClient(cfg.DocsURL, cfg.UpstreamTimeout)
	loader := docsource.NewLoader(client, log)

	return &app{
		client: client,
		server: api.NewServer(client, loader, pages, log, cfg),
	}, nil
}

func serveAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))

	a, err := newApp(cfg, log)
	if err != nil {
		return err
	}
	defer a.client.Close()

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      a.server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		log.Info("starting falcondocs", "port", cfg.Port, "docs_url", cfg.DocsURL)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return oops.Code("SERVER_FAILED").With("port", cfg.Port).Wrapf(err, "listening")
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		log.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	return group.Wait()
}
