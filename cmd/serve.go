package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/desertthunder/sortify/internal/repositories"
	"github.com/desertthunder/sortify/internal/server"
	"github.com/desertthunder/sortify/internal/services"
	"github.com/desertthunder/sortify/internal/sessions"
	"github.com/desertthunder/sortify/internal/shared"
	"github.com/desertthunder/sortify/internal/ui"
	"github.com/urfave/cli/v3"
	"golang.org/x/time/rate"
)

func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the session proxy HTTP server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
		},
		Action: r.Serve,
	}
}

// Serve wires the token store, session manager, and handlers together and runs
// the HTTP server until the process exits.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	if path := cmd.String("config"); path != "" {
		config, err := shared.LoadConfig(path)
		if err != nil {
			r.logger.Warnf("falling back to default config: %v", err)
		} else {
			r.config = config
		}
	}

	if err := r.config.Validate(); err != nil {
		return err
	}

	store, err := sessions.NewRedisStore(ctx, r.config.Redis)
	if err != nil {
		return err
	}
	defer store.Close()

	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := shared.Migrate(db); err != nil {
		return err
	}

	auth, err := services.NewSpotifyAuth(r.config.Spotify)
	if err != nil {
		return err
	}

	manager := sessions.NewManager(store, auth, shared.WithLogger(r.logger, "component", "sessions"))
	insight := services.NewInsightClient(r.config.Insight, r.httpClient)
	history := repositories.NewHistoryRepository(db)

	router := server.NewBasicRouter()
	router.Use(
		server.Recover(r.logger),
		server.RequestLogger(r.logger),
	)

	// The upstream-facing proxy is the only surface worth rate limiting; the
	// auth flow and auxiliary endpoints stay reachable under load.
	proxy := server.NewProxyHandler(manager, services.SpotifyBaseURL, r.httpClient,
		shared.WithLogger(r.logger, "handler", "proxy"))
	limit := server.RateLimit(rate.Limit(r.config.Server.RateLimit), r.config.Server.RateBurst)
	router.Handle("", "/api/", limit(proxy))

	for _, h := range []server.Handler{
		server.NewPageHandler(store, r.logger),
		server.NewAuthHandler(auth, manager, store, shared.WithLogger(r.logger, "handler", "auth")),
		server.NewInsightHandler(manager, insight, shared.WithLogger(r.logger, "handler", "insight")),
		server.NewHistoryHandler(manager, history, shared.WithLogger(r.logger, "handler", "history")),
	} {
		router.Handler(h)
	}

	addr := fmt.Sprintf("%s:%d", r.config.Server.Host, r.config.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	r.writePlain("%s listening on %s\n",
		ui.Styles.Title.Render("sortify"), ui.Styles.OK.Render("http://"+addr))
	r.logger.Info("server starting", "addr", addr)

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}
