package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/pkg/group"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
	"gorm.io/gorm"

	"github.com/tfnch/barker/api"
	"github.com/tfnch/barker/internal/httpx"
	"github.com/tfnch/barker/mailer"
	"github.com/tfnch/barker/media"
	"github.com/tfnch/barker/posse"
	"github.com/tfnch/barker/webmention"
	"github.com/tfnch/barker/workers"
)

type ServeCmd struct {
	Addr string `help:"address to listen" default:":8080"`

	BaseURI             string `env:"BASE_URI" required:"" help:"canonical base URI of the site"`
	BasePath            string `env:"BASE_PATH" default:"." help:"directory for site data"`
	ImageBasePath       string `env:"IMAGE_BASE_PATH" help:"directory for picture uploads (default BASE_PATH/images)"`
	DeafieImageBasePath string `env:"DEAFIE_IMAGE_BASE_PATH" help:"directory for deafie picture uploads (default BASE_PATH/deafie-images)"`

	DatabaseMaxConnections int `env:"DATABASE_MAX_CONNECTIONS" default:"10" help:"connection pool size"`

	// COOKIE_KEY is accepted so deployments carrying it keep working; the
	// admin API authenticates with basic auth and does not read it.
	CookieKey string `env:"COOKIE_KEY" help:"secret for session cookies"`

	MastodonURL        string `env:"MASTODON_URL" help:"mastodon instance to syndicate to; empty disables syndication"`
	MastodonTOML       string `env:"MASTODON_TOML" default:"mastodon.toml" help:"path to the stored mastodon credentials"`
	MastodonVisibility string `env:"MASTODON_VISIBILITY" default:"public" help:"visibility for syndicated statuses"`

	MailHost string `env:"MAIL_HOST" help:"SMTP host for operator notifications; empty disables mail"`
	MailUser string `env:"MAIL_USER" help:"SMTP user, also the notification recipient"`
	MailPass string `env:"MAIL_PASS" help:"SMTP password"`
}

func (s *ServeCmd) Run(ctx *Context) error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel(ctx.Debug),
	}))
	slog.SetDefault(logger)

	base, err := url.Parse(s.BaseURI)
	if err != nil || !base.IsAbs() || base.Host == "" {
		return fmt.Errorf("BASE_URI %q is not an absolute URL", s.BaseURI)
	}

	db, err := gorm.Open(ctx.Dialector, &ctx.Config)
	if err != nil {
		return err
	}
	if err := configureDB(db, s.DatabaseMaxConnections); err != nil {
		return err
	}

	runner := workers.NewRunner(logger)

	dispatcher, err := s.dispatcher(logger)
	if err != nil {
		return err
	}

	notify := func(source, target string) {}
	if s.MailHost != "" {
		m := mailer.New(s.MailHost, s.MailUser, s.MailPass, logger)
		notify = func(source, target string) {
			runner.Submit("mention-mail", func(ctx context.Context) error {
				m.MentionReceived(ctx, source, target)
				return nil
			})
		}
	}

	images := media.NewStore(orPath(s.ImageBasePath, s.BasePath, "images"), logger)
	deafieImages := media.NewStore(orPath(s.DeafieImageBasePath, s.BasePath, "deafie-images"), logger)

	fetcher := webmention.NewFetcher(nil)
	wmEnv := &webmention.Env{
		DB:       db,
		Logger:   logger,
		SiteHost: base.Host,
		Fetcher:  fetcher,
		Notify:   notify,
	}
	apiEnv := &api.Env{
		DB:           db,
		Logger:       logger,
		BaseURI:      s.BaseURI,
		Tasks:        runner,
		Sender:       webmention.NewSender(fetcher, logger),
		Dispatcher:   dispatcher,
		Images:       images,
		DeafieImages: deafieImages,
	}

	c := chi.NewRouter()
	c.Use(middleware.RequestID)
	c.Use(middleware.RealIP)
	c.Use(middleware.Logger)
	c.Use(middleware.Recoverer)
	c.Use(webmention.LinkHeader(s.BaseURI))

	wm := func(r *http.Request) *webmention.Env { return wmEnv }
	admin := func(r *http.Request) *api.Env { return apiEnv }

	c.Route("/", func(r chi.Router) {
		r.With(webmention.RateLimit(rate.Every(time.Second), 5)).
			Post("/webmentions", httpx.HandlerFunc(wm, webmention.Receive))

		r.Route("/api/v1", func(r chi.Router) {
			r.Post("/notes", httpx.HandlerFunc(admin, api.NotesCreate))
			r.Put("/notes/{id:[0-9]+}", httpx.HandlerFunc(admin, api.NotesUpdate))
			r.Delete("/notes/{id:[0-9]+}", httpx.HandlerFunc(admin, api.NotesDestroy))

			r.Post("/articles", httpx.HandlerFunc(admin, api.ArticlesCreate))
			r.Put("/articles/{id:[0-9]+}", httpx.HandlerFunc(admin, api.ArticlesUpdate))
			r.Delete("/articles/{id:[0-9]+}", httpx.HandlerFunc(admin, api.ArticlesDestroy))

			r.Post("/pictures", httpx.HandlerFunc(admin, api.PicturesCreate))
			r.Put("/pictures/{id:[0-9]+}", httpx.HandlerFunc(admin, api.PicturesUpdate))
			r.Delete("/pictures/{id:[0-9]+}", httpx.HandlerFunc(admin, api.PicturesDestroy))

			r.Post("/likes", httpx.HandlerFunc(admin, api.LikesCreate))
			r.Delete("/likes/{id:[0-9]+}", httpx.HandlerFunc(admin, api.LikesDestroy))

			r.Post("/deafies", httpx.HandlerFunc(admin, api.DeafiesCreate))
			r.Put("/deafies/{id:[0-9]+}", httpx.HandlerFunc(admin, api.DeafiesUpdate))
			r.Delete("/deafies/{id:[0-9]+}", httpx.HandlerFunc(admin, api.DeafiesDestroy))
		})

		r.Method("GET", "/metrics", promhttp.Handler())
	})

	svr := &http.Server{
		Addr:         s.Addr,
		Handler:      c,
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}

	g := group.New(context.Background())
	g.Add(runner.Run)
	g.Add(func(ctx context.Context) error {
		logger.Info("listening", "addr", s.Addr, "base", s.BaseURI)
		return svr.ListenAndServe()
	})
	g.Add(func(ctx context.Context) error {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return svr.Shutdown(shutdown)
	})
	return g.Wait()
}

// dispatcher wires up syndication when MASTODON_URL is set. Registration is
// interactive on first run; stored credentials are verified before the
// server accepts traffic.
func (s *ServeCmd) dispatcher(logger *slog.Logger) (*posse.Dispatcher, error) {
	if s.MastodonURL == "" {
		return nil, nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	creds, err := posse.LoadOrRegister(ctx, s.MastodonURL, s.MastodonTOML, os.Stdin, os.Stdout)
	if err != nil {
		return nil, fmt.Errorf("mastodon registration: %w", err)
	}
	client := posse.NewClient(creds)
	if err := client.VerifyCredentials(ctx); err != nil {
		return nil, fmt.Errorf("mastodon credentials rejected: %w", err)
	}
	return posse.NewDispatcher(posse.NewStaticSource(client), posse.ParseVisibility(s.MastodonVisibility), logger), nil
}

func logLevel(debug bool) slog.Level {
	if debug {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

func orPath(path, base, fallback string) string {
	if path != "" {
		return path
	}
	return filepath.Join(base, fallback)
}
