// Package api implements the JSON admin API used for programmatic creation
// of content. Publishing through it triggers the site's background effects:
// image derivation, webmention fan-out and syndication.
package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/tfnch/barker/internal/httpx"
	"github.com/tfnch/barker/media"
	"github.com/tfnch/barker/models"
	"github.com/tfnch/barker/posse"
	"github.com/tfnch/barker/webmention"
	"gorm.io/gorm"
)

// A Submitter accepts background tasks. Satisfied by workers.Runner.
type Submitter interface {
	Submit(name string, fn func(context.Context) error)
}

// Env is the request environment for the admin API handlers.
type Env struct {
	DB      *gorm.DB
	Logger  *slog.Logger
	BaseURI string

	Tasks      Submitter
	Sender     *webmention.Sender
	Dispatcher *posse.Dispatcher

	Images       *media.Store
	DeafieImages *media.Store
}

func (e *Env) Log() *slog.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return slog.Default()
}

// authenticate checks the request's basic auth against the authors table.
func (e *Env) authenticate(r *http.Request) (*models.Author, error) {
	email, password, ok := r.BasicAuth()
	if !ok {
		return nil, httpx.Error(http.StatusUnauthorized, errors.New("authentication required"))
	}
	author, err := models.NewAuthors(e.DB).FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httpx.Error(http.StatusUnauthorized, errors.New("bad credentials"))
		}
		return nil, err
	}
	if !author.CheckPassword(password) {
		return nil, httpx.Error(http.StatusUnauthorized, errors.New("bad credentials"))
	}
	return author, nil
}

// urlParamID parses the {id} route parameter.
func urlParamID(r *http.Request) (uint, error) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 32)
	if err != nil || id == 0 {
		return 0, httpx.Error(http.StatusNotFound, errors.New("no such id"))
	}
	return uint(id), nil
}

// effects describes the background work owed after a save.
type effects struct {
	// url is the canonical URL to fan webmentions out from.
	url string
	// syndicate, if set, is submitted to the syndication server.
	syndicate *posse.Intent
	// derive, if set, runs before everything else.
	derive func(context.Context) error
}

// enqueue hands the effects to the task runner as one sequential task:
// derive images, then fan out webmentions, then syndicate. The request
// returns without waiting for any of it.
func (e *Env) enqueue(fx effects) {
	e.Tasks.Submit("publish-effects", func(ctx context.Context) error {
		if fx.derive != nil {
			if err := fx.derive(ctx); err != nil {
				e.Log().Error("image derivation failed", "url", fx.url, "error", err)
			}
		}
		if fx.url != "" {
			e.Sender.SendAll(ctx, fx.url)
		}
		if fx.syndicate != nil && e.Dispatcher != nil {
			e.Dispatcher.Syndicate(ctx, *fx.syndicate)
		}
		return nil
	})
}

// orDefault returns s, or fallback when s is empty.
func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

// notFoundOr maps a missing row onto 404 and passes everything else through.
func notFoundOr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return httpx.Error(http.StatusNotFound, err)
	}
	return err
}

// created writes a 201 with the entity as JSON.
func created(w http.ResponseWriter, entity any) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusCreated)
	return httpx.JSON(w, entity)
}
