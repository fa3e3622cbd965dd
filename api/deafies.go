package api

import (
	"context"
	"errors"
	"net/http"
	"path/filepath"

	"github.com/tfnch/barker/internal/httpx"
	"github.com/tfnch/barker/models"
	"github.com/tfnch/barker/posse"
)

// DeafiesCreate handles POST /api/v1/deafies. Multipart like pictures, but
// the image is optional; deafie images live under their own base path.
func DeafiesCreate(e *Env, w http.ResponseWriter, r *http.Request) error {
	author, err := e.authenticate(r)
	if err != nil {
		return err
	}

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		return httpx.Error(http.StatusBadRequest, err)
	}
	title := r.FormValue("title")
	if title == "" {
		return httpx.Error(http.StatusBadRequest, errors.New("title is required"))
	}

	var imageName string
	if file, header, err := r.FormFile("image"); err == nil {
		defer file.Close()
		imageName, err = e.DeafieImages.SaveOriginal(file, filepath.Ext(header.Filename))
		if err != nil {
			return err
		}
	}

	deafie := models.Deafie{
		AuthorID:       author.ID,
		Title:          title,
		Body:           r.FormValue("body"),
		Image:          imageName,
		Lang:           orDefault(r.FormValue("lang"), "en"),
		ContentWarning: r.FormValue("content_warning"),
		Published:      r.FormValue("published") == "true",
		Posse:          r.FormValue("posse") == "true",
	}
	if err := e.DB.Create(&deafie).Error; err != nil {
		return err
	}

	var fx effects
	if imageName != "" {
		name := imageName
		fx.derive = func(context.Context) error { return e.DeafieImages.Derive(name) }
	}
	if deafie.Published {
		fx.url = deafie.URL(e.BaseURI)
		if deafie.Posse {
			fx.syndicate = &posse.Intent{
				Title:          deafie.Title,
				URL:            deafie.URL(e.BaseURI),
				ContentWarning: deafie.ContentWarning,
			}
		}
	}
	if fx.derive != nil || fx.url != "" {
		e.enqueue(fx)
	}

	return created(w, &deafie)
}

// DeafiesUpdate handles PUT /api/v1/deafies/{id}.
func DeafiesUpdate(e *Env, w http.ResponseWriter, r *http.Request) error {
	if _, err := e.authenticate(r); err != nil {
		return err
	}
	id, err := urlParamID(r)
	if err != nil {
		return err
	}

	var deafie models.Deafie
	if err := e.DB.First(&deafie, id).Error; err != nil {
		return notFoundOr(err)
	}
	wasLive := deafie.Published && deafie.Posse

	var params struct {
		Title          string `json:"title" schema:"title"`
		Body           string `json:"body" schema:"body"`
		Lang           string `json:"lang" schema:"lang"`
		ContentWarning string `json:"content_warning" schema:"content_warning"`
		Published      bool   `json:"published" schema:"published"`
		Posse          bool   `json:"posse" schema:"posse"`
	}
	if err := httpx.Params(r, &params); err != nil {
		return err
	}
	if params.Title == "" {
		return httpx.Error(http.StatusBadRequest, errors.New("title is required"))
	}

	deafie.Title = params.Title
	deafie.Body = params.Body
	deafie.Lang = orDefault(params.Lang, deafie.Lang)
	deafie.ContentWarning = params.ContentWarning
	deafie.Published = params.Published
	deafie.Posse = params.Posse
	if err := e.DB.Save(&deafie).Error; err != nil {
		return err
	}

	if deafie.Published {
		fx := effects{url: deafie.URL(e.BaseURI)}
		if deafie.Posse && !wasLive {
			fx.syndicate = &posse.Intent{
				Title:          deafie.Title,
				URL:            deafie.URL(e.BaseURI),
				ContentWarning: deafie.ContentWarning,
			}
		}
		e.enqueue(fx)
	}

	return httpx.JSON(w, &deafie)
}

// DeafiesDestroy handles DELETE /api/v1/deafies/{id}.
func DeafiesDestroy(e *Env, w http.ResponseWriter, r *http.Request) error {
	if _, err := e.authenticate(r); err != nil {
		return err
	}
	id, err := urlParamID(r)
	if err != nil {
		return err
	}

	var deafie models.Deafie
	if err := e.DB.First(&deafie, id).Error; err != nil {
		return notFoundOr(err)
	}
	if err := e.DB.Delete(&deafie).Error; err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}
