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

// PicturesCreate handles POST /api/v1/pictures. The request is multipart:
// the image file under "image", the text fields beside it.
func PicturesCreate(e *Env, w http.ResponseWriter, r *http.Request) error {
	author, err := e.authenticate(r)
	if err != nil {
		return err
	}

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		return httpx.Error(http.StatusBadRequest, err)
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		return httpx.Error(http.StatusBadRequest, errors.New("image is required"))
	}
	defer file.Close()

	title := r.FormValue("title")
	if title == "" {
		return httpx.Error(http.StatusBadRequest, errors.New("title is required"))
	}

	name, err := e.Images.SaveOriginal(file, filepath.Ext(header.Filename))
	if err != nil {
		return err
	}

	picture := models.Picture{
		AuthorID:       author.ID,
		Title:          title,
		Body:           r.FormValue("body"),
		Image:          name,
		ContentType:    orDefault(header.Header.Get("Content-Type"), "application/octet-stream"),
		Lang:           orDefault(r.FormValue("lang"), "en"),
		ContentWarning: r.FormValue("content_warning"),
		Published:      r.FormValue("published") == "true",
		Posse:          r.FormValue("posse") == "true",
	}
	if err := e.DB.Create(&picture).Error; err != nil {
		return err
	}

	fx := effects{
		derive: func(context.Context) error { return e.Images.Derive(name) },
	}
	if picture.Published {
		fx.url = picture.URL(e.BaseURI)
		if picture.Posse {
			fx.syndicate = &posse.Intent{
				Title:          picture.Title,
				URL:            picture.URL(e.BaseURI),
				ContentWarning: picture.ContentWarning,
				MediaFile:      e.Images.Path(name),
			}
		}
	}
	e.enqueue(fx)

	return created(w, &picture)
}

// PicturesUpdate handles PUT /api/v1/pictures/{id}. The image itself is
// immutable; only the text fields and flags change.
func PicturesUpdate(e *Env, w http.ResponseWriter, r *http.Request) error {
	if _, err := e.authenticate(r); err != nil {
		return err
	}
	id, err := urlParamID(r)
	if err != nil {
		return err
	}

	var picture models.Picture
	if err := e.DB.First(&picture, id).Error; err != nil {
		return notFoundOr(err)
	}
	wasLive := picture.Published && picture.Posse

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

	picture.Title = params.Title
	picture.Body = params.Body
	picture.Lang = orDefault(params.Lang, picture.Lang)
	picture.ContentWarning = params.ContentWarning
	picture.Published = params.Published
	picture.Posse = params.Posse
	if err := e.DB.Save(&picture).Error; err != nil {
		return err
	}

	if picture.Published {
		fx := effects{url: picture.URL(e.BaseURI)}
		if picture.Posse && !wasLive {
			fx.syndicate = &posse.Intent{
				Title:          picture.Title,
				URL:            picture.URL(e.BaseURI),
				ContentWarning: picture.ContentWarning,
				MediaFile:      e.Images.Path(picture.Image),
			}
		}
		e.enqueue(fx)
	}

	return httpx.JSON(w, &picture)
}

// PicturesDestroy handles DELETE /api/v1/pictures/{id}.
func PicturesDestroy(e *Env, w http.ResponseWriter, r *http.Request) error {
	if _, err := e.authenticate(r); err != nil {
		return err
	}
	id, err := urlParamID(r)
	if err != nil {
		return err
	}

	var picture models.Picture
	if err := e.DB.First(&picture, id).Error; err != nil {
		return notFoundOr(err)
	}
	if err := e.DB.Delete(&picture).Error; err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}
