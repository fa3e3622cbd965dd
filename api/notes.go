package api

import (
	"errors"
	"net/http"

	"github.com/tfnch/barker/internal/httpx"
	"github.com/tfnch/barker/models"
	"github.com/tfnch/barker/posse"
)

type noteParams struct {
	Title          string `json:"title" schema:"title"`
	Body           string `json:"body" schema:"body"`
	Lang           string `json:"lang" schema:"lang"`
	ContentWarning string `json:"content_warning" schema:"content_warning"`
	Published      bool   `json:"published" schema:"published"`
	Posse          bool   `json:"posse" schema:"posse"`
}

// NotesCreate handles POST /api/v1/notes.
func NotesCreate(e *Env, w http.ResponseWriter, r *http.Request) error {
	author, err := e.authenticate(r)
	if err != nil {
		return err
	}

	var params noteParams
	if err := httpx.Params(r, &params); err != nil {
		return err
	}
	if params.Title == "" {
		return httpx.Error(http.StatusBadRequest, errors.New("title is required"))
	}

	note := models.Note{
		AuthorID:       author.ID,
		Title:          params.Title,
		Body:           params.Body,
		Lang:           orDefault(params.Lang, "en"),
		ContentWarning: params.ContentWarning,
		Published:      params.Published,
		Posse:          params.Posse,
	}
	if err := e.DB.Create(&note).Error; err != nil {
		return err
	}

	if note.Published {
		fx := effects{url: note.URL(e.BaseURI)}
		if note.Posse {
			fx.syndicate = &posse.Intent{
				Title:          note.Title,
				URL:            note.URL(e.BaseURI),
				ContentWarning: note.ContentWarning,
			}
		}
		e.enqueue(fx)
	}

	return created(w, &note)
}

// NotesUpdate handles PUT /api/v1/notes/{id}. Syndication fires only on the
// transition into published && posse; a re-save that leaves both flags on
// does not post again.
func NotesUpdate(e *Env, w http.ResponseWriter, r *http.Request) error {
	if _, err := e.authenticate(r); err != nil {
		return err
	}
	id, err := urlParamID(r)
	if err != nil {
		return err
	}

	var note models.Note
	if err := e.DB.First(&note, id).Error; err != nil {
		return notFoundOr(err)
	}
	wasLive := note.Published && note.Posse

	var params noteParams
	if err := httpx.Params(r, &params); err != nil {
		return err
	}
	if params.Title == "" {
		return httpx.Error(http.StatusBadRequest, errors.New("title is required"))
	}

	note.Title = params.Title
	note.Body = params.Body
	note.Lang = orDefault(params.Lang, note.Lang)
	note.ContentWarning = params.ContentWarning
	note.Published = params.Published
	note.Posse = params.Posse
	if err := e.DB.Save(&note).Error; err != nil {
		return err
	}

	if note.Published {
		fx := effects{url: note.URL(e.BaseURI)}
		if note.Posse && !wasLive {
			fx.syndicate = &posse.Intent{
				Title:          note.Title,
				URL:            note.URL(e.BaseURI),
				ContentWarning: note.ContentWarning,
			}
		}
		e.enqueue(fx)
	}

	return httpx.JSON(w, &note)
}

// NotesDestroy handles DELETE /api/v1/notes/{id}. The note's mentions go
// with it, in the same transaction.
func NotesDestroy(e *Env, w http.ResponseWriter, r *http.Request) error {
	if _, err := e.authenticate(r); err != nil {
		return err
	}
	id, err := urlParamID(r)
	if err != nil {
		return err
	}

	var note models.Note
	if err := e.DB.First(&note, id).Error; err != nil {
		return notFoundOr(err)
	}
	if err := e.DB.Delete(&note).Error; err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}
