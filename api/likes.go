package api

import (
	"errors"
	"net/http"

	"github.com/tfnch/barker/internal/httpx"
	"github.com/tfnch/barker/models"
)

// LikesCreate handles POST /api/v1/likes. A like is live immediately: its
// page links to the liked URL, so the fan-out tells the liked page about
// it. Likes are never syndicated.
func LikesCreate(e *Env, w http.ResponseWriter, r *http.Request) error {
	author, err := e.authenticate(r)
	if err != nil {
		return err
	}

	var params struct {
		InReplyTo string `json:"in_reply_to" schema:"in_reply_to"`
	}
	if err := httpx.Params(r, &params); err != nil {
		return err
	}
	if params.InReplyTo == "" {
		return httpx.Error(http.StatusBadRequest, errors.New("in_reply_to is required"))
	}

	like := models.Like{
		AuthorID:  author.ID,
		InReplyTo: params.InReplyTo,
	}
	if err := e.DB.Create(&like).Error; err != nil {
		return err
	}

	e.enqueue(effects{url: like.URL(e.BaseURI)})

	return created(w, &like)
}

// LikesDestroy handles DELETE /api/v1/likes/{id}.
func LikesDestroy(e *Env, w http.ResponseWriter, r *http.Request) error {
	if _, err := e.authenticate(r); err != nil {
		return err
	}
	id, err := urlParamID(r)
	if err != nil {
		return err
	}

	var like models.Like
	if err := e.DB.First(&like, id).Error; err != nil {
		return notFoundOr(err)
	}
	if err := e.DB.Delete(&like).Error; err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}
