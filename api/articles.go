package api

import (
	"errors"
	"net/http"
	"regexp"
	"strings"

	"github.com/tfnch/barker/internal/httpx"
	"github.com/tfnch/barker/models"
	"github.com/tfnch/barker/posse"
)

type articleParams struct {
	Title          string `json:"title" schema:"title"`
	Slug           string `json:"slug" schema:"slug"`
	Excerpt        string `json:"excerpt" schema:"excerpt"`
	Body           string `json:"body" schema:"body"`
	Lang           string `json:"lang" schema:"lang"`
	ContentWarning string `json:"content_warning" schema:"content_warning"`
	Published      bool   `json:"published" schema:"published"`
	Posse          bool   `json:"posse" schema:"posse"`
}

// ArticlesCreate handles POST /api/v1/articles.
func ArticlesCreate(e *Env, w http.ResponseWriter, r *http.Request) error {
	author, err := e.authenticate(r)
	if err != nil {
		return err
	}

	var params articleParams
	if err := httpx.Params(r, &params); err != nil {
		return err
	}
	if params.Title == "" {
		return httpx.Error(http.StatusBadRequest, errors.New("title is required"))
	}

	article := models.Article{
		AuthorID:       author.ID,
		Title:          params.Title,
		Slug:           orDefault(params.Slug, slugify(params.Title)),
		Excerpt:        params.Excerpt,
		Body:           params.Body,
		Lang:           orDefault(params.Lang, "en"),
		ContentWarning: params.ContentWarning,
		Published:      params.Published,
		Posse:          params.Posse,
	}
	if err := e.DB.Create(&article).Error; err != nil {
		return err
	}

	if article.Published {
		fx := effects{url: article.URL(e.BaseURI)}
		if article.Posse {
			fx.syndicate = &posse.Intent{
				Title:          article.Title,
				URL:            article.URL(e.BaseURI),
				ContentWarning: article.ContentWarning,
			}
		}
		e.enqueue(fx)
	}

	return created(w, &article)
}

// ArticlesUpdate handles PUT /api/v1/articles/{id}.
func ArticlesUpdate(e *Env, w http.ResponseWriter, r *http.Request) error {
	if _, err := e.authenticate(r); err != nil {
		return err
	}
	id, err := urlParamID(r)
	if err != nil {
		return err
	}

	var article models.Article
	if err := e.DB.First(&article, id).Error; err != nil {
		return notFoundOr(err)
	}
	wasLive := article.Published && article.Posse

	var params articleParams
	if err := httpx.Params(r, &params); err != nil {
		return err
	}
	if params.Title == "" {
		return httpx.Error(http.StatusBadRequest, errors.New("title is required"))
	}

	article.Title = params.Title
	article.Slug = orDefault(params.Slug, article.Slug)
	article.Excerpt = params.Excerpt
	article.Body = params.Body
	article.Lang = orDefault(params.Lang, article.Lang)
	article.ContentWarning = params.ContentWarning
	article.Published = params.Published
	article.Posse = params.Posse
	if err := e.DB.Save(&article).Error; err != nil {
		return err
	}

	if article.Published {
		fx := effects{url: article.URL(e.BaseURI)}
		if article.Posse && !wasLive {
			fx.syndicate = &posse.Intent{
				Title:          article.Title,
				URL:            article.URL(e.BaseURI),
				ContentWarning: article.ContentWarning,
			}
		}
		e.enqueue(fx)
	}

	return httpx.JSON(w, &article)
}

// ArticlesDestroy handles DELETE /api/v1/articles/{id}.
func ArticlesDestroy(e *Env, w http.ResponseWriter, r *http.Request) error {
	if _, err := e.authenticate(r); err != nil {
		return err
	}
	id, err := urlParamID(r)
	if err != nil {
		return err
	}

	var article models.Article
	if err := e.DB.First(&article, id).Error; err != nil {
		return notFoundOr(err)
	}
	if err := e.DB.Delete(&article).Error; err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

var slugStrip = regexp.MustCompile(`[^a-z0-9]+`)

// slugify derives a URL slug from a title.
func slugify(title string) string {
	s := slugStrip.ReplaceAllString(strings.ToLower(title), "-")
	return strings.Trim(s, "-")
}
