package posse

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/carlmjohnson/requests"
)

// A Client talks to a Mastodon compatible server with a bearer token.
type Client struct {
	server string
	token  string
	http   *http.Client
}

// NewClient returns a client for the server named in the credentials.
func NewClient(creds *Credentials) *Client {
	return &Client{
		server: strings.TrimSuffix(creds.Server, "/"),
		token:  creds.AccessToken,
	}
}

// WithHTTPClient sets the underlying http.Client, mainly for tests.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.http = hc
	return c
}

// VerifyCredentials checks that the stored token is still accepted.
func (c *Client) VerifyCredentials(ctx context.Context) error {
	return requests.URL(c.server + "/api/v1/accounts/verify_credentials").
		Client(c.http).
		Bearer(c.token).
		CheckStatus(http.StatusOK).
		Fetch(ctx)
}

// A Status is a post to submit to the server.
type Status struct {
	Status      string
	Visibility  Visibility
	Sensitive   bool
	SpoilerText string
	MediaIDs    []string
}

// PostStatus submits the status.
func (c *Client) PostStatus(ctx context.Context, st Status) error {
	form := url.Values{
		"status":     []string{st.Status},
		"visibility": []string{string(st.Visibility)},
	}
	if st.Sensitive {
		form.Set("sensitive", "true")
		form.Set("spoiler_text", st.SpoilerText)
	}
	for _, id := range st.MediaIDs {
		form.Add("media_ids[]", id)
	}
	return requests.URL(c.server + "/api/v1/statuses").
		Client(c.http).
		Bearer(c.token).
		BodyForm(form).
		CheckStatus(http.StatusOK).
		Fetch(ctx)
}

// UploadMedia uploads the file at path as a media attachment and returns the
// attachment id to include in a status.
func (c *Client) UploadMedia(ctx context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, f); err != nil {
		return "", err
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	var attachment struct {
		ID string `json:"id"`
	}
	err = requests.URL(c.server + "/api/v1/media").
		Client(c.http).
		Bearer(c.token).
		ContentType(mw.FormDataContentType()).
		BodyBytes(body.Bytes()).
		CheckStatus(http.StatusOK, http.StatusAccepted).
		ToJSON(&attachment).
		Fetch(ctx)
	if err != nil {
		return "", err
	}
	return attachment.ID, nil
}
