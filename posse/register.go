package posse

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/carlmjohnson/requests"
)

const (
	appName     = "barker"
	oobRedirect = "urn:ietf:wg:oauth:2.0:oob"
	scopes      = "read write"
)

// LoadOrRegister returns the credential bundle at path, performing the
// one-time interactive registration against the server if no bundle exists
// yet. The registration prompts on out and reads the authorization code
// from in.
func LoadOrRegister(ctx context.Context, server, path string, in io.Reader, out io.Writer) (*Credentials, error) {
	if creds, err := LoadCredentials(path); err == nil {
		return creds, nil
	}

	creds, err := register(ctx, server, in, out)
	if err != nil {
		return nil, err
	}
	if err := creds.Save(path); err != nil {
		return nil, err
	}
	return creds, nil
}

// register walks the OAuth authorization code flow: create an app, send the
// operator to the authorize URL, exchange the pasted code for a token.
func register(ctx context.Context, server string, in io.Reader, out io.Writer) (*Credentials, error) {
	server = strings.TrimSuffix(server, "/")

	var app struct {
		ClientID     string `json:"client_id"`
		ClientSecret string `json:"client_secret"`
	}
	err := requests.URL(server + "/api/v1/apps").
		BodyForm(url.Values{
			"client_name":   []string{appName},
			"redirect_uris": []string{oobRedirect},
			"scopes":        []string{scopes},
		}).
		CheckStatus(http.StatusOK).
		ToJSON(&app).
		Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("register app: %w", err)
	}

	authorize := fmt.Sprintf("%s/oauth/authorize?%s", server, url.Values{
		"client_id":     []string{app.ClientID},
		"redirect_uri":  []string{oobRedirect},
		"response_type": []string{"code"},
		"scope":         []string{scopes},
	}.Encode())
	fmt.Fprintf(out, "Open %s in a browser, authorize %s, and paste the code here: ", authorize, appName)

	scanner := bufio.NewScanner(in)
	if !scanner.Scan() {
		return nil, fmt.Errorf("register: no authorization code: %w", scanner.Err())
	}
	code := strings.TrimSpace(scanner.Text())
	if code == "" {
		return nil, fmt.Errorf("register: empty authorization code")
	}

	var token struct {
		AccessToken string `json:"access_token"`
	}
	err = requests.URL(server + "/oauth/token").
		BodyForm(url.Values{
			"client_id":     []string{app.ClientID},
			"client_secret": []string{app.ClientSecret},
			"redirect_uri":  []string{oobRedirect},
			"grant_type":    []string{"authorization_code"},
			"code":          []string{code},
			"scope":         []string{scopes},
		}).
		CheckStatus(http.StatusOK).
		ToJSON(&token).
		Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("register: token exchange: %w", err)
	}

	return &Credentials{
		Server:       server,
		ClientID:     app.ClientID,
		ClientSecret: app.ClientSecret,
		AccessToken:  token.AccessToken,
	}, nil
}
