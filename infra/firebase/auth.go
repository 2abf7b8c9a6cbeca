package firebase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/plaroapp/plaro/domain"
)

const defaultAuthURL = "https://identitytoolkit.googleapis.com/v1"

// Identity implements app.Identity against the hosted identity
// provider (email/password accounts). It keeps one session in memory;
// token refresh is out of scope, the session simply lives as long as
// the process.
type Identity struct {
	apiKey  string
	authURL string
	http    *http.Client
	session *session
}

type session struct {
	uid         string
	email       string
	displayName string
	idToken     string
}

// NewIdentity creates an Identity using the given web API key.
func NewIdentity(apiKey string) *Identity {
	return &Identity{
		apiKey:  apiKey,
		authURL: defaultAuthURL,
		http:    &http.Client{},
	}
}

// IDToken satisfies TokenSource for the database client.
func (i *Identity) IDToken() string {
	if i.session == nil {
		return ""
	}
	return i.session.idToken
}

// CurrentUser returns the signed-in viewer, or ok=false when none.
func (i *Identity) CurrentUser() (domain.Author, bool) {
	if i.session == nil {
		return domain.Author{}, false
	}
	return i.author(), true
}

// SignIn authenticates an existing account.
func (i *Identity) SignIn(_ context.Context, email, password string) (domain.Author, error) {
	resp, err := i.call("accounts:signInWithPassword", map[string]any{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	})
	if err != nil {
		return domain.Author{}, err
	}
	i.session = &session{
		uid:         resp.LocalID,
		email:       email,
		displayName: resp.DisplayName,
		idToken:     resp.IDToken,
	}
	return i.author(), nil
}

// SignUp creates an account, sets its display name, and signs it in.
func (i *Identity) SignUp(ctx context.Context, email, password, displayName string) (domain.Author, error) {
	resp, err := i.call("accounts:signUp", map[string]any{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	})
	if err != nil {
		return domain.Author{}, err
	}
	i.session = &session{
		uid:         resp.LocalID,
		email:       email,
		displayName: displayName,
		idToken:     resp.IDToken,
	}

	if displayName != "" {
		// Best effort: a failed profile update still leaves a usable session.
		if upd, err := i.call("accounts:update", map[string]any{
			"idToken":           resp.IDToken,
			"displayName":       displayName,
			"returnSecureToken": true,
		}); err == nil && upd.IDToken != "" {
			i.session.idToken = upd.IDToken
		}
	}
	return i.author(), nil
}

// SignOut drops the session.
func (i *Identity) SignOut() {
	i.session = nil
}

func (i *Identity) author() domain.Author {
	name := i.session.displayName
	if name == "" {
		name = "Anonymous"
	}
	return domain.Author{ID: i.session.uid, DisplayName: name}
}

type authResponse struct {
	LocalID     string `json:"localId"`
	DisplayName string `json:"displayName"`
	IDToken     string `json:"idToken"`
}

func (i *Identity) call(endpoint string, body map[string]any) (authResponse, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return authResponse{}, fmt.Errorf("encoding auth request: %w", err)
	}

	u := fmt.Sprintf("%s/%s?key=%s", i.authURL, endpoint, i.apiKey)
	resp, err := i.http.Post(u, "application/json", bytes.NewReader(payload))
	if err != nil {
		return authResponse{}, fmt.Errorf("auth request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return authResponse{}, fmt.Errorf("reading auth response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var failure struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		msg := strings.TrimSpace(string(data))
		if json.Unmarshal(data, &failure) == nil && failure.Error.Message != "" {
			msg = failure.Error.Message
		}
		return authResponse{}, fmt.Errorf("%w: %s", domain.ErrAuthFailed, msg)
	}

	var parsed authResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return authResponse{}, fmt.Errorf("parsing auth response: %w", err)
	}
	return parsed, nil
}
