package firebase

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/plaroapp/plaro/domain"
)

func newTestIdentity(t *testing.T, handler http.HandlerFunc) *Identity {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	id := NewIdentity("test-key")
	id.authURL = srv.URL
	return id
}

func TestSignIn_EstablishesSession(t *testing.T) {
	id := newTestIdentity(t, func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "accounts:signInWithPassword") {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("key") != "test-key" {
			t.Fatalf("API key missing from request")
		}
		json.NewEncoder(w).Encode(map[string]string{
			"localId":     "u1",
			"displayName": "Alice",
			"idToken":     "tok-1",
		})
	})

	user, err := id.SignIn(context.Background(), "a@example.com", "hunter2")
	if err != nil {
		t.Fatalf("sign in failed: %v", err)
	}
	if user.ID != "u1" || user.DisplayName != "Alice" {
		t.Fatalf("unexpected user: %#v", user)
	}
	if id.IDToken() != "tok-1" {
		t.Fatalf("token not retained")
	}
	if _, ok := id.CurrentUser(); !ok {
		t.Fatalf("session must be established")
	}
}

func TestSignIn_RejectionMapsToAuthFailed(t *testing.T) {
	id := newTestIdentity(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"message": "INVALID_PASSWORD"},
		})
	})

	_, err := id.SignIn(context.Background(), "a@example.com", "wrong")
	if !errors.Is(err, domain.ErrAuthFailed) {
		t.Fatalf("expected ErrAuthFailed, got %v", err)
	}
	if !strings.Contains(err.Error(), "INVALID_PASSWORD") {
		t.Fatalf("backend message must be preserved: %v", err)
	}
	if _, ok := id.CurrentUser(); ok {
		t.Fatalf("failed sign-in must not establish a session")
	}
}

func TestSignUp_SetsDisplayName(t *testing.T) {
	var sawUpdate bool
	id := newTestIdentity(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.Contains(r.URL.Path, "accounts:signUp"):
			json.NewEncoder(w).Encode(map[string]string{"localId": "u9", "idToken": "tok-9"})
		case strings.Contains(r.URL.Path, "accounts:update"):
			sawUpdate = true
			var body map[string]any
			json.NewDecoder(r.Body).Decode(&body)
			if body["displayName"] != "Newbie" {
				t.Fatalf("display name not forwarded: %#v", body)
			}
			json.NewEncoder(w).Encode(map[string]string{"idToken": "tok-10"})
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	})

	user, err := id.SignUp(context.Background(), "n@example.com", "hunter2", "Newbie")
	if err != nil {
		t.Fatalf("sign up failed: %v", err)
	}
	if user.ID != "u9" || user.DisplayName != "Newbie" {
		t.Fatalf("unexpected user: %#v", user)
	}
	if !sawUpdate {
		t.Fatalf("profile update must be attempted")
	}
	if id.IDToken() != "tok-10" {
		t.Fatalf("refreshed token must replace the original")
	}
}

func TestSignOut_DropsSession(t *testing.T) {
	id := NewIdentity("test-key")
	id.session = &session{uid: "u1", idToken: "tok"}
	id.SignOut()
	if _, ok := id.CurrentUser(); ok {
		t.Fatalf("session must be dropped")
	}
	if id.IDToken() != "" {
		t.Fatalf("token must be cleared")
	}
}

func TestCurrentUser_AnonymousFallbackName(t *testing.T) {
	id := NewIdentity("test-key")
	id.session = &session{uid: "u1", idToken: "tok"}
	user, ok := id.CurrentUser()
	if !ok || user.DisplayName != "Anonymous" {
		t.Fatalf("missing display name must fall back to Anonymous: %#v", user)
	}
}
