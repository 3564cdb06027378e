package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/JEGHTNER/Zooting/internal/infrastructure/video/port"
)

func TestCreateSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/openvidu/api/sessions" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != "OPENVIDUAPP" || pass != "secret" {
			t.Errorf("basic auth = %q/%q", user, pass)
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"id": "ses_abc"})
	}))
	defer srv.Close()

	p := NewHTTPProvider(srv.URL, "secret")
	id, err := p.CreateSession(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if id != "ses_abc" {
		t.Fatalf("session id = %q, want %q", id, "ses_abc")
	}
}

func TestCreateConnection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/openvidu/api/sessions/ses_abc/connection" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"token": "wss://example?token=tok"})
	}))
	defer srv.Close()

	p := NewHTTPProvider(srv.URL, "secret")
	token, err := p.CreateConnection(context.Background(), "ses_abc")
	if err != nil {
		t.Fatal(err)
	}
	if token != "wss://example?token=tok" {
		t.Fatalf("token = %q", token)
	}
}

func TestProviderErrorResponses(t *testing.T) {
	cases := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
			},
		},
		{
			name: "empty session id",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_ = json.NewEncoder(w).Encode(map[string]string{})
			},
		},
		{
			name: "garbage body",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte("not json"))
			},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(tc.handler)
			defer srv.Close()

			p := NewHTTPProvider(srv.URL, "secret")
			if _, err := p.CreateSession(context.Background()); !errors.Is(err, port.ErrProvider) {
				t.Fatalf("err = %v, want ErrProvider", err)
			}
		})
	}
}

func TestNewHTTPProviderFromEnv(t *testing.T) {
	t.Setenv("SESSION_API_URL", "")
	t.Setenv("SESSION_API_SECRET", "")
	if _, err := NewHTTPProviderFromEnv(); err == nil {
		t.Fatal("expected error without SESSION_API_URL")
	}

	t.Setenv("SESSION_API_URL", "https://video.example/")
	if _, err := NewHTTPProviderFromEnv(); err == nil {
		t.Fatal("expected error without SESSION_API_SECRET")
	}

	t.Setenv("SESSION_API_SECRET", "secret")
	p, err := NewHTTPProviderFromEnv()
	if err != nil {
		t.Fatal(err)
	}
	if p.baseURL != "https://video.example" {
		t.Fatalf("baseURL = %q, want trailing slash trimmed", p.baseURL)
	}
}
