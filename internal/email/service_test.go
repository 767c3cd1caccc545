package email

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/carsonSgit/cusec-photobooth/internal/types"
)

func TestSendStripFailsFastWhenUnconfigured(t *testing.T) {
	s := NewService("", "photobooth@cusec.net")
	err := s.SendStrip(context.Background(), "attendee@example.com", &types.PhotoStrip{Data: []byte{1}, Mime: "image/png"})
	if !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestSendStripAttachesTimestampedFile(t *testing.T) {
	var got ResendRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Errorf("unexpected auth header %q", auth)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(ResendResponse{ID: "msg-1"})
	}))
	defer srv.Close()

	s := NewService("test-key", "photobooth@cusec.net")
	s.httpClient = srv.Client()
	s.now = func() time.Time { return time.UnixMilli(1767981600000) }

	// Point the service at the test server through a rewriting transport.
	s.httpClient.Transport = rewriteHost(srv.URL)

	strip := &types.PhotoStrip{Data: []byte("png-bytes"), Mime: "image/png"}
	if err := s.SendStrip(context.Background(), "attendee@example.com", strip); err != nil {
		t.Fatal(err)
	}

	if len(got.Attachments) != 1 {
		t.Fatalf("expected 1 attachment, got %d", len(got.Attachments))
	}
	if got.Attachments[0].Filename != "cusec-2026-photobooth-1767981600000.png" {
		t.Errorf("unexpected filename %q", got.Attachments[0].Filename)
	}
	if got.To[0] != "attendee@example.com" || got.From != "photobooth@cusec.net" {
		t.Errorf("unexpected addressing: %+v", got)
	}
}

func TestSendStripSurfacesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_ = json.NewEncoder(w).Encode(ResendResponse{Error: "invalid recipient"})
	}))
	defer srv.Close()

	s := NewService("test-key", "photobooth@cusec.net")
	s.httpClient = srv.Client()
	s.httpClient.Transport = rewriteHost(srv.URL)

	err := s.SendStrip(context.Background(), "nope", &types.PhotoStrip{Data: []byte{1}, Mime: "image/png"})
	if err == nil || !strings.Contains(err.Error(), "invalid recipient") {
		t.Fatalf("expected API error surfaced, got %v", err)
	}
}

func TestValidAddress(t *testing.T) {
	for addr, want := range map[string]bool{
		"a@b.com":     true,
		"":            false,
		"no-at-sign":  false,
		"@leading":    false,
		"trailing@":   false,
		"sp ace@x.io": false,
	} {
		if got := ValidAddress(addr); got != want {
			t.Errorf("ValidAddress(%q) = %v, want %v", addr, got, want)
		}
	}
}

// rewriteHost redirects every request to the test server regardless of
// the hard-coded API URL.
func rewriteHost(target string) http.RoundTripper {
	return roundTripFunc(func(r *http.Request) (*http.Response, error) {
		u := strings.TrimPrefix(target, "http://")
		r.URL.Scheme = "http"
		r.URL.Host = u
		return http.DefaultTransport.RoundTrip(r)
	})
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }
