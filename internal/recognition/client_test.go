package recognition_test

import (
	"context"
	"encoding/base64"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"setlist/internal/recognition"
)

func TestDetectParsesTrack(t *testing.T) {
	var gotBody string
	var gotKey, gotHost, gotContentType string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/songs/v2/detect" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		gotKey = r.Header.Get("X-RapidAPI-Key")
		gotHost = r.Header.Get("X-RapidAPI-Host")
		gotContentType = r.Header.Get("Content-Type")
		payload, _ := io.ReadAll(r.Body)
		gotBody = string(payload)
		w.Write([]byte(`{"track":{"title":"Song Title","subtitle":"Artist Name"}}`))
	}))
	defer server.Close()

	client, err := recognition.New("key-123", server.URL, "shazam.p.rapidapi.com")
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	pcm := []byte{0x01, 0x02, 0x03, 0x04}
	match, err := client.Detect(context.Background(), pcm)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if !match.Found || match.Title != "Song Title" || match.Subtitle != "Artist Name" {
		t.Fatalf("match = %+v", match)
	}
	if gotBody != base64.StdEncoding.EncodeToString(pcm) {
		t.Fatalf("body = %q, want base64 of clip", gotBody)
	}
	if gotKey != "key-123" || gotHost != "shazam.p.rapidapi.com" {
		t.Fatalf("headers = %q/%q", gotKey, gotHost)
	}
	if gotContentType != "text/plain" {
		t.Fatalf("content type = %q", gotContentType)
	}
}

func TestDetectNoTrackIsNotAnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"matches":[]}`))
	}))
	defer server.Close()

	client, err := recognition.New("key", server.URL, "")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	match, err := client.Detect(context.Background(), []byte{0x01})
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if match.Found {
		t.Fatalf("expected no match, got %+v", match)
	}
}

func TestDetectRejectsBadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client, err := recognition.New("key", server.URL, "")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := client.Detect(context.Background(), []byte{0x01}); err == nil {
		t.Fatal("expected error for non-200 status")
	}
}

func TestDetectRejectsEmptyClip(t *testing.T) {
	client, err := recognition.New("key", "https://example.invalid", "")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := client.Detect(context.Background(), nil); err == nil {
		t.Fatal("expected error for empty clip")
	}
}

func TestNewRequiresCredentials(t *testing.T) {
	if _, err := recognition.New("", "https://example.invalid", ""); err == nil {
		t.Fatal("expected error for missing api key")
	}
	if _, err := recognition.New("key", "", ""); err == nil {
		t.Fatal("expected error for missing base url")
	}
}
