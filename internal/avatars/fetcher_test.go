package avatars

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/unionhq/membercard-backend/pkg/config"
	pkgerrors "github.com/unionhq/membercard-backend/pkg/errors"
)

func pngBytes(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: 120, G: 40, B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encoding fixture: %v", err)
	}
	return buf.Bytes()
}

func TestFetchDecodesPNG(t *testing.T) {
	payload := pngBytes(t, 64, 64)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write(payload)
	}))
	defer server.Close()

	fetcher := NewFetcher(config.AvatarConfig{FetchTimeout: 0, MaxBytes: 1 << 20})
	img, err := fetcher.Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if img.Bounds().Dx() != 64 || img.Bounds().Dy() != 64 {
		t.Fatalf("unexpected bounds %v", img.Bounds())
	}
}

func TestFetchRejectsNonImageBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not an image</html>"))
	}))
	defer server.Close()

	fetcher := NewFetcher(config.AvatarConfig{MaxBytes: 1 << 20})
	_, err := fetcher.Fetch(context.Background(), server.URL)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func TestFetchRejectsNon200(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	fetcher := NewFetcher(config.AvatarConfig{MaxBytes: 1 << 20})
	_, err := fetcher.Fetch(context.Background(), server.URL)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func TestFetchEnforcesByteCap(t *testing.T) {
	payload := pngBytes(t, 256, 256)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(payload)
	}))
	defer server.Close()

	fetcher := NewFetcher(config.AvatarConfig{MaxBytes: 128})
	_, err := fetcher.Fetch(context.Background(), server.URL)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error on oversized body, got %v", err)
	}
}

func TestFetchRejectsBadScheme(t *testing.T) {
	fetcher := NewFetcher(config.AvatarConfig{MaxBytes: 1 << 20})
	for _, raw := range []string{"ftp://example.com/a.png", "file:///etc/passwd", "not a url at all ://"} {
		_, err := fetcher.Fetch(context.Background(), raw)
		typed := pkgerrors.As(err)
		if typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("%q: expected validation error, got %v", raw, err)
		}
	}
}

type failingDoer struct{}

func (failingDoer) Do(req *http.Request) (*http.Response, error) {
	return nil, errors.New("dial tcp: connection refused")
}

func TestFetchWrapsTransportFailure(t *testing.T) {
	fetcher := NewFetcherWithClient(failingDoer{}, 1<<20)
	_, err := fetcher.Fetch(context.Background(), "https://cdn.example.com/a.png")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
}
