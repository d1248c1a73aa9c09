package avatars

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"net/http"
	"net/url"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"

	"github.com/unionhq/membercard-backend/pkg/config"
	pkgerrors "github.com/unionhq/membercard-backend/pkg/errors"
)

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Fetcher downloads and decodes avatar images. A failed fetch is never fatal
// to card rendering; callers fall back to a placeholder.
type Fetcher struct {
	client   httpDoer
	maxBytes int64
}

// NewFetcher builds a fetcher with a single-attempt HTTP client bounded by
// the configured timeout.
func NewFetcher(cfg config.AvatarConfig) *Fetcher {
	return &Fetcher{
		client:   &http.Client{Timeout: cfg.FetchTimeout},
		maxBytes: cfg.MaxBytes,
	}
}

// NewFetcherWithClient is the test seam.
func NewFetcherWithClient(client httpDoer, maxBytes int64) *Fetcher {
	return &Fetcher{client: client, maxBytes: maxBytes}
}

// Fetch downloads the image at rawURL and decodes it. PNG, JPEG, GIF and
// WebP are accepted. One attempt, no retries.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (image.Image, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "avatar_url must be an http(s) URL")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "build avatar request")
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "fetch avatar")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, pkgerrors.New(pkgerrors.CodeDependency,
			fmt.Sprintf("avatar host responded %d", resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read avatar body")
	}
	if int64(len(body)) > f.maxBytes {
		return nil, pkgerrors.New(pkgerrors.CodeDependency,
			fmt.Sprintf("avatar exceeds %d byte limit", f.maxBytes))
	}

	img, _, err := image.Decode(bytes.NewReader(body))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode avatar")
	}
	return img, nil
}
