package controllers

import (
	"bytes"
	"context"
	"errors"
	"image"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/unionhq/membercard-backend/pkg/db/models"
	"github.com/unionhq/membercard-backend/pkg/enums"
	pkgerrors "github.com/unionhq/membercard-backend/pkg/errors"
)

type stubFetcher struct {
	img    image.Image
	err    error
	called bool
}

func (s *stubFetcher) Fetch(ctx context.Context, rawURL string) (image.Image, error) {
	s.called = true
	return s.img, s.err
}

type stubRenderer struct {
	data       []byte
	err        error
	gotAvatar  image.Image
	gotNilFlag bool
}

func (s *stubRenderer) Render(ctx context.Context, member *models.Member, avatar image.Image) ([]byte, error) {
	s.gotAvatar = avatar
	s.gotNilFlag = avatar == nil
	return s.data, s.err
}

func newCardRouter(params CardControllerParams) http.Handler {
	r := chi.NewRouter()
	r.Get("/api/v1/members/{externalId}/card", MemberCard(params))
	return r
}

func cardParams(svc *stubMemberService, fetcher *stubFetcher, renderer *stubRenderer, preview bool) CardControllerParams {
	return CardControllerParams{
		Members:     svc,
		Fetcher:     fetcher,
		Renderer:    renderer,
		Logger:      testControllerLogger(),
		Metrics:     noopMetrics(),
		PreviewMode: preview,
	}
}

func TestMemberCardReturnsPNG(t *testing.T) {
	pngMagic := []byte("\x89PNG\r\n\x1a\nfake")
	renderer := &stubRenderer{data: pngMagic}
	fetcher := &stubFetcher{img: image.NewRGBA(image.Rect(0, 0, 8, 8))}
	router := newCardRouter(cardParams(&stubMemberService{member: activeMember()}, fetcher, renderer, false))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/members/u1/card?avatar_url=https://cdn.example.com/a.png", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	if ct := resp.Header().Get("Content-Type"); ct != "image/png" {
		t.Fatalf("unexpected content type %q", ct)
	}
	if !bytes.Equal(resp.Body.Bytes(), pngMagic) {
		t.Fatalf("body must be the rendered bytes")
	}
	if !fetcher.called {
		t.Fatalf("fetcher should run when avatar_url is supplied")
	}
	if renderer.gotNilFlag {
		t.Fatalf("renderer should receive the fetched avatar")
	}
}

func TestMemberCardForbiddenForNonActive(t *testing.T) {
	member := activeMember()
	member.Status = enums.MemberStatusPending
	router := newCardRouter(cardParams(&stubMemberService{member: member}, &stubFetcher{}, &stubRenderer{data: []byte("x")}, false))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/members/u1/card", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.Code)
	}
	if code := decodeErrorCode(t, resp.Body.Bytes()); code != string(pkgerrors.CodeForbidden) {
		t.Fatalf("unexpected code %s", code)
	}
}

func TestMemberCardPreviewModeAllowsPending(t *testing.T) {
	member := activeMember()
	member.Status = enums.MemberStatusPending
	router := newCardRouter(cardParams(&stubMemberService{member: member}, &stubFetcher{}, &stubRenderer{data: []byte("x")}, true))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/members/u1/card", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 in preview mode, got %d", resp.Code)
	}
}

func TestMemberCardAvatarFailureDegrades(t *testing.T) {
	renderer := &stubRenderer{data: []byte("x")}
	fetcher := &stubFetcher{err: errors.New("timeout")}
	router := newCardRouter(cardParams(&stubMemberService{member: activeMember()}, fetcher, renderer, false))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/members/u1/card?avatar_url=https://slow.example.com/a.png", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("avatar failure must not fail the card, got %d", resp.Code)
	}
	if !renderer.gotNilFlag {
		t.Fatalf("renderer should receive a nil avatar after fetch failure")
	}
}

func TestMemberCardMissingMember(t *testing.T) {
	svc := &stubMemberService{err: pkgerrors.New(pkgerrors.CodeNotFound, "member not found")}
	router := newCardRouter(cardParams(svc, &stubFetcher{}, &stubRenderer{}, false))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/members/ghost/card", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}
