package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	pgvector "github.com/pgvector/pgvector-go"
	"go.uber.org/zap"

	"toonify/internal/domain"
	"toonify/internal/repository"
	"toonify/internal/service"
)

type stubGalleryRepo struct {
	records map[string]domain.GalleryRecord
	deleted []string
}

func newStubGalleryRepo(recs ...domain.GalleryRecord) *stubGalleryRepo {
	s := &stubGalleryRepo{records: make(map[string]domain.GalleryRecord)}
	for _, rec := range recs {
		s.records[rec.ID] = rec
	}
	return s
}

func (s *stubGalleryRepo) Save(ctx context.Context, rec domain.GalleryRecord) error {
	s.records[rec.ID] = rec
	return nil
}

func (s *stubGalleryRepo) Get(ctx context.Context, id string) (domain.GalleryRecord, error) {
	rec, ok := s.records[id]
	if !ok {
		return domain.GalleryRecord{}, repository.ErrNotFound
	}
	return rec, nil
}

func (s *stubGalleryRepo) List(ctx context.Context, limit, offset int) ([]domain.GalleryRecord, error) {
	recs := make([]domain.GalleryRecord, 0, len(s.records))
	for _, rec := range s.records {
		recs = append(recs, rec)
	}
	return recs, nil
}

func (s *stubGalleryRepo) Delete(ctx context.Context, id string) error {
	if _, ok := s.records[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.records, id)
	s.deleted = append(s.deleted, id)
	return nil
}

func (s *stubGalleryRepo) SearchSimilar(ctx context.Context, embedding pgvector.Vector, k int) ([]domain.GalleryRecord, error) {
	return s.List(ctx, k, 0)
}

type galleryFixture struct {
	router *gin.Engine
	jwt    *service.JWTService
	repo   *stubGalleryRepo
}

func newGalleryFixture(t *testing.T, repo *stubGalleryRepo) *galleryFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	est := &stubEstimator{}
	flow := service.NewFlowService(est, &stubRenderer{}, nil, service.FlowConfig{
		Policy: service.PolicyRemote,
	}, zap.NewNop())
	jwtSvc := service.NewJWTService("secret", time.Minute, time.Hour)
	flowH := NewFlowHandler(flow, jwtSvc, zap.NewNop())
	galleryH := NewGalleryHandler(repo, zap.NewNop())

	return &galleryFixture{
		router: NewRouter(zap.NewNop(), jwtSvc, flowH, galleryH),
		jwt:    jwtSvc,
		repo:   repo,
	}
}

func (f *galleryFixture) do(t *testing.T, method, path, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func (f *galleryFixture) token(t *testing.T) string {
	t.Helper()
	pair, err := f.jwt.GeneratePair("session-1")
	if err != nil {
		t.Fatalf("GeneratePair: %v", err)
	}
	return pair.AccessToken
}

func TestGalleryEndpointsRequireToken(t *testing.T) {
	fx := newGalleryFixture(t, newStubGalleryRepo(domain.GalleryRecord{ID: "rec-1", Name: "Luna"}))

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/gallery"},
		{http.MethodGet, "/gallery/rec-1"},
		{http.MethodGet, "/gallery/rec-1/similar"},
		{http.MethodDelete, "/gallery/rec-1"},
	} {
		if w := fx.do(t, tc.method, tc.path, ""); w.Code != http.StatusUnauthorized {
			t.Fatalf("%s %s: expected 401 without token, got %d", tc.method, tc.path, w.Code)
		}
	}

	if len(fx.repo.deleted) != 0 {
		t.Fatalf("expected no deletions without token, got %v", fx.repo.deleted)
	}
}

func TestGalleryDeleteWithToken(t *testing.T) {
	fx := newGalleryFixture(t, newStubGalleryRepo(domain.GalleryRecord{ID: "rec-1", Name: "Luna"}))
	token := fx.token(t)

	if w := fx.do(t, http.MethodDelete, "/gallery/rec-1", token); w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if len(fx.repo.deleted) != 1 || fx.repo.deleted[0] != "rec-1" {
		t.Fatalf("expected rec-1 deleted, got %v", fx.repo.deleted)
	}

	if w := fx.do(t, http.MethodDelete, "/gallery/rec-1", token); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 on repeated delete, got %d", w.Code)
	}
}

func TestGalleryListAndGetWithToken(t *testing.T) {
	fx := newGalleryFixture(t, newStubGalleryRepo(
		domain.GalleryRecord{ID: "rec-1", Name: "Luna"},
		domain.GalleryRecord{ID: "rec-2", Name: "Sol"},
	))
	token := fx.token(t)

	w := fx.do(t, http.MethodGet, "/gallery", token)
	if w.Code != http.StatusOK {
		t.Fatalf("list: expected 200, got %d", w.Code)
	}
	var listResp struct {
		Count int `json:"count"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &listResp); err != nil {
		t.Fatalf("decode list response: %v", err)
	}
	if listResp.Count != 2 {
		t.Fatalf("expected 2 characters, got %d", listResp.Count)
	}

	w = fx.do(t, http.MethodGet, "/gallery/rec-2", token)
	if w.Code != http.StatusOK {
		t.Fatalf("get: expected 200, got %d", w.Code)
	}
	var getResp struct {
		Character domain.GalleryRecord `json:"character"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &getResp); err != nil {
		t.Fatalf("decode get response: %v", err)
	}
	if getResp.Character.Name != "Sol" {
		t.Fatalf("expected Sol, got %+v", getResp.Character)
	}
}

func TestGallerySimilarExcludesSelf(t *testing.T) {
	fx := newGalleryFixture(t, newStubGalleryRepo(
		domain.GalleryRecord{ID: "rec-1", Name: "Luna"},
		domain.GalleryRecord{ID: "rec-2", Name: "Sol"},
	))

	w := fx.do(t, http.MethodGet, "/gallery/rec-1/similar", fx.token(t))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Characters []domain.GalleryRecord `json:"characters"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	for _, rec := range resp.Characters {
		if rec.ID == "rec-1" {
			t.Fatalf("expected rec-1 excluded from its own neighbors: %+v", resp.Characters)
		}
	}
}
