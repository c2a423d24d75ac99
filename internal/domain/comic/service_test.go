package comic

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/comiclib/comiclib-api/internal/pkg/storage"
)

type stubRepo struct {
	nextID  int64
	comics  map[int64]*Comic
	deleted []int64
	order   *[]string
}

func newStubRepo() *stubRepo {
	return &stubRepo{comics: map[int64]*Comic{}}
}

func (s *stubRepo) Create(ctx context.Context, c *Comic) error {
	s.nextID++
	c.ID = s.nextID
	c.CreatedAt = time.Now()
	cp := *c
	s.comics[c.ID] = &cp
	return nil
}

func (s *stubRepo) GetByID(ctx context.Context, id int64) (*Comic, error) {
	c, ok := s.comics[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (s *stubRepo) Update(ctx context.Context, c *Comic) error {
	cp := *c
	s.comics[c.ID] = &cp
	return nil
}

func (s *stubRepo) Delete(ctx context.Context, id int64) error {
	if s.order != nil {
		*s.order = append(*s.order, "comic")
	}
	s.deleted = append(s.deleted, id)
	delete(s.comics, id)
	return nil
}

func (s *stubRepo) List(ctx context.Context, userID string) ([]*Comic, error) {
	out := []*Comic{}
	for _, c := range s.comics {
		if userID == "" || c.UserID == userID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *stubRepo) Search(ctx context.Context, q string) ([]*Comic, error) {
	out := []*Comic{}
	for _, c := range s.comics {
		if strings.Contains(strings.ToLower(c.Title), strings.ToLower(q)) {
			out = append(out, c)
		}
	}
	return out, nil
}

type stubCharacters struct {
	err   error
	order *[]string
}

func (s *stubCharacters) DeleteByComic(ctx context.Context, comicID int64) error {
	if s.order != nil {
		*s.order = append(*s.order, "characters")
	}
	return s.err
}

func newLocalStore(t *testing.T) *storage.LocalStorage {
	t.Helper()
	st, err := storage.NewLocalStorage(t.TempDir(), "http://localhost:5000/static/uploads")
	if err != nil {
		t.Fatal(err)
	}
	return st
}

func TestServiceDeleteCascadesCharactersFirst(t *testing.T) {
	var order []string
	repo := newStubRepo()
	repo.order = &order
	svc := NewService(repo, &stubCharacters{order: &order}, nil, "covers")

	c, _ := svc.Create(context.Background(), &CreateRequest{Title: "Monster"})
	if err := svc.Delete(context.Background(), c.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if strings.Join(order, ",") != "characters,comic" {
		t.Fatalf("order = %v", order)
	}
}

func TestServiceDeleteKeepsComicWhenCascadeFails(t *testing.T) {
	repo := newStubRepo()
	svc := NewService(repo, &stubCharacters{err: errors.New("db down")}, nil, "covers")

	c, _ := svc.Create(context.Background(), &CreateRequest{Title: "Monster"})
	if err := svc.Delete(context.Background(), c.ID); err == nil {
		t.Fatal("expected error")
	}
	if len(repo.deleted) != 0 {
		t.Fatal("comic row deleted despite cascade failure")
	}
}

func TestServiceUpdatePartial(t *testing.T) {
	svc := NewService(newStubRepo(), &stubCharacters{}, nil, "covers")
	ctx := context.Background()

	c, _ := svc.Create(ctx, &CreateRequest{Title: "Pluto", Author: "Urasawa", Rating: 4})

	rating := 5.0
	updated, err := svc.Update(ctx, c.ID, &UpdateRequest{Rating: &rating})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Rating != 5 || updated.Title != "Pluto" || updated.Author != "Urasawa" {
		t.Fatalf("unexpected: %+v", updated)
	}

	if _, err := svc.GetByID(ctx, 42); !errors.Is(err, ErrComicNotFound) {
		t.Fatalf("expected ErrComicNotFound, got %v", err)
	}
}

func TestUploadCover(t *testing.T) {
	st := newLocalStore(t)
	svc := NewService(newStubRepo(), &stubCharacters{}, st, "covers")
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

	url, err := svc.UploadCover(context.Background(), "../my cover.png", bytes.NewReader(png))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if !strings.HasPrefix(url, "http://localhost:5000/static/uploads/covers/") || !strings.HasSuffix(url, "_my_cover.png") {
		t.Fatalf("unexpected url %q", url)
	}

	key := strings.TrimPrefix(url, "http://localhost:5000/static/uploads/")
	if _, err := os.Stat(filepath.Join(st.BasePath(), key)); err != nil {
		t.Fatalf("cover not written: %v", err)
	}

	url, err = svc.UploadCover(context.Background(), "scan.JPG", bytes.NewReader(png))
	if err != nil {
		t.Fatalf("upload mislabelled png: %v", err)
	}
	if !strings.HasSuffix(url, "_scan.png") {
		t.Fatalf("extension not taken from content: %q", url)
	}

	if _, err := svc.UploadCover(context.Background(), "notes.txt", bytes.NewReader(png)); !errors.Is(err, ErrFileTypeNotAllowed) {
		t.Fatalf("expected ErrFileTypeNotAllowed, got %v", err)
	}
	if _, err := svc.UploadCover(context.Background(), "fake.jpg", strings.NewReader("plain text")); !errors.Is(err, storage.ErrInvalidMimeType) {
		t.Fatalf("expected ErrInvalidMimeType, got %v", err)
	}
}

func newComicRouter(svc *Service) http.Handler {
	r := chi.NewRouter()
	r.Route("/comics", func(r chi.Router) {
		NewHandler(svc).Register(r)
	})
	return r
}

func TestHandlerSearch(t *testing.T) {
	repo := newStubRepo()
	svc := NewService(repo, &stubCharacters{}, nil, "covers")
	svc.Create(context.Background(), &CreateRequest{Title: "Vagabond"})
	svc.Create(context.Background(), &CreateRequest{Title: "Slam Dunk"})
	router := newComicRouter(svc)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/comics/search?query=vaga", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var items []ComicResponse
	json.Unmarshal(rec.Body.Bytes(), &items)
	if len(items) != 1 || items[0].Title != "Vagabond" {
		t.Fatalf("unexpected results %+v", items)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/comics/search", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("missing query status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"error"`) {
		t.Fatalf("body = %s", rec.Body.String())
	}
}

func TestHandlerCreateAndGet(t *testing.T) {
	router := newComicRouter(NewService(newStubRepo(), &stubCharacters{}, nil, "covers"))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/comics", strings.NewReader(`{"title":"Berserk","rating":7}`)))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("out of range rating status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/comics", strings.NewReader(`{"title":"Berserk","rating":5,"coverImage":"covers/b.jpg"}`)))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", rec.Code, rec.Body.String())
	}
	var created ComicResponse
	json.Unmarshal(rec.Body.Bytes(), &created)
	if created.CoverImage != "covers/b.jpg" {
		t.Fatalf("coverImage = %q", created.CoverImage)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/comics/1", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/comics/99", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("missing status = %d", rec.Code)
	}
}

func TestHandlerUploadCoverMissingFile(t *testing.T) {
	router := newComicRouter(NewService(newStubRepo(), &stubCharacters{}, newLocalStore(t), "covers"))

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	mw.WriteField("title", "x")
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/comics/upload", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}
