package photo

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestRouter(repo *memRepo, store *memStore) http.Handler {
	return NewHandler(newTestService(repo, store)).Routes()
}

func multipartUpload(t *testing.T, fields map[string]string, file []byte) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatal(err)
		}
	}
	if file != nil {
		fw, err := mw.CreateFormFile("file", "photo.jpg")
		if err != nil {
			t.Fatal(err)
		}
		fw.Write(file)
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}
	return &body, mw.FormDataContentType()
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body %q: %v", rec.Body.String(), err)
	}
	return body.Error
}

func TestHandlerUploadAndList(t *testing.T) {
	repo := newMemRepo()
	store := newMemStore()
	router := newTestRouter(repo, store)

	body, ct := multipartUpload(t, map[string]string{"character_id": "42", "keyword1": " smile "}, jpegBytes(1))
	req := httptest.NewRequest(http.MethodPost, "/", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("upload status = %d, body %s", rec.Code, rec.Body.String())
	}
	var created PhotoResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatal(err)
	}
	if created.SequenceNumber != 1 || created.Keyword1 != "smile" || created.StoragePath != "AI_photo/character_42_1.jpg" {
		t.Fatalf("unexpected created photo: %+v", created)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/42", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	var list []PhotoResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 || !list[0].Signed || !strings.HasPrefix(list[0].StoragePath, "https://signed.example.com/") {
		t.Fatalf("unexpected list: %+v", list)
	}
}

func TestHandlerListEmptyIsArray(t *testing.T) {
	router := newTestRouter(newMemRepo(), newMemStore())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/1", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != "[]" {
		t.Fatalf("body = %q, want []", got)
	}
}

func TestHandlerUploadJSON(t *testing.T) {
	repo := newMemRepo()
	router := newTestRouter(repo, newMemStore())

	payload, _ := json.Marshal(map[string]interface{}{
		"character_id": 5,
		"photo_base64": "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(jpegBytes(1)),
	})
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if len(repo.rows) != 1 {
		t.Fatalf("rows = %d", len(repo.rows))
	}
}

func TestHandlerUploadErrors(t *testing.T) {
	t.Run("missing character id", func(t *testing.T) {
		router := newTestRouter(newMemRepo(), newMemStore())
		body, ct := multipartUpload(t, nil, jpegBytes(1))
		req := httptest.NewRequest(http.MethodPost, "/", body)
		req.Header.Set("Content-Type", ct)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d", rec.Code)
		}
		if decodeError(t, rec) == "" {
			t.Fatal("expected error message")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		router := newTestRouter(newMemRepo(), newMemStore())
		body, ct := multipartUpload(t, map[string]string{"character_id": "1"}, nil)
		req := httptest.NewRequest(http.MethodPost, "/", body)
		req.Header.Set("Content-Type", ct)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d", rec.Code)
		}
	})

	t.Run("object store failure is 502", func(t *testing.T) {
		store := newMemStore()
		store.putErr = errors.New("bucket unavailable")
		router := newTestRouter(newMemRepo(), store)
		body, ct := multipartUpload(t, map[string]string{"character_id": "1"}, jpegBytes(1))
		req := httptest.NewRequest(http.MethodPost, "/", body)
		req.Header.Set("Content-Type", ct)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadGateway {
			t.Fatalf("status = %d", rec.Code)
		}
	})

	t.Run("record store failure is 500 with message", func(t *testing.T) {
		repo := newMemRepo()
		repo.saveErr = errors.New("relation photo_info does not exist")
		router := newTestRouter(repo, newMemStore())
		body, ct := multipartUpload(t, map[string]string{"character_id": "1"}, jpegBytes(1))
		req := httptest.NewRequest(http.MethodPost, "/", body)
		req.Header.Set("Content-Type", ct)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("status = %d", rec.Code)
		}
		if msg := decodeError(t, rec); !strings.Contains(msg, "relation photo_info does not exist") {
			t.Fatalf("error = %q", msg)
		}
	})
}

func TestHandlerDelete(t *testing.T) {
	repo := newMemRepo()
	repo.insert(Photo{CharacterID: 8, SequenceNumber: 1, StoragePath: "AI_photo/character_8_1.jpg", Keyword1: "a"})
	repo.insert(Photo{CharacterID: 8, SequenceNumber: 2, StoragePath: "AI_photo/character_8_2.jpg"})
	repo.insert(Photo{CharacterID: 8, SequenceNumber: 3, StoragePath: "AI_photo/character_8_3.jpg"})
	router := newTestRouter(repo, newMemStore())

	deleteAndDecode := func(target string) []PhotoResponse {
		t.Helper()
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, target, nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("%s status = %d", target, rec.Code)
		}
		if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
			t.Fatalf("%s content type = %q", target, ct)
		}
		var got []PhotoResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
			t.Fatalf("%s decode %q: %v", target, rec.Body.String(), err)
		}
		return got
	}

	got := deleteAndDecode("/8/2")
	if len(got) != 1 || got[0].SequenceNumber != 2 || got[0].StoragePath != "AI_photo/character_8_2.jpg" {
		t.Fatalf("deleted = %+v", got)
	}
	if len(repo.rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(repo.rows))
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/8/2", nil))
	if rec.Code != http.StatusOK || strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Fatalf("repeat delete status = %d body %q", rec.Code, rec.Body.String())
	}

	got = deleteAndDecode("/8")
	if len(got) != 2 || got[0].SequenceNumber != 1 || got[1].SequenceNumber != 3 || got[0].Keyword1 != "a" {
		t.Fatalf("deleted = %+v", got)
	}
	if len(repo.rows) != 0 {
		t.Fatalf("rows = %d, want 0", len(repo.rows))
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/8/zero", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
