package booksearch

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/comiclib/comiclib-api/internal/pkg/naver"
)

type stubSearcher struct {
	result *naver.BookSearchResult
	err    error
	last   naver.BookQuery
	calls  int
}

func (s *stubSearcher) SearchBooks(ctx context.Context, q naver.BookQuery) (*naver.BookSearchResult, error) {
	s.calls++
	s.last = q
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func serve(h *Handler, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestSearchPassesParams(t *testing.T) {
	stub := &stubSearcher{result: &naver.BookSearchResult{Total: 1, Items: []naver.Book{{Title: "나 혼자만 레벨업"}}}}
	rec := serve(NewHandler(stub), "/search/book.json?query=%EB%A0%88%EB%B2%A8%EC%97%85&display=20&start=3")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if stub.last.Query != "레벨업" || stub.last.Display != 20 || stub.last.Start != 3 {
		t.Fatalf("unexpected query %+v", stub.last)
	}
	var body naver.BookSearchResult
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Total != 1 || body.Items[0].Title != "나 혼자만 레벨업" {
		t.Fatalf("unexpected body %+v", body)
	}
}

func TestSearchDefaults(t *testing.T) {
	stub := &stubSearcher{result: &naver.BookSearchResult{}}
	serve(NewHandler(stub), "/search/book.json?query=x&display=abc")
	if stub.last.Display != 10 || stub.last.Start != 1 {
		t.Fatalf("unexpected defaults %+v", stub.last)
	}
}

func TestSearchErrors(t *testing.T) {
	stub := &stubSearcher{}
	if rec := serve(NewHandler(stub), "/search/book.json?query=%20"); rec.Code != http.StatusBadRequest {
		t.Fatalf("blank query status = %d", rec.Code)
	}
	if stub.calls != 0 {
		t.Fatal("searcher called for blank query")
	}

	rec := serve(NewHandler(&stubSearcher{err: naver.ErrMissingCredentials}), "/search/book.json?query=x")
	if rec.Code != http.StatusInternalServerError || !strings.Contains(rec.Body.String(), "Missing Naver API credentials") {
		t.Fatalf("missing creds: status %d body %s", rec.Code, rec.Body.String())
	}

	rec = serve(NewHandler(&stubSearcher{err: &naver.UpstreamError{Msg: "naver http error: status=500", Err: errors.New("boom")}}), "/search/book.json?query=x")
	if rec.Code != http.StatusBadGateway || !strings.Contains(rec.Body.String(), "Naver API error") {
		t.Fatalf("upstream: status %d body %s", rec.Code, rec.Body.String())
	}
}
