package gemini

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newFakeServer(t *testing.T, respond func(body map[string]interface{}) string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, ":generateContent") {
			http.NotFound(w, r)
			return
		}
		raw, _ := io.ReadAll(r.Body)
		var body map[string]interface{}
		json.Unmarshal(raw, &body)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, respond(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	c, err := New(context.Background(), Config{APIKey: "test-key", Model: "text-model", ImageModel: "image-model", BaseURL: baseURL + "/"})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return c
}

func TestNotConfigured(t *testing.T) {
	c, err := New(context.Background(), Config{})
	if err != nil {
		t.Fatal(err)
	}
	if c.Configured() {
		t.Fatal("expected unconfigured client")
	}
	if _, err := c.Search(context.Background(), SearchRequest{Prompt: "x"}); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
	if _, err := c.GenerateImage(context.Background(), "x"); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestSearchCollectsSources(t *testing.T) {
	srv := newFakeServer(t, func(body map[string]interface{}) string {
		if _, ok := body["tools"]; !ok {
			t.Error("request has no tools")
		}
		return `{"candidates":[{"content":{"role":"model","parts":[{"text":"Solo Leveling returns."}]},
			"groundingMetadata":{"groundingChunks":[
				{"web":{"uri":"https://news.example.com/a","title":"News A"}},
				{"web":{"uri":"https://www.youtube.com/watch?v=1","title":"Trailer"}}
			]}}]}`
	})

	answer, err := newTestClient(t, srv.URL).Search(context.Background(), SearchRequest{
		SystemInstruction: "be an expert",
		Prompt:            "Solo Leveling news",
	})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if answer.Text != "Solo Leveling returns." {
		t.Fatalf("text = %q", answer.Text)
	}
	if len(answer.Sources) != 2 || answer.Sources[1].URL != "https://www.youtube.com/watch?v=1" {
		t.Fatalf("sources = %+v", answer.Sources)
	}
}

func TestGenerateImage(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\nfake")
	srv := newFakeServer(t, func(body map[string]interface{}) string {
		return `{"candidates":[{"content":{"role":"model","parts":[
			{"text":"here you go"},
			{"inlineData":{"mimeType":"image/png","data":"` + base64.StdEncoding.EncodeToString(png) + `"}}
		]}}]}`
	})

	img, err := newTestClient(t, srv.URL).GenerateImage(context.Background(), "merge",
		Image{Data: []byte{0xFF, 0xD8, 0xFF}, MIMEType: "image/jpeg"},
		Image{Data: []byte{0xFF, 0xD8, 0xFF}, MIMEType: "image/jpeg"},
	)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !bytes.Equal(img.Data, png) || img.MIMEType != "image/png" {
		t.Fatalf("unexpected image %+v", img)
	}
}

func TestGenerateImageWithoutImagePart(t *testing.T) {
	srv := newFakeServer(t, func(body map[string]interface{}) string {
		return `{"candidates":[{"content":{"role":"model","parts":[{"text":"I cannot do that"}]}}]}`
	})

	_, err := newTestClient(t, srv.URL).GenerateImage(context.Background(), "merge")
	if !errors.Is(err, ErrNoImage) {
		t.Fatalf("expected ErrNoImage, got %v", err)
	}
}
