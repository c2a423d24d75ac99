package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PHOTO_PREFIX", "/AI_photo/")
	t.Setenv("SIGNED_URL_TTL", "not-a-duration")
	t.Setenv("STORAGE_PUBLIC_BASE_URL", "https://storage.example.com/bucket/")

	cfg := Load()

	if cfg.PhotoPrefix != "AI_photo" {
		t.Fatalf("PhotoPrefix = %q, want %q", cfg.PhotoPrefix, "AI_photo")
	}
	if cfg.SignedURLTTL != time.Hour {
		t.Fatalf("SignedURLTTL = %v, want 1h", cfg.SignedURLTTL)
	}
	if cfg.StoragePublicBaseURL != "https://storage.example.com/bucket" {
		t.Fatalf("StoragePublicBaseURL = %q", cfg.StoragePublicBaseURL)
	}
}

func TestParseStringSlice(t *testing.T) {
	got := parseStringSlice("http://a.test, http://b.test,,")
	if len(got) != 2 || got[0] != "http://a.test" || got[1] != "http://b.test" {
		t.Fatalf("parseStringSlice = %#v", got)
	}
	if len(parseStringSlice("")) != 0 {
		t.Fatal("expected empty slice for empty input")
	}
}

func TestUseS3(t *testing.T) {
	cfg := &Config{StorageDriver: "S3"}
	if !cfg.UseS3() {
		t.Fatal("expected S3 driver to be detected case-insensitively")
	}
	cfg.StorageDriver = "local"
	if cfg.UseS3() {
		t.Fatal("local driver must not report S3")
	}
}
