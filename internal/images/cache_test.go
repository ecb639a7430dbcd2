package images

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
}

func TestSanitizeTitle(t *testing.T) {
	tests := []struct {
		name     string
		title    string
		expected string
	}{
		{"plain", "The Lost Mine", "The_Lost_Mine"},
		{"punctuation stripped", "The Dragon's Hoard!", "The_Dragons_Hoard"},
		{"whitespace collapsed", "  Wide   Open  Plains ", "Wide_Open_Plains"},
		{"hyphens kept", "Mist-Shrouded Vale", "Mist-Shrouded_Vale"},
		{"truncated to 50", strings.Repeat("a", 80), strings.Repeat("a", 50)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeTitle(tt.title); got != tt.expected {
				t.Errorf("SanitizeTitle(%q) = %q, expected %q", tt.title, got, tt.expected)
			}
		})
	}
}

func TestStaticPath(t *testing.T) {
	if got := StaticPath("The Lost Mine"); got != "/static/The_Lost_Mine.png" {
		t.Errorf("Unexpected static path: %q", got)
	}
}

func TestCache_SaveAndHas(t *testing.T) {
	cache, err := NewCache(t.TempDir(), testLogger())
	if err != nil {
		t.Fatalf("Failed to create cache: %v", err)
	}

	if cache.Has("The Lost Mine") {
		t.Error("Fresh cache should not have the image")
	}

	url, err := cache.Save("The Lost Mine", []byte("png-bytes"))
	if err != nil {
		t.Fatalf("Failed to save: %v", err)
	}
	if url != "/static/The_Lost_Mine.png" {
		t.Errorf("Unexpected URL: %q", url)
	}
	if !cache.Has("The Lost Mine") {
		t.Error("Image should be cached after save")
	}

	data, err := os.ReadFile(filepath.Join(cache.Dir(), "The_Lost_Mine.png"))
	if err != nil {
		t.Fatalf("Failed to read back: %v", err)
	}
	if string(data) != "png-bytes" {
		t.Errorf("Unexpected file content: %q", data)
	}
}

func TestCache_WriteOnce(t *testing.T) {
	cache, err := NewCache(t.TempDir(), testLogger())
	if err != nil {
		t.Fatalf("Failed to create cache: %v", err)
	}

	if _, err := cache.Save("Title", []byte("first")); err != nil {
		t.Fatalf("First save failed: %v", err)
	}
	if _, err := cache.Save("Title", []byte("second")); err != nil {
		t.Fatalf("Second save failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(cache.Dir(), "Title.png"))
	if err != nil {
		t.Fatalf("Failed to read back: %v", err)
	}
	if string(data) != "first" {
		t.Errorf("Existing image must be kept, got %q", data)
	}
}

func TestNewCache_CreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "static")
	if _, err := NewCache(dir, testLogger()); err != nil {
		t.Fatalf("Failed to create cache: %v", err)
	}

	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		t.Error("Cache directory should be created")
	}
}
