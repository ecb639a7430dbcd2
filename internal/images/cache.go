// Package images persists generated illustrations to a static
// directory, keyed by sanitized adventure title.
package images

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

const maxSanitizedLen = 50

var nonWord = regexp.MustCompile(`[^\w\s-]`)

// SanitizeTitle turns an adventure title into a safe filename stem:
// non-word characters stripped, whitespace collapsed to underscores,
// truncated to 50 characters. Identical titles collide on purpose; the
// collision is the de-duplication.
func SanitizeTitle(title string) string {
	s := nonWord.ReplaceAllString(title, "")
	s = strings.Join(strings.Fields(s), "_")
	if len(s) > maxSanitizedLen {
		s = s[:maxSanitizedLen]
	}
	return s
}

// Cache is a write-once image cache on the local filesystem.
type Cache struct {
	dir    string
	logger *slog.Logger
}

// NewCache creates a cache rooted at dir, creating it if needed.
func NewCache(dir string, logger *slog.Logger) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create static dir: %w", err)
	}
	return &Cache{dir: dir, logger: logger}, nil
}

// StaticPath returns the URL path an image for the given title is
// served at.
func StaticPath(title string) string {
	return "/static/" + SanitizeTitle(title) + ".png"
}

// Dir returns the cache's filesystem root.
func (c *Cache) Dir() string {
	return c.dir
}

// Has reports whether an image for the title is already cached.
func (c *Cache) Has(title string) bool {
	_, err := os.Stat(c.filePath(title))
	return err == nil
}

// Save writes the PNG bytes for a title and returns its static URL
// path. An existing file for the same sanitized title is left as is.
func (c *Cache) Save(title string, png []byte) (string, error) {
	path := c.filePath(title)
	if _, err := os.Stat(path); err == nil {
		c.logger.Debug("Image already cached", "title", title, "path", path)
		return StaticPath(title), nil
	}

	if err := os.WriteFile(path, png, 0o644); err != nil {
		return "", fmt.Errorf("failed to write image: %w", err)
	}
	c.logger.Info("Image saved", "title", title, "path", path)
	return StaticPath(title), nil
}

func (c *Cache) filePath(title string) string {
	return filepath.Join(c.dir, SanitizeTitle(title)+".png")
}
