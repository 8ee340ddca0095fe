package media

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Store keeps the image files referenced by IMAGE-typed property values
// under root, one directory per termbase. Sources may be local paths or
// http(s) URLs.
type Store struct {
	root string
	http *resty.Client
	log  *zap.Logger
}

func New(root string, log *zap.Logger) *Store {
	c := resty.New().SetTimeout(30 * time.Second)
	return &Store{root: root, http: c, log: log}
}

// Import copies src into termbase-owned storage and returns the stored path.
func (s *Store) Import(ctx context.Context, termbaseID int64, src string) (string, error) {
	dir := filepath.Join(s.root, fmt.Sprintf("termbase_%d", termbaseID))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("make media dir: %w", err)
	}
	dst := filepath.Join(dir, uuid.NewString()+sourceExt(src))
	if isURL(src) {
		if err := s.download(ctx, src, dst); err != nil {
			return "", err
		}
		return dst, nil
	}
	if err := copyFile(src, dst); err != nil {
		return "", err
	}
	return dst, nil
}

// Remove deletes a stored file. Files outside the store's root are never
// touched: a value that fell back to its original source path after a
// failed import must not delete the user's file.
func (s *Store) Remove(path string) error {
	if path == "" {
		return nil
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	rootAbs, err := filepath.Abs(s.root)
	if err != nil {
		return err
	}
	if !strings.HasPrefix(abs, rootAbs+string(filepath.Separator)) {
		s.log.Debug("skip remove outside media root", zap.String("path", path))
		return nil
	}
	return os.Remove(abs)
}

func (s *Store) download(ctx context.Context, url, dst string) error {
	resp, err := s.http.R().SetContext(ctx).SetOutput(dst).Get(url)
	if err != nil {
		return fmt.Errorf("fetch image: %w", err)
	}
	if resp.IsError() {
		_ = os.Remove(dst)
		return fmt.Errorf("fetch image: %s", resp.Status())
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open image: %w", err)
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create image copy: %w", err)
	}
	defer out.Close()
	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("copy image: %w", err)
	}
	return out.Close()
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

func sourceExt(src string) string {
	base := src
	if isURL(src) {
		if i := strings.IndexAny(base, "?#"); i >= 0 {
			base = base[:i]
		}
	}
	ext := filepath.Ext(base)
	if len(ext) > 8 {
		return ""
	}
	return ext
}
