package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"jobboard/internal/common"
	"jobboard/internal/domain/resume"
)

// mimeByExtension maps the accepted file extensions to the content types the
// bytes must sniff as.
var mimeByExtension = map[string][]string{
	"pdf":  {"application/pdf"},
	"doc":  {"application/msword", "application/x-ole-storage"},
	"docx": {"application/vnd.openxmlformats-officedocument.wordprocessingml.document", "application/zip"},
}

// LocalStorage writes resumes below a root directory. Returned paths are
// relative to the root, e.g. "resumes/<uuid>.pdf".
type LocalStorage struct {
	root   string
	prefix string
}

func NewLocalStorage(root string) *LocalStorage {
	return &LocalStorage{root: root, prefix: "resumes"}
}

func (s *LocalStorage) Store(ctx context.Context, filename string, content []byte, allowedTypes []string, maxSize int64) (string, error) {
	if maxSize > 0 && int64(len(content)) > maxSize {
		return "", resume.ErrTooLarge
	}
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	if !allowed(ext, allowedTypes) || !sniffMatches(ext, content) {
		return "", resume.ErrInvalidType
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	dir := filepath.Join(s.root, s.prefix)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("create resume dir: %w", err)
	}
	name := common.NewUUID().String() + "." + ext
	if err := writeFileAtomic(dir, name, content); err != nil {
		return "", err
	}
	return s.prefix + "/" + name, nil
}

// Resolve returns the absolute location of a stored path, rejecting paths that
// escape the root.
func (s *LocalStorage) Resolve(path string) (string, error) {
	cleaned := filepath.Clean(filepath.FromSlash(path))
	if filepath.IsAbs(cleaned) || strings.HasPrefix(cleaned, "..") {
		return "", fmt.Errorf("invalid resume path %q", path)
	}
	return filepath.Join(s.root, cleaned), nil
}

func writeFileAtomic(dir, name string, content []byte) error {
	tmp, err := os.CreateTemp(dir, ".upload-*")
	if err != nil {
		return fmt.Errorf("create temp resume: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() {
		_ = os.Remove(tmpName)
	}
	if _, err := tmp.Write(content); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("write resume: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("sync resume: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("close resume: %w", err)
	}
	if err := os.Rename(tmpName, filepath.Join(dir, name)); err != nil {
		cleanup()
		return fmt.Errorf("publish resume: %w", err)
	}
	return nil
}

func allowed(ext string, allowedTypes []string) bool {
	for _, candidate := range allowedTypes {
		if strings.EqualFold(strings.TrimPrefix(candidate, "."), ext) {
			return true
		}
	}
	return false
}

func sniffMatches(ext string, content []byte) bool {
	expected, ok := mimeByExtension[ext]
	if !ok {
		return false
	}
	for detected := mimetype.Detect(content); detected != nil; detected = detected.Parent() {
		for _, want := range expected {
			if detected.Is(want) {
				return true
			}
		}
	}
	return false
}
