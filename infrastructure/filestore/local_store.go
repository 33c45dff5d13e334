package filestore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"hootsuite-publisher/domain/model"
	"hootsuite-publisher/domain/repository"
)

// LocalStore resolves media references to files below a root directory.
type LocalStore struct {
	root string
}

func NewLocalStore(root string) *LocalStore {
	return &LocalStore{root: filepath.Clean(root)}
}

func (s *LocalStore) Resolve(_ context.Context, ref string) (*model.MediaAsset, error) {
	path, err := s.path(ref)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", repository.ErrMediaNotFound, ref)
	}
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", repository.ErrMediaNotFound, ref)
	}

	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		return nil, fmt.Errorf("detect mime type of %s: %w", ref, err)
	}

	return &model.MediaAsset{
		LocalID:  ref,
		MimeType: baseMimeType(mtype),
		ByteSize: info.Size(),
		LocalURI: "file://" + filepath.ToSlash(path),
		Open: func() (io.ReadCloser, error) {
			return os.Open(path)
		},
	}, nil
}

// path keeps the resolved file inside root.
func (s *LocalStore) path(ref string) (string, error) {
	ref = strings.TrimPrefix(ref, "public://")
	cleaned := filepath.Clean(filepath.FromSlash("/" + ref))
	path := filepath.Join(s.root, cleaned)
	rel, err := filepath.Rel(s.root, path)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("%w: invalid reference %q", repository.ErrMediaNotFound, ref)
	}
	return path, nil
}

func baseMimeType(m *mimetype.MIME) string {
	v := m.String()
	if i := strings.IndexByte(v, ';'); i >= 0 {
		v = v[:i]
	}
	return strings.TrimSpace(v)
}
