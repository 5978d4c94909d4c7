// Package storage abstracts the object store that holds uploaded documents
// and tour gallery images.
package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	_ "golang.org/x/image/webp"
)

// Object identifies a stored file. PublicID is what Delete takes back.
type Object struct {
	URL      string `json:"url"`
	ThumbURL string `json:"thumbUrl,omitempty"`
	PublicID string `json:"publicid"`
}

type ObjectStore interface {
	// Upload stores the bytes under a per-parent folder key.
	Upload(ctx context.Context, r io.Reader, fileName, folder string) (Object, error)
	// UploadImage additionally decodes the image and writes a 300px
	// thumbnail next to it.
	UploadImage(ctx context.Context, r io.Reader, folder string) (Object, error)
	Delete(ctx context.Context, publicID string) error
}

// DiskStore keeps objects under root/<folder>/<id><ext> and serves them
// from baseURL. PublicID is "<folder>/<id><ext>".
type DiskStore struct {
	root    string
	baseURL string
}

func NewDiskStore(root, baseURL string) *DiskStore {
	return &DiskStore{root: root, baseURL: strings.TrimRight(baseURL, "/")}
}

func (s *DiskStore) Upload(_ context.Context, r io.Reader, fileName, folder string) (Object, error) {
	ext := strings.ToLower(filepath.Ext(fileName))
	publicID := fmt.Sprintf("%s/%s%s", folder, uuid.New().String(), ext)

	path := filepath.Join(s.root, filepath.FromSlash(publicID))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return Object{}, err
	}
	out, err := os.Create(path)
	if err != nil {
		return Object{}, err
	}
	defer out.Close()
	if _, err := io.Copy(out, r); err != nil {
		return Object{}, err
	}

	return Object{
		URL:      s.baseURL + "/" + publicID,
		PublicID: publicID,
	}, nil
}

func (s *DiskStore) UploadImage(_ context.Context, r io.Reader, folder string) (Object, error) {
	img, err := imaging.Decode(r)
	if err != nil {
		return Object{}, fmt.Errorf("failed to decode image: %w", err)
	}

	id := uuid.New().String()
	publicID := fmt.Sprintf("%s/%s.jpg", folder, id)
	path := filepath.Join(s.root, filepath.FromSlash(publicID))
	thumbPath := filepath.Join(s.root, filepath.FromSlash(folder), "thumb", id+".jpg")

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return Object{}, err
	}
	if err := os.MkdirAll(filepath.Dir(thumbPath), 0755); err != nil {
		return Object{}, err
	}

	if err := imaging.Save(img, path); err != nil {
		return Object{}, fmt.Errorf("failed to save image: %w", err)
	}
	thumb := imaging.Resize(img, 300, 0, imaging.Lanczos)
	if err := imaging.Save(thumb, thumbPath); err != nil {
		return Object{}, fmt.Errorf("failed to save thumbnail: %w", err)
	}

	return Object{
		URL:      fmt.Sprintf("%s/%s", s.baseURL, publicID),
		ThumbURL: fmt.Sprintf("%s/%s/thumb/%s.jpg", s.baseURL, folder, id),
		PublicID: publicID,
	}, nil
}

func (s *DiskStore) Delete(_ context.Context, publicID string) error {
	path := filepath.Join(s.root, filepath.FromSlash(publicID))
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	// thumbnail may or may not exist
	dir, file := filepath.Split(path)
	base := strings.TrimSuffix(file, filepath.Ext(file))
	_ = os.Remove(filepath.Join(dir, "thumb", base+".jpg"))
	return nil
}
