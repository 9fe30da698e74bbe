package artifact

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"mediagen/internal/domain"
	"mediagen/internal/media"
	"mediagen/internal/storage"
)

// Inserter is the attachment-repository slice the store depends on.
type Inserter interface {
	Insert(ctx context.Context, att *domain.Attachment) (int64, error)
}

// Store persists generated image bytes as a media-library attachment:
// bytes onto the filesystem, metadata into the attachments table. It
// returns the durable attachment identifier.
type Store struct {
	files *storage.FileStore
	repo  Inserter
}

func NewStore(files *storage.FileStore, repo Inserter) *Store {
	return &Store{files: files, repo: repo}
}

var titleCaser = cases.Title(language.English)

// Save writes the image and records it, returning the attachment id.
// If the metadata insert fails, the partially written file is removed
// before the error is reported.
func (s *Store) Save(ctx context.Context, data []byte) (int64, error) {
	if len(data) == 0 {
		return 0, fmt.Errorf("%w: empty image payload", domain.ErrPersistence)
	}
	mime := mimetype.Detect(data)
	ext := media.SniffExtension(data)

	name := "generated-image-" + uuid.NewString()[:8]
	key, err := s.files.Write(ctx, path.Join("generated", name+ext), data)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}

	att := &domain.Attachment{
		FileKey:  key,
		MIMEType: mime.String(),
		Title:    titleCaser.String(strings.ReplaceAll(name, "-", " ")),
	}
	id, err := s.repo.Insert(ctx, att)
	if err != nil {
		_ = s.files.Remove(key)
		return 0, fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	return id, nil
}
