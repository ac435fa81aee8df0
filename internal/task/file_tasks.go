package task

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"os"

	"github.com/disintegration/imaging"
	"golang.org/x/sync/errgroup"

	"github.com/filedepot/filedepot-api/internal/domain"
	"github.com/filedepot/filedepot-api/internal/storage"
	"github.com/filedepot/filedepot-api/internal/store"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BlobWriter persists raw bytes and reports on-disk presence.
type BlobWriter interface {
	Write(data []byte) (string, error)
	Exists(path string) bool
}

// NewUploadFileProcessor returns the processor for the uploadFile kind.
// Folders produce a metadata-only record; files and images have their
// base64 payload decoded and written to a unique path under the storage
// root before the metadata record is inserted.
func NewUploadFileProcessor(files store.FileStore, blobs BlobWriter, logger *slog.Logger) Processor {
	return func(ctx context.Context, payload Payload) (any, error) {
		p, ok := payload.(UploadFilePayload)
		if !ok {
			return nil, fmt.Errorf("%w: uploadFile payload has type %T", domain.ErrInternal, payload)
		}

		if p.Name == "" {
			return nil, fmt.Errorf("%w: missing name", domain.ErrValidation)
		}
		if !p.Type.Valid() {
			return nil, fmt.Errorf("%w: invalid type %q", domain.ErrValidation, p.Type)
		}
		if p.Type != domain.TypeFolder && p.Data == "" {
			return nil, fmt.Errorf("%w: missing data", domain.ErrValidation)
		}

		owner, err := primitive.ObjectIDFromHex(p.UserID)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid owner id", domain.ErrValidation)
		}

		parentID := p.ParentID
		if parentID == "" {
			parentID = domain.RootParentID
		}

		// Parent lookups are owner-scoped: another user's folder cannot be
		// used as a parent and is reported as if it did not exist.
		if parentID != domain.RootParentID {
			parent, err := files.GetByIDForOwner(ctx, parentID, p.UserID)
			if store.IsNotFoundError(err) || errors.Is(err, store.ErrInvalidID) {
				return nil, fmt.Errorf("%w: parent not found", domain.ErrInvalidParent)
			}
			if err != nil {
				return nil, fmt.Errorf("%w: checking parent: %v", domain.ErrInternal, err)
			}
			if parent.Type != domain.TypeFolder {
				return nil, fmt.Errorf("%w: parent is not a folder", domain.ErrInvalidParent)
			}
		}

		file := &domain.File{
			UserID:   owner,
			Name:     p.Name,
			Type:     p.Type,
			ParentID: parentID,
			IsPublic: p.IsPublic,
		}

		if p.Type != domain.TypeFolder {
			data, err := base64.StdEncoding.DecodeString(p.Data)
			if err != nil {
				return nil, fmt.Errorf("%w: data is not valid base64", domain.ErrValidation)
			}

			path, err := blobs.Write(data)
			if err != nil {
				return nil, fmt.Errorf("%w: writing blob: %v", domain.ErrInternal, err)
			}
			file.LocalPath = path
		}

		if err := files.Create(ctx, file); err != nil {
			return nil, fmt.Errorf("%w: inserting file record: %v", domain.ErrInternal, err)
		}

		logger.Info("file stored",
			"file_id", file.ID.Hex(),
			"file_type", file.Type,
			"is_public", file.IsPublic)
		return file, nil
	}
}

// NewGenerateThumbnailsProcessor returns the processor for the
// generateThumbnails kind. The three renditions are derived concurrently;
// the task succeeds only if every derivation completes. A single failure
// fails the whole task, though sibling writes already in flight may still
// land on disk. Callers retry by resubmitting.
func NewGenerateThumbnailsProcessor(files store.FileStore, blobs BlobWriter, logger *slog.Logger) Processor {
	return func(ctx context.Context, payload Payload) (any, error) {
		p, ok := payload.(GenerateThumbnailsPayload)
		if !ok {
			return nil, fmt.Errorf("%w: generateThumbnails payload has type %T", domain.ErrInternal, payload)
		}

		if p.FileID == "" {
			return nil, fmt.Errorf("%w: missing fileId", domain.ErrValidation)
		}
		if p.UserID == "" {
			return nil, fmt.Errorf("%w: missing userId", domain.ErrValidation)
		}

		file, err := files.GetByIDForOwner(ctx, p.FileID, p.UserID)
		if store.IsNotFoundError(err) || errors.Is(err, store.ErrInvalidID) {
			return nil, fmt.Errorf("%w: file not found", domain.ErrNotFound)
		}
		if err != nil {
			return nil, fmt.Errorf("%w: loading file: %v", domain.ErrInternal, err)
		}

		if file.LocalPath == "" || !blobs.Exists(file.LocalPath) {
			return nil, fmt.Errorf("%w: file not found", domain.ErrNotFound)
		}

		src, format, err := decodeImage(file.LocalPath)
		if err != nil {
			return nil, fmt.Errorf("%w: decoding image: %v", domain.ErrInternal, err)
		}

		g, _ := errgroup.WithContext(ctx)
		for _, width := range storage.ThumbnailWidths {
			width := width
			g.Go(func() error {
				rendition := imaging.Resize(src, width, 0, imaging.Lanczos)
				path := storage.VariantPath(file.LocalPath, width)
				if err := writeImage(path, rendition, format); err != nil {
					return fmt.Errorf("%w: writing %dpx rendition: %v", domain.ErrInternal, width, err)
				}
				return nil
			})
		}

		if err := g.Wait(); err != nil {
			return nil, err
		}

		logger.Info("thumbnails generated",
			"file_id", file.ID.Hex(),
			"widths", storage.ThumbnailWidths)
		return nil, nil
	}
}

// decodeImage decodes the blob at path and reports its source format.
// Blob paths carry no extension, so the format comes from the bytes, not
// the filename.
func decodeImage(path string) (image.Image, imaging.Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer func() {
		_ = f.Close()
	}()

	src, name, err := image.Decode(f)
	if err != nil {
		return nil, 0, err
	}

	format, err := imaging.FormatFromExtension(name)
	if err != nil {
		return nil, 0, err
	}
	return src, format, nil
}

// writeImage encodes a rendition in the source format.
func writeImage(path string, img image.Image, format imaging.Format) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := imaging.Encode(out, img, format); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
