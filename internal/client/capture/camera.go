package capture

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io/fs"
	"os"
	"path/filepath"

	// Frame formats a FileCamera accepts.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"

	"github.com/google/uuid"
	"github.com/merrycards/merry/internal/client/models"
	"github.com/merrycards/merry/internal/filex"
)

// Camera produces a single still frame.
type Camera interface {
	Capture(ctx context.Context) (models.CapturedPhoto, error)
}

// FileCamera takes its frame from an image file. The frame is copied into
// Dir so the returned photo is owned by the caller and may be deleted.
type FileCamera struct {
	Source string
	Dir    string
}

var _ Camera = (*FileCamera)(nil)

func (c *FileCamera) Capture(ctx context.Context) (models.CapturedPhoto, error) {
	if err := ctx.Err(); err != nil {
		return models.CapturedPhoto{}, err
	}

	f, err := os.Open(c.Source)
	if err != nil {
		if errors.Is(err, fs.ErrPermission) {
			err = fmt.Errorf("%w: %v", ErrPermissionDenied, err)
		}
		return models.CapturedPhoto{}, &CaptureError{Op: "open", Err: err}
	}
	cfg, format, err := image.DecodeConfig(f)
	_ = f.Close()
	if err != nil {
		return models.CapturedPhoto{}, &CaptureError{Op: "decode", Err: fmt.Errorf("%s: %w", c.Source, err)}
	}

	dir, err := filex.EnsureDir(c.Dir)
	if err != nil {
		return models.CapturedPhoto{}, &CaptureError{Op: "store", Err: err}
	}

	dst := filepath.Join(dir, uuid.NewString()+"."+format)
	if err := filex.CopyFile(c.Source, dst); err != nil {
		_ = filex.RemoveIfExists(dst)
		return models.CapturedPhoto{}, &CaptureError{Op: "store", Err: err}
	}

	return models.CapturedPhoto{URI: dst, Width: cfg.Width, Height: cfg.Height}, nil
}
