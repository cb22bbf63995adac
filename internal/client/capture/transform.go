// Package capture turns a camera frame into the normalised JPEG uploaded
// for recognition.
package capture

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/merrycards/merry/internal/client/models"
	"github.com/merrycards/merry/internal/filex"
	"github.com/merrycards/merry/internal/logging"
)

const defaultJPEGQuality = 90

type Transformer struct {
	policy  CropPolicy
	dir     string
	quality int
	log     logging.Logger
}

// NewTransformer writes assets produced under policy into dir.
func NewTransformer(policy CropPolicy, dir string, log logging.Logger) (*Transformer, error) {
	if err := policy.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logging.Discard()
	}
	return &Transformer{policy: policy, dir: dir, quality: defaultJPEGQuality, log: log}, nil
}

func (t *Transformer) Policy() CropPolicy { return t.policy }

// Transform resizes and crops photo into a new JPEG asset and removes the
// photo file. It does no network I/O.
func (t *Transformer) Transform(ctx context.Context, photo models.CapturedPhoto) (models.Asset, error) {
	if err := ctx.Err(); err != nil {
		return models.Asset{}, err
	}

	img, err := imaging.Open(photo.URI, imaging.AutoOrientation(true))
	if err != nil {
		return models.Asset{}, &CaptureError{Op: "transform", Err: err}
	}

	b := img.Bounds()
	if t.policy.WorkingWidth > 0 && b.Dx() != t.policy.WorkingWidth {
		img = imaging.Resize(img, t.policy.WorkingWidth, 0, imaging.Lanczos)
	}

	b = img.Bounds()
	region := t.policy.Region(b.Dx(), b.Dy())
	out := imaging.Crop(img, region.Add(b.Min))

	dir, err := filex.EnsureDir(t.dir)
	if err != nil {
		return models.Asset{}, &CaptureError{Op: "transform", Err: err}
	}

	path := filepath.Join(dir, "asset_"+uuid.NewString()+".jpg")
	if err := imaging.Save(out, path, imaging.JPEGQuality(t.quality)); err != nil {
		_ = filex.RemoveIfExists(path)
		return models.Asset{}, &CaptureError{Op: "transform", Err: fmt.Errorf("save: %w", err)}
	}

	if err := filex.RemoveIfExists(photo.URI); err != nil {
		t.log.Warn(ctx, "remove captured photo", "path", photo.URI, "error", err)
	}

	asset := models.Asset{Path: path, Width: out.Bounds().Dx(), Height: out.Bounds().Dy()}
	t.log.Debug(ctx, "photo transformed",
		"src_w", photo.Width, "src_h", photo.Height,
		"w", asset.Width, "h", asset.Height, "region", region.String())
	return asset, nil
}
