package services

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/merrycards/merry/internal/client/client"
	"github.com/merrycards/merry/internal/client/models"
	"github.com/merrycards/merry/internal/filex"
	"github.com/merrycards/merry/internal/logging"
)

// Transformer normalises a captured photo into an upload asset.
type Transformer interface {
	Transform(ctx context.Context, photo models.CapturedPhoto) (models.Asset, error)
}

// RecognitionService runs the transform + upload half of a scan.
type RecognitionService interface {
	// Recognize consumes photo and returns candidates sorted by descending
	// similarity. A cancelled ctx never yields candidates.
	Recognize(ctx context.Context, photo models.CapturedPhoto) ([]models.Candidate, error)
	CardDetail(ctx context.Context, c models.Candidate) (*models.CardDetail, error)
}

type recognitionService struct {
	client      client.Client
	transformer Transformer
	log         logging.Logger
}

func NewRecognitionService(c client.Client, t Transformer, log logging.Logger) RecognitionService {
	if log == nil {
		log = logging.Discard()
	}
	return &recognitionService{client: c, transformer: t, log: log}
}

func (r *recognitionService) Recognize(ctx context.Context, photo models.CapturedPhoto) ([]models.Candidate, error) {
	asset, err := r.transformer.Transform(ctx, photo)
	if err != nil {
		_ = filex.RemoveIfExists(photo.URI)
		return nil, err
	}
	defer func() {
		if err := filex.RemoveIfExists(asset.Path); err != nil {
			r.log.Warn(ctx, "remove upload asset", "path", asset.Path, "error", err)
		}
	}()

	f, err := os.Open(asset.Path)
	if err != nil {
		return nil, fmt.Errorf("open asset: %w", err)
	}
	defer f.Close()

	candidates, err := r.client.Recognize(ctx, f, "photo_"+uuid.NewString()+".jpg")
	if err != nil {
		return nil, fmt.Errorf("recognize: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.log.Info(ctx, "recognition finished", "candidates", len(candidates),
		"width", asset.Width, "height", asset.Height)
	return candidates, nil
}

func (r *recognitionService) CardDetail(ctx context.Context, c models.Candidate) (*models.CardDetail, error) {
	if c.APIURL == "" {
		return nil, fmt.Errorf("%s has no detail link", c.Name)
	}
	return r.client.GetCardDetail(ctx, c.APIURL)
}
