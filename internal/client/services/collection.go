package services

import (
	"context"
	"fmt"

	"github.com/merrycards/merry/internal/client/client"
	"github.com/merrycards/merry/internal/client/models"
	"github.com/merrycards/merry/internal/logging"
)

// CollectionService wraps the collection endpoints. Mutations always
// re-fetch the affected collection; quantities are never computed locally.
type CollectionService interface {
	List(ctx context.Context) ([]models.CollectionSummary, error)
	// Detail fetches a collection; id 0 is the default vault.
	Detail(ctx context.Context, id int64) (*models.Collection, error)
	Increase(ctx context.Context, collectionID int64, code string) (*models.Collection, error)
	Decrease(ctx context.Context, collectionID int64, code string) (*models.Collection, error)
	// Claim adds one copy of the illustration to the user's collection.
	Claim(ctx context.Context, code string) error
}

type collectionService struct {
	client client.Client
	log    logging.Logger
}

func NewCollectionService(c client.Client, log logging.Logger) CollectionService {
	if log == nil {
		log = logging.Discard()
	}
	return &collectionService{client: c, log: log}
}

func (s *collectionService) List(ctx context.Context) ([]models.CollectionSummary, error) {
	return s.client.ListCollections(ctx)
}

func (s *collectionService) Detail(ctx context.Context, id int64) (*models.Collection, error) {
	return s.client.GetCollectionDetail(ctx, id)
}

func (s *collectionService) Increase(ctx context.Context, collectionID int64, code string) (*models.Collection, error) {
	if err := s.client.AddIllustration(ctx, code); err != nil {
		return nil, fmt.Errorf("add %s: %w", code, err)
	}
	return s.refresh(ctx, collectionID, "add", code)
}

func (s *collectionService) Decrease(ctx context.Context, collectionID int64, code string) (*models.Collection, error) {
	if err := s.client.RemoveIllustration(ctx, code); err != nil {
		return nil, fmt.Errorf("remove %s: %w", code, err)
	}
	return s.refresh(ctx, collectionID, "remove", code)
}

func (s *collectionService) refresh(ctx context.Context, collectionID int64, op, code string) (*models.Collection, error) {
	col, err := s.client.GetCollectionDetail(ctx, collectionID)
	if err != nil {
		return nil, fmt.Errorf("refresh collection after %s: %w", op, err)
	}
	s.log.Debug(ctx, "collection updated", "op", op, "code", code, "quantity", col.Quantity(code))
	return col, nil
}

func (s *collectionService) Claim(ctx context.Context, code string) error {
	if err := s.client.AddIllustration(ctx, code); err != nil {
		return fmt.Errorf("claim %s: %w", code, err)
	}
	s.log.Info(ctx, "illustration claimed", "code", code)
	return nil
}
