package client

import (
	"context"
	"io"

	"github.com/merrycards/merry/internal/client/models"
)

// Client is the contract of the recognition and collection backend.
type Client interface {
	Ping(ctx context.Context) (string, error)
	Register(ctx context.Context, name, username, password string) error
	Login(ctx context.Context, username, password string) (string, error)

	Recognize(ctx context.Context, image io.Reader, filename string) ([]models.Candidate, error)
	GetCardDetail(ctx context.Context, apiURL string) (*models.CardDetail, error)

	ListCollections(ctx context.Context) ([]models.CollectionSummary, error)
	GetCollectionDetail(ctx context.Context, id int64) (*models.Collection, error)
	AddIllustration(ctx context.Context, code string) error
	RemoveIllustration(ctx context.Context, code string) error
}

// TokenSource supplies the bearer token for outgoing requests. An empty
// token means the request goes out without an Authorization header.
type TokenSource interface {
	Token() string
}

// NoToken is a TokenSource for unauthenticated clients.
type NoToken struct{}

func (NoToken) Token() string { return "" }
