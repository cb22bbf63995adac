package services

import (
	"context"
	"io"
	"sync"

	"github.com/merrycards/merry/internal/client/client"
	"github.com/merrycards/merry/internal/client/models"
)

// fakeClient implements client.Client over an in-memory vault.
type fakeClient struct {
	mu sync.Mutex

	PingRet string
	PingErr error

	RegisterErr error
	LoginRet    string
	LoginErr    error

	RecognizeRet []models.Candidate
	RecognizeErr error
	DetailRet    *models.CardDetail
	DetailErr    error

	ListRet   []models.CollectionSummary
	ListErr   error
	GetErr    error
	AddErr    error
	RemoveErr error

	quantities map[string]int

	LastRegisterName, LastRegisterUser, LastRegisterPass string
	LastLoginUser, LastLoginPass                         string
	LastUpload                                           []byte
	LastUploadName                                       string
	LastDetailURL                                        string
	LastCollectionID                                     int64
	Calls                                                []string
}

var _ client.Client = (*fakeClient)(nil)

func newFakeClient() *fakeClient {
	return &fakeClient{quantities: map[string]int{}}
}

func (f *fakeClient) record(name string) {
	f.Calls = append(f.Calls, name)
}

func (f *fakeClient) Ping(ctx context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("ping")
	return f.PingRet, f.PingErr
}

func (f *fakeClient) Register(ctx context.Context, name, username, password string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("register")
	f.LastRegisterName, f.LastRegisterUser, f.LastRegisterPass = name, username, password
	return f.RegisterErr
}

func (f *fakeClient) Login(ctx context.Context, username, password string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("login")
	f.LastLoginUser, f.LastLoginPass = username, password
	if f.LoginErr != nil {
		return "", f.LoginErr
	}
	return f.LoginRet, nil
}

func (f *fakeClient) Recognize(ctx context.Context, image io.Reader, filename string) ([]models.Candidate, error) {
	b, err := io.ReadAll(image)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("recognize")
	f.LastUpload, f.LastUploadName = b, filename
	if f.RecognizeErr != nil {
		return nil, f.RecognizeErr
	}
	out := append([]models.Candidate(nil), f.RecognizeRet...)
	return out, nil
}

func (f *fakeClient) GetCardDetail(ctx context.Context, apiURL string) (*models.CardDetail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("card")
	f.LastDetailURL = apiURL
	return f.DetailRet, f.DetailErr
}

func (f *fakeClient) ListCollections(ctx context.Context) ([]models.CollectionSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("list")
	return f.ListRet, f.ListErr
}

func (f *fakeClient) GetCollectionDetail(ctx context.Context, id int64) (*models.Collection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("detail")
	f.LastCollectionID = id
	if f.GetErr != nil {
		return nil, f.GetErr
	}

	col := &models.Collection{ID: id, Name: "Vault", Entries: map[string]models.CollectionEntry{}}
	for code, q := range f.quantities {
		col.Entries[code] = models.CollectionEntry{Code: code, Quantity: q}
		col.CardsQuantity += q
	}
	return col, nil
}

func (f *fakeClient) AddIllustration(ctx context.Context, code string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("add")
	if f.AddErr != nil {
		return f.AddErr
	}
	f.quantities[code]++
	return nil
}

// RemoveIllustration floors at zero the way the backend does.
func (f *fakeClient) RemoveIllustration(ctx context.Context, code string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("remove")
	if f.RemoveErr != nil {
		return f.RemoveErr
	}
	if f.quantities[code] > 0 {
		f.quantities[code]--
	}
	return nil
}
