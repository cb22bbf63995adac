package cli

import (
	"bytes"
	"context"
	"sync"
	"testing"

	"github.com/merrycards/merry/internal/client/capture"
	"github.com/merrycards/merry/internal/client/config"
	"github.com/merrycards/merry/internal/client/models"
	"github.com/merrycards/merry/internal/client/services"
	"github.com/merrycards/merry/internal/client/session"
	"github.com/merrycards/merry/internal/logging"
)

type memKV struct {
	mu   sync.Mutex
	data map[string]string
}

func (m *memKV) Get(_ context.Context, name string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data[name], nil
}

func (m *memKV) SetAll(_ context.Context, values map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, v := range values {
		m.data[k] = v
	}
	return nil
}

func (m *memKV) Delete(_ context.Context, names ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, n := range names {
		delete(m.data, n)
	}
	return nil
}

// fakeAuth drives a real session so App.isLoggedIn reflects its calls.
type fakeAuth struct {
	session *session.Session

	token     string
	loginErr  error
	regErr    error
	pingMsg   string
	pingErr   error
	logoutErr error

	lastName, lastUser, lastPass string
	logouts                      int
}

var _ services.AuthService = (*fakeAuth)(nil)

func (f *fakeAuth) Login(ctx context.Context, username, password string) error {
	f.lastUser, f.lastPass = username, password
	if f.loginErr != nil {
		return f.loginErr
	}
	return f.session.Authenticate(ctx, username, f.token)
}

func (f *fakeAuth) RegisterAndLogin(ctx context.Context, name, username, password string) error {
	f.lastName = name
	if f.regErr != nil {
		return f.regErr
	}
	return f.Login(ctx, username, password)
}

func (f *fakeAuth) Logout(ctx context.Context) error {
	f.logouts++
	if f.logoutErr != nil {
		return f.logoutErr
	}
	return f.session.Clear(ctx)
}

func (f *fakeAuth) RestoreSession(ctx context.Context) (bool, error) {
	return f.session.Restore(ctx)
}

func (f *fakeAuth) Ping(context.Context) (string, error) { return f.pingMsg, f.pingErr }

type fakeRecognition struct {
	candidates []models.Candidate
	err        error
	detail     *models.CardDetail
	detailErr  error

	lastPhoto  models.CapturedPhoto
	lastDetail models.Candidate
}

var _ services.RecognitionService = (*fakeRecognition)(nil)

func (f *fakeRecognition) Recognize(_ context.Context, photo models.CapturedPhoto) ([]models.Candidate, error) {
	f.lastPhoto = photo
	return f.candidates, f.err
}

func (f *fakeRecognition) CardDetail(_ context.Context, c models.Candidate) (*models.CardDetail, error) {
	f.lastDetail = c
	return f.detail, f.detailErr
}

type fakeCollections struct {
	list       []models.CollectionSummary
	quantities map[string]int
	err        error
	claimErr   error

	lastID int64
	claims []string
}

var _ services.CollectionService = (*fakeCollections)(nil)

func (f *fakeCollections) List(context.Context) ([]models.CollectionSummary, error) {
	return f.list, f.err
}

func (f *fakeCollections) Detail(_ context.Context, id int64) (*models.Collection, error) {
	f.lastID = id
	if f.err != nil {
		return nil, f.err
	}
	col := &models.Collection{ID: id, Name: "Vault", Entries: map[string]models.CollectionEntry{}}
	if id != 0 {
		col.Name = "Binder"
	}
	for code, q := range f.quantities {
		col.Entries[code] = models.CollectionEntry{Code: code, Title: "Title " + code, Quantity: q, Price: 1.5, TotalValue: models.Amount(1.5 * float64(q))}
		col.CardsQuantity += q
	}
	return col, nil
}

func (f *fakeCollections) Increase(ctx context.Context, id int64, code string) (*models.Collection, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.quantities[code]++
	return f.Detail(ctx, id)
}

func (f *fakeCollections) Decrease(ctx context.Context, id int64, code string) (*models.Collection, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.quantities[code] > 0 {
		f.quantities[code]--
	}
	return f.Detail(ctx, id)
}

func (f *fakeCollections) Claim(_ context.Context, code string) error {
	f.claims = append(f.claims, code)
	return f.claimErr
}

type fakeCamera struct {
	photo models.CapturedPhoto
	err   error
}

func (c *fakeCamera) Capture(context.Context) (models.CapturedPhoto, error) {
	return c.photo, c.err
}

type testApp struct {
	*App
	kv          *memKV
	auth        *fakeAuth
	recognition *fakeRecognition
	collections *fakeCollections
	camera      *fakeCamera
	out         *syncBuffer
	source      string
}

// newTestApp builds an App over fakes; input feeds the App's reader.
func newTestApp(t *testing.T, input string) *testApp {
	t.Helper()

	kv := &memKV{data: map[string]string{}}
	sess := session.New(kv)
	ta := &testApp{
		kv:          kv,
		auth:        &fakeAuth{session: sess, token: "tok"},
		recognition: &fakeRecognition{},
		collections: &fakeCollections{quantities: map[string]int{}},
		camera:      &fakeCamera{photo: models.CapturedPhoto{URI: "/tmp/p.jpg", Width: 10, Height: 10}},
		out:         &syncBuffer{},
	}

	ta.App = &App{
		config:      &config.Config{BaseURL: "http://api.test"},
		log:         logging.Discard(),
		session:     sess,
		authService: ta.auth,
		recognition: ta.recognition,
		collections: ta.collections,
		newCamera: func(source string) capture.Camera {
			ta.source = source
			return ta.camera
		},
		reader: rdr(input),
		out:    ta.out,
	}
	return ta
}

func (ta *testApp) login(t *testing.T, username string) {
	t.Helper()
	if err := ta.session.Authenticate(context.Background(), username, "tok"); err != nil {
		t.Fatal(err)
	}
}

// syncBuffer is an io.Writer safe to share with goroutines that report
// cancellation.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func (b *syncBuffer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buf.Reset()
}
