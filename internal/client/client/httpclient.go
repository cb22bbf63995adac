package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/merrycards/merry/internal/client/models"
	"github.com/merrycards/merry/internal/common"
	"github.com/merrycards/merry/internal/logging"
	"github.com/merrycards/merry/internal/netx"
)

const (
	pingPath               = "/ping/"
	recognitionPath        = "/recognition/"
	signupPath             = "/auth/signup/"
	signinPath             = "/auth/signin/"
	collectionsPath        = "/collection/collections/"
	collectionDetailPath   = "/collection/collection/"
	manageIllustrationPath = "/collection/manage-illustration/"

	imageField     = "image"
	imageType      = "image/jpeg"
	maxBodyBytes   = 8 << 20
	maxErrBodyRune = 256
)

type HTTPClient struct {
	baseURL *url.URL
	http    *http.Client
	tokens  TokenSource
	log     logging.Logger

	newRequestID func() string
}

var _ Client = (*HTTPClient)(nil)

// NewHTTPClient builds a client for the API rooted at baseURL. A zero
// timeout leaves the http.Client default (none).
func NewHTTPClient(baseURL string, timeout time.Duration, tokens TokenSource, log logging.Logger) (*HTTPClient, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base url %q: scheme must be http or https", baseURL)
	}
	if tokens == nil {
		tokens = NoToken{}
	}
	if log == nil {
		log = logging.Discard()
	}

	return &HTTPClient{
		baseURL:      u,
		http:         &http.Client{Timeout: timeout},
		tokens:       tokens,
		log:          log,
		newRequestID: uuid.NewString,
	}, nil
}

// BaseURL returns the API root without a trailing slash.
func (c *HTTPClient) BaseURL() string { return c.baseURL.String() }

// ResolveURL turns a media or API path from a response into a full URL.
// Relative references are appended to the base URL, path prefix included,
// the same way endpoint paths are. Absolute URLs are returned unchanged.
func (c *HTTPClient) ResolveURL(ref string) string {
	if ref == "" {
		return ""
	}
	r, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	if r.IsAbs() || r.Host != "" {
		return c.baseURL.ResolveReference(r).String()
	}

	u := *c.baseURL
	u.Path = c.baseURL.Path + "/" + strings.TrimLeft(r.Path, "/")
	u.RawPath = ""
	u.RawQuery = r.RawQuery
	u.Fragment = r.Fragment
	return u.String()
}

func (c *HTTPClient) endpoint(path string) string {
	return c.baseURL.String() + path
}

func (c *HTTPClient) Ping(ctx context.Context) (string, error) {
	var resp struct {
		Message string `json:"message"`
	}
	if err := c.doJSON(ctx, http.MethodGet, c.endpoint(pingPath), nil, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

type credentials struct {
	Name     string `json:"name,omitempty"`
	Username string `json:"username"`
	Password string `json:"password"`
}

func (c *HTTPClient) Register(ctx context.Context, name, username, password string) error {
	req := credentials{Name: name, Username: username, Password: password}
	return c.doJSON(ctx, http.MethodPost, c.endpoint(signupPath), req, nil)
}

func (c *HTTPClient) Login(ctx context.Context, username, password string) (string, error) {
	var resp struct {
		AccessToken string `json:"access_token"`
	}

	req := credentials{Username: username, Password: password}
	if err := c.doJSON(ctx, http.MethodPost, c.endpoint(signinPath), req, &resp); err != nil {
		return "", err
	}

	if resp.AccessToken == "" {
		return "", &DecodeError{Path: signinPath, Err: errors.New("missing access_token")}
	}
	return resp.AccessToken, nil
}

func (c *HTTPClient) Recognize(ctx context.Context, image io.Reader, filename string) ([]models.Candidate, error) {
	if filename == "" {
		filename = "photo_" + uuid.NewString() + ".jpg"
	}

	form, err := netx.NewFileForm(imageField, filename, imageType, image)
	if err != nil {
		return nil, fmt.Errorf("build upload: %w", err)
	}

	var candidates []models.Candidate
	if err := c.do(ctx, http.MethodPost, c.endpoint(recognitionPath), form.Body, form.ContentType, &candidates); err != nil {
		return nil, err
	}

	for i := range candidates {
		if err := validateCandidate(candidates[i]); err != nil {
			return nil, &DecodeError{Path: recognitionPath, Err: fmt.Errorf("candidate %d: %w", i, err)}
		}
		for j := range candidates[i].Illustrations {
			il := &candidates[i].Illustrations[j]
			il.ImageSrc = c.ResolveURL(il.ImageSrc)
		}
	}

	models.SortBySimilarity(candidates)
	return candidates, nil
}

func validateCandidate(cd models.Candidate) error {
	if cd.Name == "" {
		return errors.New("missing name")
	}
	if cd.Slug == "" {
		return errors.New("missing slug")
	}
	if err := validateSimilarity(cd.Similarity); err != nil {
		return err
	}
	for j, il := range cd.Illustrations {
		if il.Code == "" {
			return fmt.Errorf("illustration %d: missing code", j)
		}
		if err := validateSimilarity(il.Similarity); err != nil {
			return fmt.Errorf("illustration %d: %w", j, err)
		}
	}
	return nil
}

func validateSimilarity(s float64) error {
	if math.IsNaN(s) || s < 0 || s > 1 {
		return fmt.Errorf("similarity %v out of range [0,1]", s)
	}
	return nil
}

func (c *HTTPClient) GetCardDetail(ctx context.Context, apiURL string) (*models.CardDetail, error) {
	if apiURL == "" {
		return nil, errors.New("card has no detail url")
	}

	var d models.CardDetail
	if err := c.doJSON(ctx, http.MethodGet, c.ResolveURL(apiURL), nil, &d); err != nil {
		return nil, err
	}
	if d.Name == "" {
		return nil, &DecodeError{Path: apiURL, Err: errors.New("missing name")}
	}

	for i := range d.Illustrations {
		d.Illustrations[i].ImageSrc = c.ResolveURL(d.Illustrations[i].ImageSrc)
	}
	return &d, nil
}

func (c *HTTPClient) ListCollections(ctx context.Context) ([]models.CollectionSummary, error) {
	var out []models.CollectionSummary
	if err := c.doJSON(ctx, http.MethodGet, c.endpoint(collectionsPath), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetCollectionDetail fetches one collection. id 0 selects the default
// (vault) collection.
func (c *HTTPClient) GetCollectionDetail(ctx context.Context, id int64) (*models.Collection, error) {
	path := collectionDetailPath
	if id != 0 {
		path += strconv.FormatInt(id, 10) + "/"
	}

	var col models.Collection
	if err := c.doJSON(ctx, http.MethodGet, c.endpoint(path), nil, &col); err != nil {
		return nil, err
	}

	if col.Entries == nil {
		col.Entries = map[string]models.CollectionEntry{}
	}
	for code, e := range col.Entries {
		if e.Quantity < 0 {
			return nil, &DecodeError{Path: path, Err: fmt.Errorf("%s: negative quantity %d", code, e.Quantity)}
		}
		if e.Code == "" {
			e.Code = code
		}
		e.ImageSrc = c.ResolveURL(e.ImageSrc)
		col.Entries[code] = e
	}
	col.ID = id
	return &col, nil
}

type manageIllustrationRequest struct {
	IllustrationSlug string `json:"illustration_slug"`
}

func (c *HTTPClient) AddIllustration(ctx context.Context, code string) error {
	return c.doJSON(ctx, http.MethodPost, c.endpoint(manageIllustrationPath), manageIllustrationRequest{code}, nil)
}

func (c *HTTPClient) RemoveIllustration(ctx context.Context, code string) error {
	return c.doJSON(ctx, http.MethodDelete, c.endpoint(manageIllustrationPath), manageIllustrationRequest{code}, nil)
}

func (c *HTTPClient) doJSON(ctx context.Context, method, rawURL string, in, out any) error {
	var (
		body        io.Reader
		contentType string
	)
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
		contentType = "application/json"
	}
	return c.do(ctx, method, rawURL, body, contentType, out)
}

func (c *HTTPClient) do(ctx context.Context, method, rawURL string, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	reqID := c.newRequestID()
	req.Header.Set(common.RequestIDHeaderName, reqID)
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if tok := c.tokens.Token(); tok != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+tok)
	}

	log := c.log.With("request_id", reqID, "method", method, "path", req.URL.Path)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		err = mapTransportError(ctx, err)
		log.Warn(ctx, "request failed", "error", err)
		return err
	}
	defer resp.Body.Close()

	log.Debug(ctx, "response", "status", resp.StatusCode, "elapsed", time.Since(start))

	if err := mapStatus(resp); err != nil {
		log.Warn(ctx, "request rejected", "status", resp.StatusCode)
		return err
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return nil
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return mapTransportError(ctx, err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &DecodeError{Path: req.URL.Path, Err: err}
	}
	return nil
}

// mapTransportError keeps caller cancellation distinguishable; every other
// transport failure, timeouts included, is ErrUnavailable.
func mapTransportError(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.Canceled) {
		return ctx.Err()
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}

func mapStatus(resp *http.Response) error {
	switch {
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		return ErrUnauthorized
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrBodyRune*4))
		return &ServerError{StatusCode: resp.StatusCode, Body: truncate(strings.TrimSpace(string(b)), maxErrBodyRune)}
	default:
		return nil
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
