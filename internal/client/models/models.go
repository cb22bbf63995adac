// Package models defines the client-side view of the recognition and
// collection API payloads.
package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/merrycards/merry/internal/common"
)

// Amount is a money value. The API sends amounts either as JSON numbers or
// as numeric strings ("12.50").
type Amount float64

func (a *Amount) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*a = 0
		return nil
	}

	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		if s == "" {
			*a = 0
			return nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("amount %q: %w", s, err)
		}
		*a = Amount(f)
		return nil
	}

	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*a = Amount(f)
	return nil
}

func (a Amount) String() string {
	return strconv.FormatFloat(float64(a), 'f', 2, 64)
}

// CapturedPhoto is a still frame taken by a Camera. URI is a path owned by
// the client; it is removed once transformed.
type CapturedPhoto struct {
	URI    string
	Width  int
	Height int
}

// Asset is a normalised image ready for upload.
type Asset struct {
	Path   string
	Width  int
	Height int
}

// Illustration is one printed variant of a recognised card.
type Illustration struct {
	Code       string  `json:"code"`
	Similarity float64 `json:"similarity"`
	ImageSrc   string  `json:"src"`
	Price      Amount  `json:"price"`
}

// Candidate is one ranked recognition match.
type Candidate struct {
	Name          string         `json:"name"`
	Slug          string         `json:"slug"`
	Similarity    float64        `json:"similarity"`
	APIURL        string         `json:"api_url,omitempty"`
	Illustrations []Illustration `json:"illustrations"`
}

// Thumbnail returns the illustration shown in result lists: the last one.
func (c Candidate) Thumbnail() (Illustration, bool) {
	if len(c.Illustrations) == 0 {
		return Illustration{}, false
	}
	return c.Illustrations[len(c.Illustrations)-1], true
}

// SortBySimilarity orders candidates by descending similarity in place.
// Equal scores keep their response order.
func SortBySimilarity(cs []Candidate) {
	sort.SliceStable(cs, func(i, j int) bool {
		return cs[i].Similarity > cs[j].Similarity
	})
}

// CollectionSummary is one row of the collections list.
type CollectionSummary struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	CardsQuantity int    `json:"cards_quantity"`
	Balance       Amount `json:"balance"`
}

// DisplayName is the title shown to users.
func (s CollectionSummary) DisplayName() string {
	return displayName(s.Name)
}

// CollectionEntry is one owned illustration within a collection.
type CollectionEntry struct {
	ID         int64  `json:"id"`
	Code       string `json:"code"`
	Title      string `json:"title"`
	ImageSrc   string `json:"src"`
	Price      Amount `json:"price"`
	Type       string `json:"type"`
	TotalValue Amount `json:"total_price_amount"`
	Quantity   int    `json:"quantity"`
}

// Collection is the detail view of a collection keyed by illustration code.
type Collection struct {
	ID            int64                      `json:"-"`
	Name          string                     `json:"collection_name"`
	CardsQuantity int                        `json:"cards_quantity"`
	Balance       Amount                     `json:"balance"`
	Entries       map[string]CollectionEntry `json:"illustrations"`
}

// IsVault reports whether c is the aggregate default collection.
func (c Collection) IsVault() bool {
	return c.Name == common.VaultCollectionName
}

// DisplayName is the title shown to users.
func (c Collection) DisplayName() string {
	return displayName(c.Name)
}

// Quantity returns the owned count for code, 0 when absent.
func (c Collection) Quantity(code string) int {
	return c.Entries[code].Quantity
}

// SortedCodes returns entry codes in lexical order for stable display.
func (c Collection) SortedCodes() []string {
	codes := make([]string, 0, len(c.Entries))
	for code := range c.Entries {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

func displayName(name string) string {
	if name == common.VaultCollectionName {
		return "All cards collection"
	}
	return name
}

// Named is a nested {id, name} reference in card details.
type Named struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// CardDetail is the full card document behind a candidate's api_url.
type CardDetail struct {
	Name          string         `json:"name"`
	Type          string         `json:"type"`
	Rarity        string         `json:"rare"`
	Power         int            `json:"power"`
	Cost          int            `json:"cost"`
	CounterValue  int            `json:"counter_value"`
	Attribute     string         `json:"attribute"`
	IsDOM         bool           `json:"is_dom"`
	Trigger       string         `json:"trigger"`
	Effect        string         `json:"effect"`
	Crew          []Named        `json:"crew"`
	DeckColors    []Named        `json:"deck_color"`
	SideEffects   []string       `json:"side_effects"`
	Illustrations []Illustration `json:"illustrations"`
}

// Illustration looks up a variant by code.
func (d CardDetail) Illustration(code string) (Illustration, bool) {
	for _, il := range d.Illustrations {
		if il.Code == code {
			return il, true
		}
	}
	return Illustration{}, false
}
