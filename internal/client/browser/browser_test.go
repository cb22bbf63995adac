package browser

import (
	"context"
	"errors"
	"testing"

	"github.com/merrycards/merry/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClaimer struct {
	Err   error
	Codes []string
}

func (f *fakeClaimer) Claim(_ context.Context, code string) error {
	if f.Err != nil {
		return f.Err
	}
	f.Codes = append(f.Codes, code)
	return nil
}

func sample() []models.Candidate {
	return []models.Candidate{
		{Name: "A", Slug: "a", Similarity: 0.9, Illustrations: []models.Illustration{{Code: "A-1"}}},
		{Name: "B", Slug: "b", Similarity: 0.95, Illustrations: []models.Illustration{{Code: "B-1"}, {Code: "B-1_p1"}}},
	}
}

func TestNew_SortsCandidates(t *testing.T) {
	in := sample()
	b := New(in, &fakeClaimer{})

	got := b.Candidates()
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0].Slug)
	assert.Equal(t, "a", got[1].Slug)
	assert.Equal(t, "a", in[0].Slug, "input slice is not reordered")
	assert.Equal(t, StateList, b.State())
}

func TestNew_EmptyList(t *testing.T) {
	b := New(nil, &fakeClaimer{})
	assert.Empty(t, b.Candidates())
	require.ErrorIs(t, b.SelectCandidate(0), ErrOutOfRange)
}

func TestBrowser_DrillDownAndBack(t *testing.T) {
	b := New(sample(), &fakeClaimer{})

	require.NoError(t, b.SelectCandidate(0))
	assert.Equal(t, StateCardSelected, b.State())
	c, ok := b.Current()
	require.True(t, ok)
	assert.Equal(t, "b", c.Slug)

	require.NoError(t, b.SelectIllustration(1))
	assert.Equal(t, StateIllustrationDetail, b.State())
	il, ok := b.CurrentIllustration()
	require.True(t, ok)
	assert.Equal(t, "B-1_p1", il.Code)

	moved, err := b.Back()
	require.NoError(t, err)
	assert.True(t, moved)
	assert.Equal(t, StateCardSelected, b.State())
	_, ok = b.CurrentIllustration()
	assert.False(t, ok)

	moved, err = b.Back()
	require.NoError(t, err)
	assert.True(t, moved)
	assert.Equal(t, StateList, b.State())
	_, ok = b.Current()
	assert.False(t, ok)

	moved, err = b.Back()
	require.NoError(t, err)
	assert.False(t, moved, "back in the list is a no-op")
	assert.Equal(t, StateList, b.State())
}

func TestBrowser_InvalidTransitions(t *testing.T) {
	b := New(sample(), &fakeClaimer{})

	require.ErrorIs(t, b.SelectIllustration(0), ErrInvalidTransition)
	_, err := b.Claim(context.Background())
	require.ErrorIs(t, err, ErrInvalidTransition)

	require.NoError(t, b.SelectCandidate(1))
	require.ErrorIs(t, b.SelectCandidate(0), ErrInvalidTransition)
	_, err = b.Claim(context.Background())
	require.ErrorIs(t, err, ErrInvalidTransition)

	require.ErrorIs(t, b.SelectIllustration(5), ErrOutOfRange)
	require.ErrorIs(t, b.SelectIllustration(-1), ErrOutOfRange)
	assert.Equal(t, StateCardSelected, b.State())
}

func TestBrowser_SelectCandidateOutOfRange(t *testing.T) {
	b := New(sample(), &fakeClaimer{})
	require.ErrorIs(t, b.SelectCandidate(2), ErrOutOfRange)
	require.ErrorIs(t, b.SelectCandidate(-1), ErrOutOfRange)
	assert.Equal(t, StateList, b.State())
}

func TestBrowser_Claim(t *testing.T) {
	cl := &fakeClaimer{}
	b := New(sample(), cl)

	require.NoError(t, b.SelectCandidate(0))
	require.NoError(t, b.SelectIllustration(0))

	il, err := b.Claim(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "B-1", il.Code)
	assert.Equal(t, []string{"B-1"}, cl.Codes)
	assert.Equal(t, StateIllustrationDetail, b.State())
}

func TestBrowser_ClaimFailureKeepsState(t *testing.T) {
	cl := &fakeClaimer{Err: errors.New("offline")}
	b := New(sample(), cl)

	require.NoError(t, b.SelectCandidate(1))
	require.NoError(t, b.SelectIllustration(0))

	_, err := b.Claim(context.Background())
	require.ErrorIs(t, err, cl.Err)
	assert.Equal(t, StateIllustrationDetail, b.State())
	il, ok := b.CurrentIllustration()
	require.True(t, ok)
	assert.Equal(t, "A-1", il.Code)
}

func TestBrowser_Close(t *testing.T) {
	b := New(sample(), &fakeClaimer{})
	require.NoError(t, b.SelectCandidate(0))

	b.Close()
	assert.True(t, b.Closed())
	assert.Empty(t, b.Candidates())

	require.ErrorIs(t, b.SelectCandidate(0), ErrClosed)
	require.ErrorIs(t, b.SelectIllustration(0), ErrClosed)
	_, err := b.Back()
	require.ErrorIs(t, err, ErrClosed)
	_, err = b.Claim(context.Background())
	require.ErrorIs(t, err, ErrClosed)
	_, ok := b.Current()
	assert.False(t, ok)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "list", StateList.String())
	assert.Equal(t, "card", StateCardSelected.String())
	assert.Equal(t, "illustration", StateIllustrationDetail.String())
	assert.Equal(t, "State(9)", State(9).String())
}
