package services

import (
	"image/color"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/require"
)

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	require.NoError(t, imaging.Save(imaging.New(w, h, color.NRGBA{G: 120, A: 255}), path))
}
