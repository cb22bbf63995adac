package capture

import (
	"context"
	"image"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/merrycards/merry/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFrame(t *testing.T, dir string, w, h int) string {
	t.Helper()
	img := imaging.New(w, h, color.NRGBA{R: 200, G: 40, B: 40, A: 255})
	path := filepath.Join(dir, "frame.png")
	require.NoError(t, imaging.Save(img, path))
	return path
}

func decodeSize(t *testing.T, path string) (int, int, string) {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	cfg, format, err := image.DecodeConfig(f)
	require.NoError(t, err)
	return cfg.Width, cfg.Height, format
}

func TestCropPolicy_Region_DefaultScenario(t *testing.T) {
	r := DefaultCropPolicy.Region(1200, 1600)
	assert.Equal(t, image.Rect(228, 280, 972, 1320), r)
	assert.Equal(t, 744, r.Dx())
	assert.Equal(t, 1040, r.Dy())
}

func TestCropPolicy_Region_VerticalTrim(t *testing.T) {
	r := VerticalTrimPolicy.Region(600, 800)
	assert.Equal(t, image.Rect(0, 80, 600, 720), r)
}

func TestCropPolicy_Region_Centered(t *testing.T) {
	sizes := [][2]int{{1200, 1600}, {1201, 1599}, {7, 9}, {1, 1}, {4032, 3024}}
	for _, s := range sizes {
		w, h := s[0], s[1]
		r := DefaultCropPolicy.Region(w, h)

		assert.True(t, r.In(image.Rect(0, 0, w, h)), "region %v escapes %dx%d", r, w, h)
		left, right := r.Min.X, w-r.Max.X
		top, bottom := r.Min.Y, h-r.Max.Y
		assert.LessOrEqual(t, math.Abs(float64(left-right)), 1.0)
		assert.LessOrEqual(t, math.Abs(float64(top-bottom)), 1.0)
	}
}

func TestCropPolicy_Validate(t *testing.T) {
	require.NoError(t, DefaultCropPolicy.Validate())
	require.NoError(t, VerticalTrimPolicy.Validate())
	require.NoError(t, CropPolicy{WorkingWidth: 0, WidthFraction: 1, HeightFraction: 1}.Validate())

	bad := []CropPolicy{
		{WorkingWidth: -1, WidthFraction: 0.5, HeightFraction: 0.5},
		{WorkingWidth: 100, WidthFraction: 0, HeightFraction: 0.5},
		{WorkingWidth: 100, WidthFraction: 0.5, HeightFraction: 1.2},
		{WorkingWidth: 100, WidthFraction: math.NaN(), HeightFraction: 0.5},
	}
	for _, p := range bad {
		assert.Error(t, p.Validate(), "%+v", p)
	}

	_, err := NewTransformer(bad[0], t.TempDir(), nil)
	require.Error(t, err)
}

func TestFileCamera_Capture(t *testing.T) {
	src := writeFrame(t, t.TempDir(), 640, 480)
	dir := filepath.Join(t.TempDir(), "captures")

	cam := &FileCamera{Source: src, Dir: dir}
	photo, err := cam.Capture(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 640, photo.Width)
	assert.Equal(t, 480, photo.Height)
	assert.Equal(t, dir, filepath.Dir(photo.URI))
	assert.Equal(t, ".png", filepath.Ext(photo.URI))
	assert.FileExists(t, photo.URI)
	assert.FileExists(t, src, "source frame must be left alone")
}

func TestFileCamera_Errors(t *testing.T) {
	tmp := t.TempDir()

	_, err := (&FileCamera{Source: filepath.Join(tmp, "missing.jpg"), Dir: tmp}).Capture(context.Background())
	require.ErrorIs(t, err, ErrCapture)
	assert.NotErrorIs(t, err, ErrPermissionDenied)

	junk := filepath.Join(tmp, "junk.jpg")
	require.NoError(t, os.WriteFile(junk, []byte("not an image"), 0o600))
	_, err = (&FileCamera{Source: junk, Dir: tmp}).Capture(context.Background())
	require.ErrorIs(t, err, ErrCapture)

	var ce *CaptureError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "decode", ce.Op)
}

func TestFileCamera_PermissionDenied(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("file permissions are not enforced for root")
	}
	tmp := t.TempDir()
	src := writeFrame(t, tmp, 10, 10)
	require.NoError(t, os.Chmod(src, 0))

	_, err := (&FileCamera{Source: src, Dir: tmp}).Capture(context.Background())
	require.ErrorIs(t, err, ErrPermissionDenied)
	assert.ErrorIs(t, err, ErrCapture)
}

func TestFileCamera_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := (&FileCamera{Source: "x", Dir: t.TempDir()}).Capture(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestTransformer_DefaultScenario(t *testing.T) {
	tmp := t.TempDir()
	cam := &FileCamera{Source: writeFrame(t, tmp, 1200, 1600), Dir: filepath.Join(tmp, "captures")}
	photo, err := cam.Capture(context.Background())
	require.NoError(t, err)

	tr, err := NewTransformer(DefaultCropPolicy, filepath.Join(tmp, "assets"), nil)
	require.NoError(t, err)

	asset, err := tr.Transform(context.Background(), photo)
	require.NoError(t, err)

	assert.Equal(t, 744, asset.Width)
	assert.Equal(t, 1040, asset.Height)
	assert.NoFileExists(t, photo.URI, "captured photo is consumed by the transform")

	w, h, format := decodeSize(t, asset.Path)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, 744, w)
	assert.Equal(t, 1040, h)
}

func TestTransformer_ResizesToWorkingWidth(t *testing.T) {
	tmp := t.TempDir()
	photo := models.CapturedPhoto{URI: writeFrame(t, tmp, 2400, 3200), Width: 2400, Height: 3200}

	tr, err := NewTransformer(DefaultCropPolicy, tmp, nil)
	require.NoError(t, err)

	asset, err := tr.Transform(context.Background(), photo)
	require.NoError(t, err)
	assert.Equal(t, 744, asset.Width)
	assert.Equal(t, 1040, asset.Height)
}

func TestTransformer_NoResizeWhenWorkingWidthZero(t *testing.T) {
	tmp := t.TempDir()
	photo := models.CapturedPhoto{URI: writeFrame(t, tmp, 300, 200)}

	tr, err := NewTransformer(CropPolicy{WidthFraction: 0.5, HeightFraction: 0.5}, tmp, nil)
	require.NoError(t, err)

	asset, err := tr.Transform(context.Background(), photo)
	require.NoError(t, err)
	assert.Equal(t, 150, asset.Width)
	assert.Equal(t, 100, asset.Height)
}

func TestTransformer_OutputRatioMatchesPolicy(t *testing.T) {
	sizes := [][2]int{{800, 600}, {1000, 1000}, {1500, 2000}, {333, 777}}
	policies := []CropPolicy{DefaultCropPolicy, VerticalTrimPolicy}

	for _, p := range policies {
		for _, s := range sizes {
			tmp := t.TempDir()
			photo := models.CapturedPhoto{URI: writeFrame(t, tmp, s[0], s[1])}

			tr, err := NewTransformer(p, tmp, nil)
			require.NoError(t, err)

			asset, err := tr.Transform(context.Background(), photo)
			require.NoError(t, err)

			scaledH := math.Round(float64(s[1]) * float64(p.WorkingWidth) / float64(s[0]))
			wantRatio := (float64(p.WorkingWidth) * p.WidthFraction) / (scaledH * p.HeightFraction)
			gotRatio := float64(asset.Width) / float64(asset.Height)

			assert.InDelta(t, wantRatio, gotRatio, 0.01, "policy %+v size %v", p, s)
		}
	}
}

func TestTransformer_Errors(t *testing.T) {
	tmp := t.TempDir()
	tr, err := NewTransformer(DefaultCropPolicy, tmp, nil)
	require.NoError(t, err)

	_, err = tr.Transform(context.Background(), models.CapturedPhoto{URI: filepath.Join(tmp, "gone.png")})
	require.ErrorIs(t, err, ErrCapture)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = tr.Transform(ctx, models.CapturedPhoto{URI: writeFrame(t, tmp, 10, 10)})
	require.ErrorIs(t, err, context.Canceled)
}

func TestPolicyByName(t *testing.T) {
	p, ok := PolicyByName("")
	require.True(t, ok)
	assert.Equal(t, DefaultCropPolicy, p)

	p, ok = PolicyByName("vertical-trim")
	require.True(t, ok)
	assert.Equal(t, VerticalTrimPolicy, p)

	_, ok = PolicyByName("fisheye")
	assert.False(t, ok)
}
