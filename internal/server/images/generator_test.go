package images

import (
	"bytes"
	"image/png"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	g := NewGenerator(16, time.Minute)

	img, err := g.Generate("a cat")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(img.Filename, ".png"))

	decoded, err := png.Decode(bytes.NewReader(img.Data))
	require.NoError(t, err)
	assert.Equal(t, 16, decoded.Bounds().Dx())
	assert.Equal(t, 16, decoded.Bounds().Dy())

	stored, err := g.Get(img.Filename)
	require.NoError(t, err)
	assert.Equal(t, img.Data, stored)

	again, err := g.Generate("A Cat")
	require.NoError(t, err)
	assert.NotEqual(t, img.Filename, again.Filename)
	assert.Equal(t, img.Data, again.Data, "same prompt, same picture")

	other, err := g.Generate("a dog")
	require.NoError(t, err)
	assert.NotEqual(t, img.Data, other.Data)
}

func TestGenerate_EmptyPrompt(t *testing.T) {
	_, err := NewGenerator(0, time.Minute).Generate("   ")
	assert.ErrorIs(t, err, ErrEmptyPrompt)
}

func TestGet_Unknown(t *testing.T) {
	_, err := NewGenerator(8, time.Minute).Get("nope.png")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGet_Expired(t *testing.T) {
	g := NewGenerator(8, 10*time.Millisecond)
	img, err := g.Generate("x")
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		_, err := g.Get(img.Filename)
		return err != nil
	}, time.Second, 5*time.Millisecond)
}
