// Package images renders placeholder pictures for image generation requests
// and keeps them around long enough to be downloaded.
package images

import (
	"bytes"
	"errors"
	"fmt"
	"hash/fnv"
	"image"
	"image/color"
	"image/png"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

var (
	ErrEmptyPrompt = errors.New("prompt is required")
	ErrNotFound    = errors.New("image not found")
)

const (
	DefaultSize = 256
	DefaultTTL  = time.Hour
)

// Image is one generated picture.
type Image struct {
	Filename string
	Data     []byte
}

// Generator draws a gradient derived from the prompt, so the same prompt
// always yields the same picture.
type Generator struct {
	size  int
	store *cache.Cache
}

func NewGenerator(size int, ttl time.Duration) *Generator {
	if size <= 0 {
		size = DefaultSize
	}
	return &Generator{size: size, store: cache.New(ttl, 2*ttl)}
}

func (g *Generator) Generate(prompt string) (*Image, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, ErrEmptyPrompt
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, g.draw(prompt)); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}

	img := &Image{Filename: uuid.NewString() + ".png", Data: buf.Bytes()}
	g.store.SetDefault(img.Filename, img.Data)
	return img, nil
}

// Get returns a previously generated image by file name.
func (g *Generator) Get(filename string) ([]byte, error) {
	v, ok := g.store.Get(filename)
	if !ok {
		return nil, ErrNotFound
	}
	return v.([]byte), nil
}

func (g *Generator) draw(prompt string) image.Image {
	h := fnv.New64a()
	_, _ = h.Write([]byte(strings.ToLower(prompt)))
	sum := h.Sum64()

	from := color.RGBA{R: uint8(sum), G: uint8(sum >> 8), B: uint8(sum >> 16), A: 0xff}
	to := color.RGBA{R: uint8(sum >> 24), G: uint8(sum >> 32), B: uint8(sum >> 40), A: 0xff}

	img := image.NewRGBA(image.Rect(0, 0, g.size, g.size))
	last := g.size - 1
	if last == 0 {
		last = 1
	}
	for y := 0; y < g.size; y++ {
		for x := 0; x < g.size; x++ {
			t := (x + y) * 255 / (2 * last)
			img.SetRGBA(x, y, color.RGBA{
				R: mix(from.R, to.R, t),
				G: mix(from.G, to.G, t),
				B: mix(from.B, to.B, t),
				A: 0xff,
			})
		}
	}
	return img
}

func mix(a, b uint8, t int) uint8 {
	return uint8((int(a)*(255-t) + int(b)*t) / 255)
}
