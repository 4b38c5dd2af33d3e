package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"

	"github.com/dmitrijs2005/chatdesk/internal/client/session"
	"github.com/dmitrijs2005/chatdesk/internal/client/transcript"
	"github.com/dmitrijs2005/chatdesk/internal/logging"
)

var ErrNoImage = errors.New("message has no image")

// ImageFetcher downloads an image by absolute URL.
type ImageFetcher interface {
	FetchImage(ctx context.Context, url string) ([]byte, error)
}

// ChatService gates chat actions on the session and drives the transcript.
type ChatService struct {
	manager *transcript.Manager
	images  ImageFetcher
	store   *session.Store
	logger  logging.Logger
}

func NewChatService(m *transcript.Manager, images ImageFetcher, store *session.Store, logger logging.Logger) *ChatService {
	if logger == nil {
		logger = logging.Nop()
	}
	return &ChatService{manager: m, images: images, store: store, logger: logger}
}

func (s *ChatService) Ask(ctx context.Context, text string) error {
	if !s.store.IsAuthenticated() {
		return ErrNotLoggedIn
	}
	_, err := s.manager.SubmitText(ctx, text)
	return err
}

// Image starts an image generation; only premium users may.
func (s *ChatService) Image(ctx context.Context, prompt string) error {
	if !s.store.IsAuthenticated() {
		return ErrNotLoggedIn
	}
	if !s.store.CanGenerateImages() {
		return ErrPlanRequired
	}
	_, err := s.manager.RequestImage(ctx, prompt)
	return err
}

func (s *ChatService) UseDocument(id int) { s.manager.SetDocument(id) }

func (s *ChatService) Document() int { return s.manager.Document() }

func (s *ChatService) Messages() []transcript.Message { return s.manager.Messages() }

func (s *ChatService) Reset() { s.manager.Reset() }

func (s *ChatService) Wait() { s.manager.Wait() }

// LatestImage returns the most recent transcript entry carrying an image.
func (s *ChatService) LatestImage() (transcript.Message, error) {
	msgs := s.manager.Messages()
	for i := len(msgs) - 1; i >= 0; i-- {
		if !msgs[i].IsPending && msgs[i].HasImage() {
			return msgs[i], nil
		}
	}
	return transcript.Message{}, ErrNoImage
}

// ImageBytes returns the image of msg. Inline data is used when it decodes
// as an image; otherwise the URL is downloaded.
func (s *ChatService) ImageBytes(ctx context.Context, msg transcript.Message) ([]byte, error) {
	if msg.ImageData != "" {
		data, err := decodeInlineImage(msg.ImageData)
		if err == nil {
			return data, nil
		}
		s.logger.Warn(ctx, "inline image unusable, falling back to url", "id", msg.ID, "error", err, "image_url", msg.ImageURL)
	}
	if msg.ImageURL == "" {
		return nil, ErrNoImage
	}
	data, err := s.images.FetchImage(ctx, msg.ImageURL)
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", msg.ImageURL, err)
	}
	return data, nil
}

func decodeInlineImage(b64 string) ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return nil, fmt.Errorf("decode base64: %w", err)
	}
	if _, _, err := image.DecodeConfig(bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return data, nil
}
