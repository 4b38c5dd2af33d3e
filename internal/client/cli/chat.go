package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/chatdesk/internal/client/services"
	"github.com/dmitrijs2005/chatdesk/internal/client/transcript"
	"github.com/dmitrijs2005/chatdesk/internal/filex"
)

// Ask sends a question. The reply is printed when it arrives.
func (a *App) Ask(ctx context.Context, text string) error {
	if err := a.chat.Ask(ctx, text); err != nil {
		a.chatError(err)
		return err
	}
	return nil
}

// Image requests an image generation (premium plan only).
func (a *App) Image(ctx context.Context, prompt string) error {
	if err := a.chat.Image(ctx, prompt); err != nil {
		a.chatError(err)
		return err
	}
	return nil
}

func (a *App) chatError(err error) {
	switch {
	case errors.Is(err, services.ErrPlanRequired):
		a.render.Warn("Image generation requires the premium plan (see 'plan premium')")
	case errors.Is(err, transcript.ErrEmptyInput):
		a.render.Warn("Please enter a message")
	case errors.Is(err, services.ErrNotLoggedIn):
		a.render.Warn("Please login first")
	default:
		a.render.Error("%v", err)
	}
}

func (a *App) History(ctx context.Context) error {
	a.render.Transcript(a.chat.Messages())
	return nil
}

// Clear discards the conversation. Replies still on their way are dropped.
func (a *App) Clear(ctx context.Context) error {
	a.chat.Reset()
	a.render.Success("Conversation cleared")
	return nil
}

// SaveImage writes the latest generated image to path, using the inline
// data when it is usable and downloading the URL otherwise.
func (a *App) SaveImage(ctx context.Context, path string) error {
	msg, err := a.chat.LatestImage()
	if err != nil {
		a.render.Warn("No generated image in this conversation")
		return err
	}
	data, err := a.chat.ImageBytes(ctx, msg)
	if err != nil {
		a.report(ctx, err, "Failed to load image")
		return err
	}
	if err := filex.WriteFile(path, data, 0o644); err != nil {
		a.render.Error("Failed to save image: %v", err)
		return fmt.Errorf("write %s: %w", path, err)
	}
	a.render.Success("Saved %d bytes to %s", len(data), path)
	return nil
}
