// Package transcript keeps the ordered chat transcript of one chat surface.
//
// Every user action appends the user's message and a pending placeholder in
// one step and starts one backend request. When the request settles, the
// oldest pending placeholder of the same kind is overwritten in place with
// the answer, the generated image or a fixed error text. Placeholders of
// one kind are resolved first-in-first-out regardless of which request
// actually finished; the request id on each placeholder is kept for
// correlation in logs.
package transcript

import (
	"fmt"
	"time"
)

// Kind tags a placeholder with the request type that will resolve it.
type Kind string

const (
	KindText  Kind = "text-query"
	KindImage Kind = "image-generation"
)

const (
	PendingText  = "..."
	PendingImage = "Generating image..."

	TextErrorText  = "Sorry, I couldn't process your request. Please try again."
	ImageErrorText = "Sorry, I couldn't generate the image. Please try again."

	imagePromptPrefix = "Generate image: "
)

// pendingText returns the sentinel shown while a request of kind k runs.
func (k Kind) pendingText() string {
	if k == KindImage {
		return PendingImage
	}
	return PendingText
}

func (k Kind) errorText() string {
	if k == KindImage {
		return ImageErrorText
	}
	return TextErrorText
}

// Message is one transcript entry. ImageData (base64) and ImageURL are kept
// side by side: inline data is displayed first and the URL is the fallback.
type Message struct {
	ID        string
	Text      string
	IsUser    bool
	Timestamp time.Time
	IsPending bool
	Kind      Kind
	RequestID string
	ImageURL  string
	ImageData string
}

// HasImage reports whether the entry carries an image reference.
func (m Message) HasImage() bool {
	return m.ImageData != "" || m.ImageURL != ""
}

func messageID(t time.Time, seq uint64) string {
	return fmt.Sprintf("%d-%d", t.UnixMilli(), seq)
}
