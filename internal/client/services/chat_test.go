package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/dmitrijs2005/chatdesk/internal/client/models"
	"github.com/dmitrijs2005/chatdesk/internal/client/session"
	"github.com/dmitrijs2005/chatdesk/internal/client/transcript"
	"github.com/dmitrijs2005/chatdesk/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tinyPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func newChat(fc *fakeClient, store *session.Store) *ChatService {
	return NewChatService(transcript.NewManager(fc), fc, store, nil)
}

func TestChat_ImageRequiresPremium(t *testing.T) {
	fc := &fakeClient{ImageRet: &models.ImageResponse{ImageURL: "http://x/images/a.png"}}
	chat := newChat(fc, loggedIn(t, bob))

	err := chat.Image(context.Background(), "a cat")
	require.ErrorIs(t, err, ErrPlanRequired)
	assert.Empty(t, chat.Messages())

	premium := bob
	premium.Plan = common.PlanPremium
	chat = newChat(fc, loggedIn(t, premium))
	require.NoError(t, chat.Image(context.Background(), "a cat"))
	chat.Wait()

	msgs := chat.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, "http://x/images/a.png", msgs[1].ImageURL)
}

func TestChat_RequiresSession(t *testing.T) {
	chat := newChat(&fakeClient{}, session.NewStore(nil))
	require.ErrorIs(t, chat.Ask(context.Background(), "hi"), ErrNotLoggedIn)
	require.ErrorIs(t, chat.Image(context.Background(), "hi"), ErrNotLoggedIn)
}

func TestChat_AskAndReset(t *testing.T) {
	fc := &fakeClient{QueryRet: "Hi there"}
	chat := newChat(fc, loggedIn(t, bob))

	require.ErrorIs(t, chat.Ask(context.Background(), "  "), transcript.ErrEmptyInput)
	require.NoError(t, chat.Ask(context.Background(), "Hello"))
	chat.Wait()
	assert.Equal(t, "Hi there", chat.Messages()[1].Text)

	chat.UseDocument(4)
	assert.Equal(t, 4, chat.Document())
	chat.Reset()
	assert.Empty(t, chat.Messages())
	assert.Zero(t, chat.Document())
}

func TestChat_ImageBytesPrefersInline(t *testing.T) {
	raw := tinyPNG(t)
	fc := &fakeClient{FetchRet: []byte("from-url")}
	chat := newChat(fc, loggedIn(t, bob))

	got, err := chat.ImageBytes(context.Background(), transcript.Message{
		ImageData: base64.StdEncoding.EncodeToString(raw),
		ImageURL:  "http://x/images/a.png",
	})
	require.NoError(t, err)
	assert.Equal(t, raw, got)
	assert.Empty(t, fc.LastFetchURL)
}

func TestChat_ImageBytesFallsBackToURL(t *testing.T) {
	fc := &fakeClient{FetchRet: []byte("from-url")}
	chat := newChat(fc, loggedIn(t, bob))

	for _, data := range []string{"%%%not-base64", base64.StdEncoding.EncodeToString([]byte("not an image")), ""} {
		got, err := chat.ImageBytes(context.Background(), transcript.Message{ImageData: data, ImageURL: "http://x/images/a.png"})
		require.NoError(t, err)
		assert.Equal(t, []byte("from-url"), got)
		assert.Equal(t, "http://x/images/a.png", fc.LastFetchURL)
	}

	_, err := chat.ImageBytes(context.Background(), transcript.Message{ImageData: "%%%"})
	require.ErrorIs(t, err, ErrNoImage)
}

func TestChat_LatestImage(t *testing.T) {
	fc := &fakeClient{QueryRet: "text", ImageRet: &models.ImageResponse{ImageURL: "http://x/1.png"}}
	premium := bob
	premium.Plan = common.PlanPremium
	chat := newChat(fc, loggedIn(t, premium))

	_, err := chat.LatestImage()
	require.ErrorIs(t, err, ErrNoImage)

	require.NoError(t, chat.Image(context.Background(), "one"))
	chat.Wait()
	require.NoError(t, chat.Ask(context.Background(), "then text"))
	chat.Wait()

	msg, err := chat.LatestImage()
	require.NoError(t, err)
	assert.Equal(t, "http://x/1.png", msg.ImageURL)
}
