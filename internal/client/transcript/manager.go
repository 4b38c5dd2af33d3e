package transcript

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/chatdesk/internal/client/models"
	"github.com/dmitrijs2005/chatdesk/internal/logging"
	"github.com/google/uuid"
)

var ErrEmptyInput = errors.New("empty input")

// Backend performs the requests whose results fill placeholders.
// GenerateImage must return an absolute ImageURL.
type Backend interface {
	Query(ctx context.Context, query string, documentID int) (string, error)
	GenerateImage(ctx context.Context, prompt string) (*models.ImageResponse, error)
}

// Manager is safe for concurrent use. Each mutation happens in a single
// critical section; change callbacks run after the lock is released.
type Manager struct {
	backend Backend
	logger  logging.Logger
	now     func() time.Time

	onChange func(Message)

	mu         sync.Mutex
	messages   []Message
	seq        uint64
	documentID int
	generation uint64

	inflight sync.WaitGroup
}

type Option func(*Manager)

func WithLogger(l logging.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// WithOnChange registers fn to be called with every appended or resolved
// message, in the order the changes were made within one operation.
func WithOnChange(fn func(Message)) Option {
	return func(m *Manager) { m.onChange = fn }
}

// WithClock overrides time.Now for message ids and timestamps.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

func NewManager(backend Backend, opts ...Option) *Manager {
	m := &Manager{
		backend: backend,
		logger:  logging.Nop(),
		now:     time.Now,
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// SubmitText appends the user's text and a pending text-query placeholder
// and starts the query. It returns the request id.
func (m *Manager) SubmitText(ctx context.Context, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyInput
	}

	m.mu.Lock()
	docID := m.documentID
	m.mu.Unlock()

	return m.submit(ctx, KindText, text, func(ctx context.Context) Result {
		answer, err := m.backend.Query(ctx, text, docID)
		return Result{Text: answer, Err: err}
	})
}

// RequestImage appends "Generate image: <prompt>" and a pending
// image-generation placeholder and starts the generation. Plan gating is
// the caller's job.
func (m *Manager) RequestImage(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", ErrEmptyInput
	}

	return m.submit(ctx, KindImage, imagePromptPrefix+prompt, func(ctx context.Context) Result {
		img, err := m.backend.GenerateImage(ctx, prompt)
		if err != nil {
			return Result{Err: err}
		}
		return Result{ImageURL: img.ImageURL, ImageData: img.ImageData}
	})
}

func (m *Manager) submit(ctx context.Context, kind Kind, userText string, call func(context.Context) Result) (string, error) {
	requestID := uuid.NewString()

	m.mu.Lock()
	now := m.now()
	user := m.appendLocked(Message{Text: userText, IsUser: true, Timestamp: now})
	placeholder := m.appendLocked(Message{
		Text:      kind.pendingText(),
		Timestamp: now,
		IsPending: true,
		Kind:      kind,
		RequestID: requestID,
	})
	gen := m.generation
	m.inflight.Add(1)
	m.mu.Unlock()

	m.logger.Debug(ctx, "request submitted", "kind", kind, "request_id", requestID)
	m.notify(user, placeholder)

	go func() {
		defer m.inflight.Done()
		res := m.run(ctx, kind, requestID, call)
		m.resolve(ctx, gen, res)
	}()
	return requestID, nil
}

// run executes call and converts a panic into an error result.
func (m *Manager) run(ctx context.Context, kind Kind, requestID string, call func(context.Context) Result) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			res = Result{Err: fmt.Errorf("request panicked: %v", r)}
		}
		res.Kind = kind
		res.RequestID = requestID
	}()
	return call(ctx)
}

// resolve overwrites the oldest pending placeholder of res.Kind, or appends
// the result when none is left. Results that outlive a Reset are dropped.
func (m *Manager) resolve(ctx context.Context, gen uint64, res Result) {
	if res.Err != nil {
		m.logger.Warn(ctx, "request failed", "kind", res.Kind, "request_id", res.RequestID, "error", res.Err)
	}

	m.mu.Lock()
	if gen != m.generation {
		m.mu.Unlock()
		m.logger.Debug(ctx, "dropping result for discarded transcript", "request_id", res.RequestID)
		return
	}

	var changed Message
	if i := m.oldestPendingLocked(res.Kind); i >= 0 {
		if m.messages[i].RequestID != res.RequestID {
			m.logger.Debug(ctx, "result resolves an earlier placeholder",
				"request_id", res.RequestID, "placeholder_request_id", m.messages[i].RequestID)
		}
		res.apply(&m.messages[i])
		changed = m.messages[i]
	} else {
		m.logger.Warn(ctx, "no pending placeholder, appending result", "kind", res.Kind, "request_id", res.RequestID)
		msg := Message{Timestamp: m.now(), RequestID: res.RequestID}
		res.apply(&msg)
		changed = m.appendLocked(msg)
	}
	m.mu.Unlock()

	m.notify(changed)
}

func (m *Manager) oldestPendingLocked(kind Kind) int {
	for i := range m.messages {
		if m.messages[i].IsPending && m.messages[i].Kind == kind {
			return i
		}
	}
	return -1
}

func (m *Manager) appendLocked(msg Message) Message {
	m.seq++
	msg.ID = messageID(msg.Timestamp, m.seq)
	m.messages = append(m.messages, msg)
	return msg
}

func (m *Manager) notify(msgs ...Message) {
	if m.onChange == nil {
		return
	}
	for _, msg := range msgs {
		m.onChange(msg)
	}
}

// Messages returns a copy of the transcript in append order.
func (m *Manager) Messages() []Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Message(nil), m.messages...)
}

// PendingCount returns the number of unresolved placeholders of kind.
func (m *Manager) PendingCount(kind Kind) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, msg := range m.messages {
		if msg.IsPending && msg.Kind == kind {
			n++
		}
	}
	return n
}

// SetDocument selects the document subsequent text queries run against;
// 0 queries all documents.
func (m *Manager) SetDocument(id int) {
	m.mu.Lock()
	m.documentID = id
	m.mu.Unlock()
}

func (m *Manager) Document() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.documentID
}

// Reset discards the transcript and the selected document. Requests still
// in flight finish but their results are not recorded.
func (m *Manager) Reset() {
	m.mu.Lock()
	m.messages = nil
	m.documentID = 0
	m.generation++
	m.mu.Unlock()
}

// Wait blocks until every request started so far has settled.
func (m *Manager) Wait() {
	m.inflight.Wait()
}
