package session

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/chatdesk/internal/client/models"
	"github.com/dmitrijs2005/chatdesk/internal/client/repositories/metadata"
)

const (
	// StorageKey is the metadata key holding the persisted session.
	StorageKey = "auth-storage"
	// RecordVersion is the newest record layout this client understands.
	RecordVersion = 1
)

// Persister stores the encoded session record. Load returns (nil, nil)
// when nothing was saved yet or after Clear.
type Persister interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, data []byte) error
	Clear(ctx context.Context) error
}

// MetadataPersister keeps the record in the local metadata table.
type MetadataPersister struct {
	repo metadata.Repository
}

func NewMetadataPersister(repo metadata.Repository) *MetadataPersister {
	return &MetadataPersister{repo: repo}
}

func (p *MetadataPersister) Load(ctx context.Context) ([]byte, error) {
	return p.repo.Get(ctx, StorageKey)
}

func (p *MetadataPersister) Save(ctx context.Context, data []byte) error {
	return p.repo.Set(ctx, StorageKey, data)
}

func (p *MetadataPersister) Clear(ctx context.Context) error {
	return p.repo.Delete(ctx, StorageKey)
}

type persistedState struct {
	Token           *string      `json:"token"`
	User            *models.User `json:"user"`
	IsAuthenticated bool         `json:"isAuthenticated"`
}

type record struct {
	State   persistedState `json:"state"`
	Version int            `json:"version"`
}

func encodeState(st State) ([]byte, error) {
	rec := record{
		State: persistedState{
			User:            st.User,
			IsAuthenticated: st.IsAuthenticated,
		},
		Version: RecordVersion,
	}
	if st.Token != "" {
		tok := st.Token
		rec.State.Token = &tok
	}
	return json.Marshal(rec)
}

// decodeState parses a persisted record. Records without a version are
// version 0 and are upgraded in place; records from a newer client are
// rejected. The authenticated flag is always re-derived from the token.
func decodeState(data []byte) (State, error) {
	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return State{}, fmt.Errorf("decode session record: %w", err)
	}
	if rec.Version > RecordVersion {
		return State{}, fmt.Errorf("session record version %d: %w", rec.Version, ErrUnsupportedVersion)
	}

	var st State
	if rec.State.Token != nil {
		st.Token = *rec.State.Token
	}
	st.User = rec.State.User
	st.IsAuthenticated = st.Token != ""
	return st, nil
}
