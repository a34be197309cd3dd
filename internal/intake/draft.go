package intake

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/wolfman30/coaching-intake/pkg/logging"
)

// DefaultDraftKey is the storage key used when no session scoping applies.
const DefaultDraftKey = "health_coaching_form_data"

// ErrStorageMiss is returned by Storage.Get when the key holds nothing.
var ErrStorageMiss = errors.New("intake: storage key not found")

// Storage is a session-scoped key-value medium for serialized drafts.
type Storage interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// DraftStore persists an in-progress record under one key. Storage failures
// are logged and swallowed so the form keeps working in memory.
type DraftStore struct {
	storage Storage
	key     string
	logger  *logging.Logger
}

// NewDraftStore binds storage and key. An empty key uses DefaultDraftKey.
func NewDraftStore(storage Storage, key string, logger *logging.Logger) *DraftStore {
	if storage == nil {
		panic("intake: draft storage cannot be nil")
	}
	if key == "" {
		key = DefaultDraftKey
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &DraftStore{storage: storage, key: key, logger: logger}
}

// Key returns the storage key.
func (d *DraftStore) Key() string {
	return d.key
}

// Save writes the full record, overwriting any earlier draft.
func (d *DraftStore) Save(ctx context.Context, rec Record) {
	data, err := json.Marshal(rec)
	if err != nil {
		d.logger.Error("failed to encode draft", "key", d.key, "error", err)
		return
	}
	if err := d.storage.Set(ctx, d.key, data); err != nil {
		d.logger.Error("failed to save draft", "key", d.key, "error", err)
	}
}

// Load returns the stored draft decoded onto the schema defaults. Keys whose
// stored type no longer matches keep their default. It returns ok=false when
// nothing is stored, the medium fails or the payload is corrupt.
func (d *DraftStore) Load(ctx context.Context) (Record, bool) {
	data, err := d.storage.Get(ctx, d.key)
	if err != nil {
		if !errors.Is(err, ErrStorageMiss) {
			d.logger.Error("failed to load draft", "key", d.key, "error", err)
		}
		return Record{}, false
	}
	rec, err := DecodeRecord(data)
	switch {
	case err == nil:
	case IsPartialDecode(err):
		d.logger.Warn("draft restored with mismatched fields reset", "key", d.key, "error", err)
	default:
		d.logger.Warn("discarding corrupt draft", "key", d.key, "error", err)
		return Record{}, false
	}
	return rec, true
}

// Clear removes the stored draft.
func (d *DraftStore) Clear(ctx context.Context) {
	if err := d.storage.Delete(ctx, d.key); err != nil {
		d.logger.Error("failed to clear draft", "key", d.key, "error", err)
	}
}
