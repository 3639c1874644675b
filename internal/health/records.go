package health

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

// Slot keys in device-local storage.
const (
	RecordsKey    = "mediorg_data_v1"
	OnboardingKey = "mediorg_onboarding_complete"
	WaterGoalKey  = "mediorg_goal_water"
)

// Storage is the keyed persistence medium shared by every store.
type Storage interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Remove(key string) error
}

var ErrDuplicateID = errors.New("duplicate record id")

// RecordStore is the append-only, newest-first collection of activity
// records. Every read goes to storage; nothing is cached.
type RecordStore struct {
	storage Storage
	log     zerolog.Logger
}

func NewRecordStore(s Storage, log zerolog.Logger) *RecordStore {
	return &RecordStore{storage: s, log: log}
}

var errCorruptSlot = errors.New("records slot corrupt")

// snapshot is one read of the records slot. raw holds every stored entry in
// order, including ones that did not decode into records.
type snapshot struct {
	records []ActivityRecord
	raw     []json.RawMessage
}

func (r *RecordStore) load() (snapshot, error) {
	data, ok, err := r.storage.Get(RecordsKey)
	if err != nil {
		return snapshot{}, fmt.Errorf("read records: %w", err)
	}
	if !ok || data == "" {
		return snapshot{records: []ActivityRecord{}}, nil
	}

	var entries []json.RawMessage
	if err := json.Unmarshal([]byte(data), &entries); err != nil {
		return snapshot{}, fmt.Errorf("%w: %v", errCorruptSlot, err)
	}

	snap := snapshot{records: make([]ActivityRecord, 0, len(entries)), raw: entries}
	for i, e := range entries {
		var rec ActivityRecord
		err := json.Unmarshal(e, &rec)
		if err == nil {
			err = rec.Validate()
		}
		if err != nil {
			r.log.Warn().Err(err).Int("index", i).Msg("skipping undecodable record")
			continue
		}
		snap.records = append(snap.records, rec)
	}
	return snap, nil
}

// All returns every stored record, newest first. Missing, unreadable or
// corrupt data yields an empty collection.
func (r *RecordStore) All() []ActivityRecord {
	snap, err := r.load()
	if err != nil {
		r.log.Warn().Err(err).Str("slot", RecordsKey).Msg("records unavailable, treating as empty")
		return []ActivityRecord{}
	}
	return snap.records
}

func (r *RecordStore) Len() int {
	return len(r.All())
}

// Append prepends rec and synchronously persists the whole collection.
// Nothing is written when the current collection cannot be read. Stored
// entries that do not decode are carried over unchanged.
func (r *RecordStore) Append(rec ActivityRecord) ([]ActivityRecord, error) {
	if err := rec.Validate(); err != nil {
		return nil, err
	}

	snap, err := r.load()
	switch {
	case errors.Is(err, errCorruptSlot):
		r.log.Warn().Err(err).Str("slot", RecordsKey).Msg("replacing corrupt records slot")
		snap = snapshot{}
	case err != nil:
		return nil, err
	}

	for _, existing := range snap.records {
		if existing.ID == rec.ID {
			return nil, fmt.Errorf("append %s: %w", rec.ID, ErrDuplicateID)
		}
	}

	encoded, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("marshal record: %w", err)
	}
	entries := make([]json.RawMessage, 0, len(snap.raw)+1)
	entries = append(entries, encoded)
	entries = append(entries, snap.raw...)

	data, err := json.Marshal(entries)
	if err != nil {
		return nil, fmt.Errorf("marshal records: %w", err)
	}
	if err := r.storage.Set(RecordsKey, string(data)); err != nil {
		return nil, fmt.Errorf("persist records: %w", err)
	}

	updated := make([]ActivityRecord, 0, len(snap.records)+1)
	updated = append(updated, rec)
	updated = append(updated, snap.records...)
	r.log.Debug().Str("id", rec.ID).Str("type", string(rec.Type)).Float64("value", rec.Value).Msg("record appended")
	return updated, nil
}
