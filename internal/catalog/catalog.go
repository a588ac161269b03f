// Package catalog owns the per-user media catalog: an ordered,
// newest-first sequence of media records persisted as one JSON document
// per username.
package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"localpix/gallery-api/internal/model"
	"localpix/gallery-api/internal/store"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

var (
	ErrBackupFailed        = errors.New("failed to serialize catalog backup")
	ErrInvalidBackupFormat = errors.New("invalid backup format")
)

const idCharset = "0123456789abcdefghijklmnopqrstuvwxyz"

// NewID returns a catalog-unique record ID. The unix-milli prefix keeps
// IDs roughly sortable, the nanoid suffix keeps a batch uploaded within
// one millisecond collision-free.
func NewID() string {
	suffix, err := gonanoid.Generate(idCharset, 8)
	if err != nil {
		// Only reachable when the OS entropy source is broken
		panic(err)
	}

	return fmt.Sprintf("%d-%s", time.Now().UnixMilli(), suffix)
}

// Manager loads, mutates and persists catalogs. Every mutation for a given
// user runs under that user's mutex, which keeps the ID-uniqueness and
// ordering invariants intact under concurrent in-process callers. Two
// processes sharing one store file are still last-write-wins, that's a
// documented limitation of the single-profile model.
type Manager struct {
	store *store.Store

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewManager(s *store.Store) *Manager {
	return &Manager{
		store: s,
		locks: map[string]*sync.Mutex{},
	}
}

func (m *Manager) lock(username string) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()

	l, ok := m.locks[username]
	if !ok {
		l = &sync.Mutex{}
		m.locks[username] = l
	}

	return l
}

func (m *Manager) load(username string) ([]model.MediaRecord, error) {
	records := []model.MediaRecord{}

	_, err := m.store.Get(store.CatalogKeyFor(username), &records)
	if err != nil {
		return nil, err
	}

	return records, nil
}

func (m *Manager) save(username string, records []model.MediaRecord) error {
	return m.store.Set(store.CatalogKeyFor(username), records)
}

// Records returns the user's catalog, newest first.
func (m *Manager) Records(username string) ([]model.MediaRecord, error) {
	l := m.lock(username)
	l.Lock()
	defer l.Unlock()

	return m.load(username)
}

// Find returns the record with the given ID.
func (m *Manager) Find(username, id string) (model.MediaRecord, bool, error) {
	records, err := m.Records(username)
	if err != nil {
		return model.MediaRecord{}, false, err
	}

	for _, r := range records {
		if r.ID == id {
			return r, true, nil
		}
	}

	return model.MediaRecord{}, false, nil
}

// Add assigns each input a fresh ID and an upload timestamp and prepends
// the whole batch, in submission order, ahead of every existing record.
// There is no dedup by content.
func (m *Manager) Add(username string, inputs []model.NewMediaInput) ([]model.MediaRecord, error) {
	l := m.lock(username)
	l.Lock()
	defer l.Unlock()

	existing, err := m.load(username)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC().Format(time.RFC3339)
	added := make([]model.MediaRecord, 0, len(inputs))

	for _, in := range inputs {
		category := in.Category
		if category == "" {
			category = model.DefaultCategory
		}

		tags := in.Tags
		if tags == nil {
			tags = []string{}
		}

		added = append(added, model.MediaRecord{
			ID:         NewID(),
			Name:       in.Name,
			Kind:       in.Kind,
			MimeType:   in.MimeType,
			SizeBytes:  in.SizeBytes,
			Content:    in.Content,
			Category:   category,
			Tags:       tags,
			UploadedAt: now,
			ViewCount:  0,
			Width:      in.Width,
			Height:     in.Height,
		})
	}

	records := append(added, existing...)
	if err := m.save(username, records); err != nil {
		return nil, err
	}

	return added, nil
}

// Delete removes the record with the given ID. A missing ID is a no-op,
// not an error.
func (m *Manager) Delete(username, id string) error {
	l := m.lock(username)
	l.Lock()
	defer l.Unlock()

	records, err := m.load(username)
	if err != nil {
		return err
	}

	kept := records[:0]
	for _, r := range records {
		if r.ID != id {
			kept = append(kept, r)
		}
	}

	if len(kept) == len(records) {
		return nil
	}

	return m.save(username, kept)
}

// Update merges the patch into the record with the given ID and returns
// the updated record. A missing ID is a no-op.
func (m *Manager) Update(username, id string, patch model.RecordPatch) (model.MediaRecord, bool, error) {
	l := m.lock(username)
	l.Lock()
	defer l.Unlock()

	records, err := m.load(username)
	if err != nil {
		return model.MediaRecord{}, false, err
	}

	for i, r := range records {
		if r.ID != id {
			continue
		}

		if patch.Name != nil {
			records[i].Name = *patch.Name
		}
		if patch.Category != nil {
			records[i].Category = *patch.Category
		}
		if patch.Tags != nil {
			records[i].Tags = *patch.Tags
		}

		if err := m.save(username, records); err != nil {
			return model.MediaRecord{}, false, err
		}

		return records[i], true, nil
	}

	return model.MediaRecord{}, false, nil
}

// IncrementView bumps the record's view count by one, computed from the
// latest persisted state at write time. In-process callers serialize
// through the user mutex so sequential increments are exact; a second
// process writing the same catalog can still lose updates.
func (m *Manager) IncrementView(username, id string) (int, bool, error) {
	l := m.lock(username)
	l.Lock()
	defer l.Unlock()

	records, err := m.load(username)
	if err != nil {
		return 0, false, err
	}

	for i, r := range records {
		if r.ID != id {
			continue
		}

		records[i].ViewCount = r.ViewCount + 1
		if err := m.save(username, records); err != nil {
			return 0, false, err
		}

		return records[i].ViewCount, true, nil
	}

	return 0, false, nil
}

// Categories returns the derived category set: the "All" sentinel first,
// then every distinct non-empty category in first-seen (newest-first)
// order. Computed, never persisted.
func (m *Manager) Categories(username string) ([]string, error) {
	records, err := m.Records(username)
	if err != nil {
		return nil, err
	}

	return Categories(records), nil
}

// Backup serializes the user's full catalog to a pretty-printed JSON
// array. Failure reports ErrBackupFailed and changes nothing.
func (m *Manager) Backup(username string) ([]byte, error) {
	records, err := m.Records(username)
	if err != nil {
		return nil, err
	}

	doc, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return nil, ErrBackupFailed
	}

	return doc, nil
}

// BackupFilename returns the conventional download name for a backup
// taken now.
func BackupFilename(username string) string {
	return fmt.Sprintf("gallery_backup_%s_%s.json", username, time.Now().UTC().Format("2006-01-02"))
}

// Restore parses doc and replaces the user's entire catalog with it.
// Restore is disaster recovery, not import: a full overwrite, never a
// merge. Every element must carry a non-empty id, name and content;
// any parse or validation failure reports ErrInvalidBackupFormat and
// leaves the existing catalog untouched.
func (m *Manager) Restore(username string, doc []byte) (int, error) {
	var records []model.MediaRecord

	if err := json.Unmarshal(doc, &records); err != nil {
		return 0, ErrInvalidBackupFormat
	}

	// A JSON "null" unmarshals cleanly into a nil slice, but it isn't a
	// sequence of records
	if records == nil {
		return 0, ErrInvalidBackupFormat
	}

	for _, r := range records {
		if r.ID == "" || r.Name == "" || r.Content == "" {
			return 0, ErrInvalidBackupFormat
		}
	}

	l := m.lock(username)
	l.Lock()
	defer l.Unlock()

	if err := m.save(username, records); err != nil {
		return 0, err
	}

	return len(records), nil
}
