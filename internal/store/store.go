// Package store implements the durable string-key to JSON-value storage
// every other layer sits on
package store

import (
	"encoding/json"
	"fmt"
	"localpix/gallery-api/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Get reads the value stored under key and unmarshals it into out.
// Returns false without touching out when the key doesn't exist.
func (s *Store) Get(key string, out any) (bool, error) {
	var entry model.Entry

	err := s.db.Where("key = ?", key).First(&entry).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return false, nil
		}

		return false, fmt.Errorf("failed to read key %q, %w", key, err)
	}

	if err := json.Unmarshal([]byte(entry.Value), out); err != nil {
		return false, fmt.Errorf("failed to decode value under key %q, %w", key, err)
	}

	return true, nil
}

// Set marshals v to JSON and upserts it under key.
func (s *Store) Set(key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode value for key %q, %w", key, err)
	}

	err = s.db.
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value"}),
		}).
		Create(&model.Entry{Key: key, Value: string(raw)}).
		Error
	if err != nil {
		return fmt.Errorf("failed to write key %q, %w", key, err)
	}

	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (s *Store) Delete(key string) error {
	err := s.db.Where("key = ?", key).Delete(model.Entry{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete key %q, %w", key, err)
	}

	return nil
}
