// Package model defines database and catalog models
package model

// Entry is a single row of the durable key-value store. Every piece of
// persisted state (account directory, per-user catalogs, session, UI
// preferences) lives in one of these, with a JSON document as the value.
type Entry struct {
	Key   string `gorm:"primaryKey" json:"key"`
	Value string `json:"value"`
}
