package db

import "time"

// EntryRecord is the cached copy of one catalogue entry.
// Position keeps the catalogue's load order.
type EntryRecord struct {
	ID          string `gorm:"primaryKey" json:"id"`
	Position    int    `gorm:"index" json:"position"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// TableName pins the table name so renaming the struct does not orphan existing caches.
func (EntryRecord) TableName() string { return "entries" }

// CacheMarker is written together with the entries. Its presence tells an
// empty catalogue apart from a cache that was never filled.
type CacheMarker struct {
	Name      string `gorm:"primaryKey"`
	Entries   int
	UpdatedAt time.Time
}

func (CacheMarker) TableName() string { return "cache_markers" }

const catalogueMarker = "catalogue"
