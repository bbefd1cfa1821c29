package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// EntryRepository defines decoupled operations for catalogue cache persistence.
type EntryRepository interface {
	List(ctx context.Context) ([]EntryRecord, error)
	// Populated reports whether ReplaceAll has run since the last Clear,
	// even when it stored no entries.
	Populated(ctx context.Context) (bool, error)
	GetByID(ctx context.Context, id string) (*EntryRecord, error)
	ReplaceAll(ctx context.Context, records []EntryRecord) error
	Count(ctx context.Context) (int64, error)
	Clear(ctx context.Context) error
}

// gormEntryRepo is a GORM-backed implementation of EntryRepository.
// Use constructor NewEntryRepository to obtain an instance.
type gormEntryRepo struct{ db *gorm.DB }

// NewEntryRepository creates an EntryRepository. Accepts *gorm.DB to avoid global access.
func NewEntryRepository(db *gorm.DB) EntryRepository { return &gormEntryRepo{db: db} }

// List returns all cached entries in catalogue order.
func (r *gormEntryRepo) List(ctx context.Context) ([]EntryRecord, error) {
	if r.db == nil {
		return nil, ErrNotInitialized
	}
	var records []EntryRecord
	if err := r.db.WithContext(ctx).Order("position ASC").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list cached entries: %w", err)
	}
	return records, nil
}

func (r *gormEntryRepo) Populated(ctx context.Context) (bool, error) {
	if r.db == nil {
		return false, ErrNotInitialized
	}
	var n int64
	if err := r.db.WithContext(ctx).Model(&CacheMarker{}).Where("name = ?", catalogueMarker).Count(&n).Error; err != nil {
		return false, fmt.Errorf("failed to read cache marker: %w", err)
	}
	return n > 0, nil
}

// GetByID returns nil without an error when no entry has the id.
func (r *gormEntryRepo) GetByID(ctx context.Context, id string) (*EntryRecord, error) {
	if r.db == nil {
		return nil, ErrNotInitialized
	}
	var record EntryRecord
	err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve entry %s: %w", id, err)
	}
	return &record, nil
}

// ReplaceAll swaps the whole cached catalogue in one transaction.
func (r *gormEntryRepo) ReplaceAll(ctx context.Context, records []EntryRecord) error {
	if r.db == nil {
		return ErrNotInitialized
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped().Delete(&EntryRecord{}).Error; err != nil {
			return err
		}
		marker := CacheMarker{Name: catalogueMarker, Entries: len(records)}
		if err := tx.Save(&marker).Error; err != nil {
			return err
		}
		if len(records) == 0 {
			return nil
		}
		return tx.CreateInBatches(records, 100).Error
	})
	if err != nil {
		log.Error().Err(err).Int("entries", len(records)).Msg("Failed to replace cached catalogue")
		return fmt.Errorf("failed to replace cached catalogue: %w", err)
	}
	log.Debug().Int("entries", len(records)).Msg("Cached catalogue replaced")
	return nil
}

func (r *gormEntryRepo) Count(ctx context.Context) (int64, error) {
	if r.db == nil {
		return 0, ErrNotInitialized
	}
	var n int64
	if err := r.db.WithContext(ctx).Model(&EntryRecord{}).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (r *gormEntryRepo) Clear(ctx context.Context) error {
	if r.db == nil {
		return ErrNotInitialized
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("name = ?", catalogueMarker).Delete(&CacheMarker{}).Error; err != nil {
			return err
		}
		return tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped().Delete(&EntryRecord{}).Error
	})
	if err != nil {
		log.Error().Err(err).Msg("Failed to clear catalogue cache")
		return err
	}
	log.Info().Msg("Catalogue cache cleared")
	return nil
}
