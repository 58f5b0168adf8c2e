package library

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository owns all queries against the local library store. Query logic
// lives here, out of the sync and cache components.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a repository over the given connection.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Migrate creates or updates the library tables.
func (r *Repository) Migrate() error {
	if err := r.db.AutoMigrate(&Entry{}, &syncStateRecord{}); err != nil {
		return fmt.Errorf("migrating library schema: %w", err)
	}
	return nil
}

// FindByListType returns all entries of one list, most recently touched
// first, title as the stable secondary order.
func (r *Repository) FindByListType(list ListType) ([]Entry, error) {
	var entries []Entry
	err := r.db.
		Where("list_type = ?", list).
		Order("updated_at DESC, title ASC").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("querying %s entries: %w", list, err)
	}
	return entries, nil
}

// FindByReleaseID returns the entry for a release in one list, or nil when
// the release is not present.
func (r *Repository) FindByReleaseID(list ListType, releaseID int64) (*Entry, error) {
	var entry Entry
	err := r.db.
		Where("list_type = ? AND release_id = ?", list, releaseID).
		First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying %s release %d: %w", list, releaseID, err)
	}
	return &entry, nil
}

// Count returns the number of entries in one list.
func (r *Repository) Count(list ListType) (int64, error) {
	var n int64
	if err := r.db.Model(&Entry{}).Where("list_type = ?", list).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("counting %s entries: %w", list, err)
	}
	return n, nil
}

// Upsert inserts the entry or overwrites the existing row for the same
// (list, release) pair. Used by optimistic mutations, which always win.
func (r *Repository) Upsert(entry *Entry) error {
	err := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "list_type"}, {Name: "release_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"instance_id", "title", "artist", "year", "label",
			"catalog_number", "position", "thumb_url", "updated_at",
		}),
	}).Create(entry).Error
	if err != nil {
		return fmt.Errorf("upserting %s release %d: %w", entry.ListType, entry.ReleaseID, err)
	}
	return nil
}

// UpsertFromSync ingests one page item. An existing row locally modified
// after runStart is an unsynced optimistic write and is left alone; the
// reconciliation path owns repairing it, not the page snapshot.
func (r *Repository) UpsertFromSync(entry *Entry, runStart time.Time) error {
	existing, err := r.FindByReleaseID(entry.ListType, entry.ReleaseID)
	if err != nil {
		return err
	}
	if existing != nil {
		if existing.UpdatedAt.After(runStart) {
			return nil
		}
		entry.ID = existing.ID
		entry.CreatedAt = existing.CreatedAt
	}
	return r.Upsert(entry)
}

// Delete removes the entry for a release from one list. Deleting an absent
// entry is a no-op.
func (r *Repository) Delete(list ListType, releaseID int64) error {
	err := r.db.
		Where("list_type = ? AND release_id = ?", list, releaseID).
		Delete(&Entry{}).Error
	if err != nil {
		return fmt.Errorf("deleting %s release %d: %w", list, releaseID, err)
	}
	return nil
}

// PruneStale removes entries of one list not touched since runStart.
// Called after a full sync completes: anything the page walk did not see
// (and no optimistic write refreshed) no longer exists remotely.
func (r *Repository) PruneStale(list ListType, runStart time.Time) error {
	err := r.db.
		Where("list_type = ? AND updated_at < ?", list, runStart).
		Delete(&Entry{}).Error
	if err != nil {
		return fmt.Errorf("pruning %s entries: %w", list, err)
	}
	return nil
}

// LastRefresh returns the persisted completion time of the list's last full
// sync, or nil when the list has never synced.
func (r *Repository) LastRefresh(list ListType) (*time.Time, error) {
	var rec syncStateRecord
	err := r.db.First(&rec, "list_type = ?", list).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading %s sync state: %w", list, err)
	}
	return rec.LastRefresh, nil
}

// SaveLastRefresh persists the completion time of a full sync.
func (r *Repository) SaveLastRefresh(list ListType, at time.Time) error {
	rec := syncStateRecord{ListType: list, LastRefresh: &at}
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "list_type"}},
		DoUpdates: clause.AssignmentColumns([]string{"last_refresh", "updated_at"}),
	}).Create(&rec).Error
	if err != nil {
		return fmt.Errorf("saving %s sync state: %w", list, err)
	}
	return nil
}
