package library

import "time"

// ListType identifies which user list an entry belongs to.
type ListType string

const (
	ListCollection ListType = "collection"
	ListWantlist   ListType = "wantlist"
)

// Valid reports whether the list type is one of the known lists.
func (l ListType) Valid() bool {
	return l == ListCollection || l == ListWantlist
}

// Entry is the durable local record of one release's membership in the
// collection or wantlist, with the display metadata the UI renders offline.
// Local entries are the authoritative offline view; sync and reconciliation
// repair them against remote truth.
type Entry struct {
	ID uint `gorm:"primaryKey" json:"-"`

	ListType  ListType `gorm:"size:16;uniqueIndex:idx_list_release,priority:1" json:"list_type"`
	ReleaseID int64    `gorm:"uniqueIndex:idx_list_release,priority:2" json:"release_id"`

	// InstanceID is the remote collection instance, needed for removal.
	// Zero for wantlist entries and for optimistic adds not yet confirmed.
	InstanceID int64 `json:"instance_id,omitempty"`

	Title         string `json:"title"`
	Artist        string `json:"artist"`
	Year          int    `json:"year,omitempty"`
	Label         string `json:"label,omitempty"`
	CatalogNumber string `json:"catalog_number,omitempty"`
	Position      string `json:"position,omitempty"`
	ThumbURL      string `json:"thumb_url,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// syncStateRecord persists a list's last successful refresh across app
// sessions, so staleness survives restarts.
type syncStateRecord struct {
	ListType    ListType `gorm:"primaryKey;size:16"`
	LastRefresh *time.Time
	UpdatedAt   time.Time
}

func (syncStateRecord) TableName() string { return "sync_states" }

// SyncState is the observable progress of one list's synchronizer.
// Snapshots are returned by value; only the owning Syncer mutates it.
type SyncState struct {
	PagesLoaded            int        `json:"pages_loaded"`
	TotalPages             int        `json:"total_pages"`
	ItemsLoaded            int        `json:"items_loaded"`
	IsRefreshing           bool       `json:"is_refreshing"`
	IsBackgroundRefreshing bool       `json:"is_background_refreshing"`
	LastRefresh            *time.Time `json:"last_refresh,omitempty"`
	ErrorMessage           string     `json:"error_message,omitempty"`
}
