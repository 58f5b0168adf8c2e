// Package library keeps the locally persisted view of a user's collection
// and wantlist synchronized with the remote catalog.
//
// # Components
//
// Repository owns all queries against the local store; no other component
// touches the database directly. StatusService answers membership questions
// through the short-TTL status cache. One Syncer per list walks the remote
// paged listing sequentially, ingesting page by page so partial results are
// visible immediately and progress counters only ever grow. The Coordinator
// applies user edits optimistically: local write first, remote mutation
// second, background verification third.
//
// # Consistency model
//
// Local entries are the authoritative offline view. Sync pages do not
// overwrite local rows modified after the run started (unsynced optimistic
// writes), and a failed remote mutation is never rolled back locally; the
// next verified status read repairs any divergence, with verified remote
// truth always winning. Mismatches are counted as metrics, never surfaced
// as user-facing errors.
package library
