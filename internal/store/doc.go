// Package store persists image records in SQLite.
//
// Each record names one image file and optionally carries the legend
// bounding box drawn on it. The box is stored as four nullable columns and
// is only considered present when all four are set.
//
// The database is opened through the pure-Go modernc.org/sqlite driver in
// WAL mode, so the store needs no cgo and tolerates concurrent readers.
// A Store is safe for concurrent use.
package store
