// Package repositories implements persistence for the watched list.
//
// The browser's single localStorage key maps onto one row of a SQLite key/value table, or onto a JSON file for the file backend.
// Every save is a full overwrite of the serialized list; nothing is diffed.
//
// Key Implementations:
//   - [KVRepository] : upsert/get/delete over the kv table
//   - [SQLiteWatchedStore] : [WatchedStore] backed by one kv row
//   - [FileWatchedStore] : [WatchedStore] backed by a JSON file on an [afero.Fs]
//
// Loading validates the stored shape: anything other than a JSON array of strings is reported as [shared.ErrInvalidStoredValue].
package repositories
