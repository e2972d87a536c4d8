// Package store keeps a history of transpilation runs.
//
// A [Record] captures one run: its ID, the source, the backend and pass
// order, the final circuit and its statistics. Two implementations exist:
//
//   - [SQLiteStore]: a local database file, the CLI default
//   - [MongoStore]: a shared MongoDB collection for server deployments
//
// [Open] picks the implementation from a URI:
//
//	sqlite:///home/me/.local/share/qtranspile/history.db
//	mongodb://localhost:27017/qtranspile
//
// A plain filesystem path is treated as a SQLite database.
package store
