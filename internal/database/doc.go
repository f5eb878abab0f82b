// Package database provides the SQLite run history for nobelstats.
//
// Each stored run keeps the dataset path, its SHA3-256 fingerprint, the time
// of analysis, and the full report and summary as JSON. The history is
// opt-in: nothing is written unless --save or "history: true" is given.
//
// The database is a single nobelstats.db file opened through the CGO-free
// modernc.org/sqlite driver in WAL mode.
package database
