// Package database exports verification runs to SQLite files.
//
// An export file holds two tables: runs, with one row of run metadata and
// counters, and results, with one row per backlink in submission order.
// The file is recreated on every export; nothing is read back between runs.
//
// SQLite is accessed through modernc.org/sqlite, a CGO-free driver, so the
// export works on every platform the binary is built for.
package database
