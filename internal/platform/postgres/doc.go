// Package postgres implements the store interfaces on PostgreSQL through
// database/sql and the pgx driver.
//
// Entry meanings are kept as a JSONB array on the entry row; each meaning's
// scheduling state lives in meaning_training, guarded by a version column
// for optimistic concurrency. The schema is managed by goose from the
// embedded migrations package.
package postgres
