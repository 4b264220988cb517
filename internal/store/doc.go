// Package store defines the persistence contracts used by the services.
//
// Implementations live in internal/platform/postgres. Every store exposes a
// WithTx method so a service can compose several writes in one transaction
// via RunInTransaction.
package store
