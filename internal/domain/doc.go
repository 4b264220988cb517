// Package domain contains the core business entities of the training API:
// users, generated dictionary entries, and the per-meaning training state
// that the scheduler advances after every review.
//
// Types in this package carry no infrastructure concerns. Persistence lives
// in internal/store and internal/platform/postgres, and the scheduling
// arithmetic lives in internal/domain/srs.
package domain
