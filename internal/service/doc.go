// Package service contains the application use cases: registering users and
// managing dictionary entries together with the training records of their
// meanings. Services coordinate the stores, the generator and the scheduler,
// and own the transaction boundaries. Review submission lives in the review
// subpackage.
package service
