// Package testdb connects integration tests to a real Postgres database.
//
// Tests using it are compiled only with the integration build tag and are
// skipped unless LANGTOOLS_TEST_DATABASE_URL is set. Every test runs inside a
// transaction that is rolled back, so tests share one schema without
// seeing each other's rows.
package testdb
