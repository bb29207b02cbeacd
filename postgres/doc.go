// Package postgres implements the user, secret and outbox repositories on
// PostgreSQL through database/sql and the pgx stdlib driver.
//
// User writes and their lifecycle events share a transaction: Create stores
// the user row, its salt secret and a user_created event together, Delete
// removes the user (secrets cascade) and records user_deleted. The outbox
// package drains the events table.
//
// Schema changes are embedded goose migrations applied by RunMigrations.
package postgres
