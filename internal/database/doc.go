// Package database builds the pgx connection pool backing the signal
// journal.
package database
