// Package journal keeps an append-only audit log of command executions.
//
// Every execute, undo, and redo the command manager finishes becomes one row
// in command_journal. The journal runs on SQLite by default and on Postgres
// when a DSN is configured; both share one embedded schema. Queries are
// written with ? placeholders and rebound to $n for Postgres.
package journal
