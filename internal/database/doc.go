// Package database provides SQLite-based storage for audit results.
//
// This package implements the AuditDB, which stores:
//   - The latest audit report per site, as JSON plus summary columns
//   - Extracted site research (contacts, social links, technologies)
//   - Monthly fetch usage counters for quota enforcement
//
// Design decision: We use SQLite (via modernc.org/sqlite) instead of other
// databases because:
// 1. No external dependencies - the database is a single file
// 2. CGO-free implementation allows easy cross-compilation
// 3. Sufficient performance for our use case
// 4. WAL mode provides good concurrent read performance
//
// Reports and research are stored one row per site and replaced on
// re-audit. The tool answers "how is this page doing now", so keeping
// history would only grow the file without serving any command.
package database
