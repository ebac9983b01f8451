// Package db contains the data-access layer for voterslip.
//
// The Store type wraps a long-lived *bun.DB over one of three engines:
// SQLite (the default; a single bundled file), PostgreSQL or MySQL. Opening a
// Store applies the embedded migrations and creates the singleton
// app_settings row, so callers never see a database without it.
//
// Small interfaces (VoterSearcher, BrandingStore) let the lookup and session
// packages depend on behavior instead of the concrete Store; fakes for both
// live in searcher_fake.go.
//
// Testing notes
//   - Prefer a named shared-cache in-memory SQLite DSN
//     (`file:<name>?mode=memory&cache=shared`) in tests that need real SQL
//     semantics and migrations.
//   - For unit tests that don't need a DB, use FakeVoterSearcher and
//     FakeBrandingStore.
package db
