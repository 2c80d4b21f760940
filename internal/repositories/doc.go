// Package repositories provides the persistence layer for the action history.
//
// Every verified mutation (like, unlike, save) is recorded with its
// [verify.Outcome] so the user can audit what the app changed and whether the
// remote service confirmed it. Storage is a local SQLite database opened via
// [shared.NewDatabase].
package repositories
