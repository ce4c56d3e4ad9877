// Package settings implements the typed settings overlay engine.
//
// Settings are defined in code as nested, category-keyed defaults and stored
// in the database only as sparse, typed overrides. Resolution merges the two
// per scope (platform-wide or per-user) into one flat, typed settings object;
// sensitive values are masked on the way out and the mask sentinel is refused
// on the way back in, so a read-then-resubmit form can never destroy a secret.
//
// The engine owns no schema beyond the override rows and provides no
// versioning, audit history or cross-writer conflict resolution: concurrent
// bulk writes resolve by last-write-wins at the storage layer.
package settings
