// Package pkgerror defines the structured Error carried from use cases to the
// HTTP edge, where its Code picks the response status.
//
// Sentinels (ErrNotFound, ErrConflict) are for storage layers; callers above
// them use the constructors so the message stays user-facing.
package pkgerror
