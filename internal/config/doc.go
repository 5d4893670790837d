// Package config loads, normalizes, and validates reelcut configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// REELCUT_S3_BUCKET and REELCUT_JOURNAL_DSN. The Config type centralizes the
// knobs the CLI needs: where projects live, which blob driver stores them,
// where the command journal is written, and how the editor behaves.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical driver names, and clear validation errors.
package config
