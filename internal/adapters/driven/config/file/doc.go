// Package file provides the TOML-backed settings store. Settings are
// typed rather than a key/value bag so a bad config fails at load
// time, before any ingestion work starts.
package file
