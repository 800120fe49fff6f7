// Package locale persists the two-valued display language preference.
//
// A Store starts on the interim default and is resolved once at startup:
// the value persisted under StorageKey wins, then the device language, then
// the hardcoded fallback. Toggle writes the new value to Storage before the
// in-memory state flips and listeners run, so lookups never observe a locale
// that was not yet persisted. Storage failures are logged and never block.
//
// Storage backends: MemoryStorage, FileStorage (YAML document) and
// SQLiteStorage.
package locale
