package storage

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"
)

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Open returns the KV backend rooted at base: JSON files under base/data, or
// a SQLite database at base/jtrack.db.
func Open(backend, base string) (KV, error) {
	switch backend {
	case "", BackendFile:
		return NewFileKV(filepath.Join(base, "data")), nil
	case BackendSQLite:
		return OpenSQLite(filepath.Join(base, "jtrack.db"))
	default:
		return nil, fmt.Errorf("unknown storage backend %q (want %q or %q)", backend, BackendFile, BackendSQLite)
	}
}

// loadList reads a JSON array stored under key. A missing key yields an empty
// list. Corrupt values are set aside and also yield an empty list. An error
// is returned only when the stored value could not be read or set aside, in
// which case the existing data must not be overwritten.
func loadList[T any](kv KV, key string, log *zap.Logger) ([]T, error) {
	data, ok, err := kv.Get(key)
	if err != nil {
		log.Warn("storage unavailable, showing empty", zap.String("key", key), zap.Error(err))
		return []T{}, err
	}
	if !ok || len(data) == 0 {
		return []T{}, nil
	}
	var out []T
	if err := json.Unmarshal(data, &out); err != nil {
		q, ok := kv.(quarantiner)
		if !ok {
			log.Warn("corrupt stored data, showing empty", zap.String("key", key), zap.Error(err))
			return []T{}, fmt.Errorf("corrupt data under %s: %w", key, err)
		}
		backup, qerr := q.Quarantine(key)
		if qerr != nil {
			log.Warn("corrupt stored data could not be backed up", zap.String("key", key), zap.Error(qerr))
			return []T{}, qerr
		}
		log.Warn("corrupt stored data, starting empty",
			zap.String("key", key), zap.String("backup", backup), zap.Error(err))
		return []T{}, nil
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

func saveList[T any](kv KV, key string, list []T) error {
	data, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return fmt.Errorf("storage error marshalling JSON: %w", err)
	}
	return kv.Set(key, data)
}
