// Package profile reads the profiles defined by the user in the e4s-cl
// database.
package profile

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

// profileTable is the member of the user database holding profile records,
// keyed by record id.
const profileTable = "Profile"

// Profile is a named set of launch parameters. Only the name matters for
// completion.
type Profile struct {
	Name string `json:"name"`
}

// StoreError reports a profile store that is missing, unreadable or
// malformed.
type StoreError struct {
	Path string
	Err  error
}

func (e *StoreError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("profile store: %v", e.Err)
	}
	return fmt.Sprintf("profile store %s: %v", e.Path, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// LoadFile reads the profiles stored in the database at path.
func LoadFile(path string) ([]Profile, error) {
	if path == "" {
		return nil, &StoreError{Err: errors.New("no profile store path (home directory unknown)")}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &StoreError{Path: path, Err: err}
	}

	profiles, err := Parse(data)
	if err != nil {
		var storeErr *StoreError
		if errors.As(err, &storeErr) {
			storeErr.Path = path
		}
		return nil, err
	}
	return profiles, nil
}

// Parse decodes the profiles of a user database document. Records are
// returned by ascending record id.
func Parse(data []byte) ([]Profile, error) {
	var db map[string]json.RawMessage
	if err := json.Unmarshal(data, &db); err != nil {
		return nil, &StoreError{Err: fmt.Errorf("failed to decode database: %w", err)}
	}

	table, ok := db[profileTable]
	if !ok {
		return nil, &StoreError{Err: fmt.Errorf("no %q table", profileTable)}
	}

	var records map[string]json.RawMessage
	if err := json.Unmarshal(table, &records); err != nil || records == nil {
		return nil, &StoreError{Err: fmt.Errorf("%q table is not an object", profileTable)}
	}

	ids := lo.Keys(records)
	sort.Slice(ids, func(i, j int) bool {
		return lessRecordID(ids[i], ids[j])
	})

	profiles := make([]Profile, 0, len(ids))
	for _, id := range ids {
		var record struct {
			Name *string `json:"name"`
		}
		if err := json.Unmarshal(records[id], &record); err != nil {
			return nil, &StoreError{Err: fmt.Errorf("profile record %s: %w", id, err)}
		}
		if record.Name == nil {
			return nil, &StoreError{Err: fmt.Errorf("profile record %s has no name", id)}
		}
		profiles = append(profiles, Profile{Name: *record.Name})
	}

	return profiles, nil
}

// lessRecordID orders numeric ids numerically and anything else lexically
// after them.
func lessRecordID(a, b string) bool {
	na, errA := strconv.Atoi(a)
	nb, errB := strconv.Atoi(b)
	switch {
	case errA == nil && errB == nil:
		return na < nb
	case errA == nil:
		return true
	case errB == nil:
		return false
	default:
		return a < b
	}
}

// Store gives lazy, best-effort access to the profile names of one database.
// The file is read at most once; a failure is logged and yields no names.
type Store struct {
	path   string
	logger *zap.Logger

	loaded bool
	names  []string
}

// NewStore creates a Store backed by the database at path.
func NewStore(path string, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		path:   path,
		logger: logger,
	}
}

// Names returns the names of the stored profiles.
func (s *Store) Names() []string {
	if s.loaded {
		return s.names
	}
	s.loaded = true

	if info, err := os.Stat(s.path); err == nil {
		s.logger.Debug("reading profile store",
			zap.String("path", s.path),
			zap.String("size", humanize.Bytes(uint64(info.Size()))))
	}

	profiles, err := LoadFile(s.path)
	if err != nil {
		s.logger.Warn("failed to load profiles", zap.Error(err))
		return nil
	}

	s.names = lo.Map(profiles, func(p Profile, _ int) string {
		return p.Name
	})
	s.logger.Debug("loaded profiles", zap.Strings("names", s.names))
	return s.names
}
