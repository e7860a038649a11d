// Package profile loads machine-profile records describing a named
// 65xx configuration (CPU type/clock, memory size/type) from a directory of
// JSON files. Files are parsed tolerant of comments and trailing commas via
// hujson, since profile files are meant to be hand-edited.
package profile

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"encoding/json"

	"github.com/tailscale/hujson"
)

// ErrInvalidName is returned by Load when name contains a path separator or
// parent-directory traversal component.
var ErrInvalidName = errors.New("profile: invalid name")

// CPUSpec describes the profile's processor.
type CPUSpec struct {
	Type       string `json:"type"`
	ClockSpeed int    `json:"clock_speed"`
}

// MemorySpec describes the profile's address space.
type MemorySpec struct {
	Size uint32 `json:"size"`
	Type string `json:"type"`
}

// Profile is a machine-profile record, per §6.
type Profile struct {
	Name        string     `json:"name"`
	DisplayName string     `json:"display_name"`
	Description string     `json:"description,omitempty"`
	CPU         CPUSpec    `json:"cpu"`
	Memory      MemorySpec `json:"memory"`
}

// Default is the built-in fallback profile record. Load and LoadPath never
// return it themselves: a missing entry makes Load return nil.
var Default = Profile{
	Name:        "simple-65c02",
	DisplayName: "Simple 65C02",
	CPU:         CPUSpec{Type: "65C02", ClockSpeed: 1_000_000},
	Memory:      MemorySpec{Size: 65536, Type: "ram"},
}

// Store loads profiles from a directory of *.json files.
type Store struct {
	dir string
}

// NewStore constructs a Store rooted at dir. The directory is not read until
// List/Load/LoadPath is called.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// List returns every profile name found in the directory, alphabetized, with
// the .json suffix stripped. Files are not parsed, so a malformed file's name
// is listed too; parse errors only surface as errors through LoadPath.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ".json"))
	}
	sort.Strings(names)
	return names, nil
}

// isSafeName rejects any component that could escape the profile directory.
func isSafeName(name string) bool {
	if name == "" || strings.ContainsAny(name, `/\`) {
		return false
	}
	return name != "." && name != ".."
}

// Load looks up a profile by name. An unsafe name (path separators, parent
// traversal) returns ErrInvalidName. A missing or malformed file returns
// (nil, nil) — profile lookups by name never surface parse errors to the
// caller, per §7's error taxonomy.
func (s *Store) Load(name string) (*Profile, error) {
	if !isSafeName(name) {
		return nil, ErrInvalidName
	}
	p, err := s.LoadPath(filepath.Join(s.dir, name+".json"))
	if err != nil {
		return nil, nil
	}
	return p, nil
}

// LoadPath reads and parses a single profile file by path. Unlike Load, a
// malformed file throws here rather than returning a null result, per §6/§7.
func (s *Store) LoadPath(path string) (*Profile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	standard, err := hujson.Standardize(raw)
	if err != nil {
		return nil, err
	}
	var p Profile
	// encoding/json already matches struct fields case-insensitively when no
	// exact-case match exists, satisfying the case-insensitive property rule.
	if err := json.Unmarshal(standard, &p); err != nil {
		return nil, err
	}
	return &p, nil
}
