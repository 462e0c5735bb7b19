package chem

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

//go:embed data/*.yaml
var embedded embed.FS

// Library resolves mechanism names to parsed mechanisms, caching each one.
// Names are looked up as a file path, then inside the search directories,
// then among the embedded mechanisms. A Library is safe for concurrent use.
type Library struct {
	dirs []string

	mu    sync.Mutex
	cache map[string]*Mechanism
}

// NewLibrary returns a library that also searches dirs for mechanism files.
func NewLibrary(dirs ...string) *Library {
	return &Library{
		dirs:  dirs,
		cache: make(map[string]*Mechanism),
	}
}

// mechanismKey strips directories and mechanism-file extensions, so
// "gri30", "gri30.yaml" and the legacy "gri30.cti" name the same mechanism.
func mechanismKey(name string) string {
	base := filepath.Base(name)
	switch ext := strings.ToLower(filepath.Ext(base)); ext {
	case ".yaml", ".yml", ".cti", ".xml":
		base = strings.TrimSuffix(base, filepath.Ext(base))
	}
	return base
}

// Open returns the named mechanism.
func (l *Library) Open(name string) (*Mechanism, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: empty name", ErrMechanismNotFound)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if m, ok := l.cache[name]; ok {
		return m, nil
	}
	m, err := l.resolve(name)
	if err != nil {
		return nil, err
	}
	l.cache[name] = m
	return m, nil
}

func (l *Library) resolve(name string) (*Mechanism, error) {
	candidates := []string{name}
	key := mechanismKey(name)
	for _, dir := range l.dirs {
		candidates = append(candidates,
			filepath.Join(dir, name),
			filepath.Join(dir, key+".yaml"),
			filepath.Join(dir, key+".yml"),
		)
	}
	for _, path := range candidates {
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			continue
		}
		if ext := strings.ToLower(filepath.Ext(path)); ext != ".yaml" && ext != ".yml" {
			continue
		}
		return LoadMechanism(path)
	}

	data, err := embedded.ReadFile("data/" + key + ".yaml")
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrMechanismNotFound, name)
	}
	if err != nil {
		return nil, err
	}
	return ParseMechanism(key, data)
}

// NewSolution builds a gas state for the given mechanism and phase. An
// empty phase selects the mechanism's first phase.
func (l *Library) NewSolution(mechanism, phase string) (*Solution, error) {
	m, err := l.Open(mechanism)
	if err != nil {
		return nil, err
	}
	p, err := m.Phase(phase)
	if err != nil {
		return nil, err
	}
	return newSolution(m, p), nil
}

// Embedded lists the mechanisms compiled into the binary.
func Embedded() []string {
	entries, err := embedded.ReadDir("data")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, mechanismKey(e.Name()))
	}
	sort.Strings(names)
	return names
}
