// Package sheets keeps the set of known sprite sheets, keyed by
// "model/animation", and reloads them when their files change.
package sheets

import (
	"errors"
	"fmt"
	"image"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/milk9111/spriteshell/spritesheet"
)

var ErrNotFound = errors.New("sheets: not found")

// Entry is a loaded sheet and where it came from.
type Entry struct {
	Sheet spritesheet.Sheet
	// File is the path on disk, or empty for embedded sheets.
	File string

	fsys fs.FS
	name string
}

func (e Entry) Embedded() bool { return e.File == "" }

// Image decodes the sheet image.
func (e Entry) Image() (image.Image, error) {
	return spritesheet.Decode(e.fsys, e.name)
}

// Change describes the outcome of a reload. Removed is false when a deleted
// disk sheet falls back to the embedded sheet with the same key. Previous is
// set when the file now carries a different key.
type Change struct {
	Key      string
	Removed  bool
	Previous string
}

type Library struct {
	embedded fs.FS
	dirs     []string

	mu      sync.RWMutex
	entries map[string]Entry
	files   map[string]string
	builtin map[string]Entry
}

// New returns a library over the embedded sheets and the given directories.
// Sheets found on disk replace embedded ones with the same key.
func New(embedded fs.FS, dirs ...string) *Library {
	return &Library{
		embedded: embedded,
		dirs:     dirs,
		entries:  make(map[string]Entry),
		files:    make(map[string]string),
		builtin:  make(map[string]Entry),
	}
}

func (l *Library) Dirs() []string {
	return append([]string(nil), l.dirs...)
}

// LoadAll scans every source. Sheets that fail to load are skipped and their
// errors joined into the result.
func (l *Library) LoadAll() (int, error) {
	var errs []error
	n := 0
	if l.embedded != nil {
		c, err := l.scan(l.embedded, "")
		n += c
		errs = append(errs, err)
	}
	for _, dir := range l.dirs {
		if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
			log.Printf("sheets: directory %s does not exist, skipping", dir)
			continue
		}
		c, err := l.scan(os.DirFS(dir), dir)
		n += c
		errs = append(errs, err)
	}
	return n, errors.Join(errs...)
}

func (l *Library) scan(fsys fs.FS, dir string) (int, error) {
	var errs []error
	n := 0
	err := fs.WalkDir(fsys, ".", func(name string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !spritesheet.Supported(name) {
			return nil
		}
		sheet, err := spritesheet.LoadFS(fsys, name)
		if err != nil {
			log.Printf("sheets: skipping %s: %v", name, err)
			errs = append(errs, err)
			return nil
		}
		file := ""
		if dir != "" {
			file = filepath.Join(dir, filepath.FromSlash(name))
		}
		l.put(Entry{Sheet: sheet, File: file, fsys: fsys, name: name})
		n++
		return nil
	})
	if err != nil {
		errs = append(errs, fmt.Errorf("sheets: scan %s: %w", dir, err))
	}
	return n, errors.Join(errs...)
}

// put stores e and returns the key its file carried before, if that differs.
func (l *Library) put(e Entry) string {
	key := e.Sheet.Meta.Key()
	l.mu.Lock()
	defer l.mu.Unlock()
	if e.File == "" {
		l.builtin[key] = e
		if cur, ok := l.entries[key]; ok && !cur.Embedded() {
			return ""
		}
		l.entries[key] = e
		return ""
	}

	previous := ""
	if old, ok := l.files[e.File]; ok && old != key {
		l.dropLocked(old)
		previous = old
	}
	l.files[e.File] = key
	l.entries[key] = e
	return previous
}

// dropLocked removes key, restoring the embedded sheet under it if there is
// one. It reports whether the key is still present. l.mu must be held.
func (l *Library) dropLocked(key string) bool {
	if b, ok := l.builtin[key]; ok {
		l.entries[key] = b
		return true
	}
	delete(l.entries, key)
	return false
}

// Get returns the sheet stored under key.
func (l *Library) Get(key string) (Entry, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	e, ok := l.entries[key]
	return e, ok
}

// Lookup is Get with an error for missing keys.
func (l *Library) Lookup(key string) (Entry, error) {
	e, ok := l.Get(key)
	if !ok {
		return Entry{}, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return e, nil
}

// Keys lists every key in sorted order.
func (l *Library) Keys() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	keys := make([]string, 0, len(l.entries))
	for k := range l.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (l *Library) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// Reload re-reads the sheet at path. A sidecar path reloads its image. When
// the file is gone its entry is dropped, or replaced by the embedded sheet
// with the same key.
func (l *Library) Reload(path string) (Change, error) {
	path = strings.TrimSuffix(path, spritesheet.SidecarExt)
	if !spritesheet.Supported(path) {
		return Change{}, fmt.Errorf("sheets: reload %s: unsupported format", path)
	}

	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		l.mu.Lock()
		defer l.mu.Unlock()
		key, ok := l.files[path]
		if !ok {
			return Change{}, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		delete(l.files, path)
		kept := l.dropLocked(key)
		return Change{Key: key, Removed: !kept}, nil
	}

	sheet, err := spritesheet.Load(path)
	if err != nil {
		return Change{}, fmt.Errorf("sheets: reload: %w", err)
	}
	e := Entry{
		Sheet: sheet,
		File:  path,
		fsys:  os.DirFS(filepath.Dir(path)),
		name:  filepath.Base(path),
	}
	previous := l.put(e)
	return Change{Key: sheet.Meta.Key(), Previous: previous}, nil
}
