package wallpaperlib

import (
	"fmt"
	"io/fs"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	mapset "github.com/deckarep/golang-set/v2"
)

type AbsolutePath = string

// Compared against the lowercased extension only, file contents are never read
var imageExtensions = mapset.NewSet(".jpg", ".jpeg", ".png")

// RandomSource picks an index in [0, n). *rand.Rand satisfies it.
type RandomSource interface {
	Intn(n int) int
}

type globalRand struct{}

func (globalRand) Intn(n int) int {
	return rand.Intn(n)
}

type Selector struct {
	Rand RandomSource
}

// A nil source falls back to the process-wide math/rand generator
func NewSelector(r RandomSource) *Selector {
	if r == nil {
		r = globalRand{}
	}
	return &Selector{Rand: r}
}

func IsImageFile(name string) bool {
	ext := filepath.Ext(name)
	// ".png" on its own is a hidden file with no extension
	if ext == "" || ext == filepath.Base(name) {
		return false
	}
	return imageExtensions.Contains(strings.ToLower(ext))
}

// Candidates lists every eligible image directly inside dir.
// Entries that can't be read are dropped without being reported, only a
// directory that can't be listed at all is an error.
func (s *Selector) Candidates(dir string) ([]AbsolutePath, error) {
	f, err := os.Open(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: [%s]: %v", ErrDirectoryNotFound, dir, err)
	}
	defer f.Close()

	entries, err := f.ReadDir(-1)
	if err != nil {
		if len(entries) == 0 {
			return nil, fmt.Errorf("%w: [%s]: %v", ErrDirectoryNotFound, dir, err)
		}
		slog.Debug("Partial directory listing", "dir", dir, "error", err)
	}

	candidates := []AbsolutePath{}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !IsImageFile(name) {
			continue
		}

		path := filepath.Join(dir, name)
		if e.Type()&fs.ModeSymlink != 0 {
			fi, err := os.Stat(path)
			if err != nil {
				slog.Debug("Skipping unreadable entry", "path", path, "error", err)
				continue
			}
			if fi.IsDir() {
				continue
			}
		}

		candidates = append(candidates, path)
	}

	// ReadDir returns directory order
	sort.Strings(candidates)

	slog.Debug("Listed wallpapers", "dir", dir, "candidates", len(candidates))
	return candidates, nil
}

// Select picks one eligible image from dir uniformly at random
func (s *Selector) Select(dir string) (AbsolutePath, error) {
	candidates, err := s.Candidates(dir)
	if err != nil {
		return "", err
	}

	if len(candidates) == 0 {
		return "", fmt.Errorf("%w in [%s]", ErrImageNotFound, dir)
	}

	r := s.Rand
	if r == nil {
		r = globalRand{}
	}

	path := candidates[r.Intn(len(candidates))]
	if err := validatePath(path); err != nil {
		return "", err
	}

	return path, nil
}

// Paths end up inside a file:// URI passed on a command line
func validatePath(path string) error {
	if path == "" || !utf8.ValidString(path) || strings.ContainsRune(path, 0) {
		return fmt.Errorf("%w: %q", ErrInvalidPath, path)
	}
	return nil
}
