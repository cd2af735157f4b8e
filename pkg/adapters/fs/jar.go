package fs

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"
)

// cookie is a single persisted key/value pair scoped by path.
// There is no expiry: the remote service decides when a token stops working.
type cookie struct {
	Name  string `yaml:"name"`
	Value string `yaml:"value"`
	Path  string `yaml:"path"`
}

// jarFile is the on-disk layout of the cookie file.
type jarFile struct {
	Version int      `yaml:"version"`
	Cookies []cookie `yaml:"cookies"`
}

// jar manages loading, updating and saving the cookie file.
type jar struct {
	path string
	mu   sync.RWMutex
	file jarFile
}

func newJar(path string) *jar {
	return &jar{path: path, file: jarFile{Version: 1}}
}

// Load reads the cookie file. A missing file yields an empty jar.
// A corrupted file is treated as empty so the user can simply log in again.
func (j *jar) Load() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	data, err := os.ReadFile(j.path)
	if os.IsNotExist(err) {
		j.file = jarFile{Version: 1}
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read cookie file: %w", err)
	}

	var f jarFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		j.file = jarFile{Version: 1}
		return nil
	}
	if f.Version == 0 {
		f.Version = 1
	}
	j.file = f
	return nil
}

// Save writes the jar atomically with owner-only permissions.
func (j *jar) Save() error {
	j.mu.RLock()
	snapshot := jarFile{Version: j.file.Version, Cookies: slices.Clone(j.file.Cookies)}
	j.mu.RUnlock()

	if err := os.MkdirAll(filepath.Dir(j.path), 0700); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}
	return replaceFile(j.path, 0600, func(w io.Writer) error {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(snapshot); err != nil {
			return err
		}
		return enc.Close()
	})
}

// Get returns the value of the named cookie visible from requestPath.
// When several cookies match, the one with the longest path wins.
func (j *jar) Get(name, requestPath string) (string, bool) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	best := -1
	var value string
	for _, c := range j.file.Cookies {
		if c.Name != name || !pathMatch(c.Path, requestPath) {
			continue
		}
		if len(c.Path) > best {
			best = len(c.Path)
			value = c.Value
		}
	}
	return value, best >= 0 && value != ""
}

// Set creates or replaces the cookie identified by name and path.
func (j *jar) Set(name, value, path string) {
	j.mu.Lock()
	defer j.mu.Unlock()

	for i, c := range j.file.Cookies {
		if c.Name == name && c.Path == path {
			j.file.Cookies[i].Value = value
			return
		}
	}
	j.file.Cookies = append(j.file.Cookies, cookie{Name: name, Value: value, Path: path})
}

// Len returns the number of cookies.
func (j *jar) Len() int {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return len(j.file.Cookies)
}

// pathMatch reports whether a cookie scoped to cookiePath is sent for requestPath.
// A cookie path covers itself and everything below it ("/" covers the whole app).
func pathMatch(cookiePath, requestPath string) bool {
	if cookiePath == "" {
		cookiePath = "/"
	}
	if cookiePath == requestPath {
		return true
	}
	pattern := strings.TrimSuffix(cookiePath, "/") + "/**"
	ok, err := doublestar.Match(pattern, requestPath)
	return err == nil && ok
}
