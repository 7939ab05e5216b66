// Package cache stores generated mocks next to their output so that unchanged headers skip clang.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/DrCpp/drmock-generator/internal/errors"
)

// Exported constants.
const (
	// DirName is the name of the cache directory, created in the directory of the output header.
	DirName = ".drmockgen"
	// FileName is the name of the cache file inside DirName.
	FileName = "cache.json"
	// DirPerm is the default directory permission.
	DirPerm = 0o755
)

// Data is the content of one cache file. Entries are keyed by the base name of the output header.
type Data struct {
	Entries map[string]Entry `json:"entries"`
}

// Entry is one cached generation result.
type Entry struct {
	Signature string `json:"signature"`
	Header    string `json:"header"`
	Source    string `json:"source"`
}

// FileSystem abstracts file operations for the cache.
type FileSystem interface {
	Open(path string) (io.ReadCloser, error)
	Create(path string) (io.WriteCloser, error)
	MkdirAll(path string, perm os.FileMode) error
}

// Cache reads and updates cache files. Updates from concurrent jobs are serialized.
type Cache struct {
	fs FileSystem
	mu sync.Mutex
}

// New returns a cache on fs.
func New(fs FileSystem) *Cache {
	return &Cache{fs: fs}
}

// Get returns the entry for the output header if it was generated with signature.
func (c *Cache) Get(header, signature string) (Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := Load(Path(header), c.fs).Entries[filepath.Base(header)]
	if !ok || entry.Signature != signature {
		return Entry{}, false
	}

	return entry, true
}

// Put records the entry for the output header.
func (c *Cache) Put(header string, entry Entry) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	path := Path(header)

	data := Load(path, c.fs)
	if data.Entries == nil {
		data.Entries = make(map[string]Entry)
	}

	data.Entries[filepath.Base(header)] = entry

	return Save(path, data, c.fs)
}

// Path returns the cache file responsible for the output header.
func Path(header string) string {
	return filepath.Join(filepath.Dir(header), DirName, FileName)
}

// Signature hashes the command line, without the program name, and the text of the input header.
func Signature(args []string, header string) string {
	hash := sha256.New()

	for _, arg := range args {
		_, _ = hash.Write([]byte(arg))
		_, _ = hash.Write([]byte{0})
	}

	_, _ = hash.Write([]byte(header))

	return hex.EncodeToString(hash.Sum(nil))
}

// Load reads the cache at path. A missing or corrupt cache is empty.
func Load(path string, fs FileSystem) Data {
	var data Data

	file, err := fs.Open(path)
	if err != nil {
		return data
	}
	defer file.Close()

	err = json.NewDecoder(file).Decode(&data)
	if err != nil {
		return Data{}
	}

	return data
}

// Save writes the cache to path.
func Save(path string, data Data, fs FileSystem) error {
	err := fs.MkdirAll(filepath.Dir(path), DirPerm)
	if err != nil {
		return errors.Mark(errors.Wrapf(err, "creating the cache directory of %s", path), errors.ErrIO)
	}

	file, err := fs.Create(path)
	if err != nil {
		return errors.Mark(errors.Wrapf(err, "creating %s", path), errors.ErrIO)
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")

	err = enc.Encode(data)
	if err != nil {
		return errors.Mark(errors.Wrapf(err, "writing %s", path), errors.ErrIO)
	}

	return nil
}
