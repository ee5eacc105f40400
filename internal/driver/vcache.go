package driver

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/ArquintL/silicon/internal/diag"
	"github.com/ArquintL/silicon/internal/project"
	"github.com/ArquintL/silicon/internal/source"
)

// Current schema version - increment when DiskPayload format changes
const diskCacheSchemaVersion uint16 = 1

// DiskCache persists per-unit verification results keyed by the digest of
// the unit's sources. Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// CachedDiagnostic is a diagnostic stripped of its span; positions are not
// meaningful across edits anyway.
type CachedDiagnostic struct {
	Severity uint8
	Code     uint16
	Message  string
}

// CachedFunction is one function's cached outcome.
type CachedFunction struct {
	Name   string
	Height int
	Axioms int
	Diags  []CachedDiagnostic
}

// DiskPayload stores a whole unit's verification outcome.
type DiskPayload struct {
	// Schema version for safe invalidation when format changes
	Schema uint16

	// Problem is the emitted prover input.
	Problem string

	Functions []CachedFunction
}

// OpenDiskCache initializes and returns a disk cache at the standard location.
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	dir := filepath.Join(base, app)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

func (c *DiskCache) pathFor(key project.Digest) string {
	// подкаталог "units" — для удобства читаемости/очистки
	return filepath.Join(c.dir, "units", key.Hex()+".mp")
}

// Put serializes and writes a payload to the disk cache.
func (c *DiskCache) Put(key project.Digest, payload *DiskPayload) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if err = os.Remove(f.Name()); err != nil && !errors.Is(err, os.ErrNotExist) {
			fmt.Printf("failed to remove temp file: %v", err)
		}
	}()

	enc := msgpack.NewEncoder(f)
	if err = enc.Encode(payload); err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	return os.Rename(f.Name(), p)
}

// Get reads and deserializes a payload from the disk cache.
func (c *DiskCache) Get(key project.Digest, out *DiskPayload) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			panic(closeErr)
		}
	}()
	dec := msgpack.NewDecoder(f)
	if err := dec.Decode(out); err != nil {
		return false, err
	}
	if out.Schema != diskCacheSchemaVersion {
		return false, nil
	}
	return true, nil
}

// DropAll invalidates the cache, useful after format changes.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		return err
	}
	return os.RemoveAll(old)
}

// unitDigest fingerprints a parsed unit: every file's path and content hash
// in load order.
func unitDigest(fileSet *source.FileSet) project.Digest {
	parts := make([][]byte, 0, fileSet.Len()*2)
	for i := 0; i < fileSet.Len(); i++ {
		f := fileSet.Get(source.FileID(i))
		parts = append(parts, []byte(f.Path), f.Hash[:])
	}
	return project.HashParts(parts...)
}

// payloadFromResult converts a fresh result for caching.
func payloadFromResult(res *Result) *DiskPayload {
	payload := &DiskPayload{
		Schema:  diskCacheSchemaVersion,
		Problem: res.Problem,
	}
	for i := range res.Functions {
		fr := &res.Functions[i]
		cf := CachedFunction{Name: fr.Name, Height: fr.Height, Axioms: fr.Axioms}
		if fr.Bag != nil {
			for _, d := range fr.Bag.Items() {
				cf.Diags = append(cf.Diags, CachedDiagnostic{
					Severity: uint8(d.Severity),
					Code:     uint16(d.Code),
					Message:  d.Message,
				})
			}
		}
		payload.Functions = append(payload.Functions, cf)
	}
	return payload
}

// resultFromPayload restores cached function outcomes (without spans).
func resultFromPayload(res *Result, payload *DiskPayload, maxDiagnostics int) {
	res.Problem = payload.Problem
	for _, cf := range payload.Functions {
		bag := diag.NewBag(maxDiagnostics)
		for _, cd := range cf.Diags {
			bag.Add(diag.Diagnostic{
				Severity: diag.Severity(cd.Severity),
				Code:     diag.Code(cd.Code),
				Message:  cd.Message,
			})
		}
		res.Functions = append(res.Functions, FunctionResult{
			Name:      cf.Name,
			Height:    cf.Height,
			Axioms:    cf.Axioms,
			FromCache: true,
			Bag:       bag,
		})
	}
}
