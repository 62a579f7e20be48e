// Package basecache memoizes NecroBase's build fingerprint to disk
// (SPEC_FULL.md §1.6): rebuilding internal/basemodule's primitive types,
// class/instance table, and operator table is pure and deterministic, so
// a stored fingerprint tells a later run whether the base module's shape
// has changed. Neither cmd/necro nor internal/pipeline calls Warm.
//
// Grounded on _examples/vovakirdan-surge/internal/driver/dcache.go: same
// schema-version constant, same ContentHash-keyed msgpack blob on disk,
// same atomic temp-file-then-rename write. dcache.go's own doc comment
// calls its DiskPayload "a stub for future semantic exports" — this
// package is that stub's realization for exactly one payload shape
// (NecroBase's declaration fingerprint) rather than the open-ended
// module-export cache dcache.go leaves for later.
package basecache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/sunholo/ailang/internal/basemodule"
)

// schemaVersion bumps whenever Payload's shape changes incompatibly.
const schemaVersion uint16 = 1

// Payload is what gets written to disk: NecroBase's declaration
// fingerprint, not the live Type/Scheme graph itself — internal/types'
// Type is an interface over several concrete node kinds, and round-
// tripping an arbitrary interface graph through msgpack would need a
// concrete-type registry per variant for no real benefit, since
// internal/basemodule.Build() is cheap enough to simply re-run on a cache
// miss *or* hit; the cache's job is detecting drift, not skipping work.
type Payload struct {
	Schema      uint16
	ContentHash string
	Symbols     []SymbolFingerprint
}

// SymbolFingerprint records one NecroBase declaration's shape, sorted by
// name so ContentHash is stable across process restarts.
type SymbolFingerprint struct {
	Name          string
	Arity         int
	IsConstructor bool
	Scheme        string // Scheme.String(), a human-readable stand-in for a full round-trip
}

// Fingerprint builds the deterministic payload for base — called by Warm
// after internal/basemodule.Build() so the cache can be compared against
// (and updated for) the next run.
func Fingerprint(base *basemodule.NecroBase) *Payload {
	var syms []SymbolFingerprint
	for _, s := range base.Module.All() {
		schemeStr := ""
		if sch, ok := s.Type.(fmt.Stringer); ok {
			schemeStr = sch.String()
		}
		syms = append(syms, SymbolFingerprint{
			Name: s.SourceName, Arity: s.Arity, IsConstructor: s.IsConstructor, Scheme: schemeStr,
		})
	}
	sort.Slice(syms, func(i, j int) bool { return syms[i].Name < syms[j].Name })

	h := sha256.New()
	for _, s := range syms {
		fmt.Fprintf(h, "%s|%d|%v|%s\n", s.Name, s.Arity, s.IsConstructor, s.Scheme)
	}
	return &Payload{Schema: schemaVersion, ContentHash: hex.EncodeToString(h.Sum(nil)), Symbols: syms}
}

// Cache is a directory of msgpack-encoded Payloads keyed by ContentHash.
type Cache struct{ dir string }

// Open ensures dir exists and returns a Cache rooted there.
func Open(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("basecache: %w", err)
	}
	return &Cache{dir: dir}, nil
}

func (c *Cache) path(hash string) string {
	return filepath.Join(c.dir, hash+".basecache.mp")
}

// Lookup reports whether a payload with the same ContentHash is already
// on disk and matches the current schema (a cache hit means NecroBase's
// shape hasn't drifted since the last build).
func (c *Cache) Lookup(hash string) (*Payload, bool, error) {
	data, err := os.ReadFile(c.path(hash))
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("basecache: read: %w", err)
	}
	var p Payload
	if err := msgpack.Unmarshal(data, &p); err != nil {
		return nil, false, fmt.Errorf("basecache: decode: %w", err)
	}
	if p.Schema != schemaVersion || p.ContentHash != hash {
		return nil, false, nil
	}
	return &p, true, nil
}

// Store writes p to disk atomically (temp file + rename, matching
// dcache.go's Put).
func (c *Cache) Store(p *Payload) error {
	data, err := msgpack.Marshal(p)
	if err != nil {
		return fmt.Errorf("basecache: encode: %w", err)
	}
	dst := c.path(p.ContentHash)
	tmp, err := os.CreateTemp(c.dir, "tmp-basecache-*")
	if err != nil {
		return fmt.Errorf("basecache: tempfile: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("basecache: write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("basecache: close: %w", err)
	}
	return os.Rename(tmp.Name(), dst)
}

// Warm builds NecroBase, fingerprints it, and records a disk hit/miss.
// internal/pipeline does not call it: Compile builds NecroBase with
// basemodule.Build directly.
func Warm(dir string) (*basemodule.NecroBase, bool, error) {
	base := basemodule.Build()
	fp := Fingerprint(base)

	cache, err := Open(dir)
	if err != nil {
		return base, false, err
	}
	_, hit, err := cache.Lookup(fp.ContentHash)
	if err != nil {
		return base, false, err
	}
	if !hit {
		if err := cache.Store(fp); err != nil {
			return base, false, err
		}
	}
	return base, hit, nil
}
