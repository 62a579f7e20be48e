package basecache

import (
	"testing"

	"github.com/sunholo/ailang/internal/basemodule"
)

func TestFingerprintIsStableAcrossRebuilds(t *testing.T) {
	a := Fingerprint(basemodule.Build())
	b := Fingerprint(basemodule.Build())
	if a.ContentHash != b.ContentHash {
		t.Fatalf("expected ContentHash to be stable across independent NecroBase builds: %s vs %s", a.ContentHash, b.ContentHash)
	}
	if len(a.Symbols) == 0 {
		t.Fatalf("expected at least one fingerprinted symbol")
	}
}

func TestStoreThenLookupRoundTrips(t *testing.T) {
	dir := t.TempDir()
	cache, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	fp := Fingerprint(basemodule.Build())
	if err := cache.Store(fp); err != nil {
		t.Fatalf("Store: %v", err)
	}

	got, hit, err := cache.Lookup(fp.ContentHash)
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if !hit {
		t.Fatalf("expected a cache hit after Store")
	}
	if got.ContentHash != fp.ContentHash {
		t.Fatalf("round-tripped ContentHash mismatch: %s vs %s", got.ContentHash, fp.ContentHash)
	}
}

func TestLookupMissesForUnknownHash(t *testing.T) {
	cache, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	_, hit, err := cache.Lookup("not-a-real-hash")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if hit {
		t.Fatalf("expected a miss for a hash never Stored")
	}
}

func TestWarmReportsMissThenHit(t *testing.T) {
	dir := t.TempDir()

	_, hit1, err := Warm(dir)
	if err != nil {
		t.Fatalf("Warm (first): %v", err)
	}
	if hit1 {
		t.Fatalf("expected the first Warm in a fresh dir to miss")
	}

	_, hit2, err := Warm(dir)
	if err != nil {
		t.Fatalf("Warm (second): %v", err)
	}
	if !hit2 {
		t.Fatalf("expected the second Warm in the same dir to hit")
	}
}
