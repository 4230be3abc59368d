// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package similarity detects near-duplicate text through winnowed n-gram
// fingerprints. It is a local heuristic for catching drafts that track a
// source too closely, not a certified plagiarism check.
package similarity

// FNV-1a 64-bit parameters. The shingle hash must be stable across runs and
// processes, so the accumulation is spelled out instead of going through
// hash/fnv (which has no way to inject the token separator byte).
const (
	fnvOffset = 1469598103934665603
	fnvPrime  = 1099511628211
)

const (
	// DefaultShingleSize is the token n-gram length k.
	DefaultShingleSize = 5

	// DefaultWindow is the winnowing window size.
	DefaultWindow = 4
)

// tokenize lowercases text and splits it into alphanumeric runs. Every
// non-alphanumeric byte is a token boundary.
func tokenize(text string) []string {
	var tokens []string
	var cur []rune
	for _, r := range text {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			cur = append(cur, r)
		case r >= 'A' && r <= 'Z':
			cur = append(cur, r+('a'-'A'))
		default:
			if len(cur) > 0 {
				tokens = append(tokens, string(cur))
				cur = nil
			}
		}
	}
	if len(cur) > 0 {
		tokens = append(tokens, string(cur))
	}
	return tokens
}

// hashShingle hashes k consecutive tokens starting at index start. Each
// token's bytes feed the FNV-1a accumulation, followed by a 0xFF separator
// so that ["ab","c"] and ["a","bc"] hash differently.
func hashShingle(tokens []string, start, k int) uint64 {
	var h uint64 = fnvOffset
	for i := start; i < start+k; i++ {
		for j := 0; j < len(tokens[i]); j++ {
			h ^= uint64(tokens[i][j])
			h *= fnvPrime
		}
		h ^= 0xFF
		h *= fnvPrime
	}
	return h
}

// Fingerprints computes the winnowed fingerprint set of text using k-token
// shingles and the given winnowing window. Texts shorter than k tokens
// produce an empty set; that is defined behavior, not an error. When the
// shingle count does not exceed the window, every shingle hash is kept.
//
// The result is deterministic: the same text and parameters always yield
// the same set.
func Fingerprints(text string, k, window int) map[uint64]bool {
	if k <= 0 {
		k = DefaultShingleSize
	}
	if window <= 0 {
		window = DefaultWindow
	}

	tokens := tokenize(text)
	if len(tokens) < k {
		return map[uint64]bool{}
	}

	hashes := make([]uint64, len(tokens)-k+1)
	for i := range hashes {
		hashes[i] = hashShingle(tokens, i, k)
	}

	fps := make(map[uint64]bool)
	if len(hashes) <= window {
		for _, h := range hashes {
			fps[h] = true
		}
		return fps
	}

	// Winnowing: record the minimum of each window, but only when the
	// selected (hash, position) pair changes, so overlapping windows do
	// not re-record the same local minimum.
	var prevMin uint64
	prevPos := -1
	for i := 0; i+window <= len(hashes); i++ {
		minHash := hashes[i]
		minPos := i
		for j := i + 1; j < i+window; j++ {
			if hashes[j] < minHash {
				minHash = hashes[j]
				minPos = j
			}
		}
		if minPos != prevPos || minHash != prevMin {
			fps[minHash] = true
			prevMin = minHash
			prevPos = minPos
		}
	}
	return fps
}
