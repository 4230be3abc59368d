// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package similarity

import (
	"sort"
	"strings"
)

// Result is one scored pair from a similarity report.
type Result struct {
	// Generated names the drafted text.
	Generated string `json:"generated" yaml:"generated"`

	// Source names the source text it was compared against.
	Source string `json:"source" yaml:"source"`

	// Score is the Jaccard index of the two fingerprint sets, in [0,1].
	Score float64 `json:"score" yaml:"score"`
}

// Jaccard returns |a∩b| / |a∪b|. Two empty sets score 0.0 rather than NaN;
// an empty set never overlaps anything.
func Jaccard(a, b map[uint64]bool) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0.0
	}
	inter := 0
	for h := range a {
		if b[h] {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	if union == 0 {
		return 0.0
	}
	return float64(inter) / float64(union)
}

// Score fingerprints both texts with the given parameters and returns their
// Jaccard index.
func Score(textA, textB string, k, window int) float64 {
	return Jaccard(Fingerprints(textA, k, window), Fingerprints(textB, k, window))
}

// Report compares every generated text against every source text and returns
// the pairs scoring at or above threshold, sorted by descending score.
// Entries whose text is empty or whitespace-only are skipped entirely. Each
// unique text is fingerprinted once; the comparison itself is a full
// cross-product.
func Report(generated, sources map[string]string, threshold float64, k, window int) []Result {
	genFPs := fingerprintAll(generated, k, window)
	srcFPs := fingerprintAll(sources, k, window)

	var results []Result
	for gname, gfp := range genFPs {
		for sname, sfp := range srcFPs {
			score := Jaccard(gfp, sfp)
			if score >= threshold {
				results = append(results, Result{Generated: gname, Source: sname, Score: score})
			}
		}
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		// Stable presentation order for equal scores.
		if results[i].Generated != results[j].Generated {
			return results[i].Generated < results[j].Generated
		}
		return results[i].Source < results[j].Source
	})
	return results
}

// fingerprintAll fingerprints every non-blank text in m, keyed by name.
func fingerprintAll(m map[string]string, k, window int) map[string]map[uint64]bool {
	out := make(map[string]map[uint64]bool, len(m))
	for name, text := range m {
		if strings.TrimSpace(text) == "" {
			continue
		}
		out[name] = Fingerprints(text, k, window)
	}
	return out
}
