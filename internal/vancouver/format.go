// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package vancouver renumbers inline citation placeholders and renders
// bibliographic records in the simplified Vancouver/NLM style used by most
// biomedical journals.
package vancouver

import (
	"fmt"
	"strings"

	"github.com/pdiddy/manuscript-engine/pkg/types"
)

// maxListedAuthors is the Vancouver cutoff before "et al.".
const maxListedAuthors = 6

// formatAuthors joins author names Vancouver-style: all of them for six or
// fewer, the first six plus "et al." otherwise. Empty input yields "".
func formatAuthors(authors []string) string {
	if len(authors) == 0 {
		return ""
	}
	if len(authors) <= maxListedAuthors {
		return strings.Join(authors, ", ") + "."
	}
	return strings.Join(authors[:maxListedAuthors], ", ") + ", et al."
}

// FormatReference renders one record as a Vancouver reference string. It
// never fails: absent fields drop their segment and the rest still renders,
// so even a title-only record produces usable output.
//
// Segment order: authors, title, journal (abbreviated preferred),
// year;volume(issue):pages, then doi: or URL.
func FormatReference(c types.Citation) string {
	var parts []string

	if a := formatAuthors(c.Authors); a != "" {
		parts = append(parts, a)
	}

	if title := strings.TrimRight(c.Title, "."); title != "" {
		parts = append(parts, title+".")
	}

	journal := c.JournalISOAbbrev
	if journal == "" {
		journal = c.Journal
	}
	if journal != "" {
		parts = append(parts, journal+".")
	}

	// The year anchors the whole year;volume(issue):pages block. Without a
	// year the block is omitted even if volume or pages exist.
	if c.Year != 0 {
		volIssue := c.Volume
		if c.Issue != "" {
			if c.Volume != "" {
				volIssue = fmt.Sprintf("%s(%s)", c.Volume, c.Issue)
			} else {
				volIssue = fmt.Sprintf("(%s)", c.Issue)
			}
		}
		if c.Pages != "" {
			parts = append(parts, fmt.Sprintf("%d;%s:%s.", c.Year, volIssue, c.Pages))
		} else {
			parts = append(parts, fmt.Sprintf("%d;%s.", c.Year, volIssue))
		}
	}

	if c.DOI != "" {
		parts = append(parts, "doi:"+c.DOI+".")
	} else if c.URL != "" {
		parts = append(parts, c.URL)
	}

	ref := strings.Join(parts, " ")
	// Collapse incidental double spacing from blank inner fields.
	for strings.Contains(ref, "  ") {
		ref = strings.ReplaceAll(ref, "  ", " ")
	}
	return strings.TrimSpace(ref)
}
