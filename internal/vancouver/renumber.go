// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package vancouver

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/pdiddy/manuscript-engine/pkg/types"
)

// citePattern matches inline citation placeholders: {cite:PMID:12345678} or
// {cite:DOI:10.1000/xyz}. The identifier is free text up to the closing
// brace; unrecognized kinds and unterminated tags do not match and are left
// in the text as-is.
var citePattern = regexp.MustCompile(`\{cite:(PMID|DOI):([^}]+)\}`)

// Section pairs a section name with its draft text for renumbering.
// The caller supplies sections in the order numbering should follow.
type Section struct {
	Name types.SectionName
	Text string
}

// Key builds the placeholder identity key for a kind and identifier.
// Identifiers are trimmed so {cite:PMID: 123 } and {cite:PMID:123} share
// one number.
func Key(kind types.CitationKind, identifier string) string {
	return fmt.Sprintf("%s:%s", kind, strings.TrimSpace(identifier))
}

// Renumber assigns dense 1-based numbers to citation placeholders in
// first-appearance order across the given sections, processed strictly in
// slice order, and rewrites each placeholder as [n] (bracket) or (n)
// (paren). A placeholder identity seen again anywhere later reuses its
// number. Sections whose text is empty or whitespace-only are skipped and
// absent from the returned map.
//
// Renumber is a pure function of its inputs: the same sections and style
// always produce the same numbering.
func Renumber(sections []Section, style types.InTextFormat) (map[types.SectionName]string, map[string]int) {
	keyToNum := make(map[string]int)
	next := 1
	numbered := make(map[types.SectionName]string, len(sections))

	for _, sec := range sections {
		text := strings.TrimSpace(sec.Text)
		if text == "" {
			continue
		}
		numbered[sec.Name] = citePattern.ReplaceAllStringFunc(text, func(m string) string {
			sub := citePattern.FindStringSubmatch(m)
			k := Key(types.CitationKind(sub[1]), sub[2])
			num, ok := keyToNum[k]
			if !ok {
				num = next
				keyToNum[k] = num
				next++
			}
			if style == types.FormatParen {
				return fmt.Sprintf("(%d)", num)
			}
			return fmt.Sprintf("[%d]", num)
		})
	}

	return numbered, keyToNum
}
