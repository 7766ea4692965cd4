package builtin

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"playetl/pkg/records"
)

// Normalize canonicalizes string fields in place: surrounding whitespace is
// trimmed and the text is brought to Unicode NFC. The catalog and event files
// come from different producers, and composed vs. decomposed accents in a
// performer name would otherwise defeat the exact-equality dimension lookup.
type Normalize struct{}

func (Normalize) Apply(in []records.Record) []records.Record {
	for _, r := range in {
		for k, v := range r {
			s, ok := v.(string)
			if !ok {
				continue
			}
			r[k] = norm.NFC.String(strings.TrimSpace(s))
		}
	}
	return in
}
