package filters

import (
	"fmt"
	"sort"

	"github.com/topnlists/topn/pkg/categories"
	"github.com/topnlists/topn/pkg/errcodes"
)

// Tuple identifies a list template. A nil optional field means "unset" and
// is distinct from every tag, including the empty string.
type Tuple struct {
	Category      string  `json:"category"`
	Genre         *string `json:"genre"`
	Decade        *string `json:"decade"`
	Keyword       *string `json:"keyword"`
	Certification *string `json:"certification"`
	Language      *string `json:"language"`
	Size          int     `json:"size"`
}

// Validate returns an InvalidFilter error naming the first unknown field.
func (t Tuple) Validate() error {
	if !categories.IsValid(t.Category) {
		return errcodes.InvalidFilter(fmt.Sprintf("Unknown category %q.", t.Category))
	}
	if t.Genre != nil && !IsValidGenre(*t.Genre) {
		return errcodes.InvalidFilter(fmt.Sprintf("Unknown genre %q.", *t.Genre))
	}
	if t.Decade != nil && !IsValidDecade(*t.Decade) {
		return errcodes.InvalidFilter(fmt.Sprintf("Unknown decade %q.", *t.Decade))
	}
	if t.Keyword != nil && !IsValidKeyword(*t.Keyword) {
		return errcodes.InvalidFilter(fmt.Sprintf("Unknown keyword %q.", *t.Keyword))
	}
	if t.Certification != nil && !IsValidCertification(*t.Certification) {
		return errcodes.InvalidFilter(fmt.Sprintf("Unknown certification %q.", *t.Certification))
	}
	if t.Language != nil && !IsValidLanguage(*t.Language) {
		return errcodes.InvalidFilter(fmt.Sprintf("Unknown language %q.", *t.Language))
	}
	if !IsValidSize(t.Size) {
		return errcodes.InvalidFilter(fmt.Sprintf("Unsupported size %d.", t.Size))
	}
	return nil
}

// Key is a stable string form of the tuple, with "-" for unset fields.
// Unset and empty tags produce different keys.
func (t Tuple) Key() string {
	return fmt.Sprintf("%s|%s|%s|%s|%s|%s|%d",
		t.Category, keyPart(t.Genre), keyPart(t.Decade), keyPart(t.Keyword),
		keyPart(t.Certification), keyPart(t.Language), t.Size)
}

func keyPart(s *string) string {
	if s == nil {
		return "-"
	}
	return fmt.Sprintf("%q", *s)
}

func sortedKeys(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
