package htmlutil

import (
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// blockTags break the text onto a new line.
var blockTags = map[atom.Atom]bool{
	atom.P:   true,
	atom.Div: true,
	atom.Br:  true,
	atom.Li:  true,
	atom.H1:  true,
	atom.H2:  true,
	atom.H3:  true,
	atom.H4:  true,
	atom.H5:  true,
	atom.H6:  true,
}

// skipTags have content that is never shown as text.
var skipTags = map[atom.Atom]bool{
	atom.Script: true,
	atom.Style:  true,
}

// StripTags removes all markup from a string, decodes entities, and
// normalizes whitespace. Block-level elements become line breaks.
func StripTags(s string) string {
	if s == "" {
		return ""
	}

	var b strings.Builder
	skipping := 0
	z := html.NewTokenizer(strings.NewReader(s))
loop:
	for {
		switch z.Next() {
		case html.ErrorToken:
			if z.Err() != io.EOF {
				// The tokenizer only fails on reader errors, which a
				// strings.Reader never returns.
				return ""
			}
			break loop
		case html.TextToken:
			if skipping == 0 {
				b.Write(z.Text())
			}
		case html.StartTagToken:
			name, _ := z.TagName()
			a := atom.Lookup(name)
			if skipTags[a] {
				skipping++
			}
			if a == atom.Br {
				b.WriteByte('\n')
			}
		case html.SelfClosingTagToken:
			name, _ := z.TagName()
			if atom.Lookup(name) == atom.Br {
				b.WriteByte('\n')
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			a := atom.Lookup(name)
			if skipTags[a] && skipping > 0 {
				skipping--
			}
			if blockTags[a] {
				b.WriteByte('\n')
			}
		}
	}

	var lines []string
	for _, line := range strings.Split(b.String(), "\n") {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

// StripInline is StripTags for single-line fields such as titles: line
// breaks become spaces.
func StripInline(s string) string {
	return strings.ReplaceAll(StripTags(s), "\n", " ")
}

// StripInlinePtr strips an optional field. A value that is empty after
// stripping becomes nil.
func StripInlinePtr(s *string) *string {
	if s == nil {
		return nil
	}
	out := StripInline(*s)
	if out == "" {
		return nil
	}
	return &out
}
