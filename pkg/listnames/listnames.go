// Package listnames derives the display name and description of a list
// template from its filter tuple. Both functions are pure.
package listnames

import (
	"strconv"
	"strings"

	"github.com/topnlists/topn/pkg/categories"
	"github.com/topnlists/topn/pkg/filters"
)

const (
	defaultNoun  = "Movies"
	languageNoun = "Films"
)

// GenerateName builds a title such as "Top 10 Horrors", "Top 25 1990s
// Comedies" or "Top 10 Rock Albums".
//
// Parts are ordered size, decade, language, certification, then one content
// token. A music type keyword wins over everything, optionally preceded by
// the genre. Otherwise a keyword, then a genre, is pluralized alone. With
// neither, the category's plural noun is used, except that a language forces
// "Films".
func GenerateName(t filters.Tuple) string {
	parts := []string{"Top " + strconv.Itoa(t.Size)}

	if t.Decade != nil && *t.Decade != "" {
		parts = append(parts, *t.Decade)
	}
	language := labelOf(t.Language, filters.LanguageLabel)
	if language != "" {
		parts = append(parts, language)
	}
	if cert := labelOf(t.Certification, filters.CertificationLabel); cert != "" {
		parts = append(parts, cert)
	}

	genre := labelOf(t.Genre, filters.GenreLabel)
	keyword := labelOf(t.Keyword, filters.KeywordLabel)

	switch {
	case t.Keyword != nil && filters.IsMusicType(*t.Keyword):
		if genre != "" {
			parts = append(parts, genre)
		}
		parts = append(parts, keyword+"s")
	case keyword != "":
		parts = append(parts, Pluralize(keyword))
	case genre != "":
		parts = append(parts, Pluralize(genre))
	case language != "":
		parts = append(parts, languageNoun)
	default:
		parts = append(parts, itemNoun(t.Category))
	}

	return strings.Join(parts, " ")
}

// FormatDescription builds a looser sentence, e.g. "Top 10 R-Rated Horror
// Movies of the 1980s".
func FormatDescription(t filters.Tuple) string {
	size := "Top " + strconv.Itoa(t.Size)
	genre := labelOf(t.Genre, filters.GenreLabel)

	if t.Keyword != nil && filters.IsMusicType(*t.Keyword) {
		parts := []string{size}
		if genre != "" {
			parts = append(parts, genre)
		}
		parts = append(parts, filters.KeywordLabel(*t.Keyword)+"s")
		return strings.Join(parts, " ")
	}

	var descriptors []string
	for _, label := range []string{
		labelOf(t.Certification, filters.CertificationLabel),
		labelOf(t.Language, filters.LanguageLabel),
		genre,
		labelOf(t.Keyword, filters.KeywordLabel),
	} {
		if label != "" {
			descriptors = append(descriptors, label)
		}
	}

	var b strings.Builder
	b.WriteString(size)
	b.WriteString(" ")
	if len(descriptors) > 0 {
		b.WriteString(strings.Join(descriptors, " "))
		b.WriteString(" ")
	}
	b.WriteString(itemNoun(t.Category))
	if t.Decade != nil && *t.Decade != "" {
		b.WriteString(" of the ")
		b.WriteString(*t.Decade)
	}
	return b.String()
}

// Pluralize is purely lexical: a trailing "y" becomes "ies", anything else
// gets an "s".
func Pluralize(word string) string {
	if strings.HasSuffix(word, "y") {
		return strings.TrimSuffix(word, "y") + "ies"
	}
	return word + "s"
}

func labelOf(tag *string, lookup func(string) string) string {
	if tag == nil {
		return ""
	}
	return lookup(*tag)
}

func itemNoun(category string) string {
	c, ok := categories.Get(category)
	if !ok {
		return defaultNoun
	}
	return c.ItemNamePlural
}
