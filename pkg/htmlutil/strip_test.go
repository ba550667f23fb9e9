package htmlutil

import (
	"testing"

	"github.com/robinjoseph08/golib/pointerutil"
	"github.com/stretchr/testify/assert"
)

func TestStripTags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty", "", ""},
		{"plain bio", "Horror fan since 1982", "Horror fan since 1982"},
		{"paragraphs become lines", "<p>Mostly slashers.</p><p>Some giallo.</p>", "Mostly slashers.\nSome giallo."},
		{"inline markup dropped", "I <em>really</em> like <strong>Carpenter</strong>", "I really like Carpenter"},
		{"line breaks", "one<br>two<br/>three", "one\ntwo\nthree"},
		{"attributes dropped", `<a href="https://example.com" onclick="x()">my site</a>`, "my site"},
		{"entities decoded", "Tom &amp; Jerry &mdash; &ldquo;classic&rdquo;", "Tom & Jerry \u2014 \u201cclassic\u201d"},
		{"nbsp collapsed", "Hello&nbsp;&nbsp; world", "Hello world"},
		{"script content dropped", "<script>alert(1)</script>Safe<style>p{}</style> bio", "Safe bio"},
		{"bare angle bracket kept", "top 5 < top 10", "top 5 < top 10"},
		{"list items", "<ul><li>Alien</li><li>Aliens</li></ul>", "Alien\nAliens"},
		{"blank lines removed", "<div>\n\n  <p>x</p>\n\n</div>", "x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, StripTags(tt.input))
		})
	}
}

func TestStripInline(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "The Thing", StripInline("<b>The</b>\n  Thing"))
	assert.Equal(t, "First Second", StripInline("<p>First</p><p>Second</p>"))
	assert.Equal(t, "", StripInline("<img src='x.jpg'>"))
}

func TestStripInlinePtr(t *testing.T) {
	t.Parallel()

	assert.Nil(t, StripInlinePtr(nil))
	assert.Nil(t, StripInlinePtr(pointerutil.String("<br>")))
	assert.Equal(t, "1982", *StripInlinePtr(pointerutil.String(" <i>1982</i> ")))
}
