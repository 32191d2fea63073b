package render

import (
	"strings"
	"testing"
)

func renderText(t *testing.T, raw string) string {
	t.Helper()
	return New().Render(raw, Options{Format: FormatText})
}

func renderHTML(t *testing.T, raw string) string {
	t.Helper()
	return New().Render(raw, Options{Format: FormatHTML})
}

func TestRender_PlainTextPassesThrough(t *testing.T) {
	raw := "Dear Mother,\n\nWe arrived safely in 1944 and all is well."
	if got := renderText(t, raw); got != raw {
		t.Errorf("plain text changed:\ngot  %q\nwant %q", got, raw)
	}
}

func TestRender_StripsHeaderDirectives(t *testing.T) {
	raw := ".lm 10\nlm72\nfont 3\n\nDear Mother,\nrm 80\nSecond line."
	got := renderText(t, raw)

	if !strings.HasPrefix(got, "Dear Mother,") {
		t.Errorf("header directives not stripped: %q", got)
	}
	// Directive look-alikes after the first content line stay.
	if !strings.Contains(got, "rm 80") {
		t.Errorf("body line dropped: %q", got)
	}
}

func TestRender_DeletesBacktickCodes(t *testing.T) {
	got := renderText(t, "some `12text and `3more")
	want := "some text and more"
	if got != want {
		t.Errorf("backtick codes: got %q, want %q", got, want)
	}
}

func TestRender_TranslatesInlineCodesToHTML(t *testing.T) {
	got := renderHTML(t, "A 18bold146 word")
	want := "A <b>bold</b> word"
	if got != want {
		t.Errorf("inline codes: got %q, want %q", got, want)
	}
}

func TestRender_InlineCodeTable(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"emphasis", "1word129", "<em>word</em>"},
		{"underline", "2word130", "<u>word</u>"},
		{"quote", "11word139", "<q>word</q>"},
		{"bold", "18word146", "<b>word</b>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := renderHTML(t, tt.raw); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRender_ForceClosesOpenCodes(t *testing.T) {
	got := renderHTML(t, "18bold to the end")
	want := "<b>bold to the end</b>"
	if got != want {
		t.Errorf("force close: got %q, want %q", got, want)
	}
}

func TestRender_NestedCodesCloseLIFO(t *testing.T) {
	// End codes pop whatever is on top, so interleaved input still nests.
	got := renderHTML(t, "18outer 1inner129 rest146")
	want := "<b>outer <em>inner</em> rest</b>"
	if got != want {
		t.Errorf("nesting: got %q, want %q", got, want)
	}
}

func TestRender_DropsUnrecognizedCodes(t *testing.T) {
	got := renderText(t, "5word and 200tail")
	want := "word and tail"
	if got != want {
		t.Errorf("unrecognized codes: got %q, want %q", got, want)
	}
}

func TestRender_EndCodeWithoutOpenIsDeleted(t *testing.T) {
	got := renderHTML(t, "146word")
	want := "word"
	if got != want {
		t.Errorf("orphan end code: got %q, want %q", got, want)
	}
}

func TestRender_KeepsFreestandingNumbers(t *testing.T) {
	raw := "He wrote 12 letters in 1944."
	if got := renderText(t, raw); got != raw {
		t.Errorf("freestanding numbers: got %q, want %q", got, raw)
	}
}

func TestRender_TextFormatDropsCodes(t *testing.T) {
	got := renderText(t, "A 18bold146 word")
	want := "A bold word"
	if got != want {
		t.Errorf("text format: got %q, want %q", got, want)
	}
}

func TestRender_StripsControlCharacters(t *testing.T) {
	got := renderText(t, "a\x01b\x1fc\x7fd\nkeep")
	want := "abcd\nkeep"
	if got != want {
		t.Errorf("control strip: got %q, want %q", got, want)
	}
}

func TestRender_CollapsesNewlines(t *testing.T) {
	got := renderText(t, "para one\n\n\n\n\npara two")
	want := "para one\n\npara two"
	if got != want {
		t.Errorf("newline collapse: got %q, want %q", got, want)
	}
}

func TestRender_NormalizesCRLF(t *testing.T) {
	got := renderText(t, "one\r\ntwo\rthree")
	want := "one\ntwo\nthree"
	if got != want {
		t.Errorf("crlf: got %q, want %q", got, want)
	}
}

func TestRender_TrimsResult(t *testing.T) {
	got := renderText(t, "\n\n  body  \n\n")
	want := "body"
	if got != want {
		t.Errorf("trim: got %q, want %q", got, want)
	}
}

func TestRender_HTMLEscapesText(t *testing.T) {
	got := renderHTML(t, "Tom <Jerry> & Co")
	if strings.Contains(got, "<Jerry>") {
		t.Errorf("raw markup leaked through: %q", got)
	}
	if !strings.Contains(got, "&amp;") {
		t.Errorf("ampersand not escaped: %q", got)
	}
}

func TestRender_WrapOnlyInTextFormat(t *testing.T) {
	raw := "alpha beta gamma delta"
	got := New().Render(raw, Options{Format: FormatText, WrapWidth: 11})
	want := "alpha beta\ngamma delta"
	if got != want {
		t.Errorf("wrap: got %q, want %q", got, want)
	}
}

func TestWrap(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		width int
		want  string
	}{
		{"short line untouched", "hello world", 20, "hello world"},
		{"breaks at word boundary", "aaa bbb ccc", 7, "aaa bbb\nccc"},
		{"long word kept whole", "tiny enormousword tiny", 8, "tiny\nenormousword\ntiny"},
		{"zero width disables", "aaa bbb ccc", 0, "aaa bbb ccc"},
		{"existing newlines kept", "aa bb\ncc dd", 5, "aa bb\ncc dd"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Wrap(tt.in, tt.width); got != tt.want {
				t.Errorf("Wrap(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
			}
		})
	}
}
