// Package render converts raw text extracted from legacy word-processor
// files into displayable text or markup. The legacy codec is best-effort:
// unknown control codes are dropped, never reported.
package render

import (
	"html"
	"regexp"
	"strconv"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Format selects the renderer output form.
type Format string

const (
	// FormatText produces plain text with all control codes removed.
	FormatText Format = "text"
	// FormatHTML produces sanitized markup with recognized codes translated.
	FormatHTML Format = "html"
)

// Options control a single render call.
type Options struct {
	Format    Format
	WrapWidth int // wrap long lines at word boundaries; 0 disables
}

// startCodes maps recognized inline start codes to their markup element.
// The matching end code is start + endOffset, mirroring the shifted
// control-code convention of the extraction.
var startCodes = map[int]string{
	1:  "em", // emphasis
	2:  "u",  // underline
	11: "q",  // quoted emphasis
	18: "b",  // bold
}

const endOffset = 128

var endCodes = func() map[int]bool {
	m := make(map[int]bool, len(startCodes))
	for code := range startCodes {
		m[code+endOffset] = true
	}
	return m
}()

// directivePatterns match formatting-directive lines beyond the plain
// dot-prefixed form: margins and page geometry, tab stops, font selection,
// and named page breaks.
var directivePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^(lm|rm|tm|bm|pl|pw)\s*\d+$`),
	regexp.MustCompile(`(?i)^tabs?\s+[\d,\s]+$`),
	regexp.MustCompile(`(?i)^f(ont)?\s*\d+$`),
	regexp.MustCompile(`(?i)^(np|pg|brk)(\s+\S+)?$`),
}

var (
	backtickCodeRegex = regexp.MustCompile("`[0-9]+")
	multiNewlineRegex = regexp.MustCompile(`\n{3,}`)
)

// Renderer turns raw extracted text into display text or markup.
type Renderer struct {
	policy *bluemonday.Policy
}

// New creates a Renderer. The sanitizer policy admits only the elements the
// code table can emit.
func New() *Renderer {
	policy := bluemonday.NewPolicy()
	policy.AllowElements("b", "u", "em", "q")
	return &Renderer{policy: policy}
}

// Render runs the full pipeline: directive header stripping, backtick-code
// deletion, inline code translation, control-character stripping, optional
// wrapping, and newline normalization. HTML output is escaped before tags
// are inserted and sanitized afterwards.
func (r *Renderer) Render(raw string, opts Options) string {
	text := normalizeNewlines(raw)
	text = stripHeaderDirectives(text)
	text = backtickCodeRegex.ReplaceAllString(text, "")
	segments := translateInlineCodes(text)

	if opts.Format == FormatHTML {
		var b strings.Builder
		for _, seg := range segments {
			if seg.tag != "" {
				b.WriteString(seg.tag)
				continue
			}
			b.WriteString(html.EscapeString(stripControls(seg.text)))
		}
		out := multiNewlineRegex.ReplaceAllString(b.String(), "\n\n")
		return r.policy.Sanitize(strings.TrimSpace(out))
	}

	var b strings.Builder
	for _, seg := range segments {
		if seg.tag == "" {
			b.WriteString(seg.text)
		}
	}
	out := stripControls(b.String())
	if opts.WrapWidth > 0 {
		out = Wrap(out, opts.WrapWidth)
	}
	out = multiNewlineRegex.ReplaceAllString(out, "\n\n")
	return strings.TrimSpace(out)
}

func normalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

// stripHeaderDirectives drops leading formatting-directive lines. Once the
// first content line appears every later line is kept verbatim, blank lines
// and directive look-alikes included.
func stripHeaderDirectives(s string) string {
	lines := strings.Split(s, "\n")
	start := 0
	for start < len(lines) {
		trimmed := strings.TrimSpace(lines[start])
		if trimmed == "" || isDirective(trimmed) {
			start++
			continue
		}
		break
	}
	return strings.Join(lines[start:], "\n")
}

func isDirective(line string) bool {
	if strings.HasPrefix(line, ".") {
		return true
	}
	for _, p := range directivePatterns {
		if p.MatchString(line) {
			return true
		}
	}
	return false
}

// segment is either literal text or an emitted tag.
type segment struct {
	text string
	tag  string
}

// translateInlineCodes recognizes maximal digit runs directly adjacent to a
// letter as control codes. Start codes push their element and emit an
// opening tag; end codes pop the stack and emit the popped element's
// closing tag; unrecognized codes are deleted. Anything still open at end
// of text is force-closed in LIFO order.
func translateInlineCodes(s string) []segment {
	var segments []segment
	var stack []string
	var text strings.Builder

	flush := func() {
		if text.Len() > 0 {
			segments = append(segments, segment{text: text.String()})
			text.Reset()
		}
	}

	for i := 0; i < len(s); {
		if !isDigit(s[i]) {
			text.WriteByte(s[i])
			i++
			continue
		}
		j := i
		for j < len(s) && isDigit(s[j]) {
			j++
		}
		adjacent := (i > 0 && isLetter(s[i-1])) || (j < len(s) && isLetter(s[j]))
		if !adjacent {
			text.WriteString(s[i:j])
			i = j
			continue
		}

		code, err := strconv.Atoi(s[i:j])
		switch {
		case err == nil && startCodes[code] != "":
			flush()
			el := startCodes[code]
			stack = append(stack, el)
			segments = append(segments, segment{tag: "<" + el + ">"})
		case err == nil && endCodes[code] && len(stack) > 0:
			flush()
			el := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			segments = append(segments, segment{tag: "</" + el + ">"})
		default:
			// Unrecognized code, or an end code with nothing open: delete.
		}
		i = j
	}
	flush()

	for len(stack) > 0 {
		el := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		segments = append(segments, segment{tag: "</" + el + ">"})
	}
	return segments
}

// stripControls removes ASCII control characters (below space, plus DEL),
// keeping newlines.
func stripControls(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '\n' || (c >= 0x20 && c != 0x7f) {
			b.WriteByte(c)
		}
	}
	return b.String()
}

func isDigit(c byte) bool  { return c >= '0' && c <= '9' }
func isLetter(c byte) bool { return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }
