// Package highlight compiles regex highlighting rules and applies them to
// blocks of text. Renderers turn the resulting segments into styled output;
// the rules never affect stored content.
package highlight

import (
	"fmt"
	"regexp"
	"strings"
)

// Style tags a span of highlighted text.
type Style int

const (
	None Style = iota
	Keyword
	Comment
	String
)

func (s Style) String() string {
	switch s {
	case Keyword:
		return "keyword"
	case Comment:
		return "comment"
	case String:
		return "string"
	default:
		return "none"
	}
}

// Rule styles every match of Pattern with Style.
type Rule struct {
	Pattern *regexp.Regexp
	Style   Style
}

// Syntax is the source a rule list is compiled from.
type Syntax struct {
	Keywords    []string
	LineComment string
	Quotes      []string
}

// Compile builds the ordered rule list for s: one word-bounded rule per
// keyword, then the line comment, then one rule per quote character.
// An empty Syntax yields no rules.
func Compile(s Syntax) ([]Rule, error) {
	var rules []Rule
	for _, kw := range s.Keywords {
		if kw == "" {
			continue
		}
		re, err := regexp.Compile(`\b` + regexp.QuoteMeta(kw) + `\b`)
		if err != nil {
			return nil, fmt.Errorf("keyword %q: %w", kw, err)
		}
		rules = append(rules, Rule{Pattern: re, Style: Keyword})
	}

	if s.LineComment != "" {
		re, err := regexp.Compile(regexp.QuoteMeta(s.LineComment) + `.*`)
		if err != nil {
			return nil, fmt.Errorf("line comment %q: %w", s.LineComment, err)
		}
		rules = append(rules, Rule{Pattern: re, Style: Comment})
	}

	for _, q := range s.Quotes {
		if q == "" {
			continue
		}
		// A quoted run with backslash escapes, closed on the same line.
		qm := regexp.QuoteMeta(q)
		body := `[^` + qm + `\\\n]*(?:\\.[^` + qm + `\\\n]*)*`
		re, err := regexp.Compile(qm + body + qm)
		if err != nil {
			return nil, fmt.Errorf("quote %q: %w", q, err)
		}
		rules = append(rules, Rule{Pattern: re, Style: String})
	}
	return rules, nil
}

// Span is a styled half-open byte range [Start, End) of a block.
type Span struct {
	Start int
	End   int
	Style Style
}

// Block applies rules to a single block of text. Every match of every
// rule is styled; where matches overlap the later rule wins. Adjacent
// bytes with the same style are merged and unstyled bytes are omitted.
func Block(rules []Rule, text string) []Span {
	if len(rules) == 0 || text == "" {
		return nil
	}

	styles := make([]Style, len(text))
	for _, r := range rules {
		for _, m := range r.Pattern.FindAllStringIndex(text, -1) {
			for i := m[0]; i < m[1]; i++ {
				styles[i] = r.Style
			}
		}
	}

	var spans []Span
	for i := 0; i < len(styles); {
		j := i
		for j < len(styles) && styles[j] == styles[i] {
			j++
		}
		if styles[i] != None {
			spans = append(spans, Span{Start: i, End: j, Style: styles[i]})
		}
		i = j
	}
	return spans
}

// Segment is a run of text drawn in one style.
type Segment struct {
	Text  string
	Style Style
}

// Line splits one block into segments covering all of it.
func Line(rules []Rule, text string) []Segment {
	spans := Block(rules, text)
	if len(spans) == 0 {
		return []Segment{{Text: text, Style: None}}
	}

	var segs []Segment
	pos := 0
	for _, sp := range spans {
		if sp.Start > pos {
			segs = append(segs, Segment{Text: text[pos:sp.Start], Style: None})
		}
		segs = append(segs, Segment{Text: text[sp.Start:sp.End], Style: sp.Style})
		pos = sp.End
	}
	if pos < len(text) {
		segs = append(segs, Segment{Text: text[pos:], Style: None})
	}
	return segs
}

// Text highlights every line of text independently.
func Text(rules []Rule, text string) [][]Segment {
	lines := strings.Split(text, "\n")
	out := make([][]Segment, len(lines))
	for i, l := range lines {
		out[i] = Line(rules, strings.TrimSuffix(l, "\r"))
	}
	return out
}
