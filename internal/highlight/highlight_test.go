package highlight

import (
	"testing"

	"github.com/alecthomas/assert"
)

var python = Syntax{
	Keywords:    []string{"def", "class", "return", "pass", "if"},
	LineComment: "#",
	Quotes:      []string{`"`, `'`},
}

func mustCompile(t *testing.T, s Syntax) []Rule {
	t.Helper()
	rules, err := Compile(s)
	assert.NoError(t, err)
	return rules
}

// styled returns the text of every span with the given style.
func styled(text string, spans []Span, style Style) []string {
	var out []string
	for _, sp := range spans {
		if sp.Style == style {
			out = append(out, text[sp.Start:sp.End])
		}
	}
	return out
}

func TestCompileOrder(t *testing.T) {
	rules := mustCompile(t, python)
	assert.Equal(t, 5+1+2, len(rules))

	for i := 0; i < 5; i++ {
		assert.Equal(t, Keyword, rules[i].Style)
	}
	assert.Equal(t, Comment, rules[5].Style)
	assert.Equal(t, String, rules[6].Style)
	assert.Equal(t, String, rules[7].Style)
	assert.True(t, rules[6].Pattern.MatchString(`"x"`))
	assert.True(t, rules[7].Pattern.MatchString(`'x'`))
}

func TestCompilePlainText(t *testing.T) {
	rules := mustCompile(t, Syntax{})
	assert.Equal(t, 0, len(rules))
	assert.Equal(t, []Span(nil), Block(rules, "def f(): pass"))
	assert.Equal(t, []Segment{{Text: "def f(): pass"}}, Line(rules, "def f(): pass"))
}

func TestKeywordsOnly(t *testing.T) {
	rules := mustCompile(t, python)
	text := "def f(): pass"

	spans := Block(rules, text)
	assert.Equal(t, []string{"def", "pass"}, styled(text, spans, Keyword))
	assert.Equal(t, []Span{
		{Start: 0, End: 3, Style: Keyword},
		{Start: 9, End: 13, Style: Keyword},
	}, spans)

	assert.Equal(t, []Segment{
		{Text: "def", Style: Keyword},
		{Text: " f(): ", Style: None},
		{Text: "pass", Style: Keyword},
	}, Line(rules, text))
}

func TestKeywordBoundaries(t *testing.T) {
	rules := mustCompile(t, python)
	text := "define passage classy_if if"

	assert.Equal(t, []string{"if"}, styled(text, Block(rules, text), Keyword))
}

func TestLastRuleWins(t *testing.T) {
	rules := mustCompile(t, python)

	t.Run("comment over keyword", func(t *testing.T) {
		text := "x = 1 # def later"
		spans := Block(rules, text)
		assert.Equal(t, []string{"# def later"}, styled(text, spans, Comment))
		assert.Equal(t, []string(nil), styled(text, spans, Keyword))
	})

	t.Run("string over comment", func(t *testing.T) {
		text := `print("# not a comment")`
		spans := Block(rules, text)
		assert.Equal(t, []string{`"# not a comment"`}, styled(text, spans, String))
		// The comment match runs to the end of the line; only the part
		// the string rule repainted loses its comment style.
		assert.Equal(t, []string{")"}, styled(text, spans, Comment))
	})

	t.Run("string over keyword", func(t *testing.T) {
		text := `return 'pass'`
		spans := Block(rules, text)
		assert.Equal(t, []string{"return"}, styled(text, spans, Keyword))
		assert.Equal(t, []string{"'pass'"}, styled(text, spans, String))
	})
}

func TestStringEscapes(t *testing.T) {
	rules := mustCompile(t, python)
	text := `s = "a \"quoted\" word" + 'it\'s'`

	spans := Block(rules, text)
	assert.Equal(t, []string{`"a \"quoted\" word"`, `'it\'s'`}, styled(text, spans, String))
}

func TestUnterminatedString(t *testing.T) {
	rules := mustCompile(t, python)
	text := `x = "open`

	assert.Equal(t, []string(nil), styled(text, Block(rules, text), String))
}

func TestTextIsBlockLocal(t *testing.T) {
	rules := mustCompile(t, python)
	// The quote on line one must not pair with the quote on line two.
	lines := Text(rules, "a = \"one\r\ndef b\" # c")

	assert.Equal(t, 2, len(lines))
	assert.Equal(t, []Segment{{Text: `a = "one`}}, lines[0])
	assert.Equal(t, []Segment{
		{Text: "def", Style: Keyword},
		{Text: ` b" `},
		{Text: "# c", Style: Comment},
	}, lines[1])
}

func TestUnicodeSpans(t *testing.T) {
	rules := mustCompile(t, python)
	text := "héllo = 'wörld' # ünïcode"

	segs := Line(rules, text)
	var joined string
	for _, s := range segs {
		joined += s.Text
	}
	assert.Equal(t, text, joined)
	assert.Equal(t, []string{"'wörld'"}, styled(text, Block(rules, text), String))
}

func TestCustomLineComment(t *testing.T) {
	rules := mustCompile(t, Syntax{Keywords: []string{"func"}, LineComment: "//"})
	text := "func main() // entry"

	spans := Block(rules, text)
	assert.Equal(t, []string{"func"}, styled(text, spans, Keyword))
	assert.Equal(t, []string{"// entry"}, styled(text, spans, Comment))
}

func TestStyleString(t *testing.T) {
	assert.Equal(t, "keyword", Keyword.String())
	assert.Equal(t, "comment", Comment.String())
	assert.Equal(t, "string", String.String())
	assert.Equal(t, "none", None.String())
}
