package netsuite

import (
	"strings"

	"github.com/rotisserie/eris"
)

// Query is a SuiteQL statement with positional string parameters. The
// statement text uses ? placeholders; parameters are substituted as
// escaped single-quoted literals at render time. Caller input never
// reaches the statement text directly.
type Query struct {
	text string
	args []string
}

// NewQuery creates a parameterized SuiteQL query.
func NewQuery(text string, args ...string) Query {
	return Query{text: text, args: args}
}

// Render expands placeholders into safely quoted literals. It fails when
// the placeholder and argument counts disagree rather than sending a
// partially bound statement to the API.
func (q Query) Render() (string, error) {
	n := strings.Count(q.text, "?")
	if n != len(q.args) {
		return "", eris.Errorf("netsuite: query has %d placeholders, %d args", n, len(q.args))
	}

	var b strings.Builder
	b.Grow(len(q.text) + 16*len(q.args))
	next := 0
	for i := 0; i < len(q.text); i++ {
		if q.text[i] == '?' {
			b.WriteString(quoteLiteral(q.args[next]))
			next++
			continue
		}
		b.WriteByte(q.text[i])
	}
	return b.String(), nil
}

// quoteLiteral wraps s in single quotes for SuiteQL, doubling embedded
// quotes and dropping control characters.
func quoteLiteral(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('\'')
	for _, r := range s {
		if r < 0x20 || r == 0x7f {
			continue
		}
		if r == '\'' {
			b.WriteString("''")
			continue
		}
		b.WriteRune(r)
	}
	b.WriteByte('\'')
	return b.String()
}
