package textutil

import (
	"regexp"
	"strings"
)

// Rule rewrites every match of Pattern with Replacement. Replacement uses
// regexp.Expand syntax, so "$1" refers to the first capture group.
type Rule struct {
	Name        string
	Pattern     *regexp.Regexp
	Replacement string
}

// Strip builds a rule that deletes every match of expr.
func Strip(name, expr string) Rule {
	return Rule{Name: name, Pattern: regexp.MustCompile(expr)}
}

// Rewrite builds a rule that replaces every match of expr with repl.
func Rewrite(name, expr, repl string) Rule {
	return Rule{Name: name, Pattern: regexp.MustCompile(expr), Replacement: repl}
}

// StripLiteral builds a rule that deletes every occurrence of s.
func StripLiteral(name, s string) Rule {
	return Rule{Name: name, Pattern: regexp.MustCompile(regexp.QuoteMeta(s))}
}

// Pipeline is an ordered list of rules.
type Pipeline []Rule

// Apply runs each rule over s in order.
func (p Pipeline) Apply(s string) string {
	for _, rule := range p {
		if rule.Pattern == nil {
			continue
		}
		if rule.Replacement == "" {
			s = rule.Pattern.ReplaceAllLiteralString(s, "")
			continue
		}
		s = rule.Pattern.ReplaceAllString(s, rule.Replacement)
	}
	return s
}

// Names lists rule names in application order.
func (p Pipeline) Names() []string {
	names := make([]string, 0, len(p))
	for _, rule := range p {
		names = append(names, rule.Name)
	}
	return names
}

// AppendTokens writes each token followed by a single space to b and returns
// the number of tokens written.
func AppendTokens(b *strings.Builder, tokens []string) int {
	for _, tok := range tokens {
		b.WriteString(tok)
		b.WriteByte(' ')
	}
	return len(tokens)
}
