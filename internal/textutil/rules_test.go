package textutil

import (
	"reflect"
	"strings"
	"testing"
)

func TestPipelineOrderMatters(t *testing.T) {
	labelFirst := Pipeline{
		StripLiteral("label", "*MOT:"),
		Strip("colon", `[:]`),
	}
	if got := labelFirst.Apply("*MOT: hi"); got != " hi" {
		t.Fatalf("label first = %q", got)
	}

	colonFirst := Pipeline{
		Strip("colon", `[:]`),
		StripLiteral("label", "*MOT:"),
	}
	if got := colonFirst.Apply("*MOT: hi"); got != "*MOT hi" {
		t.Fatalf("colon first = %q", got)
	}
}

func TestRewriteExpandsGroups(t *testing.T) {
	p := Pipeline{Rewrite("compound", `(\w)\+\w+\|`, "$1")}
	if got := p.Apply("n|fire+n|truck"); got != "n|firetruck" {
		t.Fatalf("compound rewrite = %q", got)
	}
	if got := p.Apply("n|+n|fire+n|truck"); got != "n|+n|firetruck" {
		t.Fatalf("leading compound marker = %q", got)
	}
}

func TestNamesAndAppendTokens(t *testing.T) {
	p := Pipeline{Strip("a", "a"), Strip("b", "b")}
	if got := p.Names(); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Fatalf("Names = %v", got)
	}

	var b strings.Builder
	if n := AppendTokens(&b, []string{"the", "dog"}); n != 2 {
		t.Fatalf("AppendTokens count = %d", n)
	}
	if b.String() != "the dog " {
		t.Fatalf("AppendTokens text = %q", b.String())
	}
}
