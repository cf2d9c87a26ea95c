package bptree

import (
	"strings"
	"testing"
)

func TestWriteDot(t *testing.T) {
	tree := makeTree(t, 3)
	insertKeys(tree, 10, 20, 30, 40, 50)
	var b strings.Builder
	if err := tree.WriteDot(&b); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	dot := b.String()
	if !strings.HasPrefix(dot, "strict digraph {") || !strings.HasSuffix(dot, "}\n") {
		t.Fatalf("not a DOT graph:\n%s", dot)
	}
	if !strings.Contains(dot, `label="10|20"`) {
		t.Fatalf("expected leaf record for 10|20:\n%s", dot)
	}
	if strings.Count(dot, "style=dashed") != 1 {
		t.Fatalf("expected one leaf chain link:\n%s", dot)
	}
}

func TestDotLabelEscapesRecordSyntax(t *testing.T) {
	if got := dotLabel([]string{"a|b", "{c}"}); got != `a\|b|\{c\}` {
		t.Fatalf("unexpected label %q", got)
	}
	if got := dotLabel([]string{`a\`, `"q"`}); got != `a\\|\"q\"` {
		t.Fatalf("unexpected label %q", got)
	}
	if got := dotLabel([]int(nil)); got != "∅" {
		t.Fatalf("unexpected empty label %q", got)
	}
}
