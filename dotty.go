package bptree

import (
	"fmt"
	"io"
	"strings"
)

// WriteDot outputs the internal structure of a tree in Graphviz DOT format
// (for debugging purposes). Tree edges are solid, leaf chain links dashed.
func (t *Tree[K, V]) WriteDot(w io.Writer) error {
	var b strings.Builder
	b.WriteString("strict digraph {\n")
	b.WriteString("\tnode [fontname=Arial,fontsize=12,shape=record];\n")
	var nodelist, edgelist, chainlist strings.Builder
	level := []nodeID{t.root}
	for len(level) > 0 {
		var next []nodeID
		for _, id := range level {
			n := t.node(id)
			fmt.Fprintf(&nodelist, "\t\"%d\" [label=\"%s\" %s];\n", id, dotLabel(n.keys), nodeDotStyles(n.leaf))
			for _, child := range n.children {
				fmt.Fprintf(&edgelist, "\t\"%d\" -> \"%d\";\n", id, child)
			}
			if n.leaf && n.right != noNode {
				fmt.Fprintf(&chainlist, "\t\"%d\" -> \"%d\" [style=dashed,constraint=false];\n", id, n.right)
			}
			next = append(next, n.children...)
		}
		level = next
	}
	b.WriteString(nodelist.String())
	b.WriteString(edgelist.String())
	b.WriteString(chainlist.String())
	b.WriteString("}\n")
	_, err := io.WriteString(w, b.String())
	if err != nil {
		T().Errorf("tree DOT: %s", err.Error())
	}
	return err
}

// recordEscaper quotes characters with a special meaning in record labels.
var recordEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "|", `\|`, "{", `\{`, "}", `\}`, "<", `\<`, ">", `\>`)

func dotLabel[K any](keys []K) string {
	if len(keys) == 0 {
		return "∅"
	}
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = recordEscaper.Replace(fmt.Sprint(k))
	}
	return strings.Join(parts, "|")
}

func nodeDotStyles(isleaf bool) string {
	s := ",style=filled"
	if isleaf {
		s += ",fillcolor=\"#a3d7e4\""
	} else {
		s += ",color=black,fillcolor=white"
	}
	return s
}
