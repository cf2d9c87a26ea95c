package console

import (
	"cmp"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/npillmayer/bptree"
	"github.com/npillmayer/uax/grapheme"
	"github.com/npillmayer/uax/uax11"
	"golang.org/x/term"
)

// Config holds the parameters for printing a tree.
type Config struct {
	LineWidth int            // wrap lines exceeding this many ens
	Context   *uax11.Context // width context; nil selects uax11.LatinContext
	Levels    []*color.Color // colors for internal levels, used round robin; may be empty
	Leaves    *color.Color   // color for the leaf level; may be nil
}

// DefaultPalette returns the level colors used by ConfigFromTerminal.
func DefaultPalette() ([]*color.Color, *color.Color) {
	return []*color.Color{
		color.New(color.FgBlue),
		color.New(color.FgMagenta),
	}, color.New(color.FgGreen)
}

// ConfigFromTerminal creates a Config for stdout. If stdout is a terminal,
// the line width is derived from the terminal's width, otherwise it is 80 ens.
func ConfigFromTerminal() *Config {
	config := &Config{LineWidth: 80}
	fd := int(os.Stdout.Fd())
	if term.IsTerminal(fd) {
		if w, _, err := term.GetSize(fd); err == nil {
			switch {
			case w > 40:
				config.LineWidth = w - 2
			case w > 10:
				config.LineWidth = w
			default:
				config.LineWidth = 10
			}
		}
	}
	config.Context = uax11.ContextFromEnvironment()
	config.Levels, config.Leaves = DefaultPalette()
	tracer().P("format", "console").Debugf("setting line width to %d en", config.LineWidth)
	return config
}

// Printer writes trees to an output stream.
type Printer struct {
	out    io.Writer
	config Config
}

// NewPrinter creates a printer writing to out. If config is nil, a
// configuration for stdout is derived with ConfigFromTerminal.
func NewPrinter(out io.Writer, config *Config) *Printer {
	if config == nil {
		config = ConfigFromTerminal()
	}
	p := &Printer{out: out, config: *config}
	if p.config.Context == nil {
		p.config.Context = uax11.LatinContext
	}
	if p.config.LineWidth < 10 {
		p.config.LineWidth = 10
	}
	return p
}

// Print writes tree to p, one line per level. An empty tree prints as a
// single empty leaf.
func Print[K cmp.Ordered, V any](p *Printer, tree *bptree.Tree[K, V]) error {
	var err error
	depth, line := -1, &lineWriter{p: p}
	tree.Walk(func(n bptree.NodeInfo[K]) bool {
		if n.Depth != depth {
			if depth >= 0 {
				if err = line.end(); err != nil {
					return false
				}
			}
			depth = n.Depth
			line.start(fmt.Sprintf("%2d: ", depth), p.levelColor(depth, n.Leaf))
		}
		err = line.node(nodeLabel(n.Keys))
		return err == nil
	})
	if err == nil && depth >= 0 {
		err = line.end()
	}
	return err
}

func (p *Printer) levelColor(depth int, leaf bool) *color.Color {
	if leaf {
		return p.config.Leaves
	}
	if len(p.config.Levels) == 0 {
		return nil
	}
	return p.config.Levels[depth%len(p.config.Levels)]
}

func nodeLabel[K any](keys []K) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprint(&b, k)
	}
	b.WriteByte(']')
	return b.String()
}

// --- Line wrapping ---------------------------------------------------------

// lineWriter fills lines with node labels, first fit.
type lineWriter struct {
	p      *Printer
	prefix string
	indent int // width of prefix
	col    int // ens already printed on the current line
	c      *color.Color
	err    error
}

func (lw *lineWriter) start(prefix string, c *color.Color) {
	lw.prefix, lw.c = prefix, c
	lw.indent = lw.width(prefix)
	lw.write(prefix)
	lw.col = lw.indent
}

func (lw *lineWriter) node(label string) error {
	w := lw.width(label)
	if lw.col > lw.indent {
		if lw.col+1+w > lw.p.config.LineWidth {
			lw.write("\n" + strings.Repeat(" ", lw.indent))
			lw.col = lw.indent
		} else {
			lw.write(" ")
			lw.col++
		}
	}
	if lw.c != nil {
		if _, err := lw.c.Fprint(lw.p.out, label); err != nil && lw.err == nil {
			lw.err = err
		}
	} else {
		lw.write(label)
	}
	lw.col += w
	return lw.err
}

func (lw *lineWriter) end() error {
	lw.write("\n")
	lw.col = 0
	return lw.err
}

func (lw *lineWriter) write(s string) {
	if lw.err != nil {
		return
	}
	_, lw.err = io.WriteString(lw.p.out, s)
}

func (lw *lineWriter) width(s string) int {
	return displayWidth(s, lw.p.config.Context)
}

// displayWidth measures s in ens. Printable ASCII is one en per byte; uax11
// would count digits as emoji keycap bases.
func displayWidth(s string, context *uax11.Context) int {
	if isPrintableASCII(s) {
		return len(s)
	}
	return uax11.StringWidth(grapheme.StringFromString(s), context)
}

func isPrintableASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 0x20 || s[i] > 0x7e {
			return false
		}
	}
	return true
}
