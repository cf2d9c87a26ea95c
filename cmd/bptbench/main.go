// Command bptbench loads a list of integer keys into a B+ tree and runs a
// batch of operations against it, printing timings. It can also print the
// resulting tree or export it in Graphviz DOT format.
package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/carlmjohnson/versioninfo"
	"github.com/npillmayer/bptree"
	"github.com/npillmayer/bptree/console"
	"github.com/npillmayer/bptree/keyfile"
	"github.com/npillmayer/bptree/observe"
	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/urfave/cli/v2"
)

func main() {
	newApp().RunAndExitOnError()
}

func newApp() *cli.App {
	app := &cli.App{
		Name:    "bptbench",
		Usage:   "load keys into a B+ tree and exercise it",
		Version: versioninfo.Short(),
	}
	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:     "keys",
			Aliases:  []string{"k"},
			Usage:    "path of a comma separated key file",
			Required: true,
			EnvVars:  []string{"BPT_KEYS"},
		},
		&cli.IntFlag{
			Name:    "order",
			Aliases: []string{"o"},
			Usage:   "maximum number of keys per node",
			Value:   24,
			EnvVars: []string{"BPT_ORDER"},
		},
		&cli.StringFlag{
			Name:    "trace",
			Usage:   "trace level (error, info, debug)",
			Value:   "error",
			EnvVars: []string{"BPT_TRACE"},
		},
		&cli.BoolFlag{
			Name:  "events",
			Usage: "trace every structural event of the tree",
		},
	}
	app.Before = setupTracing
	app.Commands = []*cli.Command{
		{
			Name:   "run",
			Usage:  "bulk load the keys, then run a batch of operations",
			Action: runBatch,
			Flags: []cli.Flag{
				&cli.IntSliceFlag{
					Name:  "delete",
					Usage: "keys to delete before inserting",
					Value: cli.NewIntSlice(156680, 131133),
				},
				&cli.IntSliceFlag{
					Name:  "insert",
					Usage: "keys to insert",
					Value: cli.NewIntSlice(140304, 156700, 160022),
				},
				&cli.IntSliceFlag{
					Name:  "delete-after",
					Usage: "keys to delete after inserting",
					Value: cli.NewIntSlice(180976, 106289),
				},
				&cli.IntSliceFlag{
					Name:  "search",
					Usage: "keys to search for",
					Value: cli.NewIntSlice(158644, 122427, 177197, 194358, 158181),
				},
				&cli.IntSliceFlag{
					Name:  "range",
					Usage: "bounds of the range search, lo and hi",
					Value: cli.NewIntSlice(112000, 113000),
				},
				&cli.BoolFlag{
					Name:  "metrics",
					Usage: "print event counters after the run",
				},
				&cli.BoolFlag{
					Name:  "stream",
					Usage: "subscribe to the event stream and print a summary per event kind",
				},
				&cli.BoolFlag{
					Name:  "check",
					Usage: "verify the tree's invariants after the run",
				},
			},
		},
		{
			Name:   "print",
			Usage:  "bulk load the keys and print the tree level by level",
			Action: runPrint,
		},
		{
			Name:   "dot",
			Usage:  "bulk load the keys and write the tree in Graphviz DOT format",
			Action: runDot,
		},
	}
	return app
}

// record is the payload stored for every key.
type record struct {
	ID int
}

func setupTracing(cctx *cli.Context) error {
	gtrace.CoreTracer = gologadapter.New()
	switch strings.ToLower(cctx.String("trace")) {
	case "error":
		gtrace.CoreTracer.SetTraceLevel(tracing.LevelError)
	case "info":
		gtrace.CoreTracer.SetTraceLevel(tracing.LevelInfo)
	case "debug":
		gtrace.CoreTracer.SetTraceLevel(tracing.LevelDebug)
	default:
		return fmt.Errorf("unknown trace level %q", cctx.String("trace"))
	}
	return nil
}

// buildTree loads the key file and inserts every key. Additional observers
// are notified of structural events, together with the tracing observer if
// --events is set.
func buildTree(cctx *cli.Context, observers ...bptree.Observer[int]) (*bptree.Tree[int, record], time.Duration, error) {
	keys, err := keyfile.Load(cctx.String("keys"))
	if err != nil {
		return nil, 0, err
	}
	if cctx.Bool("events") {
		observers = append(observers, observe.NewTracer[int](nil))
	}
	tree, err := bptree.New[int, record](bptree.Config[int]{
		Order:    cctx.Int("order"),
		Observer: observe.Tee(observers...),
	})
	if err != nil {
		return nil, 0, err
	}
	start := time.Now()
	for _, k := range keys {
		tree.Insert(k, record{ID: k})
	}
	return tree, time.Since(start), nil
}

func runBatch(cctx *cli.Context) error {
	bounds := cctx.IntSlice("range")
	if len(bounds) != 2 {
		return fmt.Errorf("range needs exactly two bounds, have %d", len(bounds))
	}
	reg := prometheus.NewRegistry()
	var observers []bptree.Observer[int]
	if cctx.Bool("metrics") {
		observers = append(observers, observe.NewMetrics[int](reg, "bptree"))
	}
	var tally *eventTally
	if cctx.Bool("stream") {
		ctx, cancel := context.WithCancel(cctx.Context)
		defer cancel()
		b := observe.NewBroadcaster[int](ctx)
		if tally = subscribeTally(ctx, b); tally == nil {
			return fmt.Errorf("cannot subscribe to event stream")
		}
		observers = append(observers, b)
	}
	tree, loadTime, err := buildTree(cctx, observers...)
	if err != nil {
		return err
	}
	out, loaded := cctx.App.Writer, tree.Len()
	fmt.Fprintf(out, "loaded %d keys into tree of order %d, height %d\n", tree.Len(), tree.Order(), tree.Height())

	start := time.Now()
	for _, k := range cctx.IntSlice("delete") {
		reportDelete(out, k, tree.Delete(k))
	}
	for _, k := range cctx.IntSlice("insert") {
		tree.Insert(k, record{ID: k})
	}
	for _, k := range cctx.IntSlice("delete-after") {
		reportDelete(out, k, tree.Delete(k))
	}
	for _, k := range cctx.IntSlice("search") {
		if r, ok := tree.Search(k); ok {
			fmt.Fprintf(out, "search %d: found record %d\n", k, r.ID)
		} else {
			fmt.Fprintf(out, "search %d: not found\n", k)
		}
	}
	found := tree.RangeSearch(bounds[0], bounds[1])
	fmt.Fprintf(out, "range [%d, %d]: %d records\n", bounds[0], bounds[1], len(found))
	batchTime := time.Since(start)

	fmt.Fprintf(out, "time to insert %d records: %v\n", loaded, loadTime)
	fmt.Fprintf(out, "time for additional operations: %v\n", batchTime)
	if tally != nil {
		tally.print(out)
	}
	if cctx.Bool("check") {
		if err := tree.Check(); err != nil {
			return err
		}
		fmt.Fprintln(out, "tree invariants hold")
	}
	if cctx.Bool("metrics") {
		return dumpMetrics(out, reg)
	}
	return nil
}

// eventTally counts the events received from a broadcaster subscription.
type eventTally struct {
	counts map[bptree.EventKind]int
	done   chan struct{}
	b      *observe.Broadcaster[int]
}

func subscribeTally(ctx context.Context, b *observe.Broadcaster[int]) *eventTally {
	ch, ok := b.Subscribe(ctx, 1024)
	if !ok {
		return nil
	}
	tally := &eventTally{
		counts: make(map[bptree.EventKind]int),
		done:   make(chan struct{}),
		b:      b,
	}
	go func() {
		defer close(tally.done)
		for e := range ch {
			tally.counts[e.Kind]++
		}
	}()
	return tally
}

// print closes the subscription, waits for outstanding events and prints
// the counts.
func (tally *eventTally) print(out io.Writer) {
	tally.b.Close()
	<-tally.done
	for k := bptree.EventSplit; k <= bptree.EventNotFound; k++ {
		fmt.Fprintf(out, "%-14s %d\n", k.String()+":", tally.counts[k])
	}
}

func reportDelete(out io.Writer, key int, found bool) {
	if !found {
		fmt.Fprintf(out, "delete %d: not found\n", key)
	}
}

func dumpMetrics(out io.Writer, reg *prometheus.Registry) error {
	families, err := reg.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(out, mf); err != nil {
			return err
		}
	}
	return nil
}

func runPrint(cctx *cli.Context) error {
	tree, _, err := buildTree(cctx)
	if err != nil {
		return err
	}
	return console.Print(console.NewPrinter(cctx.App.Writer, nil), tree)
}

func runDot(cctx *cli.Context) error {
	tree, _, err := buildTree(cctx)
	if err != nil {
		return err
	}
	return tree.WriteDot(cctx.App.Writer)
}
