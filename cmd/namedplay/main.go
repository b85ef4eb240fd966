// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// namedplay is a playground for named-axes tensors: it builds the tensor A over foo×bar with
// A[foo(i), bar(j)] = (i+1)(j+1), and prints it along with a few operations on it.
//
// With -attention it also evaluates the attention function on small random-looking inputs and prints
// its definition in LaTeX. With -bench=N it times N evaluations of the attention function.
//
// Usage:
//
//	namedplay -format=table -foo=3 -reduce=foo,bar -attention
package main

import (
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gomlx/exceptions"
	"github.com/gomlx/namedtensors/pkg/core/axes"
	"github.com/gomlx/namedtensors/pkg/core/shapes"
	"github.com/gomlx/namedtensors/pkg/core/tensorize"
	"github.com/gomlx/namedtensors/pkg/core/tensors"
	"github.com/gomlx/namedtensors/pkg/latex"
	"github.com/gomlx/namedtensors/pkg/support/xslices"
	"github.com/gomlx/namedtensors/ui/commandline"
	"github.com/janpfeifer/must"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

var kinds = axes.Setup("foo", "bar", "baz", "key", "seq", "val", "query")

var (
	foo, bar             = kinds[0], kinds[1]
	key, seq, val, query = kinds[3], kinds[4], kinds[5], kinds[6]
)

// Sizes of the attention example.
const (
	attentionSeq    = 6
	keyDim          = 4
	attentionValDim = 3
)

var (
	flagFormat = flag.String("format", string(commandline.FormatText),
		fmt.Sprintf("Output format, one of %q.", commandline.Formats))
	flagFoo = flag.Int("foo", 4, "Size of the foo axis of A.")
	flagBar = flag.Int("bar", 5, "Size of the bar axis of A.")

	flagReduce = xslices.Flag("reduce", []axes.Kind{foo},
		"Comma-separated list of axes over which to apply Sum and Softmax to A.", parseAxis)

	flagAttention = flag.Bool("attention", false,
		"Evaluates the attention function, and prints its definition in LaTeX.")
	flagQueries = flag.Int("queries", 2, "Number of queries in the attention example.")
	flagBench   = flag.Int("bench", 0,
		"If > 0, times this number of evaluations of the attention function, displaying a progress bar.")
)

func parseAxis(name string) (axes.Kind, error) {
	kind, found := axes.Lookup(name)
	if !found {
		return axes.Kind{}, errors.Errorf("unknown axis %q, known axes are %q", name, axes.Names())
	}
	return kind, nil
}

func main() {
	klog.InitFlags(nil)
	flag.Parse()

	format, err := commandline.ParseFormat(*flagFormat)
	if err != nil {
		klog.Errorf("Invalid -format: %v", err)
		os.Exit(1)
	}
	if err := run(os.Stdout, format); err != nil {
		klog.Errorf("namedplay failed: %+v", err)
		os.Exit(1)
	}
	if *flagBench > 0 {
		bench(os.Stdout, *flagBench)
	}
}

// run prints the demo tensors. Errors raised by the tensor operations are returned.
func run(w io.Writer, format commandline.Format) error {
	return exceptions.TryCatch[error](func() {
		display := func(title string, t *tensors.Tensor) {
			must.M(commandline.Fprint(w, format, title, t))
		}

		a := tensors.Zeros(shapes.Make(foo.Of(*flagFoo), bar.Of(*flagBar)))
		for _, i := range a.Range(foo) {
			for _, j := range a.Range(bar) {
				a.Set(float64((i.Value()+1)*(j.Value()+1)), i, j)
			}
		}
		_, _ = fmt.Fprintf(w, "A has shape %s, with %s entries.\n\n", a.Shape(), humanize.Comma(int64(a.Size())))
		display("A", a)
		b := tensors.FromScalar(5)
		display("B[foo(2), bar(3)]", b.Get(foo.At(2), bar.At(3)))
		display("3 + B", b.AddScalar(3))
		display("A + B", a.Add(b))
		display("A[foo(2)]", a.Get(foo.At(2)))
		for _, kind := range *flagReduce {
			display(fmt.Sprintf("Sum(%s, A)", kind), tensorize.Sum(kind, a))
			display(fmt.Sprintf("Softmax(%s, A)", kind), tensorize.Softmax(kind, a))
		}

		if *flagAttention {
			q, k, v := attentionInputs()
			display("Q", q)
			display("Att(Q, K, V)", tensorize.Attention(key, seq, val, q, k, v))
			decl := latex.AttentionDecl(key, seq, val)
			_, _ = fmt.Fprintf(w, "%s:\n%s\n", decl.Template.Signature(), must.M1(latex.Function(decl)))
		}
	})
}

// attentionInputs returns the queries over (query, key), the keys over (seq, key) and the values over (seq, val).
func attentionInputs() (q, k, v *tensors.Tensor) {
	q = tensors.FromFunc(shapes.Make(query.Of(*flagQueries), key.Of(keyDim)), func(indices []axes.Index) float64 {
		// Sorted: key, query.
		return math.Sin(float64(1 + indices[0].Value() + 7*indices[1].Value()))
	})
	k = tensors.FromFunc(shapes.Make(seq.Of(attentionSeq), key.Of(keyDim)), func(indices []axes.Index) float64 {
		// Sorted: key, seq.
		return math.Cos(float64(indices[0].Value() * (indices[1].Value() + 1)))
	})
	v = tensors.FromFunc(shapes.Make(seq.Of(attentionSeq), val.Of(attentionValDim)), func(indices []axes.Index) float64 {
		// Sorted: seq, val.
		return float64(indices[0].Value()) + float64(indices[1].Value())/10
	})
	return
}

// bench times numRuns evaluations of the attention function.
func bench(w io.Writer, numRuns int) {
	q, k, v := attentionInputs()
	durations := make([]time.Duration, 0, numRuns)
	pBar := commandline.NewProgressBar(numRuns, "runs",
		func() (string, string) {
			return "Median duration", commandline.FormatDuration(commandline.MedianDuration(durations))
		})
	for range numRuns {
		start := time.Now()
		tensorize.Attention(key, seq, val, q, k, v)
		durations = append(durations, time.Since(start))
		pBar.Add(1)
	}
	pBar.Done()
	_, _ = fmt.Fprintf(w, "Attention of %s queries over %s positions: median %s per run.\n",
		humanize.Comma(int64(*flagQueries)), humanize.Comma(int64(attentionSeq)),
		commandline.FormatDuration(commandline.MedianDuration(durations)))
}
