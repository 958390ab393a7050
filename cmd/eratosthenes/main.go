// Command eratosthenes prints the primes up to a bound, or their count,
// to standard output.
//
// Usage:
//
//	eratosthenes [flags] <bound>
//
// The bound is a decimal natural number of any size.
package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	flag "github.com/spf13/pflag"

	eratosthenes "github.com/vm6502q/Eratosthenes"
)

func main() {
	var (
		count        = flag.Bool("count", false, "print the number of primes instead of the primes themselves")
		segmented    = flag.Bool("segmented", false, "sieve in cache-sized windows (bounded memory for huge bounds)")
		trial        = flag.Bool("trial", false, "use serial trial division instead of the sieve")
		wheelOrder   = flag.Int("wheel", 3, "storage wheel order (number of excluded base primes)")
		segmentBytes = flag.Int64("segment-bytes", 2<<20, "per-window bit array size for --segmented")
		workers      = flag.Int("workers", 0, "marking worker count (0 = all CPUs)")
		memoryLimit  = flag.Int64("memory-limit", 0, "cap on sieve bit-array bytes (0 = unlimited)")
		jsonLogs     = flag.Bool("json", false, "emit logs as JSON")
		verbose      = flag.BoolP("verbose", "v", false, "enable debug logging")
	)
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] <bound>\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(2)
	}
	bound := flag.Arg(0)

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := eratosthenes.NewTextLogger(level)
	if *jsonLogs {
		logger = eratosthenes.NewJSONLogger(level)
	}

	gen, err := eratosthenes.New(
		eratosthenes.WithWheelOrder(*wheelOrder),
		eratosthenes.WithSegmentBytes(*segmentBytes),
		eratosthenes.WithParallelism(*workers),
		eratosthenes.WithMemoryLimit(*memoryLimit),
		eratosthenes.WithLogger(logger),
	)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer gen.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch {
	case *count && *segmented:
		n, err := gen.SegmentedCountDecimal(ctx, bound)
		exitOn(err)
		fmt.Println(n)
	case *count:
		n, err := gen.CountDecimal(ctx, bound)
		exitOn(err)
		fmt.Println(n)
	default:
		var primes []string
		switch {
		case *trial:
			primes, err = gen.TrialDivisionDecimal(ctx, bound)
		case *segmented:
			primes, err = gen.SegmentedSieveDecimal(ctx, bound)
		default:
			primes, err = gen.SieveDecimal(ctx, bound)
		}
		exitOn(err)

		w := bufio.NewWriter(os.Stdout)
		defer w.Flush()
		for _, p := range primes {
			fmt.Fprintln(w, p)
		}
	}
}

func exitOn(err error) {
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
