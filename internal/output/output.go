// Package output drives the CLI's single animated status line while a
// phase of the index run is in progress. It wraps a single synchronous
// phase, since the driver has no parallel task count to report.
package output

import (
	"fmt"
	"time"

	"github.com/efritz/pentimento"
)

type Options struct {
	Verbosity      Verbosity
	ShowAnimations bool
}

type Verbosity int

const (
	NoOutput Verbosity = iota
	DefaultOutput
	VerboseOutput
)

var updateInterval = time.Second / 4

var ticker = pentimento.NewAnimatedString([]string{
	"⠸", "⠼",
	"⠴", "⠦",
	"⠧", "⠇",
	"⠏", "⠋",
	"⠙", "⠹",
}, updateInterval)

const successPrefix = "✔"

// WithProgress runs fn under the given title, animating a spinner while it
// runs unless verbosity or options say otherwise.
func WithProgress(name string, fn func(), opts Options) {
	if opts.Verbosity == NoOutput {
		fn()
		return
	}
	if !opts.ShowAnimations {
		withTitleStatic(name, opts.Verbosity, fn)
		return
	}
	withTitleAnimated(name, opts.Verbosity, fn)
}

func withTitleStatic(name string, verbosity Verbosity, fn func()) {
	start := time.Now()
	fmt.Printf("%s\n", name)
	fn()

	if verbosity > DefaultOutput {
		fmt.Printf("Finished in %s.\n\n", humanElapsed(start))
	}
}

func withTitleAnimated(name string, verbosity Verbosity, fn func()) {
	start := time.Now()
	fmt.Printf("%s %s... ", ticker, name)

	done := make(chan struct{})
	go func() {
		defer close(done)
		fn()
	}()

	_ = pentimento.PrintProgress(func(printer *pentimento.Printer) error {
		defer func() { _ = printer.Reset() }()

		for {
			select {
			case <-done:
				return nil
			case <-time.After(updateInterval):
				content := pentimento.NewContent()
				content.AddLine("%s %s...", ticker, name)
				printer.WriteContent(content)
			}
		}
	})

	if verbosity > DefaultOutput {
		fmt.Printf("%s %s... Done (%s)\n", successPrefix, name, humanElapsed(start))
	} else {
		fmt.Printf("%s %s... Done\n", successPrefix, name)
	}
}

var durationUnits = []time.Duration{
	time.Nanosecond,
	time.Microsecond,
	time.Millisecond,
	time.Second,
	time.Minute,
	time.Hour,
}

// humanElapsed truncates the time since start to a resolution that keeps the
// printed duration short (e.g. 725.80ms rather than 725.803271ms).
func humanElapsed(start time.Time) time.Duration {
	elapsed := time.Since(start)

	i := 0
	for i < len(durationUnits) && elapsed >= durationUnits[i] {
		i++
	}
	if i < 2 {
		return elapsed
	}

	resolution := durationUnits[i-2]
	if (durationUnits[i-1] / durationUnits[i-2]) > 100 {
		resolution *= 10
	}
	return elapsed.Truncate(resolution)
}
