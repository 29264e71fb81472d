package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/stealthrocket/coro"
)

const usage = `
corodemo runs the reference coroutine scenarios.

USAGE:
  corodemo [OPTIONS] SCENARIO

SCENARIOS:
  generator   yield start, start+1, ... from a generator
  pingpong    exchange values between a producer and a consumer coroutine
  symmetric   transfer control around a chain of three symmetric peers
  soak        bounce between two peers and main for many hops

OPTIONS:
  -start N      Generator start value (default 10)
  -count N      Number of values to produce (default 6)
  -hops N       Number of transfers in the soak scenario (default 10000)
  -parallel N   Number of groups running the soak scenario concurrently (default 1)
  -h, --help    Show this help information
  -v, --version Show the program version
`

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", formatError(err))
		os.Exit(1)
	}
}

func run() error {
	flag.Usage = func() { println(usage[1:]) }

	var (
		cfg         config
		showVersion bool
	)
	flag.IntVar(&cfg.start, "start", 10, "")
	flag.IntVar(&cfg.count, "count", 6, "")
	flag.IntVar(&cfg.hops, "hops", 10000, "")
	flag.IntVar(&cfg.parallel, "parallel", 1, "")
	flag.BoolVar(&showVersion, "v", false, "")
	flag.BoolVar(&showVersion, "version", false, "")
	flag.Parse()

	if showVersion {
		fmt.Println(version())
		return nil
	}

	name := flag.Arg(0)
	if name == "" {
		flag.Usage()
		return fmt.Errorf("missing scenario")
	}
	if err := cfg.validate(); err != nil {
		return err
	}

	s, ok := scenarios[name]
	if !ok {
		return fmt.Errorf("unknown scenario: %q", name)
	}
	return s(os.Stdout, cfg)
}

// formatError appends the stacks of the panics wrapped by err, if any.
func formatError(err error) string {
	var pe *coro.PanicError
	if !errors.As(err, &pe) {
		return err.Error()
	}
	return err.Error() + "\n\n" + pe.DebugString()
}

func version() (version string) {
	version = "devel"
	if info, ok := debug.ReadBuildInfo(); ok {
		switch info.Main.Version {
		case "":
		case "(devel)":
		default:
			version = info.Main.Version
		}
		for _, setting := range info.Settings {
			if setting.Key == "vcs.revision" {
				version += " " + setting.Value
			}
		}
	}
	return
}
