package main

import (
	"fmt"
	"io"

	"ablpp/internal/driver"
)

func printTimings(out io.Writer, res *driver.Result) {
	if out == nil || res == nil || res.Timing == nil {
		return
	}
	fmt.Fprintf(out, "%s: %.1f ms", res.Path, res.Timing.TotalMS)
	if res.Cached {
		fmt.Fprint(out, " (cached)")
	}
	fmt.Fprintln(out)
	for _, p := range res.Timing.Phases {
		if p.Note != "" {
			fmt.Fprintf(out, "  %-12s %8.1f ms  // %s\n", p.Name, p.DurationMS, p.Note)
			continue
		}
		fmt.Fprintf(out, "  %-12s %8.1f ms\n", p.Name, p.DurationMS)
	}
}
