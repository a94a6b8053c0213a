// Command sws is a small HTTP/1.0-style static file server whose
// distinguishing engineering content is its pluggable request scheduler
// (see package github.com/joeycumines/sws/scheduler). This file implements
// only the non-goals explicitly carved out of the scheduler core by
// spec.md §1: command-line parsing and process wiring.
package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joeycumines/sws/internal/admitlimit"
	"github.com/joeycumines/sws/internal/netio"
	"github.com/joeycumines/sws/internal/obs"
	"github.com/joeycumines/sws/internal/stats"
	"github.com/joeycumines/sws/scheduler"
)

func usage() {
	fmt.Println("usage: sws <port> <scheduler> <thread_count> [rate:<n>/<window>]")
	fmt.Println("   scheduler: [SJF|RR|MLQF]")
	os.Exit(1)
}

func main() {
	if len(os.Args) < 4 {
		fmt.Println("incorrect number of parameters")
		usage()
	}

	port, err := strconv.Atoi(os.Args[1])
	if err != nil {
		fmt.Println("port must be numerical")
		usage()
	}

	schedName := scheduler.Name(os.Args[2])

	threadCount, err := strconv.Atoi(os.Args[3])
	if err != nil || threadCount < 1 {
		fmt.Println("thread_count must be a positive integer")
		usage()
	}

	logger := obs.New(os.Stderr)

	var opts []scheduler.Option

	statsAgg := stats.NewAggregator(logger)
	opts = append(opts, scheduler.WithCompletionObserver(statsAgg))
	opts = append(opts, scheduler.WithErrorLogger(logger))

	if len(os.Args) > 4 {
		rate, err := parseRateSpec(os.Args[4])
		if err != nil {
			logger.Fatal("invalid rate spec", err)
		}
		opts = append(opts, scheduler.WithRateLimiter(admitlimit.New(rate)))
	}

	s, err := scheduler.New(schedName, opts...)
	if err != nil {
		logger.Fatal("scheduler init failed", err)
	}

	for i := 0; i < threadCount; i++ {
		go scheduler.Worker(s)
	}

	addr := fmt.Sprintf(":%d", port)
	if err := netio.Serve(addr, s.Admit); err != nil {
		logger.Fatal("listen failed", err)
	}
}

// parseRateSpec parses "rate:<n>/<window>", e.g. "rate:10/1s", into the
// map[time.Duration]int shape required by catrate.NewLimiter (via
// internal/admitlimit).
func parseRateSpec(spec string) (map[time.Duration]int, error) {
	const prefix = "rate:"
	if !strings.HasPrefix(spec, prefix) {
		return nil, fmt.Errorf("rate spec must start with %q", prefix)
	}
	body := strings.TrimPrefix(spec, prefix)

	count, window, ok := strings.Cut(body, "/")
	if !ok {
		return nil, fmt.Errorf("rate spec must be <n>/<window>, got %q", body)
	}

	n, err := strconv.Atoi(count)
	if err != nil || n <= 0 {
		return nil, fmt.Errorf("rate count must be a positive integer, got %q", count)
	}

	d, err := time.ParseDuration(window)
	if err != nil || d <= 0 {
		return nil, fmt.Errorf("rate window must be a positive duration, got %q", window)
	}

	return map[time.Duration]int{d: n}, nil
}
