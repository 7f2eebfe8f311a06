// cmd/preflight/main.go
package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

func main() {
	fail := func(msg string) {
		fmt.Fprintln(os.Stderr, "✖", msg)
		os.Exit(1)
	}
	warn := func(msg string) { fmt.Fprintln(os.Stderr, "⚠", msg) }
	ok := func(msg string) { fmt.Println("✔", msg) }

	addr := strings.TrimSpace(os.Getenv("ADDR"))
	db := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	sqlitePath := strings.TrimSpace(os.Getenv("SQLITE_PATH"))
	targetsFile := strings.TrimSpace(os.Getenv("TARGETS_FILE"))
	threshold := strings.TrimSpace(os.Getenv("CONFIRMATION_THRESHOLD"))
	interval := strings.TrimSpace(os.Getenv("FAST_INTERVAL_MS"))

	if threshold != "" {
		n, err := strconv.Atoi(threshold)
		if err != nil || n < 1 {
			fail("CONFIRMATION_THRESHOLD must be a positive integer, got " + threshold)
		}
		ok("CONFIRMATION_THRESHOLD=" + threshold)
	}

	if interval != "" {
		ms, err := strconv.Atoi(interval)
		if err != nil || ms < 1 {
			fail("FAST_INTERVAL_MS must be a positive integer, got " + interval)
		}
		if ms < 100 {
			warn("FAST_INTERVAL_MS under 100ms will hammer the resolvers")
		}
	}

	if addr == "" {
		warn("ADDR is empty; default in your app may be used.")
	} else {
		ok("ADDR=" + addr)
	}

	if db == "" && sqlitePath == "" {
		warn("DATABASE_URL and SQLITE_PATH both empty — outages queryable in memory only; the plaintext log still records them.")
	} else if db != "" {
		ok("DATABASE_URL present")
	} else {
		ok("SQLITE_PATH=" + sqlitePath)
	}

	if targetsFile != "" {
		if _, err := os.Stat(targetsFile); err != nil {
			fail("TARGETS_FILE points at a missing file: " + targetsFile)
		}
		ok("TARGETS_FILE=" + targetsFile)
	} else {
		warn("TARGETS_FILE empty — built-in public resolver/ping/web targets will be used.")
	}

	ok("preflight passed")
}
