package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/pflag"

	"github.com/hamed0406/netwatch/internal/domain"
)

func main() {
	var (
		api   = pflag.String("api", "", "netwatch API base URL (default $API_BASE or http://localhost:8080)")
		limit = pflag.Int("limit", 20, "number of outages to show")
	)
	pflag.Parse()

	base := *api
	if base == "" {
		base = os.Getenv("API_BASE")
	}
	if base == "" {
		base = "http://localhost:8080"
	}

	resp, err := http.Get(fmt.Sprintf("%s/api/outages?limit=%d", base, *limit))
	if err != nil {
		fmt.Fprintln(os.Stderr, "error contacting API:", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		fmt.Fprintln(os.Stderr, "API returned status:", resp.Status)
		os.Exit(1)
	}

	var outages []domain.Outage
	if err := json.NewDecoder(resp.Body).Decode(&outages); err != nil {
		fmt.Fprintln(os.Stderr, "bad API payload:", err)
		os.Exit(1)
	}

	if len(outages) == 0 {
		fmt.Println("no recorded outages")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "STARTED\tENDED\tDURATION\t")
	for _, o := range outages {
		dur := time.Duration(o.DurationSeconds * float64(time.Second)).Round(time.Second)
		line := fmt.Sprintf("%s\t%s\t%s\t",
			o.StartedAt.Local().Format(time.RFC3339),
			o.EndedAt.Local().Format(time.RFC3339),
			dur,
		)
		if o.Unresolved {
			line += "(unresolved)"
		}
		fmt.Fprintln(w, line)
	}
	w.Flush()
}
