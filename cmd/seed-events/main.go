// Command seed-events generates a synthetic calendar and submits it to a
// running backend through POST /api/v1/events/sync. Useful for exercising
// the sync path and populating a dev database.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
)

// Default configuration constants.
const (
	defaultNumEvents = 25
	defaultTimeout   = 30 * time.Second
	defaultSpanDays  = 7
)

type eventInput struct {
	SourceEventID string `json:"source_event_id"`
	Title         string `json:"title"`
	StartAt       string `json:"start_at"`
	EndAt         string `json:"end_at"`
	State         string `json:"state"`
	EventType     string `json:"event_type,omitempty"`
	Location      string `json:"location,omitempty"`
}

type syncRequest struct {
	Events []eventInput `json:"events"`
}

var titles = []string{
	"Team Sync", "1:1", "Design Review", "Sprint Planning", "Lunch",
	"Gym", "Dentist", "Coffee Chat", "Focus Block", "Retro",
}

var locations = []string{"", "Office", "Home", "Cafe Milano", "Room 4B"}

func main() {
	var (
		baseURL   = flag.String("url", "http://localhost:9080", "Base URL of the service")
		token     = flag.String("token", "", "Bearer token identifying the target user")
		numEvents = flag.Int("events", defaultNumEvents, "Number of events to generate and submit")
		spanDays  = flag.Int("span", defaultSpanDays, "Spread events across this many days from now")
		seed      = flag.Int64("seed", time.Now().UnixNano(), "Random seed")
		timeout   = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
	)
	flag.Parse()

	if *token == "" {
		os.Stderr.WriteString("missing -token\n")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	rng := rand.New(rand.NewSource(*seed)) //nolint:gosec // synthetic data only
	req := syncRequest{Events: generate(rng, *numEvents, *spanDays)}

	body, err := json.Marshal(req)
	if err != nil {
		os.Stderr.WriteString("marshal request: " + err.Error() + "\n")
		os.Exit(1)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		*baseURL+"/api/v1/events/sync", bytes.NewReader(body))
	if err != nil {
		os.Stderr.WriteString("build request: " + err.Error() + "\n")
		os.Exit(1)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+*token)

	resp, err := http.DefaultClient.Do(httpReq)
	if err != nil {
		os.Stderr.WriteString("submit batch: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer resp.Body.Close()

	out, _ := io.ReadAll(resp.Body)
	fmt.Printf("status=%d body=%s\n", resp.StatusCode, out)
}

// generate builds a batch of plausible events spread over the span.
func generate(rng *rand.Rand, n, spanDays int) []eventInput {
	events := make([]eventInput, 0, n)
	base := time.Now().UTC().Truncate(time.Hour)
	for i := 0; i < n; i++ {
		start := base.
			Add(time.Duration(rng.Intn(spanDays*24)) * time.Hour).
			Add(time.Duration(rng.Intn(4)) * 15 * time.Minute)
		end := start.Add(time.Duration(15+rng.Intn(8)*15) * time.Minute)
		events = append(events, eventInput{
			SourceEventID: uuid.NewString(),
			Title:         titles[rng.Intn(len(titles))],
			StartAt:       start.Format(time.RFC3339),
			EndAt:         end.Format(time.RFC3339),
			State:         "pending",
			EventType:     "meeting",
			Location:      locations[rng.Intn(len(locations))],
		})
	}
	return events
}
