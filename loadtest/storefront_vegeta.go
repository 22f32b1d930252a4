package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	vegeta "github.com/tsenart/vegeta/v12/lib"
)

// Storefront load harness. Exercises the browse-and-cart path as guest
// traffic: product listing, product detail, cart add. Guests identify
// themselves with X-Session-ID, so no account preparation is needed.
//
//	go run ./loadtest -base http://localhost:8080 -rate 100 -duration 30s \
//	    -products magnetic-closure-shirt,seated-fit-trousers

type productPage struct {
	Success bool `json:"success"`
	Data    struct {
		Items []struct {
			ID   string `json:"id"`
			Slug string `json:"slug"`
		} `json:"items"`
	} `json:"data"`
}

type apiResp struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func main() {
	var (
		base     = flag.String("base", "http://localhost:8080", "API base URL")
		rate     = flag.Int("rate", 100, "Requests per second")
		duration = flag.String("duration", "30s", "Attack duration (e.g. 10s, 1m)")
		sessions = flag.Int("sessions", 200, "Number of guest sessions to rotate")
		cartPct  = flag.Int("cart", 20, "Percent of requests that add to cart")
		outJSON  = flag.String("out", "vegeta_results.json", "Summary JSON output file")
	)
	flag.Parse()

	attackDuration, err := time.ParseDuration(*duration)
	if err != nil {
		fmt.Fprintln(os.Stderr, "invalid duration:", err)
		os.Exit(1)
	}

	products, err := fetchProducts(*base)
	if err != nil || len(products.Data.Items) == 0 {
		fmt.Fprintln(os.Stderr, "could not fetch product catalogue:", err)
		os.Exit(1)
	}
	items := products.Data.Items

	sessionIDs := make([]string, *sessions)
	for i := range sessionIDs {
		sessionIDs[i] = uuid.NewString()
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	var counter uint64
	targeter := func(t *vegeta.Target) error {
		idx := atomic.AddUint64(&counter, 1) - 1
		item := items[idx%uint64(len(items))]
		t.Header = http.Header{}

		roll := rng.Intn(100)
		switch {
		case roll < *cartPct:
			body, _ := json.Marshal(map[string]any{"product_id": item.ID, "quantity": 1})
			t.Method = http.MethodPost
			t.URL = *base + "/api/v1/cart/items"
			t.Body = body
			t.Header.Set("Content-Type", "application/json")
			t.Header.Set("X-Session-ID", sessionIDs[idx%uint64(len(sessionIDs))])
		case roll < *cartPct+40:
			t.Method = http.MethodGet
			t.URL = *base + "/api/v1/products/" + item.Slug
		default:
			t.Method = http.MethodGet
			t.URL = *base + "/api/v1/products?page=1&per_page=20"
		}
		return nil
	}

	attacker := vegeta.NewAttacker()
	var metrics vegeta.Metrics
	logicalSuccess := uint64(0)
	logicalTotal := uint64(0)

	for res := range attacker.Attack(targeter, vegeta.Rate{Freq: *rate, Per: time.Second}, attackDuration, "storefront") {
		metrics.Add(res)
		atomic.AddUint64(&logicalTotal, 1)
		var ar apiResp
		if err := json.Unmarshal(res.Body, &ar); err == nil && ar.Success {
			atomic.AddUint64(&logicalSuccess, 1)
		}
	}
	metrics.Close()

	summary := map[string]any{
		"attack": map[string]any{
			"rate_rps": *rate,
			"duration": attackDuration.String(),
			"sessions": *sessions,
			"cart_pct": *cartPct,
		},
		"vegeta_metrics": map[string]any{
			"requests":           metrics.Requests,
			"rate":               metrics.Rate,
			"throughput":         metrics.Throughput,
			"success_ratio_http": metrics.Success,
			"latency_mean_ms":    metrics.Latencies.Mean.Seconds() * 1000,
			"latency_p95_ms":     metrics.Latencies.P95.Seconds() * 1000,
			"latency_p99_ms":     metrics.Latencies.P99.Seconds() * 1000,
			"errors":             metrics.Errors,
		},
		"logical_success": logicalSuccess,
		"logical_total":   logicalTotal,
		"timestamp":       time.Now().Format(time.RFC3339),
	}

	data, _ := json.MarshalIndent(summary, "", "  ")
	if err := os.WriteFile(*outJSON, data, 0644); err != nil {
		fmt.Fprintln(os.Stderr, "write summary failed:", err)
	}
	fmt.Println(string(data))
}

func fetchProducts(base string) (*productPage, error) {
	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get(base + "/api/v1/products?per_page=50")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}
	var page productPage
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, err
	}
	return &page, nil
}
