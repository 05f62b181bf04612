package main

import (
	"bytes"
	"context"
	"crypto/ed25519"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/btcsuite/btcutil/base58"

	"github.com/solspace/solspace-backend/internal/gameplay"
)

const (
	defaultAPIURL  = "http://localhost:3000"
	gameEventsPath = "/api/v1/game-events"
	outcomeAdmit   = "admitted"
	outcomeNetwork = "network_error"
)

type Config struct {
	APIURL      string
	Players     int           // Number of simulated wallets
	Rounds      int           // Rounds submitted by each wallet
	Interval    time.Duration // Gap between two rounds of the same wallet
	Concurrency int           // Number of wallets submitting at once
	Timeout     time.Duration // Timeout for each request
	Sign        bool          // Attach a wallet signature to every submission
	OutputFile  string        // Output markdown file path (optional)
	Debug       bool
}

// Player is a simulated wallet
type Player struct {
	Identity string
	key      ed25519.PrivateKey
}

// Sample is the outcome of one submission
type Sample struct {
	Outcome string
	Status  int
	Latency time.Duration
}

// OutcomeGroup aggregates samples that ended the same way
type OutcomeGroup struct {
	Outcome      string
	Count        int
	Status       int
	TotalLatency time.Duration
	MaxLatency   time.Duration
}

// RunStats is the aggregated result of a benchmark run
type RunStats struct {
	StartTime time.Time
	EndTime   time.Time
	Players   int
	Requests  int
	Admitted  int
	Outcomes  map[string]*OutcomeGroup
	latencies []time.Duration
}

func main() {
	cfg := parseFlags()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\n\nReceived interrupt signal, shutting down...")
		cancel()
	}()

	players, err := newPlayers(cfg.Players)
	if err != nil {
		fmt.Printf("Error generating wallets: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Target: %s\n", cfg.APIURL)
	fmt.Printf("Players: %d, rounds each: %d, interval: %s, concurrency: %d\n",
		cfg.Players, cfg.Rounds, formatDuration(cfg.Interval), cfg.Concurrency)
	fmt.Printf("\nSubmitting game events...\n")

	stats := runBenchmark(ctx, cfg, &http.Client{Timeout: cfg.Timeout}, players)

	fmt.Println("\n" + strings.Repeat("=", 80))
	if ctx.Err() != nil {
		fmt.Println("INTERRUPTED - PARTIAL RESULTS")
	} else {
		fmt.Println("BENCHMARK RESULTS")
	}
	fmt.Println(strings.Repeat("=", 80))
	printRunStats(stats)

	if cfg.OutputFile != "" {
		if err := writeMarkdownReport(cfg.OutputFile, stats); err != nil {
			fmt.Printf("\n⚠️  Warning: Failed to write markdown file: %v\n", err)
		} else {
			fmt.Printf("\n✓ Report written to: %s\n", cfg.OutputFile)
		}
	}
}

func parseFlags() *Config {
	cfg := &Config{}

	flag.StringVar(&cfg.APIURL, "api-url", defaultAPIURL, "Base URL of the API")
	flag.IntVar(&cfg.Players, "players", 20, "Number of simulated wallets")
	flag.IntVar(&cfg.Rounds, "rounds", 50, "Rounds submitted by each wallet")
	flag.DurationVar(&cfg.Interval, "interval", time.Second, "Gap between two rounds of the same wallet")
	flag.IntVar(&cfg.Concurrency, "concurrency", 10, "Number of wallets submitting at once")
	flag.DurationVar(&cfg.Timeout, "timeout", 10*time.Second, "Timeout for each request")
	flag.BoolVar(&cfg.Sign, "sign", false, "Sign every submission with the wallet key")
	flag.StringVar(&cfg.OutputFile, "output", "", "Output markdown file path (optional)")
	flag.BoolVar(&cfg.Debug, "debug", false, "Print every failed submission")

	configFile := flag.String("config", "", "Path to config file (defaults to ~/.solspace-benchmark.json when present)")
	saveConfig := flag.Bool("save-config", false, "Remember -api-url in the config file")

	flag.Parse()

	if cfg.Players <= 0 {
		cfg.Players = 1
	}
	if cfg.Rounds <= 0 {
		cfg.Rounds = 1
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}

	path := *configFile
	if path == "" {
		path = GetDefaultConfigPath()
		if _, err := os.Stat(path); err != nil && !*saveConfig {
			return cfg
		}
	}

	if *saveConfig {
		if err := SaveConfig(path, &BenchmarkConfig{APIURL: cfg.APIURL}); err != nil {
			fmt.Printf("Warning: failed to save config file: %v\n", err)
		}
		return cfg
	}

	// Override with file values if not set via flags
	fileCfg, err := LoadConfig(path)
	if err != nil {
		fmt.Printf("Warning: failed to load config file: %v\n", err)
	} else if cfg.APIURL == defaultAPIURL && fileCfg.APIURL != "" {
		cfg.APIURL = fileCfg.APIURL
	}

	return cfg
}

// newPlayers generates n wallets with fresh ed25519 keys
func newPlayers(n int) ([]Player, error) {
	players := make([]Player, 0, n)
	for range n {
		pub, priv, err := ed25519.GenerateKey(nil)
		if err != nil {
			return nil, err
		}
		players = append(players, Player{Identity: base58.Encode(pub), key: priv})
	}
	return players, nil
}

// runBenchmark plays every wallet's rounds, at most cfg.Concurrency wallets at a time
func runBenchmark(ctx context.Context, cfg *Config, client *http.Client, players []Player) *RunStats {
	stats := &RunStats{
		StartTime: time.Now(),
		Players:   len(players),
		Outcomes:  make(map[string]*OutcomeGroup),
	}
	var mu sync.Mutex

	pool := pond.NewPool(cfg.Concurrency)
	defer pool.StopAndWait()

	group := pool.NewGroup()
	for i, player := range players {
		group.Submit(func() {
			for round := range cfg.Rounds {
				if ctx.Err() != nil {
					return
				}

				profit, volume := roundResult(i, round)
				sample := submit(ctx, cfg, client, player, profit, volume)

				mu.Lock()
				stats.record(sample)
				mu.Unlock()

				if cfg.Debug && sample.Outcome != outcomeAdmit {
					fmt.Printf("  %s round %d: %s (%d)\n", player.Identity, round, sample.Outcome, sample.Status)
				}

				if round < cfg.Rounds-1 && !sleep(ctx, cfg.Interval) {
					return
				}
			}
		})
	}
	_ = group.Wait()

	stats.EndTime = time.Now()
	return stats
}

// roundResult derives a plausible, deterministic result for a wallet's round
func roundResult(player, round int) (float64, float64) {
	volume := float64(10 + (player*7+round*13)%90)
	profit := float64((player*31+round*17)%200) / 100 * volume
	return profit, volume
}

func submit(ctx context.Context, cfg *Config, client *http.Client, player Player, profit, volume float64) Sample {
	body := map[string]any{
		"identity": player.Identity,
		"profit":   profit,
		"volume":   volume,
	}
	if cfg.Sign {
		message := gameplay.SubmissionMessage(player.Identity, profit, volume)
		body["signature"] = base58.Encode(ed25519.Sign(player.key, message))
	}

	data, err := json.Marshal(body)
	if err != nil {
		return Sample{Outcome: outcomeNetwork}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimRight(cfg.APIURL, "/")+gameEventsPath, bytes.NewReader(data))
	if err != nil {
		return Sample{Outcome: outcomeNetwork}
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := client.Do(req)
	latency := time.Since(start)
	if err != nil {
		return Sample{Outcome: outcomeNetwork, Latency: latency}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
	return Sample{
		Outcome: outcomeLabel(resp.StatusCode, respBody),
		Status:  resp.StatusCode,
		Latency: latency,
	}
}

// outcomeLabel names a response by its error code, or "admitted" on 201
func outcomeLabel(status int, body []byte) string {
	if status == http.StatusCreated {
		return outcomeAdmit
	}

	var apiErr struct {
		Code string `json:"code"`
	}
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Code != "" {
		return apiErr.Code
	}
	return fmt.Sprintf("http_%d", status)
}

func (s *RunStats) record(sample Sample) {
	s.Requests++
	if sample.Outcome == outcomeAdmit {
		s.Admitted++
	}

	group, ok := s.Outcomes[sample.Outcome]
	if !ok {
		group = &OutcomeGroup{Outcome: sample.Outcome, Status: sample.Status}
		s.Outcomes[sample.Outcome] = group
	}
	group.Count++
	group.TotalLatency += sample.Latency
	if sample.Latency > group.MaxLatency {
		group.MaxLatency = sample.Latency
	}

	if sample.Outcome != outcomeNetwork {
		s.latencies = append(s.latencies, sample.Latency)
	}
}

// Percentile returns the latency at quantile q in [0,1] of answered requests
func (s *RunStats) Percentile(q float64) time.Duration {
	return percentile(s.latencies, q)
}

func percentile(latencies []time.Duration, q float64) time.Duration {
	if len(latencies) == 0 {
		return 0
	}
	sorted := append([]time.Duration(nil), latencies...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	idx := int(q*float64(len(sorted)-1) + 0.5)
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

// sortedOutcomes returns the outcome groups, most frequent first
func (s *RunStats) sortedOutcomes() []*OutcomeGroup {
	groups := make([]*OutcomeGroup, 0, len(s.Outcomes))
	for _, group := range s.Outcomes {
		groups = append(groups, group)
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].Count != groups[j].Count {
			return groups[i].Count > groups[j].Count
		}
		return groups[i].Outcome < groups[j].Outcome
	})
	return groups
}

func printRunStats(stats *RunStats) {
	elapsed := stats.EndTime.Sub(stats.StartTime)

	fmt.Println(strings.Repeat("-", 80))
	fmt.Printf("  Start Time:  %s\n", stats.StartTime.Format("2006-01-02 15:04:05"))
	fmt.Printf("  Duration:    %s\n", formatDuration(elapsed))
	fmt.Printf("  Players:     %d\n", stats.Players)
	fmt.Printf("  Requests:    %d (%s)\n", stats.Requests, formatRate(stats.Requests, elapsed))
	fmt.Printf("  Admitted:    %d (%s)\n", stats.Admitted, percentageString(stats.Admitted, stats.Requests))
	fmt.Printf("  Latency:     p50 %s, p90 %s, p99 %s\n",
		formatDuration(stats.Percentile(0.5)), formatDuration(stats.Percentile(0.9)), formatDuration(stats.Percentile(0.99)))
	fmt.Println()

	if len(stats.Outcomes) == 0 {
		fmt.Println("No requests were sent.")
		fmt.Println(strings.Repeat("-", 80))
		return
	}

	fmt.Println("Outcomes:")
	fmt.Println()
	for _, group := range stats.sortedOutcomes() {
		fmt.Printf("  %s %s\n", outcomeEmoji(group.Outcome), group.Outcome)
		fmt.Printf("    Count:       %d (%s)\n", group.Count, percentageString(group.Count, stats.Requests))
		if group.Status != 0 {
			fmt.Printf("    HTTP Status: %d\n", group.Status)
		}
		fmt.Printf("    Avg Latency: %s\n", formatDuration(group.TotalLatency/time.Duration(group.Count)))
		fmt.Printf("    Max Latency: %s\n", formatDuration(group.MaxLatency))
		fmt.Println()
	}

	fmt.Println(strings.Repeat("-", 80))
}

// writeMarkdownReport writes a markdown report of the run
func writeMarkdownReport(path string, stats *RunStats) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		_ = file.Close()
	}()

	return renderMarkdown(file, stats)
}

func renderMarkdown(w io.Writer, stats *RunStats) error {
	elapsed := stats.EndTime.Sub(stats.StartTime)

	_, _ = fmt.Fprintf(w, "# Game Event Benchmark Report\n\n")
	_, _ = fmt.Fprintf(w, "Generated: %s\n\n", time.Now().Format("2006-01-02 15:04:05"))

	_, _ = fmt.Fprintf(w, "## Summary\n\n")
	_, _ = fmt.Fprintf(w, "| Metric | Value |\n")
	_, _ = fmt.Fprintf(w, "|--------|-------|\n")
	_, _ = fmt.Fprintf(w, "| **Start Time** | %s |\n", stats.StartTime.Format("2006-01-02 15:04:05"))
	_, _ = fmt.Fprintf(w, "| **Duration** | %s |\n", formatDuration(elapsed))
	_, _ = fmt.Fprintf(w, "| **Players** | %d |\n", stats.Players)
	_, _ = fmt.Fprintf(w, "| **Requests** | %d |\n", stats.Requests)
	_, _ = fmt.Fprintf(w, "| **Throughput** | %s |\n", formatRate(stats.Requests, elapsed))
	_, _ = fmt.Fprintf(w, "| **Admitted** | %d (%s) |\n", stats.Admitted, percentageString(stats.Admitted, stats.Requests))
	_, _ = fmt.Fprintf(w, "| **p50** | %s |\n", formatDuration(stats.Percentile(0.5)))
	_, _ = fmt.Fprintf(w, "| **p90** | %s |\n", formatDuration(stats.Percentile(0.9)))
	_, _ = fmt.Fprintf(w, "| **p99** | %s |\n", formatDuration(stats.Percentile(0.99)))
	_, _ = fmt.Fprintf(w, "\n")

	if len(stats.Outcomes) == 0 {
		_, _ = fmt.Fprintf(w, "*No requests were sent.*\n")
		return nil
	}

	_, _ = fmt.Fprintf(w, "## Outcomes\n\n")
	_, _ = fmt.Fprintf(w, "| Outcome | Count | Share | Status | Avg Latency | Max Latency |\n")
	_, _ = fmt.Fprintf(w, "|---------|-------|-------|--------|-------------|-------------|\n")
	for _, group := range stats.sortedOutcomes() {
		_, err := fmt.Fprintf(w, "| %s %s | %d | %s | %d | %s | %s |\n",
			outcomeEmoji(group.Outcome), group.Outcome, group.Count,
			percentageString(group.Count, stats.Requests), group.Status,
			formatDuration(group.TotalLatency/time.Duration(group.Count)), formatDuration(group.MaxLatency))
		if err != nil {
			return err
		}
	}

	return nil
}

func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.2fs", d.Seconds())
	}
	if d < time.Hour {
		minutes := int(d.Minutes())
		seconds := int(d.Seconds()) % 60
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	}
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	return fmt.Sprintf("%dh %dm", hours, minutes)
}

func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}
