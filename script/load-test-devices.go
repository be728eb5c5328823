package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"net/http"
	"strings"
	"sync"
	"time"
)

// AmountRequest is the transaction payload
type AmountRequest struct {
	Amount int64 `json:"amount"`
}

// OutcomeResponse is the API response for recharge and withdraw calls
type OutcomeResponse struct {
	Approved   bool   `json:"approved"`
	NewBalance int64  `json:"newBalance"`
	Reason     string `json:"reason,omitempty"`
	Message    string `json:"message"`
}

// TestResult contains metrics for a single request
type TestResult struct {
	Approved     bool
	Denied       bool
	ResponseTime time.Duration
	StatusCode   int
	Error        error
}

// TestStats contains aggregated test statistics
type TestStats struct {
	TotalRequests     int
	ApprovedRequests  int
	DeniedRequests    int
	FailedRequests    int
	TotalTime         time.Duration
	MinResponseTime   time.Duration
	MaxResponseTime   time.Duration
	TotalResponseTime time.Duration
	ResponseTimes     []time.Duration
	ErrorCounts       map[string]int
	DeviceStats       map[string]int
	ScenarioStats     map[string]int
	Lock              sync.Mutex
}

// TransactionScenario defines one kind of kiosk operation
type TransactionScenario struct {
	Name   string // For stats tracking
	Path   string // recharge or withdraw
	Amount int64
}

func main() {

	// Define command line flags
	concurrency := flag.Int("c", 5, "Number of concurrent goroutines")
	totalRequests := flag.Int("n", 100, "Total number of requests to make")
	deviceUIDsStr := flag.String("d", "04a2b9c1,04f31e77", "Comma-separated list of device uids to distribute load across")
	baseURL := flag.String("url", "http://localhost:8080", "Base URL for the API")
	delayMs := flag.Int("delay", 100, "Delay between requests in milliseconds")
	flag.Parse()

	// Parse device uids
	var deviceUIDs []string
	for _, uid := range strings.Split(*deviceUIDsStr, ",") {
		uid = strings.TrimSpace(uid)
		if uid != "" {
			deviceUIDs = append(deviceUIDs, uid)
		}
	}
	if len(deviceUIDs) == 0 {
		fmt.Println("No valid device uids provided")
		return
	}

	// Recharges outweigh withdrawals so the balances trend upward and the
	// denial rate stays driven by contention rather than drained accounts
	scenarios := []TransactionScenario{
		{"Recharge Small", "recharge", 10},
		{"Recharge Large", "recharge", 50},
		{"Purchase Small", "withdraw", 2},
		{"Purchase Large", "withdraw", 5},
		{"Withdraw Large", "withdraw", 20},
	}

	fmt.Printf("Load testing kiosk API across %d devices: %v\n", len(deviceUIDs), deviceUIDs)
	fmt.Printf("Transaction scenarios: %d different combinations\n", len(scenarios))
	fmt.Printf("Concurrency: %d goroutines\n", *concurrency)
	fmt.Printf("Total requests: %d\n", *totalRequests)
	fmt.Printf("Delay between requests: %d ms\n", *delayMs)

	stats := &TestStats{
		TotalRequests:   *totalRequests,
		MinResponseTime: time.Hour, // Start with a high value that will be replaced
		ErrorCounts:     make(map[string]int),
		ResponseTimes:   make([]time.Duration, 0, *totalRequests),
		DeviceStats:     make(map[string]int),
		ScenarioStats:   make(map[string]int),
	}

	// Channel to collect results
	results := make(chan TestResult, *totalRequests)

	// Channel to distribute work
	jobs := make(chan int, *totalRequests)

	// Start worker goroutines
	var wg sync.WaitGroup
	fmt.Println("Starting worker goroutines...")
	for i := 0; i < *concurrency; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			worker(*baseURL, *delayMs, deviceUIDs, scenarios, jobs, results, stats)
		}(i)
	}

	// Fill the jobs channel
	go func() {
		for i := 0; i < *totalRequests; i++ {
			jobs <- i
		}
		close(jobs)
	}()

	// Start a goroutine to collect results
	go func() {
		for result := range results {
			stats.Lock.Lock()
			switch {
			case result.Error != nil:
				stats.FailedRequests++
				stats.ErrorCounts[result.Error.Error()]++
			case result.Approved:
				stats.ApprovedRequests++
			case result.Denied:
				stats.DeniedRequests++
			}

			stats.ResponseTimes = append(stats.ResponseTimes, result.ResponseTime)
			stats.TotalResponseTime += result.ResponseTime

			if result.ResponseTime < stats.MinResponseTime {
				stats.MinResponseTime = result.ResponseTime
			}
			if result.ResponseTime > stats.MaxResponseTime {
				stats.MaxResponseTime = result.ResponseTime
			}
			stats.Lock.Unlock()
		}
	}()

	// Start the timer
	startTime := time.Now()
	fmt.Println("Test running...")

	// Print progress periodically
	ticker := time.NewTicker(1 * time.Second)
	go func() {
		for range ticker.C {
			stats.Lock.Lock()
			completed := stats.ApprovedRequests + stats.DeniedRequests + stats.FailedRequests
			if completed > 0 {
				fmt.Printf("Progress: %d/%d requests completed (%.1f%%)\n",
					completed, stats.TotalRequests, float64(completed)/float64(stats.TotalRequests)*100)
			}
			stats.Lock.Unlock()
		}
	}()

	// Wait for all workers to finish
	wg.Wait()
	close(results)
	ticker.Stop()

	stats.TotalTime = time.Since(startTime)

	printResults(stats)
}

func worker(baseURL string, delayMs int, deviceUIDs []string,
	scenarios []TransactionScenario, jobs <-chan int, results chan<- TestResult, stats *TestStats) {

	client := &http.Client{
		Timeout: 10 * time.Second,
	}

	for range jobs {
		// Optional delay between requests to prevent hammering the kiosk
		if delayMs > 0 {
			time.Sleep(time.Duration(delayMs) * time.Millisecond)
		}

		// Randomly select a device and a scenario
		uid := deviceUIDs[rand.Intn(len(deviceUIDs))]
		scenario := scenarios[rand.Intn(len(scenarios))]

		stats.Lock.Lock()
		stats.DeviceStats[uid]++
		stats.ScenarioStats[scenario.Name]++
		stats.Lock.Unlock()

		apiURL := fmt.Sprintf("%s/devices/%s/%s", baseURL, uid, scenario.Path)

		jsonData, err := json.Marshal(AmountRequest{Amount: scenario.Amount})
		if err != nil {
			results <- TestResult{Error: err}
			continue
		}

		req, err := http.NewRequest("POST", apiURL, bytes.NewBuffer(jsonData))
		if err != nil {
			results <- TestResult{Error: err}
			continue
		}
		req.Header.Set("Content-Type", "application/json")

		// Send the request and measure response time
		reqStart := time.Now()
		resp, err := client.Do(req)
		responseTime := time.Since(reqStart)

		result := TestResult{
			ResponseTime: responseTime,
		}

		if err != nil {
			result.Error = err
			results <- result
			continue
		}

		result.StatusCode = resp.StatusCode
		switch {
		case resp.StatusCode == http.StatusOK:
			var outcome OutcomeResponse
			if decodeErr := json.NewDecoder(resp.Body).Decode(&outcome); decodeErr != nil {
				result.Error = decodeErr
			} else {
				result.Approved = outcome.Approved
			}
		case resp.StatusCode == http.StatusUnprocessableEntity:
			// A clean denial (insufficient funds, blocked device) is a valid
			// kiosk answer, not a failure
			result.Denied = true
		default:
			result.Error = fmt.Errorf("HTTP status code %d", resp.StatusCode)
		}
		resp.Body.Close()

		results <- result
	}
}

func printResults(stats *TestStats) {
	tps := float64(stats.ApprovedRequests+stats.DeniedRequests) / stats.TotalTime.Seconds()

	var avgResponseTime time.Duration
	if len(stats.ResponseTimes) > 0 {
		avgResponseTime = stats.TotalResponseTime / time.Duration(len(stats.ResponseTimes))
	}

	// Calculate percentiles
	var p50, p90, p95, p99 time.Duration
	if len(stats.ResponseTimes) > 0 {
		sortedTimes := make([]time.Duration, len(stats.ResponseTimes))
		copy(sortedTimes, stats.ResponseTimes)

		// Simple bubble sort (OK for small datasets)
		for i := 0; i < len(sortedTimes); i++ {
			for j := i + 1; j < len(sortedTimes); j++ {
				if sortedTimes[i] > sortedTimes[j] {
					sortedTimes[i], sortedTimes[j] = sortedTimes[j], sortedTimes[i]
				}
			}
		}

		p50 = sortedTimes[len(sortedTimes)*50/100]
		p90 = sortedTimes[len(sortedTimes)*90/100]
		p95 = sortedTimes[len(sortedTimes)*95/100]
		p99 = sortedTimes[len(sortedTimes)*99/100]
	}

	fmt.Println("\n================= TEST RESULTS =================")
	fmt.Printf("Total Requests:      %d\n", stats.TotalRequests)
	fmt.Printf("Approved:            %d (%.1f%%)\n", stats.ApprovedRequests,
		float64(stats.ApprovedRequests)/float64(stats.TotalRequests)*100)
	fmt.Printf("Denied:              %d (%.1f%%)\n", stats.DeniedRequests,
		float64(stats.DeniedRequests)/float64(stats.TotalRequests)*100)
	fmt.Printf("Failed:              %d (%.1f%%)\n", stats.FailedRequests,
		float64(stats.FailedRequests)/float64(stats.TotalRequests)*100)
	fmt.Printf("Total Test Time:     %.2f seconds\n", stats.TotalTime.Seconds())
	fmt.Printf("Answered TPS:        %.2f (approved + denied / total time)\n", tps)

	fmt.Println("\n----------------- RESPONSE TIMES -----------------")
	fmt.Printf("Average Response:    %v\n", avgResponseTime)
	fmt.Printf("Minimum Response:    %v\n", stats.MinResponseTime)
	fmt.Printf("Maximum Response:    %v\n", stats.MaxResponseTime)
	fmt.Printf("P50 Response:        %v\n", p50)
	fmt.Printf("P90 Response:        %v\n", p90)
	fmt.Printf("P95 Response:        %v\n", p95)
	fmt.Printf("P99 Response:        %v\n", p99)

	fmt.Println("\n----------------- DEVICE DISTRIBUTION -----------------")
	for uid, count := range stats.DeviceStats {
		if count > 0 {
			fmt.Printf("Device %s:    %d requests (%.1f%%)\n", uid, count,
				float64(count)/float64(stats.TotalRequests)*100)
		}
	}

	fmt.Println("\n----------------- SCENARIO DISTRIBUTION -----------------")
	for scenario, count := range stats.ScenarioStats {
		if count > 0 {
			fmt.Printf("%-15s: %d requests (%.1f%%)\n", scenario, count,
				float64(count)/float64(stats.TotalRequests)*100)
		}
	}

	if stats.FailedRequests > 0 {
		fmt.Println("\n----------------- ERROR DISTRIBUTION -----------------")
		for errMsg, count := range stats.ErrorCounts {
			fmt.Printf("%-40s: %d (%.1f%%)\n", errMsg, count,
				float64(count)/float64(stats.TotalRequests)*100)
		}
	}
}
