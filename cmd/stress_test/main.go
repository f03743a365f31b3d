package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

type record struct {
	User      string    `json:"user"`
	Quantity  int       `json:"adet"`
	CreatedAt time.Time `json:"timestamp"`
}

func main() {
	baseURL := flag.String("url", "http://localhost:5000", "service base URL")
	totalRequests := flag.Int("n", 120, "records to append")
	concurrency := flag.Int("c", 10, "concurrent writers")
	user := flag.String("user", "stress-test", "identity to log in as")
	flag.Parse()

	client := &http.Client{Timeout: 10 * time.Second}

	token, err := login(client, *baseURL, *user)
	if err != nil {
		log.Fatalf("failed to login: %v", err)
	}

	// Counters
	var successCount atomic.Int32
	var failCount atomic.Int32
	var wg sync.WaitGroup

	jobs := make(chan int)
	start := time.Now()

	for w := 0; w < *concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				if err := addRecord(client, *baseURL, token, i); err != nil {
					log.Printf("record %d failed: %v", i, err)
					failCount.Add(1)
					continue
				}
				successCount.Add(1)
			}
		}()
	}

	for i := 0; i < *totalRequests; i++ {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	elapsed := time.Since(start)

	records, err := getRecords(client, *baseURL, token)
	if err != nil {
		log.Fatalf("failed to list records: %v", err)
	}

	ordered := true
	for i := 1; i < len(records); i++ {
		if records[i].CreatedAt.After(records[i-1].CreatedAt) {
			ordered = false
			break
		}
	}

	fmt.Println("=== Stress Test Results ===")
	fmt.Printf("Total requests:   %d\n", *totalRequests)
	fmt.Printf("Concurrency:      %d\n", *concurrency)
	fmt.Printf("Successful:       %d\n", successCount.Load())
	fmt.Printf("Failed:           %d\n", failCount.Load())
	fmt.Printf("Duration:         %v\n", elapsed)
	fmt.Printf("Throughput:       %.2f req/s\n", float64(*totalRequests)/elapsed.Seconds())
	fmt.Printf("Listed records:   %d\n", len(records))
	fmt.Printf("Newest first:     %v\n", ordered)

	if len(records) > 50 {
		log.Fatalf("FAIL: listing returned %d records, cap is 50", len(records))
	}
	if int(successCount.Load()) >= 50 && len(records) != 50 {
		log.Fatalf("FAIL: expected 50 records, got %d", len(records))
	}
	if !ordered {
		log.Fatal("FAIL: records are not in descending timestamp order")
	}
	fmt.Println("PASS")
}

func login(client *http.Client, baseURL, user string) (string, error) {
	body, _ := json.Marshal(map[string]string{"username": user, "password": "-"})
	resp, err := client.Post(baseURL+"/login", "application/json", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var out struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	return out.AccessToken, nil
}

func addRecord(client *http.Client, baseURL, token string, i int) error {
	body, _ := json.Marshal(map[string]interface{}{
		"parca_ad": fmt.Sprintf("part-%d", i%7),
		"adet":     i + 1,
		"vardiya":  []string{"A", "B", "C"}[i%3],
		"operator": fmt.Sprintf("operator-%d", i%5),
		"makine":   fmt.Sprintf("machine-%d", i%4),
	})

	req, err := http.NewRequest(http.MethodPost, baseURL+"/add_record", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return nil
}

func getRecords(client *http.Client, baseURL, token string) ([]record, error) {
	req, err := http.NewRequest(http.MethodGet, baseURL+"/get_records", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var records []record
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, err
	}
	return records, nil
}
