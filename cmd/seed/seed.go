package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"bites4life/internal/service"
)

const fetchTimeout = 30 * time.Second

// SeedRiderData is one entry of the import file.
type SeedRiderData struct {
	Name string `json:"name"`
}

// seedResult maps created rider names to their generated codes.
type seedResult struct {
	Created map[string]string
	Skipped int
}

// loadRiders reads the import list from a local file or an http(s) URL.
func loadRiders(ctx context.Context, source string) ([]SeedRiderData, error) {
	var body []byte
	var err error
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		body, err = fetch(ctx, source)
	} else {
		body, err = os.ReadFile(source)
	}
	if err != nil {
		return nil, err
	}

	var riders []SeedRiderData
	if err := json.Unmarshal(body, &riders); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	return riders, nil
}

func fetch(ctx context.Context, url string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch from API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API returned status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return body, nil
}

// seedRiders creates a rider for every name not already on the board.
func seedRiders(ctx context.Context, svc service.RiderService, riders []SeedRiderData) (seedResult, error) {
	result := seedResult{Created: make(map[string]string)}

	existing, err := svc.ListRiders(ctx)
	if err != nil {
		return result, fmt.Errorf("error listing riders: %w", err)
	}
	known := make(map[string]bool, len(existing)+len(riders))
	for _, r := range existing {
		known[strings.ToLower(r.Name)] = true
	}

	for _, item := range riders {
		name := strings.TrimSpace(item.Name)
		if name == "" || known[strings.ToLower(name)] {
			result.Skipped++
			continue
		}

		rider, err := svc.AddRider(ctx, name)
		if err != nil {
			return result, fmt.Errorf("error creating rider %q: %w", name, err)
		}
		known[strings.ToLower(name)] = true
		result.Created[name] = rider.Code
	}
	return result, nil
}
