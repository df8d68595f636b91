package test

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/lawnchairsociety/openscroller/internal/testclient"
)

// =============================================================================
// Group 5: HTTP API
// =============================================================================

var httpClient = &http.Client{Timeout: 5 * time.Second}

// getJSON fetches path from the API and decodes the body into v.
func getJSON(target Target, path string, v any) (*http.Response, error) {
	resp, err := httpClient.Get(strings.TrimSuffix(target.HTTP, "/") + path)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return resp, fmt.Errorf("GET %s: status %d", path, resp.StatusCode)
	}
	if v != nil {
		if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
			return resp, fmt.Errorf("GET %s: %w", path, err)
		}
	}
	return resp, nil
}

// TestAPIHealth checks /healthz.
func TestAPIHealth(target Target) TestResult {
	const testName = "API Health"

	var health struct {
		Status  string `json:"status"`
		Players int    `json:"players"`
	}
	if _, err := getJSON(target, "/healthz", &health); err != nil {
		return fail(testName, "%v", err)
	}
	logResult(testName, health.Status == "ok", "status "+health.Status)
	if health.Status != "ok" {
		return fail(testName, "status = %q, want ok", health.Status)
	}
	return pass(testName, fmt.Sprintf("healthy, %d players online", health.Players))
}

// TestAPILevelMatchesTelnet checks that the API and the line protocol agree
// on the level stored for a seed.
func TestAPILevelMatchesTelnet(target Target) TestResult {
	const testName = "API Level Matches Telnet"

	client, err := testclient.Guest(uniqueName("Api"), target.Telnet)
	if err != nil {
		return fail(testName, "Connection failed: %v", err)
	}
	defer client.Close()

	const seed = 2024
	if !client.Do(fmt.Sprintf("level %d underground", seed), "goombas", replyTimeout) {
		return fail(testName, "No level: %v", client.GetMessages())
	}
	telnetID := client.LastLevelID()

	var level struct {
		ID   string `json:"id"`
		Seed int64  `json:"seed"`
		Mode string `json:"mode"`
	}
	resp, err := getJSON(target, fmt.Sprintf("/api/levels/%d?mode=underground", seed), &level)
	if err != nil {
		return fail(testName, "%v", err)
	}
	logResult(testName, level.ID == telnetID, level.ID+" vs "+telnetID)
	if level.ID != telnetID {
		return fail(testName, "API id %s, telnet id %s", level.ID, telnetID)
	}
	if got := resp.Header.Get("X-Level-ID"); got != telnetID {
		return fail(testName, "X-Level-ID = %q, want %q", got, telnetID)
	}
	if level.Seed != seed || level.Mode != "underground" {
		return fail(testName, "got seed %d mode %s", level.Seed, level.Mode)
	}

	if _, err := getJSON(target, "/api/levels/id/"+telnetID, &level); err != nil {
		return fail(testName, "%v", err)
	}
	if level.ID != telnetID {
		return fail(testName, "lookup by id returned %s", level.ID)
	}
	return pass(testName, "API and telnet agree on level "+telnetID)
}

// TestAPILevelFormats checks the yaml and ascii renderings and a bad format.
func TestAPILevelFormats(target Target) TestResult {
	const testName = "API Level Formats"

	base := strings.TrimSuffix(target.HTTP, "/") + "/api/levels/77"
	for _, tc := range []struct {
		query       string
		status      int
		contentType string
		contains    string
	}{
		{"?format=yaml", http.StatusOK, "application/yaml", "seed: 77"},
		{"?format=ascii&columns=40", http.StatusOK, "text/plain", "="},
		{"?format=png", http.StatusBadRequest, "application/json", "format must be"},
		{"?mode=sky", http.StatusBadRequest, "application/json", "error"},
	} {
		logAction(testName, "GET "+base+tc.query)
		resp, err := httpClient.Get(base + tc.query)
		if err != nil {
			return fail(testName, "%s: %v", tc.query, err)
		}
		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return fail(testName, "%s: %v", tc.query, err)
		}
		if resp.StatusCode != tc.status {
			return fail(testName, "%s: status %d, want %d", tc.query, resp.StatusCode, tc.status)
		}
		if !strings.HasPrefix(resp.Header.Get("Content-Type"), tc.contentType) {
			return fail(testName, "%s: content type %q, want %q", tc.query, resp.Header.Get("Content-Type"), tc.contentType)
		}
		if !strings.Contains(string(body), tc.contains) {
			return fail(testName, "%s: body lacks %q", tc.query, tc.contains)
		}
	}
	return pass(testName, "yaml, ascii and error responses correct")
}

// TestAPILeaderboard checks that a fresh high score tops /api/leaderboard.
func TestAPILeaderboard(target Target) TestResult {
	const testName = "API Leaderboard"

	client, err := testclient.Guest(uniqueName("Lead"), target.Telnet)
	if err != nil {
		return fail(testName, "Connection failed: %v", err)
	}
	defer client.Close()

	high, ok := currentHighScore(client)
	if !ok {
		return fail(testName, "Could not read the high score")
	}
	id := levelFor(client, 1005)
	if !client.Do(fmt.Sprintf("score %s %d won", id, high+5), "NEW HIGH SCORE!", replyTimeout) {
		return fail(testName, "Score not recorded: %v", client.GetMessages())
	}

	var entries []struct {
		Rank   int    `json:"rank"`
		Player string `json:"player"`
		Best   int    `json:"best"`
	}
	if _, err := getJSON(target, "/api/leaderboard?limit=3", &entries); err != nil {
		return fail(testName, "%v", err)
	}
	if len(entries) == 0 {
		return fail(testName, "leaderboard is empty")
	}
	top := entries[0]
	logResult(testName, top.Player == client.Name, fmt.Sprintf("leader %s with %d", top.Player, top.Best))
	if top.Rank != 1 || top.Player != client.Name || top.Best != high+5 {
		return fail(testName, "leader = %+v, want %s with %d", top, client.Name, high+5)
	}
	return pass(testName, fmt.Sprintf("%s leads with %d", top.Player, top.Best))
}
