// Package test holds integration scenarios run by cmd/testrunner against a
// live level server.
package test

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"
)

// Target is the server under test.
type Target struct {
	Telnet string // host:port of the line protocol
	HTTP   string // base URL of the HTTP API, e.g. http://localhost:4443
}

// WebSocketURL is the /ws endpoint on the HTTP address.
func (t Target) WebSocketURL() string {
	base := strings.TrimSuffix(t.HTTP, "/")
	switch {
	case strings.HasPrefix(base, "https://"):
		return "wss://" + strings.TrimPrefix(base, "https://") + "/ws"
	case strings.HasPrefix(base, "http://"):
		return "ws://" + strings.TrimPrefix(base, "http://") + "/ws"
	}
	return "ws://" + base + "/ws"
}

// uniqueCounter numbers test players within a run.
var uniqueCounter uint64

// runTag keeps names from different runs against the same database apart.
var runTag = counterToLetters(uint64(time.Now().UnixNano()/int64(time.Millisecond)) % (26 * 26 * 26 * 26))

// uniqueName appends the run tag and a letter counter to base. Keep base
// short: names are capped at 20 characters.
func uniqueName(base string) string {
	n := atomic.AddUint64(&uniqueCounter, 1)
	return base + runTag + counterToLetters(n)
}

// counterToLetters converts 1=a, 2=b, ..., 26=z, 27=aa.
func counterToLetters(n uint64) string {
	if n == 0 {
		return "a"
	}
	result := ""
	for n > 0 {
		n--
		result = string(rune('a'+(n%26))) + result
		n /= 26
	}
	return result
}

// testPassword satisfies the default password rules.
func testPassword(name string) string {
	return "Pw1" + name
}

// Verbose controls whether detailed logging is shown during tests
var Verbose = false

// TestResult represents the result of a test
type TestResult struct {
	Name    string
	Passed  bool
	Message string
}

func pass(name, msg string) TestResult { return TestResult{Name: name, Passed: true, Message: msg} }

func fail(name, format string, args ...any) TestResult {
	return TestResult{Name: name, Passed: false, Message: fmt.Sprintf(format, args...)}
}

// logAction logs a test action when verbose mode is enabled
func logAction(testName, action string) {
	if Verbose {
		fmt.Printf("  [%s] %s\n", testName, action)
	}
}

// logResult logs an expected vs actual result when verbose mode is enabled
func logResult(testName string, success bool, detail string) {
	if Verbose {
		status := "OK"
		if !success {
			status = "FAIL"
		}
		fmt.Printf("  [%s] %s: %s\n", testName, status, detail)
	}
}

const replyTimeout = 2 * time.Second

type scenario struct {
	Name string
	Func func(Target) TestResult
}

func getAllTests() []scenario {
	return []scenario{
		// Group 1: Connection
		{"Basic Connection", TestBasicConnection},
		{"Invalid Choice", TestInvalidChoice},
		{"WebSocket Connection", TestWebSocketConnection},
		{"Help Command", TestHelpCommand},
		{"Unknown Command", TestUnknownCommand},
		{"Who Multiple Players", TestWhoMultiplePlayers},
		{"Quit Command", TestQuitCommand},

		// Group 2: Accounts
		{"Account System", TestAccountSystem},
		{"Weak Password", TestWeakPassword},
		{"Duplicate Username", TestDuplicateUsername},
		{"Guest Name Taken", TestGuestNameTaken},

		// Group 3: Levels
		{"Level Deterministic", TestLevelDeterministic},
		{"Level Modes", TestLevelModes},
		{"Random Level", TestRandomLevel},
		{"Map Command", TestMapCommand},
		{"Unknown Level", TestUnknownLevel},

		// Group 4: Scores
		{"Score Recording", TestScoreRecording},
		{"Score Validation", TestScoreValidation},
		{"Best Command", TestBestCommand},
		{"Leaderboard", TestLeaderboard},

		// Group 5: HTTP API
		{"API Health", TestAPIHealth},
		{"API Level Matches Telnet", TestAPILevelMatchesTelnet},
		{"API Level Formats", TestAPILevelFormats},
		{"API Leaderboard", TestAPILeaderboard},
	}
}

// RunAllTests runs every scenario in order.
func RunAllTests(target Target) []TestResult {
	var results []TestResult
	for _, t := range getAllTests() {
		results = append(results, t.Func(target))
	}
	return results
}

// GetTestNames returns the names of all available tests
func GetTestNames() []string {
	tests := getAllTests()
	names := make([]string, len(tests))
	for i, t := range tests {
		names[i] = t.Name
	}
	return names
}

// RunFilteredTests runs only tests whose names contain the filter string (case-insensitive)
func RunFilteredTests(target Target, filter string) []TestResult {
	var results []TestResult
	filterLower := strings.ToLower(filter)
	for _, t := range getAllTests() {
		if strings.Contains(strings.ToLower(t.Name), filterLower) {
			results = append(results, t.Func(target))
		}
	}
	return results
}

// PrintResults prints all test results in a formatted way
func PrintResults(results []TestResult) {
	passed := 0
	failed := 0

	fmt.Println("============================================================")
	fmt.Println("Integration Test Results")
	fmt.Println("============================================================")
	fmt.Println()

	for _, r := range results {
		status := "PASS"
		if !r.Passed {
			status = "FAIL"
			failed++
		} else {
			passed++
		}
		fmt.Printf("[%s] %s: %s\n", status, r.Name, r.Message)
	}

	fmt.Println()
	fmt.Println("------------------------------------------------------------")
	fmt.Printf("Total: %d | Passed: %d | Failed: %d\n", len(results), passed, failed)
	fmt.Println("------------------------------------------------------------")
}
