package test

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/lawnchairsociety/openscroller/internal/testclient"
)

// =============================================================================
// Group 4: Scores
// =============================================================================

var highScorePattern = regexp.MustCompile(`High score: (\d+)`)

// currentHighScore reads the high score via the best command.
func currentHighScore(client *testclient.TestClient) (int, bool) {
	if !client.Do("best", "High score:", replyTimeout) {
		return 0, false
	}
	for _, msg := range client.GetMessages() {
		if m := highScorePattern.FindStringSubmatch(msg); m != nil {
			n, err := strconv.Atoi(m[1])
			return n, err == nil
		}
	}
	return 0, false
}

// levelFor fetches a level and returns its id.
func levelFor(client *testclient.TestClient, seed int) string {
	if !client.Do(fmt.Sprintf("level %d", seed), "goombas", replyTimeout) {
		return ""
	}
	return client.LastLevelID()
}

// TestScoreRecording records scores and checks the personal best and high
// score notices.
func TestScoreRecording(target Target) TestResult {
	const testName = "Score Recording"

	name := uniqueName("Score")
	client, err := testclient.Register(name, testPassword(name), target.Telnet)
	if err != nil {
		return fail(testName, "Registration failed: %v", err)
	}
	defer client.Close()

	id := levelFor(client, 1001)
	if id == "" {
		return fail(testName, "No level: %v", client.GetMessages())
	}

	logAction(testName, "First score")
	if !client.Do(fmt.Sprintf("score %s 100 lost", id), "Score recorded: 100 (lost).", replyTimeout) {
		return fail(testName, "Score not recorded: %v", client.GetMessages())
	}
	if _, ok := client.WaitForAnyMessage([]string{"New personal best!", "NEW HIGH SCORE!"}, replyTimeout); !ok {
		return fail(testName, "First score was not a personal best: %v", client.GetMessages())
	}

	logAction(testName, "Lower score")
	client.Do(fmt.Sprintf("score %s 50", id), "Score recorded: 50", replyTimeout)
	if client.HasMessage("personal best") || client.HasMessage("HIGH SCORE") {
		return fail(testName, "Lower score celebrated: %v", client.GetMessages())
	}

	high, ok := currentHighScore(client)
	if !ok {
		return fail(testName, "Could not read the high score")
	}
	beat := high + 1
	logAction(testName, fmt.Sprintf("Beating the high score with %d", beat))
	if !client.Do(fmt.Sprintf("score %s %d won", id, beat), "NEW HIGH SCORE!", replyTimeout) {
		return fail(testName, "High score not announced: %v", client.GetMessages())
	}
	return pass(testName, fmt.Sprintf("Personal best and high score (%d) announced", beat))
}

// TestScoreValidation checks malformed score commands.
func TestScoreValidation(target Target) TestResult {
	const testName = "Score Validation"

	client, err := testclient.Guest(uniqueName("Val"), target.Telnet)
	if err != nil {
		return fail(testName, "Connection failed: %v", err)
	}
	defer client.Close()

	id := levelFor(client, 1002)
	if id == "" {
		return fail(testName, "No level: %v", client.GetMessages())
	}

	cases := []struct {
		cmd  string
		want string
	}{
		{"score", "Usage:"},
		{"score " + id, "Usage:"},
		{"score " + id + " lots", "Points must be"},
		{"score " + id + " -5", "Points must be"},
		{"score " + id + " 10 maybe", "Outcome must be"},
		{"score 00000000-0000-0000-0000-000000000000 10", "Unknown level"},
	}
	for _, tc := range cases {
		ok := client.Do(tc.cmd, tc.want, replyTimeout)
		logResult(testName, ok, tc.cmd)
		if !ok {
			return fail(testName, "%q: want %q, got %v", tc.cmd, tc.want, client.GetMessages())
		}
	}

	if !client.Do("score "+id+" 10 timeup", "(timeup)", replyTimeout) {
		return fail(testName, "Guest score not recorded: %v", client.GetMessages())
	}
	return pass(testName, fmt.Sprintf("%d malformed commands rejected, guest score kept", len(cases)))
}

// TestBestCommand checks that best reports the player's own top score.
func TestBestCommand(target Target) TestResult {
	const testName = "Best Command"

	client, err := testclient.Guest(uniqueName("Best"), target.Telnet)
	if err != nil {
		return fail(testName, "Connection failed: %v", err)
	}
	defer client.Close()

	if !client.Do("best", "Your best: 0", replyTimeout) {
		return fail(testName, "New player has a best: %v", client.GetMessages())
	}

	id := levelFor(client, 1003)
	client.Do("score "+id+" 321 won", "Score recorded", replyTimeout)
	client.Do("score "+id+" 123 lost", "Score recorded", replyTimeout)
	if !client.Do("best", "Your best: 321", replyTimeout) {
		return fail(testName, "best does not show 321: %v", client.GetMessages())
	}
	return pass(testName, "best tracks the top score")
}

// TestLeaderboard checks top output and argument handling.
func TestLeaderboard(target Target) TestResult {
	const testName = "Leaderboard"

	client, err := testclient.Guest(uniqueName("Top"), target.Telnet)
	if err != nil {
		return fail(testName, "Connection failed: %v", err)
	}
	defer client.Close()

	high, ok := currentHighScore(client)
	if !ok {
		return fail(testName, "Could not read the high score")
	}
	id := levelFor(client, 1004)
	client.Do(fmt.Sprintf("score %s %d won", id, high+10), "NEW HIGH SCORE!", replyTimeout)

	logAction(testName, "top 1")
	if !client.Do("top 1", client.Name, replyTimeout) {
		return fail(testName, "Leader not shown: %v", client.GetMessages())
	}
	if !client.HasMessage(" <") {
		return fail(testName, "Own row not marked: %v", client.GetMessages())
	}
	if !client.Do("top zero", "Count must be", replyTimeout) {
		return fail(testName, "Bad count not rejected: %v", client.GetMessages())
	}
	return pass(testName, "Leaderboard shows the new leader")
}
