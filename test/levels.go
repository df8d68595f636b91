package test

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/lawnchairsociety/openscroller/internal/testclient"
)

// =============================================================================
// Group 3: Levels
// =============================================================================

// TestLevelDeterministic checks that two players asking for the same seed
// and mode get the same stored level.
func TestLevelDeterministic(target Target) TestResult {
	const testName = "Level Deterministic"

	seed := rand.Int63n(1 << 30)
	cmd := fmt.Sprintf("level %d overworld", seed)

	client1, err := testclient.Guest(uniqueName("DetA"), target.Telnet)
	if err != nil {
		return fail(testName, "Client 1 failed: %v", err)
	}
	defer client1.Close()
	client2, err := testclient.Guest(uniqueName("DetB"), target.Telnet)
	if err != nil {
		return fail(testName, "Client 2 failed: %v", err)
	}
	defer client2.Close()

	logAction(testName, cmd)
	if !client1.Do(cmd, "goombas", replyTimeout) {
		return fail(testName, "Client 1 got no level: %v", client1.GetMessages())
	}
	if !client2.Do(cmd, "goombas", replyTimeout) {
		return fail(testName, "Client 2 got no level: %v", client2.GetMessages())
	}

	id1, id2 := client1.LastLevelID(), client2.LastLevelID()
	logResult(testName, id1 == id2, fmt.Sprintf("%s vs %s", id1, id2))
	if id1 == "" || id1 != id2 {
		return fail(testName, "Same seed gave different levels: %q vs %q", id1, id2)
	}
	return pass(testName, fmt.Sprintf("Seed %d maps to level %s for both players", seed, id1))
}

// TestLevelModes checks that each mode gets its own level for a seed.
func TestLevelModes(target Target) TestResult {
	const testName = "Level Modes"

	client, err := testclient.Guest(uniqueName("Mode"), target.Telnet)
	if err != nil {
		return fail(testName, "Connection failed: %v", err)
	}
	defer client.Close()

	seed := rand.Int63n(1 << 30)
	if !client.Do(fmt.Sprintf("level %d overworld", seed), ", overworld,", replyTimeout) {
		return fail(testName, "No overworld level: %v", client.GetMessages())
	}
	over := client.LastLevelID()
	if !client.Do(fmt.Sprintf("level %d underground", seed), ", underground,", replyTimeout) {
		return fail(testName, "No underground level: %v", client.GetMessages())
	}
	under := client.LastLevelID()
	if over == under {
		return fail(testName, "Both modes share level %s", over)
	}

	if !client.Do(fmt.Sprintf("level %d sky", seed), "Mode must be", replyTimeout) {
		return fail(testName, "Bad mode not rejected: %v", client.GetMessages())
	}
	return pass(testName, "Overworld and underground are separate levels")
}

// TestRandomLevel checks level without arguments.
func TestRandomLevel(target Target) TestResult {
	const testName = "Random Level"

	client, err := testclient.Guest(uniqueName("Rand"), target.Telnet)
	if err != nil {
		return fail(testName, "Connection failed: %v", err)
	}
	defer client.Close()

	if !client.Do("level", "goombas", replyTimeout) {
		return fail(testName, "No level: %v", client.GetMessages())
	}
	if client.LastLevelID() == "" {
		return fail(testName, "Summary carried no id")
	}
	if !client.Do("level abc", "Seed must be a number", replyTimeout) {
		return fail(testName, "Bad seed not rejected: %v", client.GetMessages())
	}
	return pass(testName, "Random level issued, bad seed rejected")
}

// TestMapCommand draws the last level and one by id.
func TestMapCommand(target Target) TestResult {
	const testName = "Map Command"

	client, err := testclient.Guest(uniqueName("Map"), target.Telnet)
	if err != nil {
		return fail(testName, "Connection failed: %v", err)
	}
	defer client.Close()

	if !client.Do("map", "No level yet", replyTimeout) {
		return fail(testName, "map without a level gave: %v", client.GetMessages())
	}

	if !client.Do("level 42", "goombas", replyTimeout) {
		return fail(testName, "No level: %v", client.GetMessages())
	}
	id := client.LastLevelID()

	logAction(testName, "Drawing the last level")
	client.Do("map", "> ", replyTimeout)
	lines := client.GetMessages()
	if len(lines) < 3 || !strings.Contains(strings.Join(lines, "\n"), "=") {
		return fail(testName, "Map too short or has no ground: %v", lines)
	}

	logAction(testName, "Drawing by id")
	client.Do("map "+id, "> ", replyTimeout)
	if strings.Join(client.GetMessages(), "\n") != strings.Join(lines, "\n") {
		return fail(testName, "Map by id differs from map of the last level")
	}
	return pass(testName, fmt.Sprintf("Map of %s has %d rows", id, len(lines)))
}

// TestUnknownLevel asks for a level id that does not exist.
func TestUnknownLevel(target Target) TestResult {
	const testName = "Unknown Level"

	client, err := testclient.Guest(uniqueName("Unkl"), target.Telnet)
	if err != nil {
		return fail(testName, "Connection failed: %v", err)
	}
	defer client.Close()

	if !client.Do("map 00000000-0000-0000-0000-000000000000", "Unknown level", replyTimeout) {
		return fail(testName, "Missing level not reported: %v", client.GetMessages())
	}
	if !client.Do("map nonsense", "Unknown level", replyTimeout) {
		return fail(testName, "Malformed id not reported: %v", client.GetMessages())
	}
	return pass(testName, "Unknown levels reported")
}
