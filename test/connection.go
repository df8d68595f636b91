package test

import (
	"fmt"
	"strings"
	"time"

	"github.com/lawnchairsociety/openscroller/internal/testclient"
)

// =============================================================================
// Group 1: Connection & Session
// =============================================================================

// TestBasicConnection tests that clients can connect and receive welcome
func TestBasicConnection(target Target) TestResult {
	const testName = "Basic Connection"

	logAction(testName, "Connecting...")
	client, err := testclient.Raw(target.Telnet)
	if err != nil {
		return fail(testName, "Failed to connect: %v", err)
	}
	defer client.Close()

	messages := client.GetMessages()
	logResult(testName, len(messages) > 0, fmt.Sprintf("Received %d messages", len(messages)))

	if !client.HasMessage("Welcome to OpenScroller!") {
		return fail(testName, "No welcome banner, got %v", messages)
	}
	return pass(testName, fmt.Sprintf("Connected successfully, received %d messages", len(messages)))
}

// TestInvalidChoice checks that a bad menu answer hangs up.
func TestInvalidChoice(target Target) TestResult {
	const testName = "Invalid Choice"

	client, err := testclient.Raw(target.Telnet)
	if err != nil {
		return fail(testName, "Failed to connect: %v", err)
	}
	defer client.Close()

	logAction(testName, "Sending 'x' at the menu")
	if !client.Do("x", "Invalid choice", replyTimeout) {
		return fail(testName, "No rejection message, got %v", client.GetMessages())
	}
	if !client.Closed(replyTimeout) {
		return fail(testName, "Server kept the connection open")
	}
	return pass(testName, "Invalid choice rejected and connection closed")
}

// TestWebSocketConnection runs a guest session over /ws.
func TestWebSocketConnection(target Target) TestResult {
	const testName = "WebSocket Connection"

	url := target.WebSocketURL()
	logAction(testName, "Dialing "+url)
	client, err := testclient.DialWebSocket(url)
	if err != nil {
		return fail(testName, "Failed to connect: %v", err)
	}
	defer client.Close()

	if !client.WaitForMessage("Enter choice: ", replyTimeout) {
		return fail(testName, "No welcome screen over WebSocket, got %v", client.GetMessages())
	}

	name := uniqueName("Ws")
	client.SendCommand("g")
	time.Sleep(100 * time.Millisecond)
	if !client.Do(name, "Playing as a guest", replyTimeout) {
		return fail(testName, "Guest join failed, got %v", client.GetMessages())
	}

	logAction(testName, "Requesting level 7")
	if !client.Do("level 7", "seed 7", replyTimeout) {
		return fail(testName, "No level summary, got %v", client.GetMessages())
	}
	id := client.LastLevelID()
	logResult(testName, id != "", "level id "+id)
	if id == "" {
		return fail(testName, "Level summary carried no id")
	}
	return pass(testName, "Guest session over WebSocket got level "+id)
}

// TestHelpCommand checks that help lists every command.
func TestHelpCommand(target Target) TestResult {
	const testName = "Help Command"

	client, err := testclient.Guest(uniqueName("Help"), target.Telnet)
	if err != nil {
		return fail(testName, "Connection failed: %v", err)
	}
	defer client.Close()

	if !client.Do("help", "Commands:", replyTimeout) {
		return fail(testName, "No help output")
	}
	for _, cmd := range []string{"level", "map", "score", "top", "best", "who", "quit"} {
		found := false
		for _, msg := range client.GetMessages() {
			if strings.HasPrefix(strings.TrimSpace(msg), cmd) {
				found = true
				break
			}
		}
		logResult(testName, found, "help lists "+cmd)
		if !found {
			return fail(testName, "help does not list %q", cmd)
		}
	}
	return pass(testName, "help lists all commands")
}

// TestUnknownCommand checks the reply to a command that does not exist.
func TestUnknownCommand(target Target) TestResult {
	const testName = "Unknown Command"

	client, err := testclient.Guest(uniqueName("Unk"), target.Telnet)
	if err != nil {
		return fail(testName, "Connection failed: %v", err)
	}
	defer client.Close()

	if !client.Do("jump", "Unknown command", replyTimeout) {
		return fail(testName, "No unknown-command reply, got %v", client.GetMessages())
	}
	if !client.Do("best", "High score:", replyTimeout) {
		return fail(testName, "Session did not survive an unknown command")
	}
	return pass(testName, "Unknown command reported, session still usable")
}

// TestWhoMultiplePlayers checks that two connected players see each other.
func TestWhoMultiplePlayers(target Target) TestResult {
	const testName = "Who Multiple Players"

	name1 := uniqueName("WhoA")
	name2 := uniqueName("WhoB")

	client1, err := testclient.Guest(name1, target.Telnet)
	if err != nil {
		return fail(testName, "Client 1 failed: %v", err)
	}
	defer client1.Close()

	client2, err := testclient.Guest(name2, target.Telnet)
	if err != nil {
		return fail(testName, "Client 2 failed: %v", err)
	}
	defer client2.Close()

	if !client1.Do("who", "Online (", replyTimeout) {
		return fail(testName, "No who output")
	}
	if !client1.HasMessage(name2) {
		return fail(testName, "%s does not see %s: %v", name1, name2, client1.GetMessages())
	}
	if !client2.Do("who", name1, replyTimeout) {
		return fail(testName, "%s does not see %s: %v", name2, name1, client2.GetMessages())
	}

	logAction(testName, name2+" quits")
	client2.Do("quit", "Goodbye!", replyTimeout)
	time.Sleep(200 * time.Millisecond)
	client1.Do("who", "Online (", replyTimeout)
	if client1.HasMessage(name2) {
		return fail(testName, "%s still listed after quitting", name2)
	}
	return pass(testName, "Both players listed, departure noticed")
}

// TestQuitCommand checks that quit says goodbye and hangs up.
func TestQuitCommand(target Target) TestResult {
	const testName = "Quit Command"

	client, err := testclient.Guest(uniqueName("Quit"), target.Telnet)
	if err != nil {
		return fail(testName, "Connection failed: %v", err)
	}
	defer client.Close()

	if !client.Do("quit", "Goodbye!", replyTimeout) {
		return fail(testName, "No goodbye, got %v", client.GetMessages())
	}
	if !client.Closed(replyTimeout) {
		return fail(testName, "Connection still open after quit")
	}
	return pass(testName, "quit closed the session")
}
