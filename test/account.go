package test

import (
	"fmt"
	"time"

	"github.com/lawnchairsociety/openscroller/internal/testclient"
)

// =============================================================================
// Group 2: Accounts
// =============================================================================

// TestAccountSystem tests registration and logging back in.
func TestAccountSystem(target Target) TestResult {
	const testName = "Account System"

	username := uniqueName("Acct")
	password := testPassword(username)

	logAction(testName, fmt.Sprintf("Registering '%s'...", username))
	client, err := testclient.Register(username, password, target.Telnet)
	if err != nil {
		return fail(testName, "Registration failed: %v", err)
	}
	client.Do("quit", "Goodbye!", replyTimeout)
	client.Close()
	time.Sleep(200 * time.Millisecond)

	logAction(testName, "Logging in again...")
	client, err = testclient.Login(username, password, target.Telnet)
	if err != nil {
		return fail(testName, "Login failed: %v", err)
	}
	defer client.Close()

	if !client.Do("who", username, replyTimeout) {
		return fail(testName, "Logged-in player not listed by who")
	}

	logAction(testName, "Trying a wrong password")
	bad, err := testclient.Raw(target.Telnet)
	if err != nil {
		return fail(testName, "Connection failed: %v", err)
	}
	defer bad.Close()
	bad.SendCommand("l")
	time.Sleep(100 * time.Millisecond)
	bad.SendCommand(username)
	time.Sleep(100 * time.Millisecond)
	if !bad.Do("wrong"+password, "Invalid username or password", replyTimeout) {
		return fail(testName, "Wrong password accepted or no error: %v", bad.GetMessages())
	}
	return pass(testName, "Register, login and bad password all behave")
}

// TestWeakPassword checks that registration enforces the password rules.
func TestWeakPassword(target Target) TestResult {
	const testName = "Weak Password"

	client, err := testclient.Raw(target.Telnet)
	if err != nil {
		return fail(testName, "Connection failed: %v", err)
	}
	defer client.Close()

	client.SendCommand("r")
	time.Sleep(100 * time.Millisecond)
	client.SendCommand(uniqueName("Weak"))
	time.Sleep(100 * time.Millisecond)

	logAction(testName, "Sending a short password")
	if !client.Do("abc", "Password must", replyTimeout) {
		return fail(testName, "Weak password not rejected: %v", client.GetMessages())
	}
	return pass(testName, "Weak password rejected")
}

// TestDuplicateUsername checks that a taken username cannot be registered.
func TestDuplicateUsername(target Target) TestResult {
	const testName = "Duplicate Username"

	username := uniqueName("Dup")
	password := testPassword(username)
	first, err := testclient.Register(username, password, target.Telnet)
	if err != nil {
		return fail(testName, "Registration failed: %v", err)
	}
	first.Close()

	logAction(testName, "Registering the same name again")
	_, err = testclient.Register(username, password, target.Telnet)
	logResult(testName, err != nil, fmt.Sprintf("second registration error: %v", err))
	if err == nil {
		return fail(testName, "Second registration of %s succeeded", username)
	}
	return pass(testName, "Duplicate username refused")
}

// TestGuestNameTaken checks that guests cannot borrow an account's name.
func TestGuestNameTaken(target Target) TestResult {
	const testName = "Guest Name Taken"

	username := uniqueName("Own")
	client, err := testclient.Register(username, testPassword(username), target.Telnet)
	if err != nil {
		return fail(testName, "Registration failed: %v", err)
	}
	client.Close()

	guest, err := testclient.Raw(target.Telnet)
	if err != nil {
		return fail(testName, "Connection failed: %v", err)
	}
	defer guest.Close()

	guest.SendCommand("g")
	time.Sleep(100 * time.Millisecond)
	if !guest.Do(username, "belongs to an account", replyTimeout) {
		return fail(testName, "Guest allowed to use %s: %v", username, guest.GetMessages())
	}
	return pass(testName, "Account name reserved from guests")
}
