package server

import (
	"errors"
	"strings"
	"unicode"

	"github.com/lawnchairsociety/openscroller/internal/database"
	"github.com/lawnchairsociety/openscroller/internal/logger"
)

// Player name length bounds, shared by accounts and guests.
const (
	minNameLength = 3
	maxNameLength = 20
)

var (
	errConnectionClosed = errors.New("connection closed")
	errRateLimited      = errors.New("rate limited")
)

// isValidName accepts letters, digits, hyphens and underscores. Names start
// with a letter and never hold two separators in a row.
func isValidName(name string) bool {
	runes := []rune(name)
	if len(runes) < minNameLength || len(runes) > maxNameLength {
		return false
	}
	if !unicode.IsLetter(runes[0]) {
		return false
	}

	prevSep := false
	for _, r := range runes {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			prevSep = false
		case r == '-' || r == '_':
			if prevSep {
				return false
			}
			prevSep = true
		default:
			return false
		}
	}
	return !prevSep
}

// handleAuth runs the welcome screen and returns the player's session.
func (s *Server) handleAuth(client Client) (*Session, error) {
	client.WriteLine("")
	client.WriteLine("=====================================")
	client.WriteLine("       Welcome to OpenScroller!")
	client.WriteLine("=====================================")
	client.WriteLine("")
	client.WriteLine("  [L] Login")
	client.WriteLine("  [R] Register")
	client.WriteLine("  [G] Guest")
	client.WriteLine("")

	choice, err := prompt(client, "Enter choice: ")
	if err != nil {
		return nil, errConnectionClosed
	}

	switch strings.ToLower(strings.TrimSpace(choice)) {
	case "l", "login":
		return s.handleLogin(client)
	case "r", "register":
		return s.handleRegister(client)
	case "g", "guest":
		return s.handleGuest(client)
	default:
		client.WriteLine("Invalid choice. Disconnecting.")
		return nil, errors.New("invalid choice")
	}
}

func (s *Server) handleLogin(client Client) (*Session, error) {
	client.WriteLine("")
	client.WriteLine("--- Login ---")

	ip := extractIP(client.RemoteAddr())
	if locked, left := s.loginRateLimiter.IsLocked(ip); locked {
		writef(client, "Too many failed login attempts. Please wait %d seconds.", int(left.Seconds()))
		return nil, errRateLimited
	}

	username, err := prompt(client, "Username: ")
	if err != nil {
		return nil, errConnectionClosed
	}
	username = strings.TrimSpace(username)
	if username == "" {
		client.WriteLine("Username cannot be empty.")
		return nil, errors.New("empty username")
	}
	password, err := prompt(client, "Password: ")
	if err != nil {
		return nil, errConnectionClosed
	}

	account, err := s.db.ValidateLogin(username, password, ip)
	switch {
	case errors.Is(err, database.ErrAccountBanned):
		logger.Info("Login attempt on banned account", "username", username, "ip", ip, "event", "login_banned")
		client.WriteLine("This account has been banned.")
		return nil, err
	case errors.Is(err, database.ErrInvalidCredentials):
		logger.Info("Failed login attempt", "username", username, "ip", ip, "event", "login_failed")
		if locked, d := s.loginRateLimiter.RecordFailure(ip); locked {
			logger.Warning("IP rate limited after failed logins",
				"ip", ip,
				"lockout_seconds", int(d.Seconds()),
				"event", "login_ratelimit")
			writef(client, "Invalid username or password. Too many attempts - locked out for %d seconds.", int(d.Seconds()))
			return nil, errRateLimited
		}
		client.WriteLine("Invalid username or password.")
		return nil, err
	case err != nil:
		client.WriteLine("An error occurred. Please try again.")
		return nil, err
	}

	s.loginRateLimiter.RecordSuccess(ip)
	logger.Info("Successful login", "username", account.Username, "account_id", account.ID, "ip", ip, "event", "login_success")
	writef(client, "Welcome back, %s!", account.Username)

	id := account.ID
	return newSession(client, account.Username, &id), nil
}

func (s *Server) handleRegister(client Client) (*Session, error) {
	client.WriteLine("")
	client.WriteLine("--- Register ---")

	username, err := prompt(client, "Choose a username: ")
	if err != nil {
		return nil, errConnectionClosed
	}
	username = strings.TrimSpace(username)
	if !isValidName(username) {
		writef(client, "Usernames are %d-%d letters, digits, '-' or '_', starting with a letter.", minNameLength, maxNameLength)
		return nil, errors.New("invalid username")
	}
	if res := s.nameFilter.Check(username); !res.Allowed {
		client.WriteLine(res.Reason)
		logger.Info("Name rejected", "name", username, "ip", extractIP(client.RemoteAddr()), "event", "name_rejected")
		return nil, errors.New("username rejected by name filter")
	}

	pw := s.serverConfig.Password
	password, err := prompt(client, "Choose a password ("+pw.RequirementsText()+"): ")
	if err != nil {
		return nil, errConnectionClosed
	}
	if msg := pw.ValidatePassword(password); msg != "" {
		client.WriteLine(msg)
		return nil, errors.New("password requirements not met")
	}
	confirm, err := prompt(client, "Confirm password: ")
	if err != nil {
		return nil, errConnectionClosed
	}
	if password != confirm {
		client.WriteLine("Passwords do not match.")
		return nil, errors.New("password mismatch")
	}

	account, err := s.db.CreateAccount(username, password)
	if err != nil {
		if errors.Is(err, database.ErrAccountExists) {
			client.WriteLine("That username is already taken.")
			return nil, err
		}
		client.WriteLine("An error occurred. Please try again.")
		return nil, err
	}

	logger.Info("Account registered",
		"username", account.Username,
		"account_id", account.ID,
		"ip", extractIP(client.RemoteAddr()),
		"event", "account_register")
	writef(client, "Account created! Welcome, %s!", account.Username)

	id := account.ID
	return newSession(client, account.Username, &id), nil
}

// handleGuest lets a player in under a name that no account owns. Guest
// scores are recorded without an account id.
func (s *Server) handleGuest(client Client) (*Session, error) {
	name, err := prompt(client, "Pick a name: ")
	if err != nil {
		return nil, errConnectionClosed
	}
	name = strings.TrimSpace(name)
	if !isValidName(name) {
		writef(client, "Names are %d-%d letters, digits, '-' or '_', starting with a letter.", minNameLength, maxNameLength)
		return nil, errors.New("invalid guest name")
	}
	if res := s.nameFilter.Check(name); !res.Allowed {
		client.WriteLine(res.Reason)
		logger.Info("Name rejected", "name", name, "ip", extractIP(client.RemoteAddr()), "event", "name_rejected")
		return nil, errors.New("guest name rejected by name filter")
	}

	exists, err := s.db.AccountExists(name)
	if err != nil {
		client.WriteLine("An error occurred. Please try again.")
		return nil, err
	}
	if exists {
		client.WriteLine("That name belongs to an account. Please log in.")
		return nil, errors.New("guest name taken")
	}

	logger.Info("Guest joined", "name", name, "ip", extractIP(client.RemoteAddr()), "event", "guest_join")
	writef(client, "Welcome, %s! Playing as a guest.", name)
	return newSession(client, name, nil), nil
}
