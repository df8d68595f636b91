package database

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/lawnchairsociety/openscroller/internal/logger"
)

// bcrypt cost factor (12 is a good balance of security and performance)
const bcryptCost = 12

// ErrAccountNotFound is returned when an account lookup fails.
var ErrAccountNotFound = errors.New("account not found")

// ErrAccountExists is returned when trying to create a duplicate account.
var ErrAccountExists = errors.New("account already exists")

// ErrInvalidCredentials is returned when login credentials are incorrect.
var ErrInvalidCredentials = errors.New("invalid username or password")

// ErrAccountBanned is returned when a banned account tries to login.
var ErrAccountBanned = errors.New("account is banned")

// Account represents a player account on the leaderboard service.
type Account struct {
	ID           int64
	Username     string
	PasswordHash string
	CreatedAt    time.Time
	LastLogin    *time.Time
	LastIP       string
	Banned       bool
}

const accountColumns = "id, username, password_hash, created_at, last_login, last_ip, banned"

// CreateAccount creates a new account with the given username and password.
// The password is hashed with bcrypt before storage.
func (d *Database) CreateAccount(username, password string) (*Account, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, errors.New("username cannot be empty")
	}
	if len(password) < 4 {
		return nil, errors.New("password must be at least 4 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	id, err := d.insertID(d.db,
		"INSERT INTO accounts (username, password_hash) VALUES (?, ?)",
		username, string(hash),
	)
	if err != nil {
		if d.dialect.IsDuplicateKeyError(err) {
			return nil, ErrAccountExists
		}
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	return &Account{
		ID:           id,
		Username:     username,
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
	}, nil
}

// ValidateLogin checks the username and password and records the login IP.
func (d *Database) ValidateLogin(username, password, ipAddress string) (*Account, error) {
	account, err := d.GetAccountByUsername(username)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if account.Banned {
		return nil, ErrAccountBanned
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := d.UpdateLastLoginAndIP(account.ID, ipAddress); err != nil {
		logger.Warning("Failed to update last login", "account", account.Username, "error", err)
	}

	return account, nil
}

// GetAccountByUsername retrieves an account by username (case-insensitive).
func (d *Database) GetAccountByUsername(username string) (*Account, error) {
	row := d.db.QueryRow(d.q("SELECT "+accountColumns+" FROM accounts WHERE username = ?"), username)
	return scanAccount(row)
}

// GetAccountByID retrieves an account by ID.
func (d *Database) GetAccountByID(accountID int64) (*Account, error) {
	row := d.db.QueryRow(d.q("SELECT "+accountColumns+" FROM accounts WHERE id = ?"), accountID)
	return scanAccount(row)
}

func scanAccount(row *sql.Row) (*Account, error) {
	var account Account
	var lastLogin sql.NullTime
	var lastIP sql.NullString
	var banned int

	err := row.Scan(&account.ID, &account.Username, &account.PasswordHash, &account.CreatedAt, &lastLogin, &lastIP, &banned)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	if lastLogin.Valid {
		account.LastLogin = &lastLogin.Time
	}
	if lastIP.Valid {
		account.LastIP = lastIP.String
	}
	account.Banned = banned != 0

	return &account, nil
}

// UpdateLastLoginAndIP updates the last_login timestamp and IP address for an account.
func (d *Database) UpdateLastLoginAndIP(accountID int64, ipAddress string) error {
	_, err := d.db.Exec(
		d.q("UPDATE accounts SET last_login = CURRENT_TIMESTAMP, last_ip = ? WHERE id = ?"),
		ipAddress, accountID,
	)
	if err != nil {
		return fmt.Errorf("failed to update last login and IP: %w", err)
	}
	return nil
}

// SetBanned sets or clears the banned flag for an account.
func (d *Database) SetBanned(accountID int64, banned bool) error {
	value := 0
	if banned {
		value = 1
	}
	_, err := d.db.Exec(d.q("UPDATE accounts SET banned = ? WHERE id = ?"), value, accountID)
	if err != nil {
		return fmt.Errorf("failed to update ban status: %w", err)
	}
	return nil
}

// ChangePassword replaces an account's password.
func (d *Database) ChangePassword(accountID int64, newPassword string) error {
	if len(newPassword) < 4 {
		return errors.New("password must be at least 4 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	_, err = d.db.Exec(d.q("UPDATE accounts SET password_hash = ? WHERE id = ?"), string(hash), accountID)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

// AccountExists checks if an account with the given username exists.
func (d *Database) AccountExists(username string) (bool, error) {
	var count int
	err := d.db.QueryRow(d.q("SELECT COUNT(*) FROM accounts WHERE username = ?"), username).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check account existence: %w", err)
	}
	return count > 0, nil
}

// GetTotalAccounts returns the total number of accounts.
func (d *Database) GetTotalAccounts() (int, error) {
	var count int
	err := d.db.QueryRow("SELECT COUNT(*) FROM accounts").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count accounts: %w", err)
	}
	return count, nil
}

// AllAccounts returns every account ordered by id.
func (d *Database) AllAccounts() ([]*Account, error) {
	rows, err := d.db.Query("SELECT " + accountColumns + " FROM accounts ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*Account
	for rows.Next() {
		var account Account
		var lastLogin sql.NullTime
		var lastIP sql.NullString
		var banned int
		if err := rows.Scan(&account.ID, &account.Username, &account.PasswordHash, &account.CreatedAt, &lastLogin, &lastIP, &banned); err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		if lastLogin.Valid {
			account.LastLogin = &lastLogin.Time
		}
		if lastIP.Valid {
			account.LastIP = lastIP.String
		}
		account.Banned = banned != 0
		accounts = append(accounts, &account)
	}
	return accounts, rows.Err()
}

// ImportAccount inserts an account with an existing id and password hash.
// It is used when copying data between databases.
func (d *Database) ImportAccount(a *Account) error {
	banned := 0
	if a.Banned {
		banned = 1
	}
	_, err := d.db.Exec(
		d.q("INSERT INTO accounts (id, username, password_hash, created_at, last_login, last_ip, banned) VALUES (?, ?, ?, ?, ?, ?, ?)"),
		a.ID, a.Username, a.PasswordHash, a.CreatedAt, a.LastLogin, nullString(a.LastIP), banned,
	)
	if err != nil {
		if d.dialect.IsDuplicateKeyError(err) {
			return ErrAccountExists
		}
		return fmt.Errorf("failed to import account: %w", err)
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
