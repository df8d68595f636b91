package database

import (
	"errors"
	"path/filepath"
	"testing"
)

func setupTestDB(t *testing.T) *Database {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	db, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

func TestCreateAccount(t *testing.T) {
	db := setupTestDB(t)

	account, err := db.CreateAccount("testuser", "password123")
	if err != nil {
		t.Fatalf("Failed to create account: %v", err)
	}

	if account.ID == 0 {
		t.Error("Account ID should not be 0")
	}
	if account.Username != "testuser" {
		t.Errorf("Username = %q, want %q", account.Username, "testuser")
	}
	if account.PasswordHash == "password123" {
		t.Error("Password should be hashed, not stored in plain text")
	}
}

func TestCreateAccountDuplicate(t *testing.T) {
	db := setupTestDB(t)

	if _, err := db.CreateAccount("testuser", "password123"); err != nil {
		t.Fatalf("Failed to create first account: %v", err)
	}

	_, err := db.CreateAccount("TestUser", "differentpass")
	if !errors.Is(err, ErrAccountExists) {
		t.Errorf("Expected ErrAccountExists for case-insensitive duplicate, got: %v", err)
	}
}

func TestCreateAccountValidation(t *testing.T) {
	db := setupTestDB(t)

	tests := []struct {
		name     string
		username string
		password string
	}{
		{"empty username", "   ", "password123"},
		{"short password", "shorty", "abc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := db.CreateAccount(tt.username, tt.password); err == nil {
				t.Error("Expected an error")
			}
		})
	}
}

func TestValidateLogin(t *testing.T) {
	db := setupTestDB(t)

	if _, err := db.CreateAccount("Jumper", "password123"); err != nil {
		t.Fatalf("Failed to create account: %v", err)
	}

	account, err := db.ValidateLogin("jumper", "password123", "10.0.0.7")
	if err != nil {
		t.Fatalf("ValidateLogin failed: %v", err)
	}
	if account.Username != "Jumper" {
		t.Errorf("Username = %q, want %q", account.Username, "Jumper")
	}

	reloaded, err := db.GetAccountByID(account.ID)
	if err != nil {
		t.Fatalf("GetAccountByID failed: %v", err)
	}
	if reloaded.LastIP != "10.0.0.7" {
		t.Errorf("LastIP = %q, want %q", reloaded.LastIP, "10.0.0.7")
	}
	if reloaded.LastLogin == nil {
		t.Error("LastLogin should be set after login")
	}
}

func TestValidateLoginFailures(t *testing.T) {
	db := setupTestDB(t)

	account, err := db.CreateAccount("testuser", "password123")
	if err != nil {
		t.Fatalf("Failed to create account: %v", err)
	}

	if _, err := db.ValidateLogin("testuser", "wrong", "127.0.0.1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password: got %v, want ErrInvalidCredentials", err)
	}
	if _, err := db.ValidateLogin("nobody", "password123", "127.0.0.1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown user: got %v, want ErrInvalidCredentials", err)
	}

	if err := db.SetBanned(account.ID, true); err != nil {
		t.Fatalf("SetBanned failed: %v", err)
	}
	if _, err := db.ValidateLogin("testuser", "password123", "127.0.0.1"); !errors.Is(err, ErrAccountBanned) {
		t.Errorf("banned user: got %v, want ErrAccountBanned", err)
	}

	if err := db.SetBanned(account.ID, false); err != nil {
		t.Fatalf("SetBanned failed: %v", err)
	}
	if _, err := db.ValidateLogin("testuser", "password123", "127.0.0.1"); err != nil {
		t.Errorf("unbanned user: got %v, want nil", err)
	}
}

func TestGetAccountNotFound(t *testing.T) {
	db := setupTestDB(t)

	if _, err := db.GetAccountByUsername("ghost"); !errors.Is(err, ErrAccountNotFound) {
		t.Errorf("GetAccountByUsername error = %v, want ErrAccountNotFound", err)
	}
	if _, err := db.GetAccountByID(999); !errors.Is(err, ErrAccountNotFound) {
		t.Errorf("GetAccountByID error = %v, want ErrAccountNotFound", err)
	}
}

func TestAccountExists(t *testing.T) {
	db := setupTestDB(t)

	exists, err := db.AccountExists("testuser")
	if err != nil {
		t.Fatalf("AccountExists failed: %v", err)
	}
	if exists {
		t.Error("Account should not exist yet")
	}

	if _, err := db.CreateAccount("testuser", "password123"); err != nil {
		t.Fatalf("Failed to create account: %v", err)
	}

	exists, err = db.AccountExists("TESTUSER")
	if err != nil {
		t.Fatalf("AccountExists failed: %v", err)
	}
	if !exists {
		t.Error("Account should exist")
	}
}

func TestChangePassword(t *testing.T) {
	db := setupTestDB(t)

	account, err := db.CreateAccount("testuser", "oldpassword")
	if err != nil {
		t.Fatalf("Failed to create account: %v", err)
	}

	if err := db.ChangePassword(account.ID, "newpassword"); err != nil {
		t.Fatalf("ChangePassword failed: %v", err)
	}

	if _, err := db.ValidateLogin("testuser", "oldpassword", ""); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("old password: got %v, want ErrInvalidCredentials", err)
	}
	if _, err := db.ValidateLogin("testuser", "newpassword", ""); err != nil {
		t.Errorf("new password: got %v, want nil", err)
	}
}

func TestGetTotalAccountsAndImport(t *testing.T) {
	db := setupTestDB(t)

	for _, name := range []string{"alpha", "bravo"} {
		if _, err := db.CreateAccount(name, "password123"); err != nil {
			t.Fatalf("Failed to create account %s: %v", name, err)
		}
	}

	accounts, err := db.AllAccounts()
	if err != nil {
		t.Fatalf("AllAccounts failed: %v", err)
	}

	other := setupTestDB(t)
	for _, a := range accounts {
		if err := other.ImportAccount(a); err != nil {
			t.Fatalf("ImportAccount(%s) failed: %v", a.Username, err)
		}
	}
	if err := other.ImportAccount(accounts[0]); !errors.Is(err, ErrAccountExists) {
		t.Errorf("duplicate import error = %v, want ErrAccountExists", err)
	}

	count, err := other.GetTotalAccounts()
	if err != nil {
		t.Fatalf("GetTotalAccounts failed: %v", err)
	}
	if count != 2 {
		t.Errorf("GetTotalAccounts = %d, want 2", count)
	}

	if _, err := other.ValidateLogin("bravo", "password123", ""); err != nil {
		t.Errorf("imported account login failed: %v", err)
	}
}
