// Package namefilter rejects player names that are reserved or contain
// banned words. Matching ignores case, '-' and '_', and common digit
// substitutions, so "Adm1n" and "a_d_m_i_n" both match "admin".
package namefilter

import (
	"strings"
)

// Config holds the name filter configuration
type Config struct {
	Enabled       bool     `yaml:"enabled"`
	BannedWords   []string `yaml:"banned_words"`   // partial match
	ReservedNames []string `yaml:"reserved_names"` // exact match
}

// DefaultConfig reserves the names players could use to impersonate the
// service.
func DefaultConfig() Config {
	return Config{
		Enabled:       true,
		ReservedNames: []string{"admin", "administrator", "moderator", "server", "system", "openscroller"},
	}
}

// Result contains the outcome of checking a name
type Result struct {
	Allowed bool   // Whether the name is allowed
	Reason  string // Reason for rejection (if not allowed)
}

// NameFilter handles name validation against banned words and names
type NameFilter struct {
	enabled     bool
	bannedWords []string // normalized, partial match
	reserved    map[string]struct{}
}

// New creates a new NameFilter from a Config
func New(cfg Config) *NameFilter {
	nf := &NameFilter{
		enabled:  cfg.Enabled,
		reserved: make(map[string]struct{}, len(cfg.ReservedNames)),
	}
	for _, word := range cfg.BannedWords {
		if w := normalize(word); w != "" {
			nf.bannedWords = append(nf.bannedWords, w)
		}
	}
	for _, name := range cfg.ReservedNames {
		if n := normalize(name); n != "" {
			nf.reserved[n] = struct{}{}
		}
	}
	return nf
}

var leet = strings.NewReplacer("0", "o", "1", "i", "3", "e", "4", "a", "5", "s", "7", "t", "-", "", "_", "")

func normalize(s string) string {
	return leet.Replace(strings.ToLower(strings.TrimSpace(s)))
}

// Check validates a name against the filter rules
func (nf *NameFilter) Check(name string) Result {
	if nf == nil || !nf.enabled {
		return Result{Allowed: true}
	}

	n := normalize(name)
	if _, ok := nf.reserved[n]; ok {
		return Result{Allowed: false, Reason: "That name is reserved."}
	}
	for _, word := range nf.bannedWords {
		if strings.Contains(n, word) {
			return Result{Allowed: false, Reason: "That name contains a word that is not allowed."}
		}
	}
	return Result{Allowed: true}
}
