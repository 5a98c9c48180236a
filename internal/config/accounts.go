package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/sevigo/apply-warden/internal/core"
)

// AccountConfig is one hh.ru account and the resumes it applies with.
type AccountConfig struct {
	Email   string         `yaml:"email"`
	Resumes []ResumeConfig `yaml:"resumes"`
}

type ResumeConfig struct {
	Hash       string   `yaml:"hash"`
	Query      string   `yaml:"query"`
	Exclusions []string `yaml:"exclusions"`
}

type accountsFile struct {
	Accounts []AccountConfig `yaml:"accounts"`
}

// LoadAccounts reads and validates the accounts file.
func LoadAccounts(path string) ([]AccountConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return ParseAccounts(data)
}

// ParseAccounts decodes an accounts document.
func ParseAccounts(data []byte) ([]AccountConfig, error) {
	var f accountsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfigParsing, err)
	}
	normalizeAccounts(f.Accounts)
	if err := validateAccounts(f.Accounts); err != nil {
		return nil, err
	}
	return f.Accounts, nil
}

// normalizeAccounts trims the identifiers in place. The email becomes the
// credential id and the cookie file name.
func normalizeAccounts(accounts []AccountConfig) {
	for i := range accounts {
		a := &accounts[i]
		a.Email = strings.TrimSpace(a.Email)
		for j := range a.Resumes {
			a.Resumes[j].Hash = strings.TrimSpace(a.Resumes[j].Hash)
			a.Resumes[j].Query = strings.TrimSpace(a.Resumes[j].Query)
		}
	}
}

func validateAccounts(accounts []AccountConfig) error {
	if len(accounts) == 0 {
		return ErrNoAccounts
	}
	seen := make(map[string]bool, len(accounts))
	for i, a := range accounts {
		email := a.Email
		switch {
		case email == "":
			return fmt.Errorf("%w: account %d has no email", ErrInvalidConfig, i+1)
		case strings.ContainsAny(email, `/\`):
			return fmt.Errorf("%w: account %q contains a path separator", ErrInvalidConfig, email)
		case seen[email]:
			return fmt.Errorf("%w: duplicate account %q", ErrInvalidConfig, email)
		}
		seen[email] = true
		if len(a.Resumes) == 0 {
			return fmt.Errorf("%w: account %q has no resumes", ErrInvalidConfig, email)
		}
		for j, r := range a.Resumes {
			if r.Hash == "" || r.Query == "" {
				return fmt.Errorf("%w: resume %d of %q needs a hash and a query", ErrInvalidConfig, j+1, email)
			}
		}
	}
	return nil
}

// Queries returns the distinct resume queries in first-seen order.
func Queries(accounts []AccountConfig) []string {
	var out []string
	seen := make(map[string]bool)
	for _, a := range accounts {
		for _, r := range a.Resumes {
			if !seen[r.Query] {
				seen[r.Query] = true
				out = append(out, r.Query)
			}
		}
	}
	return out
}

func (r ResumeConfig) Resume() core.Resume {
	return core.Resume{Hash: r.Hash, Query: r.Query, Exclusions: r.Exclusions}
}

func (c *Config) Filters() core.Filters {
	return core.Filters{Experience: c.Search.Experience}
}
