// Package directory is the read-only registry of known personnel and their login
// accounts.
package directory

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/yukikurage/workstream-api/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
)

// Access is the role an account logs in with.
type Access string

const (
	AccessManager  Access = "manager"
	AccessEmployee Access = "employee"
)

var (
	ErrDuplicateAccount = errors.New("duplicate account")
	ErrMissingPassword  = errors.New("account has no password")
	ErrInvalidAccess    = errors.New("invalid access level")
)

// Account is a person who can log in.
type Account struct {
	models.Person `yaml:",inline"`
	Username      string `yaml:"username"`
	Access        Access `yaml:"access"`
	PasswordHash  string `yaml:"password_hash"`
	// Password is a plain-text seed, hashed when the directory is built.
	Password string `yaml:"password"`
}

// IsManager reports whether the account has manager access.
func (a Account) IsManager() bool {
	return a.Access == AccessManager
}

type file struct {
	Accounts []Account `yaml:"accounts"`
}

// Directory is immutable after construction and safe for concurrent reads.
type Directory struct {
	accounts   []Account
	byID       map[string]int
	byUsername map[string]int
}

type options struct {
	hashCost int
}

// Option configures how a directory is built.
type Option func(*options)

// WithHashCost sets the bcrypt cost used to hash plain-text seed passwords.
func WithHashCost(cost int) Option {
	return func(o *options) {
		o.hashCost = cost
	}
}

// New builds a directory from accounts, hashing any plain-text seed password.
func New(accounts []Account, opts ...Option) (*Directory, error) {
	o := options{hashCost: bcrypt.DefaultCost}
	for _, opt := range opts {
		opt(&o)
	}

	d := &Directory{
		accounts:   make([]Account, 0, len(accounts)),
		byID:       make(map[string]int, len(accounts)),
		byUsername: make(map[string]int, len(accounts)),
	}
	for _, a := range accounts {
		a.Username = normalizeUsername(a.Username)
		if a.Access == "" {
			a.Access = AccessEmployee
		}
		if a.Access != AccessManager && a.Access != AccessEmployee {
			return nil, fmt.Errorf("%w: %q for %s", ErrInvalidAccess, a.Access, a.ID)
		}
		if _, ok := d.byID[a.ID]; ok {
			return nil, fmt.Errorf("%w: id %s", ErrDuplicateAccount, a.ID)
		}
		if _, ok := d.byUsername[a.Username]; ok {
			return nil, fmt.Errorf("%w: username %s", ErrDuplicateAccount, a.Username)
		}
		if a.PasswordHash == "" {
			if a.Password == "" {
				return nil, fmt.Errorf("%w: %s", ErrMissingPassword, a.ID)
			}
			hash, err := bcrypt.GenerateFromPassword([]byte(a.Password), o.hashCost)
			if err != nil {
				return nil, fmt.Errorf("failed to hash password for %s: %w", a.ID, err)
			}
			a.PasswordHash = string(hash)
		}
		a.Password = ""

		d.byID[a.ID] = len(d.accounts)
		d.byUsername[a.Username] = len(d.accounts)
		d.accounts = append(d.accounts, a)
	}
	return d, nil
}

// FromYAML parses an accounts document.
func FromYAML(data []byte, opts ...Option) (*Directory, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse directory: %w", err)
	}
	return New(f.Accounts, opts...)
}

// Load reads an accounts document from path.
func Load(path string, opts ...Option) (*Directory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory file: %w", err)
	}
	return FromYAML(data, opts...)
}

// Default returns the built-in directory: one manager and the six leads. Leads log in
// with their lowercase first name as both username and password.
func Default(opts ...Option) (*Directory, error) {
	return New(defaultAccounts(), opts...)
}

func defaultAccounts() []Account {
	accounts := []Account{{
		Person:   models.Person{ID: "M1", Name: "Alex Rivera", Role: "MANAGER"},
		Username: "admin",
		Access:   AccessManager,
		Password: "admin",
	}}
	for _, p := range []models.Person{
		{ID: "S1", Name: "Aniket Baral", Role: "FRONT END"},
		{ID: "S2", Name: "Magesh", Role: "BACKEND"},
		{ID: "S3", Name: "Tanishka Singh", Role: "DATABASE"},
		{ID: "S4", Name: "Rishi Raj", Role: "BACKEND"},
		{ID: "S5", Name: "Viraj Ray", Role: "FRONT END"},
		{ID: "S6", Name: "S Harsha", Role: "FRONT END"},
	} {
		first := strings.ToLower(strings.Fields(p.Name)[0])
		accounts = append(accounts, Account{
			Person:   p,
			Username: first,
			Access:   AccessEmployee,
			Password: first,
		})
	}
	return accounts
}

// People returns the personnel pool: every employee account, in directory order.
func (d *Directory) People() []models.Person {
	out := make([]models.Person, 0, len(d.accounts))
	for _, a := range d.accounts {
		if !a.IsManager() {
			out = append(out, a.Person)
		}
	}
	return out
}

// Accounts returns every account in directory order.
func (d *Directory) Accounts() []Account {
	out := make([]Account, len(d.accounts))
	copy(out, d.accounts)
	return out
}

// Account looks up an account by id.
func (d *Directory) Account(id string) (Account, bool) {
	i, ok := d.byID[id]
	if !ok {
		return Account{}, false
	}
	return d.accounts[i], true
}

// FindByUsername looks up an account, ignoring case and surrounding whitespace.
func (d *Directory) FindByUsername(username string) (Account, bool) {
	i, ok := d.byUsername[normalizeUsername(username)]
	if !ok {
		return Account{}, false
	}
	return d.accounts[i], true
}

func normalizeUsername(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
