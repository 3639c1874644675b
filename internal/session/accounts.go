package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

type account struct {
	Name string `json:"name"`
	Hash string `json:"hash"`
}

// LocalAccounts verifies passwords against bcrypt hashes kept in the
// accounts slot of local storage.
type LocalAccounts struct {
	storage Storage
	cost    int
}

func NewLocalAccounts(s Storage) *LocalAccounts {
	return &LocalAccounts{storage: s, cost: bcrypt.DefaultCost}
}

var _ Authenticator = (*LocalAccounts)(nil)

func (a *LocalAccounts) Register(_ context.Context, email, password, name string) (User, error) {
	email = normalizeEmail(email)
	accounts, err := a.load()
	if err != nil {
		return User{}, err
	}
	if _, exists := accounts[email]; exists {
		return User{}, ErrAccountExists
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), a.cost)
	if err != nil {
		return User{}, fmt.Errorf("hash password: %w", err)
	}
	accounts[email] = account{Name: name, Hash: string(hash)}
	if err := a.save(accounts); err != nil {
		return User{}, err
	}
	return User{Email: email, Name: name}, nil
}

func (a *LocalAccounts) Authenticate(_ context.Context, email, password string) (User, error) {
	email = normalizeEmail(email)
	accounts, err := a.load()
	if err != nil {
		return User{}, err
	}
	acct, ok := accounts[email]
	if !ok {
		return User{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(acct.Hash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return User{}, ErrInvalidCredentials
		}
		return User{}, fmt.Errorf("compare password: %w", err)
	}
	return User{Email: email, Name: acct.Name}, nil
}

func (a *LocalAccounts) load() (map[string]account, error) {
	raw, ok, err := a.storage.Get(AccountsKey)
	if err != nil {
		return nil, fmt.Errorf("read accounts: %w", err)
	}
	accounts := make(map[string]account)
	if !ok || raw == "" {
		return accounts, nil
	}
	if err := json.Unmarshal([]byte(raw), &accounts); err != nil {
		return nil, fmt.Errorf("decode accounts: %w", err)
	}
	if accounts == nil {
		accounts = make(map[string]account)
	}
	return accounts, nil
}

func (a *LocalAccounts) save(accounts map[string]account) error {
	data, err := json.Marshal(accounts)
	if err != nil {
		return fmt.Errorf("marshal accounts: %w", err)
	}
	if err := a.storage.Set(AccountsKey, string(data)); err != nil {
		return fmt.Errorf("persist accounts: %w", err)
	}
	return nil
}
