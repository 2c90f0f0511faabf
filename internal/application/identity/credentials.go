package identity

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/vendora/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// Password cost for bcrypt
const bcryptCost = 12

// SellerAccount is a login identity for a seller's dashboard user.
type SellerAccount struct {
	UserID       uuid.UUID
	SellerID     uuid.UUID
	Username     string
	PasswordHash string
	DisplayName  string
	Email        string
	Role         string
	Active       bool
}

// VerifyPassword checks a plaintext password against the stored hash
func (a *SellerAccount) VerifyPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password))
	return err == nil
}

// CredentialStore looks up seller accounts for authentication
type CredentialStore interface {
	FindByUsername(ctx context.Context, username string) (*SellerAccount, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) (*SellerAccount, error)
}

// HashPassword hashes a plaintext password with bcrypt
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// StaticCredentialStore is an in-memory CredentialStore seeded at
// startup. It backs development and single-tenant deployments; a
// database-backed store can replace it without touching the service.
type StaticCredentialStore struct {
	mu         sync.RWMutex
	byUsername map[string]*SellerAccount
	byUserID   map[uuid.UUID]*SellerAccount
}

// NewStaticCredentialStore creates an empty static credential store
func NewStaticCredentialStore() *StaticCredentialStore {
	return &StaticCredentialStore{
		byUsername: make(map[string]*SellerAccount),
		byUserID:   make(map[uuid.UUID]*SellerAccount),
	}
}

// AddAccount registers an account with an already-hashed password
func (s *StaticCredentialStore) AddAccount(account SellerAccount) error {
	username := strings.ToLower(strings.TrimSpace(account.Username))
	if username == "" {
		return shared.NewDomainError("INVALID_USERNAME", "Username cannot be empty")
	}
	if account.PasswordHash == "" {
		return shared.NewDomainError("INVALID_PASSWORD", "Password hash cannot be empty")
	}
	if account.UserID == uuid.Nil {
		account.UserID = uuid.New()
	}
	account.Username = username

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byUsername[username]; exists {
		return shared.NewDomainError("ALREADY_EXISTS", "An account with this username already exists")
	}
	s.byUsername[username] = &account
	s.byUserID[account.UserID] = &account
	return nil
}

// AddAccountWithPassword registers an account, hashing the plaintext password
func (s *StaticCredentialStore) AddAccountWithPassword(account SellerAccount, password string) error {
	hash, err := HashPassword(password)
	if err != nil {
		return err
	}
	account.PasswordHash = hash
	return s.AddAccount(account)
}

// FindByUsername looks up an account by username (case-insensitive)
func (s *StaticCredentialStore) FindByUsername(ctx context.Context, username string) (*SellerAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	account, ok := s.byUsername[strings.ToLower(strings.TrimSpace(username))]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := *account
	return &copied, nil
}

// FindByUserID looks up an account by user ID
func (s *StaticCredentialStore) FindByUserID(ctx context.Context, userID uuid.UUID) (*SellerAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	account, ok := s.byUserID[userID]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := *account
	return &copied, nil
}
