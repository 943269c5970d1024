package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/usermanagement/internal/common"
	"github.com/dmitrijs2005/usermanagement/internal/logging"
	"github.com/dmitrijs2005/usermanagement/internal/server/identity"
	"github.com/dmitrijs2005/usermanagement/internal/server/models"
	"github.com/dmitrijs2005/usermanagement/internal/server/policy"
)

// AccountStore is the storage surface AuthService needs. AccountService
// implements it.
type AccountStore interface {
	CreateAccount(ctx context.Context, username, email, passwordHash string) (*models.Account, error)
	UpdateAccount(ctx context.Context, id int64, username, email, passwordHash string) (*models.Account, error)
	DeleteAccount(ctx context.Context, id int64) error
	FindByID(ctx context.Context, id int64) (*models.Account, error)
	FindByEmail(ctx context.Context, email string) (*models.Account, error)
	RolesOf(ctx context.Context, id int64) ([]models.RoleName, error)
}

type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, digest string) bool
}

type TokenIssuer interface {
	Issue(id identity.Identity) (string, error)
}

// AuthService implements registration, login and the self-service profile
// operations.
type AuthService struct {
	store  AccountStore
	hasher PasswordHasher
	tokens TokenIssuer
	logger logging.Logger
}

func NewAuthService(store AccountStore, hasher PasswordHasher, tokens TokenIssuer, logger logging.Logger) *AuthService {
	if logger == nil {
		logger = logging.Nop()
	}
	return &AuthService{store: store, hasher: hasher, tokens: tokens, logger: logger}
}

// Register hashes password and creates the account with the default role.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (*models.Account, error) {
	if err := requireFields(username, email, password); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	return s.store.CreateAccount(ctx, username, email, hash)
}

// Login returns a fresh identity token for a matching email and password.
// An unknown email yields common.ErrorNotFound and a wrong password
// common.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	if email == "" || password == "" {
		return "", fmt.Errorf("%w: email and password are required", common.ErrValidation)
	}

	account, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		return "", err
	}

	if !s.hasher.Verify(password, account.PasswordHash) {
		s.logger.Info(ctx, "login rejected", "user_id", account.ID)
		return "", common.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(identity.Identity{
		AccountID: account.ID,
		Email:     account.Email,
		Username:  account.Username,
	})
	if err != nil {
		return "", fmt.Errorf("%w: error issuing token: %w", common.ErrorInternal, err)
	}

	return token, nil
}

// Profile returns the caller's own account.
func (s *AuthService) Profile(ctx context.Context, id identity.Identity) (*models.Account, error) {
	return s.store.FindByID(ctx, id.AccountID)
}

// UpdateProfile overwrites username, email and password of the caller's
// account. All three are required.
func (s *AuthService) UpdateProfile(ctx context.Context, id identity.Identity, username, email, password string) (*models.Account, error) {
	if err := requireFields(username, email, password); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	return s.store.UpdateAccount(ctx, id.AccountID, username, email, hash)
}

// DeleteAccount removes the caller's account and its role assignments.
// Tokens already issued for it remain verifiable until they expire.
func (s *AuthService) DeleteAccount(ctx context.Context, id identity.Identity) error {
	return s.store.DeleteAccount(ctx, id.AccountID)
}

// ViewProfile returns targetID's account and roles if the requester may see
// them, otherwise common.ErrAccessDenied.
func (s *AuthService) ViewProfile(ctx context.Context, requester identity.Identity, targetID int64) (*models.Account, []models.RoleName, error) {
	requesterRoles, err := s.store.RolesOf(ctx, requester.AccountID)
	if err != nil {
		return nil, nil, err
	}

	if !policy.CanViewProfile(requester.AccountID, requesterRoles, targetID) {
		s.logger.Info(ctx, "profile access denied", "user_id", requester.AccountID, "target_id", targetID)
		return nil, nil, common.ErrAccessDenied
	}

	account, err := s.store.FindByID(ctx, targetID)
	if err != nil {
		return nil, nil, err
	}

	if targetID == requester.AccountID {
		return account, requesterRoles, nil
	}

	targetRoles, err := s.store.RolesOf(ctx, targetID)
	if err != nil {
		return nil, nil, err
	}

	return account, targetRoles, nil
}

func requireFields(username, email, password string) error {
	if strings.TrimSpace(username) == "" || strings.TrimSpace(email) == "" || password == "" {
		return fmt.Errorf("%w: username, email and password are required", common.ErrValidation)
	}
	return nil
}
