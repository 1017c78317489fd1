package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"bookreview/internal/common"
	"bookreview/internal/common/security"
	"bookreview/internal/domain/model"
	"bookreview/internal/domain/repository"
)

type AuthService struct {
	userRepo  repository.UserRepository
	pinIssuer *PinIssuer
	lockouts  LockoutTracker
}

func NewAuthService(userRepo repository.UserRepository, pinIssuer *PinIssuer, lockouts LockoutTracker) *AuthService {
	return &AuthService{userRepo: userRepo, pinIssuer: pinIssuer, lockouts: lockouts}
}

type RegisterRequest struct {
	FullName string `json:"full_name"`
}

type RegisterResponse struct {
	Message string      `json:"message"`
	Pin     string      `json:"pin"`
	User    *model.User `json:"user"`
}

type LoginRequest struct {
	FullName string `json:"full_name"`
	PinCode  string `json:"pin_code"`
}

type TokenResponse struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	User        *model.User `json:"user"`
}

// Register issues a PIN and persists the identity in one logical operation.
// A concurrent registration that wins the same (name, pin) pair trips the
// store's uniqueness constraint and consumes another issuance attempt.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error) {
	name := strings.TrimSpace(req.FullName)
	if name == "" {
		return nil, common.Errorf("full_name is required: %w", common.ErrBadRequest)
	}

	for attempt := 0; attempt < s.pinIssuer.maxAttempts; attempt++ {
		pin, err := s.pinIssuer.Issue(ctx, name)
		if err != nil {
			return nil, err
		}

		user := &model.User{
			FullName: name,
			PinCode:  pin,
			Role:     model.RoleUser,
		}
		err = s.userRepo.Create(ctx, user)
		if err == nil {
			return &RegisterResponse{
				Message: "Registration successful",
				Pin:     pin,
				User:    user,
			}, nil
		}
		if errors.Is(err, common.ErrConflict) {
			continue // lost the race for this pair, draw again
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return nil, common.ErrIssuanceExhausted
}

// Login runs the attempt through the lockout gate before any credential
// work, so a locked identity always sees the lockout error regardless of PIN
// correctness. Failures are recorded even for names that do not exist:
// differing lockout behavior would otherwise reveal which names are
// registered.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*TokenResponse, error) {
	key := CanonicalLockoutKey(req.FullName)

	if err := s.lockouts.Check(ctx, key); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByNameFold(ctx, req.FullName)
	if err != nil && !errors.Is(err, common.ErrNotFound) {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if user == nil || user.PinCode != req.PinCode {
		locked, terr := s.lockouts.RecordFailure(ctx, key)
		if terr != nil {
			log.Printf("lockout tracker failure for %q: %v", key, terr)
		}
		if locked {
			return nil, common.ErrAccountLocked
		}
		// Same error whether the name or the PIN was wrong.
		return nil, common.ErrInvalidCredential
	}

	if err := s.lockouts.RecordSuccess(ctx, key); err != nil {
		log.Printf("lockout tracker reset for %q: %v", key, err)
	}

	token, err := security.GenerateToken(user.FullName, user.Role, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		User:        user,
	}, nil
}

// AdminLogin is Login plus a role gate; a valid user credential without the
// admin role is rejected before a token is returned.
func (s *AuthService) AdminLogin(ctx context.Context, req LoginRequest) (*TokenResponse, error) {
	resp, err := s.Login(ctx, req)
	if err != nil {
		return nil, err
	}
	if !resp.User.IsAdmin() {
		return nil, common.Errorf("admin access required: %w", common.ErrForbidden)
	}
	return resp, nil
}
