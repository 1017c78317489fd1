package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"

	"bookreview/internal/common"
	"bookreview/internal/domain/repository"
)

// PinIssuer allocates the numeric PIN a user authenticates with. Issuance
// has no side effects: the caller persists the (name, pin) pair, and the
// store's uniqueness constraint is the final word on collisions.
type PinIssuer struct {
	userRepo    repository.UserRepository
	length      int
	maxAttempts int
}

func NewPinIssuer(userRepo repository.UserRepository, length, maxAttempts int) *PinIssuer {
	return &PinIssuer{userRepo: userRepo, length: length, maxAttempts: maxAttempts}
}

// Issue generates a fixed-width digit string not already paired with the
// given name. Exhausting the retry budget returns ErrIssuanceExhausted.
func (p *PinIssuer) Issue(ctx context.Context, fullName string) (string, error) {
	for attempt := 0; attempt < p.maxAttempts; attempt++ {
		pin, err := randomPin(p.length)
		if err != nil {
			return "", fmt.Errorf("PinIssuer.Issue: %w", err)
		}
		exists, err := p.userRepo.ExistsWithPin(ctx, fullName, pin)
		if err != nil {
			return "", fmt.Errorf("PinIssuer.Issue: %w", err)
		}
		if !exists {
			return pin, nil
		}
	}
	return "", common.ErrIssuanceExhausted
}

// randomPin draws each digit uniformly; leading zeros are kept by the
// fixed-width formatting.
func randomPin(length int) (string, error) {
	space := big.NewInt(1)
	for i := 0; i < length; i++ {
		space.Mul(space, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, space)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", length, n), nil
}
