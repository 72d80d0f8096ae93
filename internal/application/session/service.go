package session

import (
	"context"
	"fmt"

	"github.com/organizer-api/internal/domain"
	"github.com/organizer-api/internal/pkg/validate"
	"golang.org/x/crypto/bcrypt"
)

// ownerSubject is the JWT subject for the organizer's single owner.
const ownerSubject = "owner"

type LoginRequest struct {
	Passphrase string `json:"passphrase" validate:"required"`
}

// Signer is the minimal interface the service requires from the JWT provider.
type Signer interface {
	Sign(subject string) (string, error)
}

type Service interface {
	// Login exchanges the owner's passphrase for a bearer token.
	Login(ctx context.Context, req LoginRequest) (string, error)
}

type service struct {
	passphraseHash string
	signer         Signer
}

func NewService(passphraseHash string, signer Signer) Service {
	return &service{passphraseHash: passphraseHash, signer: signer}
}

func (s *service) Login(_ context.Context, req LoginRequest) (string, error) {
	if err := validate.Struct(req); err != nil {
		return "", fmt.Errorf("%s: %w", err, domain.ErrBadRequest)
	}
	if s.passphraseHash == "" || s.signer == nil {
		return "", fmt.Errorf("login disabled: %w", domain.ErrUnauthorized)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.passphraseHash), []byte(req.Passphrase)); err != nil {
		return "", fmt.Errorf("invalid passphrase: %w", domain.ErrUnauthorized)
	}
	return s.signer.Sign(ownerSubject)
}
