package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/MKhiriev/go-cookie-sync/internal/crypto"
	"github.com/MKhiriev/go-cookie-sync/internal/logger"
	"github.com/MKhiriev/go-cookie-sync/internal/store"
	"github.com/MKhiriev/go-cookie-sync/models"
)

type clientCredentialService struct {
	tokens  store.TokenStorage
	session *crypto.Session
	// fixedToken comes from the environment or a flag and wins over the
	// saved one.
	fixedToken string

	logger *logger.Logger
}

// NewClientCredentialService keeps the token in tokens and the passphrase in
// session. The passphrase never reaches tokens or any other store. A
// non-empty fixedToken is used instead of the saved token.
func NewClientCredentialService(tokens store.TokenStorage, session *crypto.Session, fixedToken string, logger *logger.Logger) ClientCredentialService {
	return &clientCredentialService{
		tokens:     tokens,
		session:    session,
		fixedToken: strings.TrimSpace(fixedToken),
		logger:     logger,
	}
}

func (c *clientCredentialService) SaveToken(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return ErrEmptyToken
	}
	if err := c.tokens.SetToken(ctx, token); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	c.logger.Info().Str("func", "clientCredentialService.SaveToken").Msg("token saved")
	return nil
}

func (c *clientCredentialService) ClearToken(ctx context.Context) error {
	if err := c.tokens.ClearToken(ctx); err != nil {
		return fmt.Errorf("clear token: %w", err)
	}
	return nil
}

func (c *clientCredentialService) Unlock(passphrase string) error {
	if passphrase == "" {
		return ErrEmptyPassphrase
	}
	c.session.Unlock(passphrase)
	return nil
}

func (c *clientCredentialService) Lock() {
	c.session.Clear()
}

func (c *clientCredentialService) Credentials(ctx context.Context) (models.Credentials, error) {
	token := c.fixedToken
	if token == "" {
		saved, err := c.tokens.Token(ctx)
		if err != nil {
			return models.Credentials{}, fmt.Errorf("read token: %w", err)
		}
		token = saved
	}
	if token == "" {
		return models.Credentials{}, fmt.Errorf("%w: no remote store token saved", ErrCredentialsMissing)
	}

	passphrase, err := c.session.Passphrase()
	if err != nil {
		return models.Credentials{}, fmt.Errorf("%w: %w", ErrCredentialsMissing, err)
	}

	return models.Credentials{Token: token, Passphrase: passphrase}, nil
}
