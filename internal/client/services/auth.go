// Package services contains application services for the merry client.
// This file defines the authentication service: login, register, logout,
// start-up session restore and the liveness probe.
package services

import (
	"context"
	"fmt"

	"github.com/merrycards/merry/internal/client/client"
	"github.com/merrycards/merry/internal/client/session"
	"github.com/merrycards/merry/internal/logging"
)

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - Login: exchange credentials for a token and activate it.
//   - RegisterAndLogin: create the account, then Login with it.
//   - Logout: drop the token locally. The server is not contacted.
//   - RestoreSession: reactivate a persisted token without validating it.
//   - Ping: check server liveness.
//
// All methods must honor context cancellation/timeouts.
type AuthService interface {
	Login(ctx context.Context, username, password string) error
	RegisterAndLogin(ctx context.Context, name, username, password string) error
	Logout(ctx context.Context) error
	RestoreSession(ctx context.Context) (bool, error)
	Ping(ctx context.Context) (string, error)
}

type authService struct {
	client  client.Client
	session *session.Session
	log     logging.Logger
}

// NewAuthService constructs an AuthService bound to the given API client and session.
func NewAuthService(c client.Client, s *session.Session, log logging.Logger) AuthService {
	if log == nil {
		log = logging.Discard()
	}
	return &authService{client: c, session: s, log: log}
}

func (a *authService) Login(ctx context.Context, username, password string) error {
	token, err := a.client.Login(ctx, username, password)
	if err != nil {
		return fmt.Errorf("login error: %w", err)
	}

	if err := a.session.Authenticate(ctx, username, token); err != nil {
		return err
	}

	a.log.Info(ctx, "logged in", "username", username)
	return nil
}

func (a *authService) RegisterAndLogin(ctx context.Context, name, username, password string) error {
	if err := a.client.Register(ctx, name, username, password); err != nil {
		return fmt.Errorf("register error: %w", err)
	}
	a.log.Info(ctx, "registered", "username", username)

	return a.Login(ctx, username, password)
}

func (a *authService) Logout(ctx context.Context) error {
	username := a.session.Username()
	if err := a.session.Clear(ctx); err != nil {
		return err
	}
	a.log.Info(ctx, "logged out", "username", username)
	return nil
}

func (a *authService) RestoreSession(ctx context.Context) (bool, error) {
	ok, err := a.session.Restore(ctx)
	if err != nil {
		return false, err
	}
	if ok {
		a.log.Debug(ctx, "session restored", "username", a.session.Username())
	}
	return ok, nil
}

// Ping proxies a liveness check to the underlying client.
func (a *authService) Ping(ctx context.Context) (string, error) {
	return a.client.Ping(ctx)
}
