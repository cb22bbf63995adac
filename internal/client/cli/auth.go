package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/merrycards/merry/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// now is a test seam for token expiry display.
var now = time.Now

// Register prompts for a display name, username and password, creates the
// account and logs straight into it.
//
// The password byte slice is wiped before returning.
func (a *App) Register(ctx context.Context) error {
	if a.isLoggedIn() {
		fmt.Fprintf(a.out, "Already logged in as %s. Log out first.\n", a.session.Username())
		return nil
	}

	name, err := getSimpleText(a.reader, "Enter your name", a.out)
	if err != nil {
		return err
	}
	userName, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.authService.RegisterAndLogin(ctx, name, userName, string(password)); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Welcome, %s! You are logged in.\n", userName)
	return nil
}

// Login prompts the user for credentials and tries to authenticate.
// The password is wiped before returning.
func (a *App) Login(ctx context.Context) error {
	if a.isLoggedIn() {
		fmt.Fprintf(a.out, "Already logged in as %s. Log out first.\n", a.session.Username())
		return nil
	}

	userName, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.authService.Login(ctx, userName, string(password)); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Logged in as %s.\n", userName)
	return nil
}

// Logout drops the current session, in memory and on disk.
func (a *App) Logout(ctx context.Context) error {
	if !a.isLoggedIn() {
		fmt.Fprintln(a.out, "You are not logged in.")
		return nil
	}
	if err := a.authService.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Logged out.")
	return nil
}

func (a *App) Ping(ctx context.Context) error {
	msg, err := a.authService.Ping(ctx)
	if err != nil {
		return err
	}
	if msg == "" {
		msg = "ok"
	}
	fmt.Fprintf(a.out, "Server at %s: %s\n", a.config.BaseURL, msg)
	return nil
}

// WhoAmI prints the session user and, for JWTs, what the token claims.
func (a *App) WhoAmI(ctx context.Context) error {
	if !a.isLoggedIn() {
		fmt.Fprintln(a.out, "guest")
		return nil
	}

	fmt.Fprintln(a.out, a.session.Username())

	info, ok := a.session.Describe()
	if !ok {
		return nil
	}
	if info.Subject != "" {
		fmt.Fprintf(a.out, "  token subject: %s\n", info.Subject)
	}
	switch {
	case info.ExpiresAt.IsZero():
	case info.Expired(now()):
		fmt.Fprintf(a.out, "  token expired at %s; the next request will ask you to log in again\n", info.ExpiresAt.Format(time.RFC3339))
	default:
		fmt.Fprintf(a.out, "  token expires at %s\n", info.ExpiresAt.Format(time.RFC3339))
	}
	return nil
}
