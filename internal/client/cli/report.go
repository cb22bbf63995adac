package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/merrycards/merry/internal/client/browser"
	"github.com/merrycards/merry/internal/client/capture"
	"github.com/merrycards/merry/internal/client/client"
)

// reportError logs err and prints what the user can do about it. An
// authorization failure while signed in means the token went stale, so the
// session is cleared.
func (a *App) reportError(ctx context.Context, err error) {
	a.log.Error(ctx, "command failed", "error", err)

	var se *client.ServerError

	switch {
	case errors.Is(err, context.Canceled):
		fmt.Fprintln(a.out, "Cancelled.")

	case errors.Is(err, client.ErrUnauthorized):
		if a.isLoggedIn() {
			if cerr := a.authService.Logout(context.WithoutCancel(ctx)); cerr != nil {
				a.log.Warn(ctx, "clear expired session", "error", cerr)
			}
			fmt.Fprintln(a.out, "Your session has expired. Please log in again.")
			return
		}
		fmt.Fprintln(a.out, "Not authorized: check your username and password.")

	case errors.Is(err, client.ErrUnavailable):
		fmt.Fprintln(a.out, "Server unavailable. Check your connection and try again.")

	case errors.Is(err, capture.ErrPermissionDenied):
		fmt.Fprintln(a.out, "Permission denied: the photo cannot be read.")

	case errors.Is(err, capture.ErrCapture):
		fmt.Fprintf(a.out, "Could not use that photo: %v\n", err)

	case errors.Is(err, client.ErrDecode):
		fmt.Fprintln(a.out, "The server sent a response this client does not understand.")

	case errors.As(err, &se) && se.StatusCode >= 400 && se.StatusCode < 500:
		if se.Body == "" {
			fmt.Fprintf(a.out, "Request rejected (%d).\n", se.StatusCode)
			return
		}
		fmt.Fprintf(a.out, "Request rejected (%d): %s\n", se.StatusCode, se.Body)

	case errors.As(err, &se):
		fmt.Fprintf(a.out, "Server error (%d). Please try again later.\n", se.StatusCode)

	case errors.Is(err, browser.ErrOutOfRange):
		fmt.Fprintln(a.out, "No entry with that number.")

	case errors.Is(err, browser.ErrInvalidTransition):
		fmt.Fprintln(a.out, "That is not available here.")

	default:
		fmt.Fprintf(a.out, "Error: %v\n", err)
	}
}
