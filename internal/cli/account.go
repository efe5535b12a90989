package cli

import (
	"context"
	"errors"
	"os"

	"github.com/toxidity-18/Veritas/internal/common"
	"github.com/toxidity-18/Veritas/internal/session"
)

// Register creates a new account. No session is established: the user must
// run "confirm" with the returned token first.
func (a *App) Register(ctx context.Context) error {
	email, err := GetSimpleText(a.reader, "Please enter your email", os.Stdout)
	if err != nil {
		printlnFn("Error:", err)
		return err
	}

	password, err := GetPassword(os.Stdout)
	if err != nil {
		printlnFn("Error:", err)
		return err
	}
	defer common.WipeByteArray(password)

	token, err := a.sessions.SignUp(ctx, email, password)
	if err != nil {
		if errors.Is(err, common.ErrorCredentials) {
			printlnFn("Registration failed:", err)
		} else {
			printlnFn("Error:", err)
		}
		return err
	}

	printlnFn("Account created. Confirmation token:", token)
	printlnFn("Run \"confirm\" to finish registration.")
	return nil
}

// Confirm completes registration with a confirmation token and establishes
// the first session.
func (a *App) Confirm(ctx context.Context) error {
	token, err := GetSimpleText(a.reader, "Please enter your confirmation token", os.Stdout)
	if err != nil {
		printlnFn("Error:", err)
		return err
	}

	if err := a.sessions.ConfirmSignUp(ctx, token); err != nil {
		printlnFn("Confirmation failed:", err)
		return err
	}

	printlnFn("Account confirmed. You are now logged in.")
	return nil
}

// Login authenticates the user.
func (a *App) Login(ctx context.Context) error {
	email, err := GetSimpleText(a.reader, "Please enter your email", os.Stdout)
	if err != nil {
		printlnFn("Error:", err)
		return err
	}

	password, err := GetPassword(os.Stdout)
	if err != nil {
		printlnFn("Error:", err)
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.sessions.SignIn(ctx, email, password); err != nil {
		switch {
		case errors.Is(err, common.ErrorCredentials):
			printlnFn("Login failed: invalid email or password.")
		case errors.Is(err, common.ErrNotConfirmed):
			printlnFn("Login failed: account not confirmed. Run \"confirm\" first.")
		default:
			printlnFn("Error:", err)
		}
		return err
	}

	printlnFn("Logged in.")
	return nil
}

// Logout terminates the session. Running it while already logged out is
// harmless.
func (a *App) Logout(ctx context.Context) error {
	if err := a.sessions.SignOut(ctx); err != nil {
		printlnFn("Error:", err)
		return err
	}
	printlnFn("Logged out.")
	return nil
}

// UpdateEmail rotates the account email and mirrors it into the profile.
func (a *App) UpdateEmail(ctx context.Context) error {
	if !a.isLoggedIn() {
		printlnFn("You need to log in first.")
		return common.ErrorUnauthorized
	}

	newEmail, err := GetSimpleText(a.reader, "Please enter your new email", os.Stdout)
	if err != nil {
		printlnFn("Error:", err)
		return err
	}

	if err := a.sessions.UpdateEmail(ctx, newEmail); err != nil {
		var partial *common.PartialUpdateError
		if errors.As(err, &partial) {
			printlnFn("Email changed, but the profile copy was not updated. Run \"email\" again to retry.")
		} else {
			printlnFn("Error:", err)
		}
		return err
	}

	printlnFn("Email updated.")
	return nil
}

// UpdatePassword rotates the account password.
func (a *App) UpdatePassword(ctx context.Context) error {
	if !a.isLoggedIn() {
		printlnFn("You need to log in first.")
		return common.ErrorUnauthorized
	}

	password, err := GetPassword(os.Stdout)
	if err != nil {
		printlnFn("Error:", err)
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.sessions.UpdatePassword(ctx, password); err != nil {
		if errors.Is(err, common.ErrorValidation) {
			printlnFn("Password rejected:", err)
		} else {
			printlnFn("Error:", err)
		}
		return err
	}

	printlnFn("Password updated.")
	return nil
}

// DeleteAccount removes the account and everything it owns after an explicit
// confirmation. On a partial failure the user stays logged in and can run
// "delete" again to resume from the last completed step.
func (a *App) DeleteAccount(ctx context.Context) error {
	if !a.isLoggedIn() {
		printlnFn("You need to log in first.")
		return common.ErrorUnauthorized
	}

	ok, err := GetYesNo(a.reader, "This permanently deletes your account and all its data. Continue?", os.Stdout)
	if err != nil {
		printlnFn("Error:", err)
		return err
	}
	if !ok {
		printlnFn("Cancelled.")
		return nil
	}

	if err := a.sessions.DeleteAccount(ctx); err != nil {
		var dErr *session.DeletionError
		if errors.As(err, &dErr) {
			printlnFn("Account deletion failed during", dErr.Step.String()+".", "You are still logged in; run \"delete\" again to retry.")
		} else {
			printlnFn("Error:", err)
		}
		return err
	}

	if err := a.cache.Clear(ctx); err != nil {
		a.logger.Warn(ctx, "local cache clear failed", "error", err)
	}

	printlnFn("Account deleted.")
	return nil
}
