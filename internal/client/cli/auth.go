package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/avelasquez-dev/taskdeck/internal/client/api"
	"github.com/avelasquez-dev/taskdeck/internal/client/models"
	"github.com/avelasquez-dev/taskdeck/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for account details and attempts to create a new
// account. Field-level complaints from the server are printed next to the
// offending field names; the password byte slices are wiped before
// returning.
func (a *App) Register(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}
	username, err := getSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword("Enter password", os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	confirm, err := getPassword("Confirm password", os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirm)

	if string(password) != string(confirm) {
		printlnFn("Passwords do not match.")
		return common.ErrValidation
	}

	firstName, err := getSimpleText(a.reader, "Enter first name (optional)", os.Stdout)
	if err != nil {
		return err
	}
	lastName, err := getSimpleText(a.reader, "Enter last name (optional)", os.Stdout)
	if err != nil {
		return err
	}

	_, err = a.auth.Register(ctx, models.Registration{
		Email:           email,
		Username:        username,
		Password:        string(password),
		PasswordConfirm: string(confirm),
		FirstName:       firstName,
		LastName:        lastName,
	})
	if err != nil {
		var fe api.FieldErrors
		if errors.As(err, &fe) {
			for field, msgs := range fe {
				for _, msg := range msgs {
					printlnFn(fmt.Sprintf("  %s: %s", field, msg))
				}
			}
			return err
		}
		printlnFn("Registration failed:", err.Error())
		return err
	}

	printlnFn("Account created, you can log in now.")
	return nil
}

// Login prompts for credentials and tries to authenticate. On success the
// task collection is fetched and the session liveness watcher is started.
// The password is wiped before returning.
func (a *App) Login(ctx context.Context) error {
	identifier, err := getSimpleText(a.reader, "Enter email or username", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword("Enter password", os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if _, err := a.auth.Login(ctx, identifier, string(password)); err != nil {
		switch {
		case errors.Is(err, common.ErrInvalidCredentials):
			printlnFn("Invalid credentials.")
		case errors.Is(err, common.ErrUnavailable):
			printlnFn("Server unavailable, try again later.")
		default:
			printlnFn("Login failed:", err.Error())
		}
		return err
	}

	a.expired.Store(false)
	a.userName = identifier
	if u, err := a.profile.Me(ctx); err == nil {
		a.userName = u.Username
	}

	if err := a.store.FetchTasks(ctx); err != nil {
		printlnFn("Could not load tasks:", err.Error())
	}
	a.startWatcher(ctx)

	printlnFn("Logged in.")
	return nil
}

// Logout stops the liveness watcher and clears the stored credentials.
func (a *App) Logout(ctx context.Context) error {
	a.stopWatcher()
	if err := a.auth.Logout(ctx); err != nil {
		printlnFn("Logout failed:", err.Error())
		return err
	}
	a.userName = ""
	a.expired.Store(false)
	printlnFn("Logged out.")
	return nil
}
