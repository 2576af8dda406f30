package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/avelasquez-dev/taskdeck/internal/client/api"
	"github.com/avelasquez-dev/taskdeck/internal/client/models"
)

// Me prints the signed-in user's profile.
func (a *App) Me(ctx context.Context) error {
	if err := a.requireLogin(); err != nil {
		return err
	}

	u, err := a.profile.Me(ctx)
	if err != nil {
		printlnFn("Could not load profile:", err.Error())
		return err
	}

	printlnFn(fmt.Sprintf("Username:   %s", u.Username))
	printlnFn(fmt.Sprintf("Email:      %s", u.Email))
	printlnFn(fmt.Sprintf("First name: %s", u.FirstName))
	printlnFn(fmt.Sprintf("Last name:  %s", u.LastName))
	return nil
}

// Profile prompts for new profile values; an empty input keeps the
// current value.
func (a *App) Profile(ctx context.Context) error {
	if err := a.requireLogin(); err != nil {
		return err
	}

	current, err := a.profile.Me(ctx)
	if err != nil {
		printlnFn("Could not load profile:", err.Error())
		return err
	}

	patch := models.UserPatch{}

	email, err := getSimpleText(a.reader, fmt.Sprintf("Enter email (empty keeps %s)", current.Email), os.Stdout)
	if err != nil {
		return err
	}
	if email != "" {
		patch.Email = &email
	}

	firstName, err := getSimpleText(a.reader, fmt.Sprintf("Enter first name (empty keeps %q)", current.FirstName), os.Stdout)
	if err != nil {
		return err
	}
	if firstName != "" {
		patch.FirstName = &firstName
	}

	lastName, err := getSimpleText(a.reader, fmt.Sprintf("Enter last name (empty keeps %q)", current.LastName), os.Stdout)
	if err != nil {
		return err
	}
	if lastName != "" {
		patch.LastName = &lastName
	}

	if patch == (models.UserPatch{}) {
		printlnFn("Nothing to change.")
		return nil
	}

	updated, err := a.profile.Update(ctx, patch)
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
		printlnFn("Could not update profile:", err.Error())
		return err
	}

	a.userName = updated.Username
	printlnFn("Profile updated.")
	return nil
}
