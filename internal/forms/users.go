package forms

import (
	"context"
	"net/http"
	"strings"
)

// UserChecker answers the uniqueness questions of the registration form.
type UserChecker interface {
	EmailExists(ctx context.Context, email string) (bool, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
}

// Registration is the sign-up form.
type Registration struct {
	Protected
	Email           string `schema:"email" validate:"required,length=1-64,email"`
	Username        string `schema:"username" validate:"required,username,length=1-64"`
	Password        string `schema:"password" validate:"required,length=8-128,eqfield=ConfirmPassword"`
	ConfirmPassword string `schema:"confirm_password" validate:"required"`
}

// ParseRegistration decodes a posted registration form.
func ParseRegistration(r *http.Request) (Registration, error) {
	var f Registration
	if err := decode(r, &f); err != nil {
		return Registration{}, err
	}
	f.Email = strings.TrimSpace(f.Email)
	f.Username = strings.TrimSpace(f.Username)
	return f, nil
}

// Validate checks field rules, then that the email and username are free.
func (f Registration) Validate(ctx context.Context, csrf CSRFCheck, users UserChecker) (Errors, error) {
	errs := newErrors(CSRFField, "email", "username", "password", "confirm_password")
	f.checkCSRF(csrf, &errs)
	checkTags(f, &errs)

	if !errs.Has("email") {
		taken, err := users.EmailExists(ctx, f.Email)
		if err != nil {
			return errs, err
		}
		if taken {
			errs.Add("email", "User already registered with that email")
		}
	}
	if !errs.Has("username") {
		taken, err := users.UsernameExists(ctx, f.Username)
		if err != nil {
			return errs, err
		}
		if taken {
			errs.Add("username", "Username already taken")
		}
	}
	return errs, nil
}

// Login is the sign-in form.
type Login struct {
	Protected
	Email        string `schema:"email" validate:"required,length=1-64,email"`
	Password     string `schema:"password" validate:"required,length=8-128"`
	StaySignedIn bool   `schema:"stay_signed_in"`
}

// ParseLogin decodes a posted login form.
func ParseLogin(r *http.Request) (Login, error) {
	var f Login
	if err := decode(r, &f); err != nil {
		return Login{}, err
	}
	f.Email = strings.TrimSpace(f.Email)
	return f, nil
}

// Validate checks field rules only; credentials are checked by the caller.
func (f Login) Validate(csrf CSRFCheck) Errors {
	errs := newErrors(CSRFField, "email", "password", "stay_signed_in")
	f.checkCSRF(csrf, &errs)
	checkTags(f, &errs)
	return errs
}
