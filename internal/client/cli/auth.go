package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/staffbook/internal/client/api"
	"github.com/dmitrijs2005/staffbook/internal/client/session"
)

// restoreSession loads a stored login and hands its token to the API client.
func (a *App) restoreSession(ctx context.Context) error {
	s, err := a.sessions.Load(ctx)
	if err != nil {
		return fmt.Errorf("error loading session: %w", err)
	}
	if s != nil {
		a.session = s
		a.api.SetToken(s.Token)
	}
	return nil
}

func (a *App) startSession(ctx context.Context, r *api.AuthResponse) error {
	s := session.Session{
		Token:    r.Token,
		UserID:   r.User.ID,
		Username: r.User.Username,
		Email:    r.User.Email,
	}
	if err := a.sessions.Save(ctx, s); err != nil {
		return fmt.Errorf("error saving session: %w", err)
	}
	a.session = &s
	a.api.SetToken(s.Token)
	return nil
}

func (a *App) endSession(ctx context.Context) error {
	a.session = nil
	a.api.SetToken("")
	return a.sessions.Clear(ctx)
}

// checkAuth ends the session when the server rejected the token.
func (a *App) checkAuth(ctx context.Context, err error) error {
	if err == nil || !errors.Is(err, api.ErrUnauthorized) {
		return err
	}
	if clearErr := a.endSession(ctx); clearErr != nil {
		return errors.Join(err, clearErr)
	}
	a.println("Your session has expired, please log in again.")
	return nil
}

func (a *App) Signup(ctx context.Context) error {
	username, err := GetSimpleText(a.reader, "Username", a.out)
	if err != nil {
		return err
	}
	email, err := GetSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return err
	}
	password, err := GetPassword(a.reader, a.out)
	if err != nil {
		return err
	}

	r, err := a.api.Signup(ctx, username, email, password)
	if err != nil {
		return err
	}
	if err := a.startSession(ctx, r); err != nil {
		return err
	}

	a.println(r.Message+".", "Logged in as", r.User.Username)
	return nil
}

func (a *App) Login(ctx context.Context) error {
	email, err := GetSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return err
	}
	password, err := GetPassword(a.reader, a.out)
	if err != nil {
		return err
	}

	r, err := a.api.Login(ctx, email, password)
	if err != nil {
		return err
	}
	if err := a.startSession(ctx, r); err != nil {
		return err
	}

	a.println(r.Message+".", "Welcome,", r.User.Username)
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	if !a.isLoggedIn() {
		a.println("You are not logged in.")
		return nil
	}
	if err := a.endSession(ctx); err != nil {
		return err
	}
	a.println("Logged out.")
	return nil
}
