package portal

import (
	"context"
	"strings"

	"sjsage522/topicworker/helpers"
	apperrors "sjsage522/topicworker/pkg/errors"
)

// Login authenticates against the identity provider by replaying the CSRF
// token found in the login form.
func (c *Client) Login(ctx context.Context) error {
	body, err := c.get(ctx, c.cfg.LoginURL, "connect to the login server")
	if err != nil {
		return err
	}

	token, err := extractToken(strings.NewReader(body), loginTokenField)
	if err != nil {
		return apperrors.NewParsing(component, "CSRF token not found on the login page", err)
	}

	form := map[string]string{
		loginTokenField: token,
		"login":         c.cfg.EloginLogin,
		"password":      c.cfg.EloginPassword,
		"send":          "",
	}

	body, err = c.postForm(ctx, c.cfg.LoginURL, form, nil, "submit the login form")
	if err != nil {
		return err
	}

	if strings.Contains(body, c.cfg.InvalidPasswordMarker) {
		return apperrors.NewAuthentication(component, "login failed, check your credentials")
	}

	c.log.Info().Str("login", c.cfg.EloginLogin).Msg("Successfully logged in")
	return nil
}

// Relogin discards the current session and logs in again
func (c *Client) Relogin(ctx context.Context) error {
	if err := helpers.ResetSession(c.http); err != nil {
		return err
	}
	return c.Login(ctx)
}
