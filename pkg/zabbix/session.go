package zabbix

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cryol/pyapi-zabbix/pkg/errors"
	"github.com/cryol/pyapi-zabbix/pkg/redact"
)

/*
Login authenticates and stores the returned token. The method and user
parameter come from the login scheme of the remote version, which is
probed once through apiinfo.version unless pinned. On failure the session
is left as it was.
*/
func (c *Client) Login(ctx context.Context, user, password string) error {
	c.logger.Debug("login", "user", user, "password", redact.Mask)

	scheme, err := c.loginScheme(ctx)
	if err != nil {
		return fmt.Errorf("selecting login method: %w", err)
	}

	token, err := Call[string](ctx, c, scheme.Method, Params{
		scheme.UserParam: user,
		"password":       password,
	})

	if err != nil {
		return err
	}

	if token == "" {
		return fmt.Errorf("%s returned an empty token", scheme.Method)
	}

	c.session.Set(user, token)
	c.logger.Debug("logged in", "user", user, "method", scheme.Method)

	return nil
}

func (c *Client) loginScheme(ctx context.Context) (LoginScheme, error) {
	if c.legacyLogin {
		return legacyScheme, nil
	}

	version, err := c.knownVersion(ctx)
	if err != nil {
		return LoginScheme{}, err
	}

	return SchemeFor(c.schemes, version), nil
}

/*
Logout ends the remote session and always clears the local token, even
when user.logout fails: the server may already have dropped it. Logging
out without a token does nothing.
*/
func (c *Client) Logout(ctx context.Context) error {
	if !c.Authenticated() {
		return nil
	}

	defer c.session.Clear()

	c.logger.Debug("logout", "user", c.session.User())

	if _, err := c.Call(ctx, "user.logout", nil); err != nil {
		return fmt.Errorf("logout: %w", err)
	}

	return nil
}

/*
Open starts a scoped session: it logs in with the credentials given at
construction. Without credentials it does nothing, which suits API setups
where the token is handled elsewhere. Pair every Open with Close.
*/
func (c *Client) Open(ctx context.Context) error {
	if c.credentials.Empty() {
		return nil
	}

	return c.Login(ctx, c.credentials.User, c.credentials.Password)
}

// Close ends a scoped session by logging out when a token is held.
func (c *Client) Close(ctx context.Context) error {
	return c.Logout(ctx)
}

/*
WithSession runs fn between Open and Close. Close runs on every exit path,
including errors and panics inside fn, and uses a context that outlives
cancellation of ctx so the logout is still sent. Errors from fn and from
Close are both returned.

The session itself costs two calls, login and logout. When the version is
not pinned with WithAPIVersion and has not been probed yet, the login is
preceded by one apiinfo.version call.
*/
func WithSession(ctx context.Context, c *Client, fn func(context.Context, *Client) error) (err error) {
	if err = c.Open(ctx); err != nil {
		return err
	}

	defer func() {
		closeErr := c.Close(context.WithoutCancel(ctx))
		err = errors.NewError(err, closeErr)
	}()

	return fn(ctx, c)
}

// CheckAuthentication asks the API whether the current token is valid and
// returns the user data it reports.
func (c *Client) CheckAuthentication(ctx context.Context) (json.RawMessage, error) {
	return c.Call(ctx, "user.checkAuthentication", Params{"sessionid": c.Token()})
}
