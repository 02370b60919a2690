package auth

import (
	"fmt"

	"github.com/cryol/pyapi-zabbix/pkg/redact"
)

// Credentials are a user and password for user.login. Formatting them with
// any fmt verb never prints the password.
type Credentials struct {
	User     string
	Password string
}

// Empty reports whether no user was given.
func (c Credentials) Empty() bool {
	return c.User == ""
}

func (c Credentials) String() string {
	return fmt.Sprintf("%s:%s", c.User, redact.Mask)
}

func (c Credentials) GoString() string {
	return fmt.Sprintf("auth.Credentials{User:%q, Password:%q}", c.User, redact.Mask)
}

// Format covers %v, %+v and friends, which bypass String for structs.
func (c Credentials) Format(f fmt.State, verb rune) {
	if verb == 'v' && f.Flag('#') {
		fmt.Fprint(f, c.GoString())
		return
	}

	fmt.Fprint(f, c.String())
}
