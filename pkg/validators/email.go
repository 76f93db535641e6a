package validators

import (
	"regexp"
	"strings"

	"github.com/goliatone/go-formstate/pkg/form"
)

// emailPattern follows the WHATWG valid-email-address grammar. Length limits
// (254 overall, 64 for the local part) are checked separately because RE2
// has no lookahead.
var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9.!#$%&'*+/=?^_` + "`" + `{|}~-]+@[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(?:\.[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)*$`)

const (
	maxEmailLength      = 254
	maxEmailLocalLength = 64
)

// Email fails when a non-empty value is not a syntactically valid address.
var Email = Rule{
	Kind: KindEmail,
	fn: func(c form.Control) form.Errors {
		value := c.Value()
		if isEmpty(value) {
			return nil
		}
		text, ok := value.(string)
		if !ok || !IsEmail(text) {
			return fail(KeyEmail)
		}
		return nil
	},
}

// IsEmail reports whether s is a syntactically valid address.
func IsEmail(s string) bool {
	if s == "" || len(s) > maxEmailLength {
		return false
	}
	at := strings.LastIndexByte(s, '@')
	if at < 1 || at > maxEmailLocalLength {
		return false
	}
	local := s[:at]
	if strings.HasPrefix(local, ".") || strings.HasSuffix(local, ".") || strings.Contains(local, "..") {
		return false
	}
	return emailPattern.MatchString(s)
}
