package command

import (
	"net/url"
	"regexp"
	"strings"
)

// bareCredentials matches userinfo at the start of a schemeless token:
// "user:secret@host". Port and query characters are excluded from the
// password class so "host:8080?x=a@b" is not mistaken for credentials.
var bareCredentials = regexp.MustCompile(`^([^/@:\s]+):([^@/?#\s]*)@`)

// CensorURLPasswords strips the password component from every argument
// carrying URL userinfo, keeping the username. Arguments with a scheme are
// parsed as URLs, so ports, paths and query strings survive untouched;
// schemeless "user:secret@host" tokens are rewritten in place. Returns the
// (possibly rewritten) arguments and whether anything changed.
func CensorURLPasswords(args []string) ([]string, bool) {
	out := make([]string, len(args))
	changed := false
	for i, arg := range args {
		out[i] = censorArg(arg)
		if out[i] != arg {
			changed = true
		}
	}
	return out, changed
}

func censorArg(arg string) string {
	if strings.Contains(arg, "://") {
		u, err := url.Parse(arg)
		if err != nil || u.User == nil {
			// Not a parseable URL, or no userinfo: leave it alone.
			return arg
		}
		if _, hasPassword := u.User.Password(); !hasPassword {
			return arg
		}
		u.User = url.User(u.User.Username())
		return u.String()
	}
	return bareCredentials.ReplaceAllString(arg, "$1@")
}
