// Package shell provides POSIX shell quoting and the resolved platform
// profile used when command lines are handed to a host shell.
package shell

import (
	"regexp"
	"strings"
)

// unsafe matches any character that forces a token to be quoted.
// Word characters plus @%+=:,./- are passed through untouched.
var unsafe = regexp.MustCompile(`[^\w@%+=:,./-]`)

// Quote returns a shell-escaped version of the token.
//
// The result is safe to embed in a POSIX shell command line: word-splitting
// and quote-removal of the returned string yields exactly the original
// token. Incorrect quoting here is a shell-injection vector, so the rules
// match shlex.quote exactly:
//
//   - the empty string becomes ''
//   - tokens containing only safe characters are returned unchanged
//   - everything else is wrapped in single quotes, with embedded single
//     quotes closed and reopened ("'" -> `'"'"'`)
func Quote(token string) string {
	if token == "" {
		return "''"
	}
	if !unsafe.MatchString(token) {
		return token
	}
	return "'" + strings.ReplaceAll(token, "'", `'"'"'`) + "'"
}

// QuoteJoin quotes each token and joins them with single spaces.
func QuoteJoin(tokens []string) string {
	quoted := make([]string, len(tokens))
	for i, t := range tokens {
		quoted[i] = Quote(t)
	}
	return strings.Join(quoted, " ")
}
