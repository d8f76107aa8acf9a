package gateway

import (
	"regexp"
	"strconv"
)

// Adapters embed the upstream HTTP status in their error text (e.g.
// "openrouter api error (status 429): ..."). Classification is a best-effort
// parse of that text; an error with no parseable code is treated as unknown.
var (
	statusCodeRe   = regexp.MustCompile(`status[ :]+(\d{3})`)
	unknownModelRe = regexp.MustCompile(`(?i)(unknown|invalid)[_ ]model|model[^.]{0,40}(not found|does not exist)`)
)

// RetryNextModel decides whether the gateway should keep trying the next
// candidate model of the same provider family after a failed attempt.
//
// The policy privileges availability over determinism: an unparseable failure
// is assumed transient and retried; rate limits, timeouts and server errors
// are retried; a rejected model identifier is retried because the next
// candidate may exist. An authentication or authorization failure abandons
// the family immediately, since the same credential would fail again for
// every remaining candidate.
func RetryNextModel(errText string) bool {
	m := statusCodeRe.FindStringSubmatch(errText)
	if m == nil {
		return true // unknown failure, assume transient
	}

	code, err := strconv.Atoi(m[1])
	if err != nil {
		return true
	}

	switch {
	case code >= 500:
		return true
	case code == 429 || code == 408:
		return true
	case code == 401 || code == 403:
		return false
	case code >= 400:
		return unknownModelRe.MatchString(errText)
	default:
		return true
	}
}
