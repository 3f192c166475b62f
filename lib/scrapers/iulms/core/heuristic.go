package core

import "strings"

type Outcome int

const (
	OutcomeUnknown Outcome = iota
	OutcomeSuccess
	OutcomeBadCredentials
)

// OutcomeClassifier decides whether a login POST worked. The portal has
// no API, so success is inferred from the final URL after redirects and
// from marker strings in the response body. The markers are observed
// behavior of one deployment, not a contract, which is why this lives
// in a swappable value instead of the login control flow.
type OutcomeClassifier struct {
	SuccessUrlFragments  []string
	SuccessBodyMarkers   []string
	BadCredentialMarkers []string
}

// Classify evaluates the cascade in order: success URL, success body
// marker, bad-credential marker, unknown.
func (oc OutcomeClassifier) Classify(finalUrl, body string) Outcome {
	for _, fragment := range oc.SuccessUrlFragments {
		if strings.Contains(finalUrl, fragment) {
			return OutcomeSuccess
		}
	}
	lower := strings.ToLower(body)
	for _, marker := range oc.SuccessBodyMarkers {
		if strings.Contains(lower, strings.ToLower(marker)) {
			return OutcomeSuccess
		}
	}
	for _, marker := range oc.BadCredentialMarkers {
		if strings.Contains(lower, strings.ToLower(marker)) {
			return OutcomeBadCredentials
		}
	}
	return OutcomeUnknown
}

var DefaultClassifier = OutcomeClassifier{
	SuccessUrlFragments: []string{"/my/", "my.php"},
	SuccessBodyMarkers: []string{
		"loggedinas",
		"You are logged in as",
	},
	BadCredentialMarkers: []string{
		"Invalid login",
		"incorrect username",
		"incorrect password",
	},
}
