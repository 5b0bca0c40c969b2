package github

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/go-github/v73/github"

	"github.com/openguard/openguard/internal/core"
)

// wrapAPIError normalizes a go-github error into the application's error
// taxonomy. context names the resource being accessed and ends up in the
// client-visible message.
func wrapAPIError(err error, context string) error {
	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) {
		return core.NewErrorf(core.KindRateLimited, err,
			"GitHub rate limit reached while fetching %s, try again later or configure a token", context)
	}

	status := 0
	var ghErr *github.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil {
		status = ghErr.Response.StatusCode
	}

	switch status {
	case http.StatusUnauthorized:
		return core.NewErrorf(core.KindUnauthorized, err,
			"GitHub authentication failed: invalid or expired token")
	case http.StatusForbidden:
		if ghErr != nil && strings.Contains(strings.ToLower(ghErr.Message), "rate limit") {
			return core.NewErrorf(core.KindRateLimited, err,
				"GitHub rate limit reached while fetching %s", context)
		}
		return core.NewErrorf(core.KindAccessDenied, err,
			"access denied to %s, check token permissions", context)
	case http.StatusNotFound:
		return core.NewErrorf(core.KindNotFound, err,
			"not found: %s, verify the URL and your access to the repository", context)
	default:
		e := core.NewError(core.KindUpstream, fmt.Sprintf("GitHub error while fetching %s", context), err)
		e.Status = status
		return e
	}
}
