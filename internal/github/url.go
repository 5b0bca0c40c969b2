package github

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/openguard/openguard/internal/core"
)

var prURLRegex = regexp.MustCompile(`github\.com[/:]([^/]+)/([^/]+)/pull/(\d+)$`)

// ParsePullRequestURL extracts owner, repo, and PR number from a GitHub pull
// request URL. Supported format: https://github.com/{owner}/{repo}/pull/{number}
func ParsePullRequestURL(url string) (owner, repo string, number int, err error) {
	url = strings.TrimSuffix(strings.TrimSpace(url), "/")

	matches := prURLRegex.FindStringSubmatch(url)
	if len(matches) != 4 {
		return "", "", 0, core.NewErrorf(core.KindInvalidReference, nil,
			"invalid GitHub PR URL, expected format: https://github.com/owner/repo/pull/123")
	}

	owner = matches[1]
	repo = strings.TrimSuffix(matches[2], ".git")

	number, err = strconv.Atoi(matches[3])
	if err != nil {
		return "", "", 0, core.NewErrorf(core.KindInvalidReference, err,
			"invalid PR number %q", matches[3])
	}
	return owner, repo, number, nil
}
