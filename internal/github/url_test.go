package github

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/openguard/openguard/internal/core"
)

func TestParsePullRequestURL(t *testing.T) {
	tests := []struct {
		name       string
		url        string
		wantOwner  string
		wantRepo   string
		wantNumber int
		wantErr    bool
	}{
		{
			name:       "Valid HTTPS URL",
			url:        "https://github.com/openguard/openguard/pull/123",
			wantOwner:  "openguard",
			wantRepo:   "openguard",
			wantNumber: 123,
		},
		{
			name:       "Valid URL without scheme",
			url:        "github.com/octocat/hello-world/pull/42",
			wantOwner:  "octocat",
			wantRepo:   "hello-world",
			wantNumber: 42,
		},
		{
			name:       "Trailing slash",
			url:        "https://github.com/octocat/hello-world/pull/7/",
			wantOwner:  "octocat",
			wantRepo:   "hello-world",
			wantNumber: 7,
		},
		{
			name:       "Repo with .git suffix",
			url:        "https://github.com/octocat/hello-world.git/pull/9",
			wantOwner:  "octocat",
			wantRepo:   "hello-world",
			wantNumber: 9,
		},
		{
			name:    "Issues URL rejected",
			url:     "https://github.com/octocat/hello-world/issues/123",
			wantErr: true,
		},
		{
			name:    "Extra path segments rejected",
			url:     "https://github.com/octocat/hello-world/pull/123/files",
			wantErr: true,
		},
		{
			name:    "Not a GitHub URL",
			url:     "https://gitlab.com/octocat/hello-world/pull/123",
			wantErr: true,
		},
		{
			name:    "Empty input",
			url:     "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			owner, repo, number, err := ParsePullRequestURL(tt.url)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, core.KindInvalidReference, core.KindOf(err))
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.wantOwner, owner)
			assert.Equal(t, tt.wantRepo, repo)
			assert.Equal(t, tt.wantNumber, number)
		})
	}
}
