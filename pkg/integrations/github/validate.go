package github

import (
	"errors"
	"fmt"
	"regexp"
)

// ErrInvalidRef is returned for an owner or repository name GitHub would
// never accept. Such refs are rejected before any request is made.
var ErrInvalidRef = errors.New("invalid github repository")

var (
	// 1-39 alphanumerics or hyphens, no leading hyphen.
	ownerPattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9-]{0,38}$`)
	// 1-100 alphanumerics, hyphens, underscores or dots.
	repoPattern = regexp.MustCompile(`^[a-zA-Z0-9._-]{1,100}$`)
)

// ValidateRepoRef checks owner and repo as they appear in
// github.com/<owner>/<repo>.
func ValidateRepoRef(owner, repo string) error {
	switch {
	case !ownerPattern.MatchString(owner):
		return fmt.Errorf("%w: owner %q must be 1-39 letters, digits or hyphens and not start with a hyphen", ErrInvalidRef, owner)
	case repo == "." || repo == "..":
		return fmt.Errorf("%w: repo %q is reserved", ErrInvalidRef, repo)
	case !repoPattern.MatchString(repo):
		return fmt.Errorf("%w: repo %q must be 1-100 letters, digits, '.', '_' or '-'", ErrInvalidRef, repo)
	}
	return nil
}
