package github

import "time"

// Repo is the subset of GET /repos/{owner}/{repo} used for enrichment.
type Repo struct {
	Name        string   `json:"name"`
	FullName    string   `json:"full_name"`
	Description *string  `json:"description"`
	Homepage    string   `json:"homepage"`
	HTMLURL     string   `json:"html_url"`
	License     *License `json:"license"`
	Owner       struct {
		Login string `json:"login"`
	} `json:"owner"`
}

// License is GitHub's detected license for a repository.
// Key is a lowercase SPDX-like identifier such as "apache-2.0", or "other".
type License struct {
	Key    string `json:"key"`
	Name   string `json:"name"`
	SPDXID string `json:"spdx_id"`
}

// LicenseKey returns the license key, or "" when GitHub detected none.
func (r *Repo) LicenseKey() string {
	if r == nil || r.License == nil {
		return ""
	}
	return r.License.Key
}

// Release is one entry of GET /repos/{owner}/{repo}/releases.
type Release struct {
	TagName     string     `json:"tag_name"`
	Name        string     `json:"name"`
	Prerelease  bool       `json:"prerelease"`
	Draft       bool       `json:"draft"`
	PublishedAt *time.Time `json:"published_at"`
}
