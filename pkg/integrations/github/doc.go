// Package github provides an HTTP client for the GitHub REST API.
//
// # Overview
//
// This package fetches release and repository metadata from GitHub
// (https://api.github.com) to fill in the fields of a generated expression:
// the latest release tag, the detected license, the description and the
// homepage.
//
// # Usage
//
//	client := github.NewClient(c, os.Getenv("GITHUB_TOKEN"), 24*time.Hour)
//
//	releases, err := client.Releases(ctx, "nixos", "nix", false)
//	repo, err := client.Repo(ctx, "nixos", "nix", false)
//	fmt.Println(repo.LicenseKey())
//
// # Authentication
//
// A GitHub personal access token is optional but recommended to avoid rate
// limits. Without a token, the client is limited to 60 requests/hour.
// With a token, the limit is 5000 requests/hour.
//
// # Caching
//
// Responses are cached to reduce API calls. The cache TTL is set when
// creating the client. Pass refresh=true to bypass the cache.
package github
