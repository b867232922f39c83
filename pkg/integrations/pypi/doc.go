// Package pypi provides an HTTP client for the Python Package Index JSON API.
//
// # Overview
//
// This package fetches project metadata and the release table from PyPI
// (https://pypi.org) so a python expression can be generated for the latest
// release with the sdist's published sha256.
//
// # Usage
//
//	client := pypi.NewClient(c, 24*time.Hour)
//
//	project, err := client.FetchProject(ctx, "requests", false)  // false = use cache
//	if err != nil {
//	    return err
//	}
//
//	if sdist, ok := pypi.Sdist(project.Releases[project.Version]); ok {
//	    fmt.Println(sdist.Digests.SHA256)
//	}
//
// # Licenses
//
// [Project.License] is the last segment of the first "License ::" trove
// classifier when there is one (e.g. "MIT License"), otherwise the raw license
// field when it is short.
//
// # Caching
//
// Responses are cached to reduce load on PyPI and speed up repeated requests.
// The cache TTL is set when creating the client. Pass refresh=true to
// [Client.FetchProject] to bypass the cache.
package pypi
