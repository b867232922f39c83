// Package license maps registry license identifiers to nixpkgs license
// attributes (lib.licenses.<attr>).
//
// Lookups never fail: an identifier without a mapping yields [Unknown],
// the placeholder a maintainer is expected to edit by hand.
package license

import "strings"

// Unknown is returned for identifiers with no nixpkgs mapping.
const Unknown = "CHANGE"

// githubLicenses is keyed by GitHub's lowercase license key.
var githubLicenses = map[string]string{
	"0bsd":         "bsd0",
	"afl-3.0":      "afl3",
	"agpl-3.0":     "agpl3Only",
	"apache-2.0":   "asl20",
	"artistic-2.0": "artistic2",
	"bsd-2-clause": "bsd2",
	"bsd-3-clause": "bsd3",
	"bsl-1.0":      "boost",
	"cc-by-4.0":    "cc-by-40",
	"cc-by-sa-4.0": "cc-by-sa-40",
	"cc0-1.0":      "cc0",
	"epl-1.0":      "epl10",
	"epl-2.0":      "epl20",
	"eupl-1.2":     "eupl12",
	"gpl-2.0":      "gpl2Only",
	"gpl-3.0":      "gpl3Only",
	"isc":          "isc",
	"lgpl-2.1":     "lgpl21Only",
	"lgpl-3.0":     "lgpl3Only",
	"mit":          "mit",
	"mpl-2.0":      "mpl20",
	"ms-pl":        "mspl",
	"ncsa":         "ncsa",
	"ofl-1.1":      "ofl",
	"postgresql":   "postgresql",
	"unlicense":    "unlicense",
	"upl-1.0":      "upl",
	"vim":          "vim",
	"wtfpl":        "wtfpl",
	"zlib":         "zlib",
}

// pypiLicenses is keyed by the lowercased license name PyPI reports, either
// a trove classifier's last segment or the free-form license field.
var pypiLicenses = map[string]string{
	"apache 2.0":                                              "asl20",
	"apache-2.0":                                              "asl20",
	"apache license 2.0":                                      "asl20",
	"apache license, version 2.0":                             "asl20",
	"apache software license":                                 "asl20",
	"bsd":                                                     "bsd3",
	"bsd license":                                             "bsd3",
	"bsd-2-clause":                                            "bsd2",
	"bsd-3-clause":                                            "bsd3",
	"gnu affero general public license v3":                    "agpl3Only",
	"gnu general public license v2 (gplv2)":                   "gpl2Only",
	"gnu general public license v3 (gplv3)":                   "gpl3Only",
	"gnu lesser general public license v2 or later (lgplv2+)": "lgpl2Plus",
	"gnu lesser general public license v3 (lgplv3)":           "lgpl3Only",
	"gpl-2.0":                                                 "gpl2Only",
	"gpl-3.0":                                                 "gpl3Only",
	"isc":                                                     "isc",
	"isc license (iscl)":                                      "isc",
	"lgpl-3.0":                                                "lgpl3Only",
	"mit":                                                     "mit",
	"mit license":                                             "mit",
	"mit-0":                                                   "mit0",
	"mozilla public license 2.0 (mpl 2.0)":                    "mpl20",
	"mpl-2.0":                                                 "mpl20",
	"psf":                                                     "psfl",
	"python software foundation license":                      "psfl",
	"the unlicense (unlicense)":                               "unlicense",
	"zope public license":                                     "zpl21",
}

// FromGitHub maps a GitHub license key (e.g. "apache-2.0") to a nixpkgs
// attribute. The key is matched case-insensitively.
func FromGitHub(key string) string {
	return lookup(githubLicenses, key)
}

// FromPyPI maps a PyPI license name (e.g. "MIT License") to a nixpkgs
// attribute. The name is matched case-insensitively.
func FromPyPI(name string) string {
	return lookup(pypiLicenses, name)
}

// IsKnown reports whether attr is a real mapping rather than [Unknown].
func IsKnown(attr string) bool {
	return attr != "" && attr != Unknown
}

func lookup(table map[string]string, id string) string {
	if v, ok := table[strings.ToLower(strings.TrimSpace(id))]; ok {
		return v
	}
	return Unknown
}
