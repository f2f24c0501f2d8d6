// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2023 HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

// Package version reports the compiled-in version of sassgo, used to stamp
// the HTTP client's User-Agent header and OpenTelemetry resource attributes.
package version

import "github.com/hashicorp/go-version"

// Version is the main version number that is being run at the moment.
var Version = "0.1.0"

// Prerelease is a pre-release marker for the version. If this is "" (empty
// string) then it means that it is a final release. Otherwise, this is a
// pre-release such as "dev" (in development).
var Prerelease = "dev"

// SemVer is the parsed semantic version of Version, used wherever a
// structured comparison is required instead of a display string.
var SemVer = mustParseSemVer(Version)

func mustParseSemVer(raw string) *version.Version {
	v, err := version.NewVersion(raw)
	if err != nil {
		panic(err)
	}
	return v
}
