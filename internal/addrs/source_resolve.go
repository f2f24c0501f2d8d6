// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2023 HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package addrs

import (
	"fmt"
	"io/fs"
	"path"
)

// ResolveRelative calculates a new, fully-resolved reference string from
// the combination of a base identifier and a (possibly relative)
// reference string, the way a ModuleSource combines with a relative
// module source address to produce a fully-resolved one.
//
// Only a reference that looks like a relative local path ("./x", "../x",
// or a bare name with no scheme) is actually relative; anything that
// parses as an absolute URL (has a "scheme:" prefix) is returned
// unchanged, matching the precedence rule that absolute references
// bypass the relative resolver entirely.
func ResolveRelative(base SourceIdentifier, ref string) (string, error) {
	if !isRelativeReference(ref) {
		return ref, nil // absolute references are never rewritten
	}

	switch b := base.(type) {
	case FileSource:
		dir := path.Dir(b.Path)
		return path.Join(dir, ref), nil
	case PackageSource:
		sub, err := joinSubPath(b.Subpath, ref)
		if err != nil {
			return "", fmt.Errorf("invalid relative path from %s: %w", b.String(), err)
		}
		return (PackageSource{Package: b.Package, Subpath: sub}).String(), nil
	case RemotePackageSource:
		sub, err := joinSubPath(b.Subpath, ref)
		if err != nil {
			return "", fmt.Errorf("invalid relative path from %s: %w", b.String(), err)
		}
		return (RemotePackageSource{PackageURL: b.PackageURL, Subpath: sub}).String(), nil
	case MemorySource:
		return path.Join(path.Dir(b.Opaque), ref), nil
	default:
		// nil base (the entrypoint has no referrer) or an unrecognized
		// implementation: there is nothing to resolve relative to.
		return ref, nil
	}
}

func joinSubPath(subPath, rel string) (string, error) {
	joined := path.Join(subPath, rel)
	if joined == "." {
		return "", nil
	}
	if !fs.ValidPath(joined) {
		return "", fmt.Errorf("relative path %s has too many \"../\" segments", rel)
	}
	return joined, nil
}

// isRelativeReference reports whether ref has no "scheme:" prefix and so
// must be interpreted relative to a base identifier (or, lacking one,
// relative to the process's working directory by the filesystem
// importer).
func isRelativeReference(ref string) bool {
	for i := 0; i < len(ref); i++ {
		c := ref[i]
		switch {
		case c == ':':
			return i == 0 // a leading colon isn't a scheme separator
		case c == '/' || c == '.':
			return true
		case (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '+' || c == '-':
			continue
		default:
			return true
		}
	}
	return true
}
