// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2023 HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package resolve

import (
	"fmt"
	"path"
	"strings"

	"github.com/spf13/afero"

	"github.com/sassgo/sassgo/internal/addrs"
)

// extensions are tried, for a non-partial candidate, in this order.
var extensions = []string{"", ".scss", ".sass", ".css"}

// FilesystemImporter resolves references relative to a base directory on
// an afero.Fs. Using afero.Fs rather than os directly routes all file
// access through an afero filesystem so that tests can substitute an
// in-memory one (afero.NewMemMapFs) instead of touching disk.
type FilesystemImporter struct {
	FS afero.Fs
	Dir string
}

func NewFilesystemImporter(fs afero.Fs, dir string) *FilesystemImporter {
	return &FilesystemImporter{FS: fs, Dir: dir}
}

func (f *FilesystemImporter) NonCanonicalScheme() string { return "" }

// Canonicalize resolves ref against f.Dir (or, for a relative
// continuation, against base's path when base is itself a FileSource
// produced by this importer), trying the candidate extensions and
// partial-prefixed forms lists, erroring on ambiguity.
func (f *FilesystemImporter) Canonicalize(ref string, base addrs.SourceIdentifier) (addrs.SourceIdentifier, bool, error) {
	dir := f.Dir
	if fs, ok := base.(addrs.FileSource); ok {
		dir = path.Dir(fs.Path)
	}
	if path.IsAbs(ref) {
		dir = ""
	}
	candidate := path.Clean(path.Join(dir, ref))

	match, err := f.findCandidate(candidate)
	if err != nil {
		return nil, false, err
	}
	if match == "" {
		return nil, false, nil
	}
	return addrs.FileSource{Path: match}, true, nil
}

// findCandidate implements step 2-3: try P, P.scss, P.sass,
// P.css and each of those with its basename partial-prefixed, then (if P
// names a directory) P/_index.{scss,sass,css}; report an ambiguity error
// if more than one candidate in the same directory matches.
func (f *FilesystemImporter) findCandidate(p string) (string, error) {
	dir, base := path.Split(p)
	var found []string

	tryFile := func(name string) {
		full := path.Join(dir, name)
		if ok, _ := afero.Exists(f.FS, full); ok {
			if isDir, _ := afero.IsDir(f.FS, full); !isDir {
				found = append(found, full)
			}
		}
	}

	for _, ext := range extensions {
		tryFile(base + ext)
		tryFile("_" + base + ext)
	}

	if len(found) == 0 {
		if isDir, _ := afero.IsDir(f.FS, p); isDir {
			for _, ext := range []string{".scss", ".sass", ".css"} {
				tryFile2 := path.Join(p, "_index"+ext)
				if ok, _ := afero.Exists(f.FS, tryFile2); ok {
					found = append(found, tryFile2)
				}
			}
		}
	}

	switch len(found) {
	case 0:
		return "", nil
	case 1:
		return found[0], nil
	default:
		return "", fmt.Errorf("It's not clear which file to import for %q: candidates are %s", p, strings.Join(found, ", "))
	}
}

// Load reads the canonicalized FileSource's contents, detecting syntax
// from its extension.
func (f *FilesystemImporter) Load(id addrs.SourceIdentifier) (*Source, bool, error) {
	fs, ok := id.(addrs.FileSource)
	if !ok {
		return nil, false, nil
	}
	ok2, err := afero.Exists(f.FS, fs.Path)
	if err != nil {
		return nil, false, err
	}
	if !ok2 {
		return nil, false, nil
	}
	contents, err := afero.ReadFile(f.FS, fs.Path)
	if err != nil {
		return nil, false, err
	}
	return &Source{
		Identifier: id,
		Contents: string(contents),
		Syntax: syntaxFromExt(fs.Path),
	}, true, nil
}

func syntaxFromExt(p string) Syntax {
	switch {
	case strings.HasSuffix(p, ".sass"):
		return SyntaxIndented
	case strings.HasSuffix(p, ".css"):
		return SyntaxCSS
	default:
		return SyntaxSCSS
	}
}

// PackageImporter is the Package-URL resolver: rewrites
// `package:name/rest` to the configured base identifier for `name` plus
// `rest`, delegating to the filesystem importer rooted there.
type PackageImporter struct {
	FS afero.Fs
	Packages map[string]string // package name -> base directory
}

func (p *PackageImporter) NonCanonicalScheme() string { return "package" }

func (p *PackageImporter) Canonicalize(ref string, _ addrs.SourceIdentifier) (addrs.SourceIdentifier, bool, error) {
	if !strings.HasPrefix(ref, "package:") {
		return nil, false, nil
	}
	name, rest, _ := strings.Cut(strings.TrimPrefix(ref, "package:"), "/")
	if _, ok := p.Packages[name]; !ok {
		return nil, false, fmt.Errorf("unknown package %q", name)
	}
	if _, _, err := p.resolveFile(name, rest); err != nil {
		return nil, false, err
	}
	return addrs.PackageSource{Package: name, Subpath: rest}, true, nil
}

// resolveFile re-runs the filesystem importer's candidate search for a
// package's (name, subpath) pair, used both to validate Canonicalize and
// to actually fetch contents in Load, since PackageSource doesn't itself carry the resolved filesystem path.
func (p *PackageImporter) resolveFile(name, subpath string) (addrs.SourceIdentifier, bool, error) {
	base, ok := p.Packages[name]
	if !ok {
		return nil, false, fmt.Errorf("unknown package %q", name)
	}
	fsImporter := NewFilesystemImporter(p.FS, base)
	return fsImporter.Canonicalize(subpath, nil)
}

func (p *PackageImporter) Load(id addrs.SourceIdentifier) (*Source, bool, error) {
	pkg, ok := id.(addrs.PackageSource)
	if !ok {
		return nil, false, nil
	}
	file, found, err := p.resolveFile(pkg.Package, pkg.Subpath)
	if err != nil || !found {
		return nil, found, err
	}
	fsImporter := &FilesystemImporter{FS: p.FS}
	src, found, err := fsImporter.Load(file)
	if src != nil {
		src.Identifier = id
	}
	return src, found, err
}
