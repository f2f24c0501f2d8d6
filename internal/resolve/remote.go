// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2023 HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package resolve

import (
	"context"
	"fmt"
	"os"
	"path"
	"strings"
	"sync"
	"time"

	getter "github.com/hashicorp/go-getter"
	"github.com/spf13/afero"

	"github.com/sassgo/sassgo/internal/addrs"
	"github.com/sassgo/sassgo/internal/copy"
	"github.com/sassgo/sassgo/internal/httpclient"
	"github.com/sassgo/sassgo/internal/tracing"
)

// RemotePackageImporter is an importer triggered by `http:`, `https:`, or
// `git:` references, which fetches the referenced package into a local
// cache directory via go-getter and then delegates to a
// FilesystemImporter rooted there.
//
// Each distinct package URL (the scheme+host+path with any stylesheet
// subpath/fragment stripped) is fetched at most once per importer
// instance; concurrent Canonicalize/Load calls for the same package URL
// are coalesced so the package is only fetched once.
type RemotePackageImporter struct {
	CacheDir string
	Client   *getter.Client

	// SharedCacheDir, if set, is a long-lived cache keyed by package URL
	// that a package is fetched into at most once across every
	// compilation that shares it. Each compilation still gets its own
	// copy under CacheDir, populated via internal/copy.CopyDir from the
	// shared one, so that one compilation's filesystem importer never
	// observes another's in-flight fetch into the same directory.
	SharedCacheDir string

	// Timeout bounds how long a single http or https package fetch may
	// run before its request is cancelled, set on the client
	// httpclient.New returns. It has no effect when Client is set. Zero
	// means no timeout, matching cleanhttp's own default.
	Timeout time.Duration

	mu      sync.Mutex
	fetched map[string]fetchResult
}

type fetchResult struct {
	dir string
	err error
}

func NewRemotePackageImporter(cacheDir string) *RemotePackageImporter {
	return &RemotePackageImporter{CacheDir: cacheDir, fetched: map[string]fetchResult{}}
}

func (r *RemotePackageImporter) NonCanonicalScheme() string { return "" }

func (r *RemotePackageImporter) Canonicalize(ref string, _ addrs.SourceIdentifier) (addrs.SourceIdentifier, bool, error) {
	if !(strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") || strings.HasPrefix(ref, "git://")) {
		return nil, false, nil
	}
	pkgURL, subpath := splitPackageURL(ref)
	if _, err := r.ensureFetched(pkgURL); err != nil {
		return nil, false, err
	}
	return addrs.RemotePackageSource{PackageURL: pkgURL, Subpath: subpath}, true, nil
}

func (r *RemotePackageImporter) Load(id addrs.SourceIdentifier) (*Source, bool, error) {
	remote, ok := id.(addrs.RemotePackageSource)
	if !ok {
		return nil, false, nil
	}
	dir, err := r.ensureFetched(remote.PackageURL)
	if err != nil {
		return nil, false, err
	}
	fsImporter := NewFilesystemImporter(afero.NewOsFs(), dir)
	canon, found, err := fsImporter.Canonicalize(remote.Subpath, nil)
	if err != nil || !found {
		return nil, found, err
	}
	src, found, err := fsImporter.Load(canon)
	if src != nil {
		src.Identifier = id
	}
	return src, found, err
}

// ensureFetched fetches pkgURL into a per-package subdirectory of
// r.CacheDir exactly once, coalescing concurrent callers for the same
// package URL, and returns the local directory it was fetched into.
//
// When SharedCacheDir is set, the network fetch lands there instead,
// keyed by package URL and reused by every RemotePackageImporter that
// points at the same SharedCacheDir; this instance's own CacheDir
// always gets its own copy, via internal/copy.CopyDir, so this
// compilation never shares a live directory with another one still
// fetching or holding the same package.
func (r *RemotePackageImporter) ensureFetched(pkgURL string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if res, ok := r.fetched[pkgURL]; ok {
		return res.dir, res.err
	}

	dir := path.Join(r.CacheDir, sanitizePackageURL(pkgURL))

	if r.SharedCacheDir == "" {
		if err := r.fetchInto(pkgURL, dir); err != nil {
			return r.record(pkgURL, "", err)
		}
		return r.record(pkgURL, dir, nil)
	}

	shared := path.Join(r.SharedCacheDir, sanitizePackageURL(pkgURL))
	if _, err := os.Stat(shared); err != nil {
		if !os.IsNotExist(err) {
			return r.record(pkgURL, "", fmt.Errorf("checking shared cache for %q: %w", pkgURL, err))
		}
		if err := r.fetchInto(pkgURL, shared); err != nil {
			return r.record(pkgURL, "", err)
		}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return r.record(pkgURL, "", err)
	}
	if err := copy.CopyDir(dir, shared); err != nil {
		return r.record(pkgURL, "", fmt.Errorf("copying cached package %q into compilation cache: %w", pkgURL, err))
	}
	return r.record(pkgURL, dir, nil)
}

// fetchInto runs the go-getter fetch for pkgURL straight into dst,
// creating dst first if needed.
func (r *RemotePackageImporter) fetchInto(pkgURL, dst string) error {
	ctx, span := tracing.Tracer().Start(context.Background(), "Fetch Remote Package")
	defer span.End()

	client := r.Client
	if client == nil {
		client = &getter.Client{
			Ctx:     ctx,
			Src:     pkgURL,
			Dst:     dst,
			Pwd:     dst,
			Mode:    getter.ClientModeDir,
			Getters: r.httpGetters(ctx),
		}
	} else {
		client.Src = pkgURL
		client.Dst = dst
	}
	if err := os.MkdirAll(dst, 0o755); err != nil {
		return err
	}
	if err := client.Get(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("fetching remote package %q: %w", pkgURL, err)
	}
	return nil
}

// httpGetters clones go-getter's default getter registry with the http
// and https entries replaced by ones using this module's own traced,
// user-agent-tagged client, so remote package fetches are identifiable
// and participate in the same OpenTelemetry plumbing as registry calls.
func (r *RemotePackageImporter) httpGetters(ctx context.Context) map[string]getter.Getter {
	hc := httpclient.New(ctx)
	if r.Timeout > 0 {
		hc.Timeout = r.Timeout
	}
	getters := make(map[string]getter.Getter, len(getter.Getters))
	for k, v := range getter.Getters {
		getters[k] = v
	}
	getters["http"] = &getter.HttpGetter{Client: hc}
	getters["https"] = &getter.HttpGetter{Client: hc}
	return getters
}

// record stores a fetch outcome; the caller (ensureFetched) holds r.mu.
func (r *RemotePackageImporter) record(pkgURL, dir string, err error) (string, error) {
	r.fetched[pkgURL] = fetchResult{dir: dir, err: err}
	return dir, err
}

// splitPackageURL separates a package fetch address from an optional
// "//subpath" stylesheet path within it, the same convention go-getter
// itself uses for module subdirectories.
func splitPackageURL(ref string) (pkgURL, subpath string) {
	start := 0
	if schemeEnd := strings.Index(ref, "://"); schemeEnd >= 0 {
		start = schemeEnd + 3
	}
	if idx := strings.Index(ref[start:], "//"); idx >= 0 {
		return ref[:start+idx], ref[start+idx+2:]
	}
	return ref, ""
}

func sanitizePackageURL(pkgURL string) string {
	replacer := strings.NewReplacer("://", "_", "/", "_", ":", "_", "?", "_", "&", "_")
	return replacer.Replace(pkgURL)
}
