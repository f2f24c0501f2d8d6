// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2023 HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package sassgo

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// CompileAsync, CompileToResultAsync, CompileStringAsync, and
// CompileStringToResultAsync run a compilation on its own goroutine using
// golang.org/x/sync/errgroup, the same way concurrent fetches are
// coordinated elsewhere in this module. Evaluation itself is still
// cooperatively single-threaded regardless of which entry point started
// it. Cancelling ctx before the goroutine starts is honored; cancellation
// is not guaranteed to take effect mid-compilation, so ctx is not
// threaded any further than that.

func CompileAsync(ctx context.Context, sourcePath string, opts Options) (string, error) {
	res, err := CompileToResultAsync(ctx, sourcePath, opts)
	if err != nil {
		return "", err
	}
	return res.CSS, nil
}

func CompileToResultAsync(ctx context.Context, sourcePath string, opts Options) (Result, error) {
	g, ctx := errgroup.WithContext(ctx)
	var result Result
	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		r, err := CompileToResult(sourcePath, opts)
		result = r
		return err
	})
	if err := g.Wait(); err != nil {
		return Result{}, err
	}
	return result, nil
}

func CompileStringAsync(ctx context.Context, source string, opts Options) (string, error) {
	res, err := CompileStringToResultAsync(ctx, source, opts)
	if err != nil {
		return "", err
	}
	return res.CSS, nil
}

func CompileStringToResultAsync(ctx context.Context, source string, opts Options) (Result, error) {
	g, ctx := errgroup.WithContext(ctx)
	var result Result
	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		r, err := CompileStringToResult(source, opts)
		result = r
		return err
	})
	if err := g.Wait(); err != nil {
		return Result{}, err
	}
	return result, nil
}
