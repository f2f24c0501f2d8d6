// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2023 HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package sassgo

// Result is what CompileToResult and CompileStringToResult return: the
// compiled CSS plus every canonical identifier the compilation loaded,
// entrypoint included, in first-observed order.
type Result struct {
	CSS string
	LoadedURLs []string
}
