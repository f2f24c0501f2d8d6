// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2023 HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package tracing

const (
	// Common attribute names used across the compiler's public entry
	// points and the Loader/Resolver.

	SourceIdentifierAttributeName = "sassgo.source.identifier"
	SourceSyntaxAttributeName     = "sassgo.source.syntax"
	ModuleCanonicalAttributeName  = "sassgo.module.canonical"
	LoadedURLsAttributeName       = "sassgo.loaded_urls"
)
