// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2023 HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package version

import "testing"

func TestSemVerParsesVersion(t *testing.T) {
	if SemVer == nil {
		t.Fatalf("expected SemVer to be populated from Version at package init")
	}
	if SemVer.Segments()[0] != 0 {
		t.Fatalf("got major segment %d, want 0 for Version %q", SemVer.Segments()[0], Version)
	}
}

func TestMustParseSemVerPanicsOnInvalidVersion(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected a panic for an unparseable version string")
		}
	}()
	mustParseSemVer("not-a-version")
}

func TestInterestingDependenciesOnlyReportsKnownModules(t *testing.T) {
	deps := InterestingDependencies()
	for _, d := range deps {
		if _, ok := interestingDependencies[d.Path]; !ok {
			t.Fatalf("InterestingDependencies returned %q, which isn't in the interesting set", d.Path)
		}
	}
}
