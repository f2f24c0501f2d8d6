// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2023 HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package copy

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCopyDirCopiesNestedFiles(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()

	if err := os.MkdirAll(filepath.Join(src, "sub"), 0o755); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := os.WriteFile(filepath.Join(src, "top.scss"), []byte("a {b: c}"), 0o644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := os.WriteFile(filepath.Join(src, "sub", "nested.scss"), []byte("d {e: f}"), 0o644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := CopyDir(dst, src); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	top, err := os.ReadFile(filepath.Join(dst, "top.scss"))
	if err != nil || string(top) != "a {b: c}" {
		t.Fatalf("got contents=%q err=%v", top, err)
	}
	nested, err := os.ReadFile(filepath.Join(dst, "sub", "nested.scss"))
	if err != nil || string(nested) != "d {e: f}" {
		t.Fatalf("got contents=%q err=%v", nested, err)
	}
}

func TestCopyDirSkipsDotFiles(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()

	if err := os.WriteFile(filepath.Join(src, ".hidden"), []byte("secret"), 0o644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := os.MkdirAll(filepath.Join(src, ".hiddendir"), 0o755); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := os.WriteFile(filepath.Join(src, ".hiddendir", "inner"), []byte("x"), 0o644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := os.WriteFile(filepath.Join(src, "visible"), []byte("v"), 0o644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := CopyDir(dst, src); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dst, ".hidden")); !os.IsNotExist(err) {
		t.Fatalf("expected .hidden to be skipped, stat err=%v", err)
	}
	if _, err := os.Stat(filepath.Join(dst, ".hiddendir")); !os.IsNotExist(err) {
		t.Fatalf("expected .hiddendir to be skipped entirely, stat err=%v", err)
	}
	if _, err := os.Stat(filepath.Join(dst, "visible")); err != nil {
		t.Fatalf("expected visible to be copied: %v", err)
	}
}

func TestCopyDirRecreatesSymlinks(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()

	if err := os.WriteFile(filepath.Join(src, "real.scss"), []byte("a {b: c}"), 0o644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := os.Symlink("real.scss", filepath.Join(src, "link.scss")); err != nil {
		t.Skipf("symlinks unsupported in this environment: %v", err)
	}

	if err := CopyDir(dst, src); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	target, err := os.Readlink(filepath.Join(dst, "link.scss"))
	if err != nil {
		t.Fatalf("expected link.scss to be recreated as a symlink: %v", err)
	}
	if target != "real.scss" {
		t.Fatalf("got symlink target %q, want %q", target, "real.scss")
	}
}

func TestSameFileIdentifiesSharedInode(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	same, err := SameFile(path, path)
	if err != nil || !same {
		t.Fatalf("expected a path to be SameFile as itself, got same=%v err=%v", same, err)
	}

	other := filepath.Join(dir, "b")
	if err := os.WriteFile(other, []byte("x"), 0o644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	same, err = SameFile(path, other)
	if err != nil || same {
		t.Fatalf("expected two distinct files to not be SameFile, got same=%v err=%v", same, err)
	}
}

func TestSameFileMissingPathIsNotAnError(t *testing.T) {
	dir := t.TempDir()
	same, err := SameFile(filepath.Join(dir, "missing-a"), filepath.Join(dir, "missing-b"))
	if err != nil {
		t.Fatalf("expected a missing path to report same=false, not an error: %v", err)
	}
	if same {
		t.Fatalf("expected same=false for two missing paths")
	}
}
