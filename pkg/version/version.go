// Copyright 2026 The ovmerge Authors.
// SPDX-License-Identifier: Apache-2.0

// Package version holds the build-time version string, overridable via
// -ldflags "-X github.com/dtoverlay/ovmerge/pkg/version.Version=...".
package version

var Version = "0.0.0-develop"
