// Copyright 2026 The ovmerge Authors.
// SPDX-License-Identifier: Apache-2.0

package parse_test

import (
	"fmt"

	"github.com/dtoverlay/ovmerge/pkg/files"
)

// memOpener is an in-memory files.Opener for tests, avoiding any real
// filesystem or git dependency.
type memOpener map[string]string

var _ files.Opener = memOpener{}

func (m memOpener) Open(path string) (files.Source, error) {
	content, ok := m[path]
	if !ok {
		return nil, fmt.Errorf("no such file '%s'", path)
	}
	return memSource{path: path, content: content}, nil
}

func (m memOpener) Exists(path string) bool {
	_, ok := m[path]
	return ok
}

type memSource struct {
	path    string
	content string
}

func (s memSource) Description() string   { return "mem:" + s.path }
func (s memSource) Path() string           { return s.path }
func (s memSource) Bytes() ([]byte, error) { return []byte(s.content), nil }
