// Copyright 2026 The ovmerge Authors.
// SPDX-License-Identifier: Apache-2.0

package files

import (
	"fmt"
	"os"
)

// LocalOpener reads files off the local filesystem, resolving relative
// paths against BaseDir. Top-level sources and includes share that one
// BaseDir: an include path is not resolved relative to the directory of the
// file that includes it.
type LocalOpener struct {
	BaseDir string
}

var _ Opener = LocalOpener{}

func NewLocalOpener(baseDir string) LocalOpener {
	return LocalOpener{BaseDir: baseDir}
}

func (o LocalOpener) resolve(path string) string {
	if path == "" || path[0] == '/' || o.BaseDir == "" {
		return path
	}
	return o.BaseDir + "/" + path
}

func (o LocalOpener) Open(path string) (Source, error) {
	full := o.resolve(path)
	if _, err := os.Stat(full); err != nil {
		return nil, fmt.Errorf("opening '%s': %s", path, err)
	}
	return localSource{path: full, desc: full}, nil
}

func (o LocalOpener) Exists(path string) bool {
	_, err := os.Stat(o.resolve(path))
	return err == nil
}

type localSource struct {
	path string
	desc string
}

func (s localSource) Description() string { return fmt.Sprintf("file '%s'", s.desc) }
func (s localSource) Path() string        { return s.path }
func (s localSource) Bytes() ([]byte, error) {
	return os.ReadFile(s.path)
}
