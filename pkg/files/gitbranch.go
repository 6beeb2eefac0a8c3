// Copyright 2026 The ovmerge Authors.
// SPDX-License-Identifier: Apache-2.0

package files

import (
	"bytes"
	"fmt"
	"os/exec"
	"strings"
)

// GitBranchOpener reads file content out of a git branch instead of the
// working tree, activated by the CLI's "-b BRANCH" flag (spec §6). It
// shells out to git exactly the way the branch is addressed in the spec:
// existence via "git cat-file -e", content via "git show".
type GitBranchOpener struct {
	Branch  string
	BaseDir string

	// run executes a git subcommand in the process's working directory;
	// overridable in tests so they don't need a real git checkout.
	run func(args ...string) ([]byte, error)
}

var _ Opener = &GitBranchOpener{}

func NewGitBranchOpener(branch, baseDir string) *GitBranchOpener {
	return &GitBranchOpener{Branch: branch, BaseDir: baseDir, run: runGit}
}

func runGit(args ...string) ([]byte, error) {
	cmd := exec.Command("git", args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%s: %s", err, strings.TrimSpace(stderr.String()))
	}
	return stdout.Bytes(), nil
}

func (o *GitBranchOpener) object(path string) string {
	p := path
	if o.BaseDir != "" && len(p) > 0 && p[0] != '/' {
		p = o.BaseDir + "/" + p
	}
	return fmt.Sprintf("%s:./%s", o.Branch, p)
}

func (o *GitBranchOpener) Exists(path string) bool {
	_, err := o.run("cat-file", "-e", o.object(path))
	return err == nil
}

func (o *GitBranchOpener) Open(path string) (Source, error) {
	obj := o.object(path)
	out, err := o.run("show", obj)
	if err != nil {
		return nil, fmt.Errorf("opening '%s' on branch '%s': %s", path, o.Branch, err)
	}
	return gitSource{obj: obj, data: out}, nil
}

type gitSource struct {
	obj  string
	data []byte
}

func (s gitSource) Description() string    { return fmt.Sprintf("git object '%s'", s.obj) }
func (s gitSource) Path() string           { return s.obj }
func (s gitSource) Bytes() ([]byte, error) { return s.data, nil }
