// Copyright 2026 The ovmerge Authors.
// SPDX-License-Identifier: Apache-2.0

package parse_test

import (
	. "gopkg.in/check.v1"

	"github.com/dtoverlay/ovmerge/pkg/dts"
	"github.com/dtoverlay/ovmerge/pkg/dts/parse"
)

func (s *S) TestTokenizePluginHeader(c *C) {
	toks, err := parse.Tokenize("a.dts", memOpener{"a.dts": "/dts-v1/;\n/plugin/;\n/ { };\n"})
	c.Assert(err, IsNil)

	res, err := parse.Parse(toks)
	c.Assert(err, IsNil)
	c.Check(res.Tree.Plugin, Equals, true)
}

func (s *S) TestParseEmptyTokenStreamFails(c *C) {
	res, err := parse.Parse([]dts.Token{})
	c.Check(err, NotNil)
	c.Check(res, IsNil)
}

func (s *S) TestParseAliasesNode(c *C) {
	toks, err := parse.Tokenize("a.dts", memOpener{"a.dts": `/dts-v1/;
/ {
	soc: soc@0 {
	};
	aliases {
		soc0 = &soc;
	};
};
`})
	c.Assert(err, IsNil)

	res, err := parse.Parse(toks)
	c.Assert(err, IsNil)

	node, err := res.Tree.ResolvePath("soc0")
	c.Assert(err, IsNil)
	c.Check(node.Name, Equals, "soc@0")
}
