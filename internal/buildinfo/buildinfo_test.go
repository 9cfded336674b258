package buildinfo_test

import (
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/go-ports/postboard/internal/buildinfo"
)

func TestString(t *testing.T) {
	c := qt.New(t)

	c.Assert(buildinfo.String(), qt.Equals, "posts dev (commit unknown, branch unknown, built unknown)")

	c.Run("ldflags values are reported", func(c *qt.C) {
		c.Patch(&buildinfo.Version, "v1.2.3")
		c.Patch(&buildinfo.GitCommit, "abc123")
		c.Assert(buildinfo.String(), qt.Matches, `posts v1\.2\.3 \(commit abc123, .*`)
	})
}
