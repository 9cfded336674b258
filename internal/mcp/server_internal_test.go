package mcp

// White-box testing required: parseID is the unexported argument decoder
// shared by post_view and post_delete. Its edge cases (fractional numbers,
// string ids, missing values) are awkward to reach through an MCP client.

import (
	"encoding/json"
	"math"
	"testing"

	qt "github.com/frankban/quicktest"
)

// ---------------------------------------------------------------------------
// parseID
// ---------------------------------------------------------------------------

func TestParseID_HappyPath(t *testing.T) {
	c := qt.New(t)

	cases := []struct {
		name string
		in   any
		want int64
	}{
		{"json number as float64", float64(1705312800000), 1705312800000},
		{"json.Number", json.Number("1705312800001"), 1705312800001},
		{"decimal string", "1705312800002", 1705312800002},
		{"string with spaces", " 42 ", 42},
		{"zero", float64(0), 0},
	}

	for _, tc := range cases {
		c.Run(tc.name, func(c *qt.C) {
			got, err := parseID(tc.in)
			c.Assert(err, qt.IsNil)
			c.Assert(got, qt.Equals, tc.want)
		})
	}
}

func TestParseID_FailurePath(t *testing.T) {
	c := qt.New(t)

	cases := []struct {
		name string
		in   any
		want string
	}{
		{"missing", nil, "invalid id: id is required"},
		{"fractional", 1.5, "invalid id: 1.5 is not an integer"},
		{"above int64", 1e19, `invalid id: 1e\+19 is out of range`},
		{"below int64", -1e19, `invalid id: -1e\+19 is out of range`},
		{"infinite", math.Inf(1), "invalid id: \\+Inf is not an integer"},
		{"non-numeric string", "abc", `invalid id: "abc"`},
		{"bad json.Number", json.Number("1e400"), `invalid id: "1e400"`},
		{"bool", true, "invalid id: unsupported type bool"},
	}

	for _, tc := range cases {
		c.Run(tc.name, func(c *qt.C) {
			_, err := parseID(tc.in)
			c.Assert(err, qt.ErrorIs, errBadID)
			c.Assert(err, qt.ErrorMatches, tc.want)
		})
	}
}
