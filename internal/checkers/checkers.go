// Package checkers provides quicktest checkers shared by the test suites.
package checkers

import (
	"encoding/json"
	"fmt"

	qt "github.com/frankban/quicktest"
	"github.com/yalp/jsonpath"
)

type jsonPathChecker struct {
	path string
}

// JSONPathEquals returns a checker that decodes the got JSON text (string
// or []byte), selects path from it and compares the value with want using
// qt.DeepEquals. JSON numbers decode as float64.
//
//	c.Assert(text, checkers.JSONPathEquals("$.count"), float64(2))
func JSONPathEquals(path string) qt.Checker {
	return &jsonPathChecker{path: path}
}

// ArgNames implements qt.Checker.
func (c *jsonPathChecker) ArgNames() []string {
	return []string{"got", "want"}
}

// Check implements qt.Checker.
func (c *jsonPathChecker) Check(got any, args []any, note func(key string, value any)) error {
	var data []byte
	switch v := got.(type) {
	case string:
		data = []byte(v)
	case []byte:
		data = v
	default:
		return qt.BadCheckf("got must be a string or []byte, not %T", got)
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("cannot decode JSON: %w", err)
	}
	value, err := jsonpath.Read(doc, c.path)
	if err != nil {
		note("path", c.path)
		return fmt.Errorf("cannot read path: %w", err)
	}
	note("path", c.path)
	return qt.DeepEquals.Check(value, args, note)
}
