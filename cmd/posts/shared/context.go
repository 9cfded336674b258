// Package shared holds the context passed to all CLI commands.
package shared

import (
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/go-ports/postboard/internal/config"
	"github.com/go-ports/postboard/internal/service"
)

// Context carries global CLI state (flags set on the root command).
type Context struct {
	// Home overrides the posts home directory.
	// When empty, resolution falls through to POSTS_HOME env var → persisted config → ~/.posts.
	Home string

	// Verbose enables debug logging.
	Verbose bool

	// Logger is built by the root command before any subcommand runs
	// unless one was supplied.
	Logger *zap.Logger
}

// ResolveHome returns the effective home directory and where it came from.
func (c *Context) ResolveHome() (path, source string) {
	if c.Home != "" {
		return c.Home, config.HomeFromFlag
	}
	return config.ResolveHome()
}

// OpenService opens the post board at the effective home directory.
// The caller must Close it.
func (c *Context) OpenService() (*service.Service, error) {
	home, _ := c.ResolveHome()
	return service.New(home, service.WithLogger(c.Logger))
}

// ParseID parses a post id given on the command line.
func ParseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid post id %q", s)
	}
	return id, nil
}
