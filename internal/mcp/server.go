// Package mcp provides the stdio MCP server exposing post board tools.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/go-ports/postboard/internal/buildinfo"
	"github.com/go-ports/postboard/internal/export"
	"github.com/go-ports/postboard/internal/service"
)

// Export formats accepted by post_export.
const (
	formatJSON     = "json"
	formatMarkdown = "markdown"
)

const createDescription = `Create a post on the board. Title and content are trimmed; both must be non-empty. The new post becomes the first entry of the list.`

const listDescription = `List all posts, newest first. Each post carries id, title, content, createdAt (UTC ISO-8601) and createdAtDisplay.`

const viewDescription = `Show a single post by id. Returns {"found": false} when no post has that id.`

const exportDescription = `Export every post. format "json" (default) returns the pretty-printed JSON array used for clipboard copy and file download; "markdown" returns a Markdown document with YAML front-matter.` //nolint:lll

// NewServer creates and registers all post tools on a new MCP server.
// It is separate from Serve so that tests can obtain a fully configured
// server without committing to the stdio transport. logger may be nil.
func NewServer(svc *service.Service, logger *zap.Logger) *mcpserver.MCPServer {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := mcpserver.NewMCPServer("postboard", buildinfo.Version)
	registerTools(s, &handlers{svc: svc, logger: logger})
	return s
}

// Serve starts the stdio MCP server for the board at home, blocking until
// stdin closes.
func Serve(_ context.Context, home string, logger *zap.Logger) error {
	svc, err := service.New(home, service.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("mcp: init service: %w", err)
	}
	defer svc.Close()

	return mcpserver.ServeStdio(NewServer(svc, logger))
}

type handlers struct {
	svc    *service.Service
	logger *zap.Logger
}

// registerTools wires all post tools into the server.
func registerTools(s *mcpserver.MCPServer, h *handlers) {
	s.AddTool(mcp.NewTool("post_create",
		mcp.WithDescription(createDescription),
		mcp.WithString("title",
			mcp.Description("Post title."),
			mcp.Required(),
		),
		mcp.WithString("content",
			mcp.Description("Post body. Line breaks are kept."),
			mcp.Required(),
		),
	), h.create)

	s.AddTool(mcp.NewTool("post_list",
		mcp.WithDescription(listDescription),
	), h.list)

	s.AddTool(mcp.NewTool("post_view",
		mcp.WithDescription(viewDescription),
		mcp.WithNumber("id",
			mcp.Description("Post id (epoch milliseconds)."),
			mcp.Required(),
		),
	), h.view)

	s.AddTool(mcp.NewTool("post_delete",
		mcp.WithDescription("Delete a post by id. Deleting an unknown id is not an error."),
		mcp.WithNumber("id",
			mcp.Description("Post id (epoch milliseconds)."),
			mcp.Required(),
		),
	), h.delete)

	s.AddTool(mcp.NewTool("post_clear",
		mcp.WithDescription("Delete every post."),
	), h.clear)

	s.AddTool(mcp.NewTool("post_export",
		mcp.WithDescription(exportDescription),
		mcp.WithString("format",
			mcp.Description("Export format (default json)."),
			mcp.Enum(formatJSON, formatMarkdown),
		),
	), h.export)
}

// ---------------------------------------------------------------------------
// Tool handlers
// ---------------------------------------------------------------------------

func (h *handlers) create(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	post, err := h.svc.SubmitNewPost(req.GetString("title", ""), req.GetString("content", ""))
	if err != nil {
		return h.toolError("post_create", err), nil
	}
	return jsonResult(post)
}

func (h *handlers) list(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	posts := h.svc.List()
	return jsonResult(map[string]any{
		"count": len(posts),
		"posts": posts,
	})
}

func (h *handlers) view(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := parseID(req.GetArguments()["id"])
	if err != nil {
		return h.toolError("post_view", err), nil
	}
	post, ok := h.svc.RequestView(id)
	if !ok {
		return jsonResult(map[string]any{"found": false})
	}
	return jsonResult(map[string]any{"found": true, "post": post})
}

func (h *handlers) delete(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := parseID(req.GetArguments()["id"])
	if err != nil {
		return h.toolError("post_delete", err), nil
	}
	removed, err := h.svc.RequestDelete(id)
	if err != nil {
		return h.toolError("post_delete", err), nil
	}
	return jsonResult(map[string]any{"id": id, "deleted": removed})
}

func (h *handlers) clear(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	n, err := h.svc.RequestClear()
	if err != nil {
		return h.toolError("post_clear", err), nil
	}
	return jsonResult(map[string]any{"cleared": n})
}

func (h *handlers) export(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var (
		text string
		err  error
	)
	switch format := req.GetString("format", formatJSON); format {
	case formatJSON, "":
		text, err = h.svc.RequestCopy()
	case formatMarkdown:
		text, err = h.svc.ExportMarkdown()
	default:
		err = fmt.Errorf("unknown format %q", format)
	}
	if err != nil {
		return h.toolError("post_export", err), nil
	}
	return mcp.NewToolResultText(text), nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// toolError logs err and converts it to an MCP tool error. Validation and
// empty-export failures are expected and logged at debug level.
func (h *handlers) toolError(tool string, err error) *mcp.CallToolResult {
	if errors.Is(err, service.ErrValidation) || errors.Is(err, export.ErrEmpty) || errors.Is(err, errBadID) {
		h.logger.Debug("tool rejected request", zap.String("tool", tool), zap.Error(err))
	} else {
		h.logger.Error("tool failed", zap.String("tool", tool), zap.Error(err))
	}
	return mcp.NewToolResultError(err.Error())
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(b)), nil
}

var errBadID = errors.New("invalid id")

// parseID accepts an id as a JSON number or a decimal string. Clients that
// cannot represent 64-bit integers exactly may send the string form.
func parseID(v any) (int64, error) {
	switch id := v.(type) {
	case float64:
		if id != math.Trunc(id) || math.IsInf(id, 0) || math.IsNaN(id) {
			return 0, fmt.Errorf("%w: %v is not an integer", errBadID, id)
		}
		if id >= math.MaxInt64 || id < math.MinInt64 {
			return 0, fmt.Errorf("%w: %v is out of range", errBadID, id)
		}
		return int64(id), nil
	case json.Number:
		n, err := id.Int64()
		if err != nil {
			return 0, fmt.Errorf("%w: %q", errBadID, id.String())
		}
		return n, nil
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(id), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", errBadID, id)
		}
		return n, nil
	case nil:
		return 0, fmt.Errorf("%w: id is required", errBadID)
	default:
		return 0, fmt.Errorf("%w: unsupported type %T", errBadID, v)
	}
}
