package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/fomod"
	"github.com/aretw0/fomod/internal/logging"
	"github.com/aretw0/fomod/pkg/domain"
	"github.com/aretw0/fomod/pkg/session"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// SessionsURI is the resource listing stored session IDs.
const SessionsURI = "fomod://sessions"

// ActionResult is returned by tools that change a session.
type ActionResult struct {
	Accepted bool       `json:"accepted"`
	View     fomod.View `json:"view"`
}

// Server wraps the fomod Engine and exposes wizard sessions as MCP tools,
// so an agent can drive an installer step by step.
type Server struct {
	engine    *fomod.Engine
	sessions  *session.Manager
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(engine *fomod.Engine, sessions *session.Manager, opts ...Option) *Server {
	s := &Server{
		engine:   engine,
		sessions: sessions,
		logger:   logging.NewNop(),
		mcpServer: server.NewMCPServer("fomod-mcp", strings.TrimSpace(fomod.Version),
			server.WithToolCapabilities(true),
			server.WithResourceCapabilities(false, false),
		),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying server, mainly for in-process clients.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves the SSE transport on addr until ctx is done.
func (s *Server) ServeSSE(ctx context.Context, addr, baseURL string) error {
	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("Shutdown signal received, shutting down MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("validate_module",
		mcp.WithDescription("Check a ModuleConfig.xml for structural problems without starting a session."),
		mcp.WithString("module_config", mcp.Required(), mcp.Description("Raw ModuleConfig.xml text")),
	), s.HandleValidate)

	s.mcpServer.AddTool(mcp.NewTool("start_session",
		mcp.WithDescription("Start a wizard session. Defaults are preselected and the first visible step is shown."),
		mcp.WithString("module_config", mcp.Required(), mcp.Description("Raw ModuleConfig.xml text")),
		mcp.WithString("info", mcp.Description("Raw info.xml text (optional)")),
		mcp.WithString("archive_name", mcp.Description("Archive file name, used as fallback module name (optional)")),
	), s.HandleStart)

	s.mcpServer.AddTool(mcp.NewTool("get_view",
		mcp.WithDescription("Show the current step of a session with every option and whether it is selected."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session ID returned by start_session")),
	), s.HandleView)

	s.mcpServer.AddTool(mcp.NewTool("select_option",
		mcp.WithDescription("Select or deselect one option. Changes forbidden by the group type are rejected."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session ID")),
		mcp.WithString("step", mcp.Required(), mcp.Description("Install step name")),
		mcp.WithString("group", mcp.Required(), mcp.Description("Group name")),
		mcp.WithString("option", mcp.Required(), mcp.Description("Option name")),
		mcp.WithBoolean("selected", mcp.Description("true to select (default), false to deselect")),
	), s.HandleSelect)

	s.mcpServer.AddTool(mcp.NewTool("move_forward",
		mcp.WithDescription("Advance to the next visible step. Refused while a group constraint is unmet."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session ID")),
	), s.HandleForward)

	s.mcpServer.AddTool(mcp.NewTool("move_backward",
		mcp.WithDescription("Go back to the previous visible step."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session ID")),
	), s.HandleBackward)

	s.mcpServer.AddTool(mcp.NewTool("get_install_plan",
		mcp.WithDescription("Resolve the final file list and metadata for the current selections."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session ID")),
	), s.HandlePlan)
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(SessionsURI, "Stored wizard sessions",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		ids, err := s.sessions.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list sessions: %w", err)
		}
		if ids == nil {
			ids = []string{}
		}
		jsonBytes, _ := json.Marshal(ids)
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      SessionsURI,
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}

// HandleValidate implements the validate_module tool.
func (s *Server) HandleValidate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw := req.GetString("module_config", "")
	if strings.TrimSpace(raw) == "" {
		return mcp.NewToolResultError("module_config argument is required"), nil
	}
	doc, err := s.engine.Validate([]byte(raw))
	if err != nil {
		var cfgErr *domain.ConfigurationError
		if errors.As(err, &cfgErr) {
			return jsonResult(map[string]any{"valid": false, "problems": cfgErr.Problems}, true), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(map[string]any{"valid": true, "module": doc.ModuleName, "steps": len(doc.Steps)}, false), nil
}

// HandleStart implements the start_session tool.
func (s *Server) HandleStart(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw := req.GetString("module_config", "")
	if strings.TrimSpace(raw) == "" {
		return mcp.NewToolResultError("module_config argument is required"), nil
	}
	var info []byte
	if v := req.GetString("info", ""); v != "" {
		info = []byte(v)
	}

	sess, err := s.engine.Load([]byte(raw), info)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	sess.SetArchive(req.GetString("archive_name", ""), "")
	if err := s.sessions.Create(ctx, sess.Snapshot()); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}
	s.logger.Info("MCP session started", "session_id", sess.ID, "module", sess.Document().ModuleName)
	return jsonResult(sess.View(), false), nil
}

// HandleView implements the get_view tool.
func (s *Server) HandleView(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess, errResult := s.restore(ctx, req)
	if errResult != nil {
		return errResult, nil
	}
	return jsonResult(sess.View(), false), nil
}

// HandleSelect implements the select_option tool.
func (s *Server) HandleSelect(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	step := req.GetString("step", "")
	group := req.GetString("group", "")
	option := req.GetString("option", "")
	selected := req.GetBool("selected", true)
	return s.mutate(ctx, req, func(sess *fomod.Session) bool {
		if selected {
			return sess.Select(step, group, option)
		}
		return sess.Deselect(step, group, option)
	})
}

// HandleForward implements the move_forward tool.
func (s *Server) HandleForward(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.mutate(ctx, req, (*fomod.Session).MoveForward)
}

// HandleBackward implements the move_backward tool.
func (s *Server) HandleBackward(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.mutate(ctx, req, (*fomod.Session).MoveBackward)
}

// HandlePlan implements the get_install_plan tool.
func (s *Server) HandlePlan(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess, errResult := s.restore(ctx, req)
	if errResult != nil {
		return errResult, nil
	}
	return jsonResult(sess.Manifest(), false), nil
}

func (s *Server) restore(ctx context.Context, req mcp.CallToolRequest) (*fomod.Session, *mcp.CallToolResult) {
	id := req.GetString("session_id", "")
	if id == "" {
		return nil, mcp.NewToolResultError("session_id argument is required")
	}
	snap, err := s.sessions.Load(ctx, id)
	if err != nil {
		return nil, mcp.NewToolResultError(err.Error())
	}
	sess, err := s.engine.Restore(snap)
	if err != nil {
		return nil, mcp.NewToolResultError(err.Error())
	}
	return sess, nil
}

func (s *Server) mutate(ctx context.Context, req mcp.CallToolRequest, op func(*fomod.Session) bool) (*mcp.CallToolResult, error) {
	id := req.GetString("session_id", "")
	if id == "" {
		return mcp.NewToolResultError("session_id argument is required"), nil
	}

	var out ActionResult
	_, err := s.sessions.Update(ctx, id, func(snap *domain.Snapshot) (*domain.Snapshot, error) {
		sess, err := s.engine.Restore(snap)
		if err != nil {
			return nil, err
		}
		out.Accepted = op(sess)
		out.View = sess.View()
		return sess.Snapshot(), nil
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(out, false), nil
}

func jsonResult(v any, isErr bool) *mcp.CallToolResult {
	data, _ := json.MarshalIndent(v, "", "  ")
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.NewTextContent(string(data))},
		IsError: isErr,
	}
}
