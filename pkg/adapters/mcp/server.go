package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/formwork-dev/formwork"
	"github.com/formwork-dev/formwork/pkg/domain"
	"github.com/formwork-dev/formwork/pkg/ports"
)

// StateResponse wraps the evaluated state so MCP clients see the same
// shape as the HTTP adapter's evaluation endpoint.
type StateResponse struct {
	State *domain.WorkflowState `json:"state" jsonschema_description:"The evaluated workflow state"`
}

// graphPayload is the JSON shape shared by the get_graph tool and the
// definition resource.
type graphPayload struct {
	Flow  []domain.FlowNode `json:"flow"`
	Edges []domain.Edge     `json:"edges"`
}

// Server wraps the evaluation engine and exposes it as an MCP Server.
type Server struct {
	engine    ports.Evaluator
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance.
func NewServer(engine ports.Evaluator) *Server {
	s := &Server{
		engine:    engine,
		mcpServer: server.NewMCPServer("formwork-mcp", strings.TrimSpace(formwork.Version)),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)

	go func() {
		slog.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		fmt.Println("\nShutdown signal received, shutting down server...")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		slog.Debug("CORS Middleware", "method", r.Method, "path", r.URL.Path)
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With, Baggage, Sentry-Trace")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	// TOOL: get_workflow_state
	stateTool := mcp.NewTool("get_workflow_state",
		mcp.WithDescription("Evaluate a data document against the workflow definition. Returns pruned data, derived values, section verdicts and edge states."),
		mcp.WithString("data", mcp.Description("JSON object with the workflow data to evaluate (optional, defaults to empty)")),
		mcp.WithOutputSchema[StateResponse](),
	)
	s.mcpServer.AddTool(stateTool, mcp.NewStructuredToolHandler(s.handleGetWorkflowState))

	// TOOL: get_graph
	s.mcpServer.AddTool(mcp.NewTool("get_graph",
		mcp.WithDescription("Get the declared workflow graph (flow nodes and edges) for introspection."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		jsonBytes, err := json.Marshal(s.graph())
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("marshal failed: %v", err)), nil
		}
		return mcp.NewToolResultText(string(jsonBytes)), nil
	})
}

func (s *Server) handleGetWorkflowState(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (StateResponse, error) {
	data := make(map[string]interface{})

	if dataStr, ok := args["data"].(string); ok && dataStr != "" {
		if err := json.Unmarshal([]byte(dataStr), &data); err != nil {
			slog.Warn("MCP GetWorkflowState: data rejected", "error", err, "size", len(dataStr))
			return StateResponse{}, fmt.Errorf("data is not a JSON object: %w", err)
		}
	}

	state, err := s.engine.GetWorkflowState(ctx, data)
	if err != nil {
		return StateResponse{}, fmt.Errorf("evaluation failed: %w", err)
	}

	return StateResponse{State: state}, nil
}

func (s *Server) graph() graphPayload {
	idx := s.engine.Definition()
	return graphPayload{
		Flow:  idx.Flow(),
		Edges: idx.Edges(),
	}
}

func (s *Server) registerResources() {
	// EXPOSE: formwork://definition/graph
	s.mcpServer.AddResource(mcp.NewResource("formwork://definition/graph", "Workflow Graph Definition",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		jsonBytes, err := json.Marshal(s.graph())
		if err != nil {
			return nil, fmt.Errorf("failed to marshal graph: %w", err)
		}

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "formwork://definition/graph",
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
