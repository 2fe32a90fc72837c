// Package mcp exposes the FAQ agent over the Model Context Protocol, so
// MCP-capable hosts (IDEs, chat clients) can call the pipeline as tools.
//
// Tools: faq_answer, faq_directory, faq_reload.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/faqpilot/faqpilot/internal/agent"
	"github.com/faqpilot/faqpilot/internal/log"
	"github.com/faqpilot/faqpilot/internal/taxonomy"
)

// Server wraps the MCP SDK server around the FAQ agent.
type Server struct {
	mcpServer *mcp.Server
	agent     *agent.Agent
	store     *taxonomy.Store
	logger    log.Logger
	name      string
	version   string
}

// Config holds MCP server configuration.
type Config struct {
	Name    string
	Version string
	Agent   *agent.Agent
	Store   *taxonomy.Store
	Logger  log.Logger
}

// NewServer creates a new MCP server with all FAQ tools registered.
func NewServer(cfg Config) (*Server, error) {
	if cfg.Name == "" {
		return nil, fmt.Errorf("server name is required")
	}
	if cfg.Version == "" {
		return nil, fmt.Errorf("server version is required")
	}
	if cfg.Agent == nil {
		return nil, fmt.Errorf("agent is required")
	}
	if cfg.Store == nil {
		return nil, fmt.Errorf("taxonomy store is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = log.NewNop()
	}

	mcpServer := mcp.NewServer(&mcp.Implementation{
		Name:    cfg.Name,
		Version: cfg.Version,
	}, nil)

	s := &Server{
		mcpServer: mcpServer,
		agent:     cfg.Agent,
		store:     cfg.Store,
		logger:    logger,
		name:      cfg.Name,
		version:   cfg.Version,
	}

	if err := s.registerTools(); err != nil {
		return nil, fmt.Errorf("failed to register tools: %w", err)
	}

	return s, nil
}

// Run starts the MCP server on the given transport. Blocking; handles all
// MCP protocol communication until the context is cancelled.
func (s *Server) Run(ctx context.Context, transport mcp.Transport) error {
	return s.mcpServer.Run(ctx, transport)
}

// AnswerInput defines the input schema for the faq_answer tool.
type AnswerInput struct {
	Conversation []agent.Turn      `json:"conversation" jsonschema:"The support conversation so far, oldest message first. Each turn has role (user or assistant) and content. The last user message is the question to answer."`
	Params       map[string]string `json:"params,omitempty" jsonschema:"Optional context key/value pairs describing the channel the user writes from."`
}

// DirectoryInput defines the (empty) input schema for faq_directory.
type DirectoryInput struct{}

// ReloadInput defines the (empty) input schema for faq_reload.
type ReloadInput struct{}

// registerTools registers all FAQ tools to the MCP server.
func (s *Server) registerTools() error {
	answerSchema, err := jsonschema.For[AnswerInput](nil)
	if err != nil {
		return fmt.Errorf("schema for faq_answer: %w", err)
	}
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "faq_answer",
		Description: "Answer a customer support question from the FAQ. Rewrites the conversation into a standalone query, classifies it against the FAQ categories, and returns the matching answer or a fallback.",
		InputSchema: answerSchema,
	}, s.Answer)

	directorySchema, err := jsonschema.For[DirectoryInput](nil)
	if err != nil {
		return fmt.Errorf("schema for faq_directory: %w", err)
	}
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "faq_directory",
		Description: "List the FAQ category directory: every category key and description, without answers.",
		InputSchema: directorySchema,
	}, s.Directory)

	reloadSchema, err := jsonschema.For[ReloadInput](nil)
	if err != nil {
		return fmt.Errorf("schema for faq_reload: %w", err)
	}
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "faq_reload",
		Description: "Reload the FAQ document from disk. A rejected document leaves the serving taxonomy untouched.",
		InputSchema: reloadSchema,
	}, s.Reload)

	return nil
}

// Answer handles the faq_answer MCP tool call. Validation failures become
// error results; the agent's own degradation policy already absorbs model
// failures, so a successful Process call is always a text result.
func (s *Server) Answer(ctx context.Context, _ *mcp.CallToolRequest, in AnswerInput) (*mcp.CallToolResult, any, error) {
	result, err := s.agent.Process(ctx, in.Conversation, in.Params)
	if err != nil {
		if errors.Is(err, agent.ErrEmptyConversation) {
			return &mcp.CallToolResult{
				Content: []mcp.Content{&mcp.TextContent{Text: "Error: conversation must contain at least one user message"}},
				IsError: true,
			}, nil, nil
		}
		return nil, nil, fmt.Errorf("faq_answer failed: %w", err)
	}

	payload, err := json.Marshal(result)
	if err != nil {
		return nil, nil, fmt.Errorf("encoding result: %w", err)
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(payload)}},
	}, result, nil
}

// Directory handles the faq_directory MCP tool call.
func (s *Server) Directory(_ context.Context, _ *mcp.CallToolRequest, _ DirectoryInput) (*mcp.CallToolResult, any, error) {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: s.store.RenderDirectory()}},
	}, nil, nil
}

// Reload handles the faq_reload MCP tool call. A malformed document is an
// agent-visible error result, not a protocol error.
func (s *Server) Reload(_ context.Context, _ *mcp.CallToolRequest, _ ReloadInput) (*mcp.CallToolResult, any, error) {
	if err := s.store.Reload(); err != nil {
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: fmt.Sprintf("Error: %v", err)}},
			IsError: true,
		}, nil, nil
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{
			Text: fmt.Sprintf("Taxonomy reloaded: %d categories", s.store.Tree().Len()),
		}},
	}, nil, nil
}
