package mcp

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/formfill/mcp-form-filler/internal/config"
	"github.com/formfill/mcp-form-filler/internal/descriptions"
	"github.com/formfill/mcp-form-filler/internal/docmodel"
	"github.com/formfill/mcp-form-filler/internal/fields"
	"github.com/formfill/mcp-form-filler/internal/fill"
)

// Server represents the MCP server instance
type Server struct {
	config    *config.Config
	engine    *fill.Engine
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP server instance
func NewServer(cfg *config.Config, engine *fill.Engine) (*Server, error) {
	if engine == nil {
		return nil, fmt.Errorf("engine cannot be nil")
	}

	// Create MCP server
	mcpServer := server.NewMCPServer(
		cfg.ServerName,
		cfg.Version,
		server.WithToolCapabilities(false), // We don't support dynamic tool capabilities
	)

	s := &Server{
		config:    cfg,
		engine:    engine,
		mcpServer: mcpServer,
	}

	// Register tools
	s.registerTools()

	return s, nil
}

// registerTools registers all available MCP tools
func (s *Server) registerTools() {
	formFieldsTool := mcp.NewTool(
		"form_fields",
		mcp.WithDescription(descriptions.FormFieldsDescription),
		mcp.WithString("path",
			mcp.Description("Path to the PDF form template (uses the configured template if empty)"),
		),
	)
	s.mcpServer.AddTool(formFieldsTool, s.handleFormFields)

	formPeekTool := mcp.NewTool(
		"form_peek",
		mcp.WithDescription(descriptions.FormPeekDescription),
		mcp.WithString("path",
			mcp.Description("Path to the PDF form template (uses the configured template if empty)"),
		),
		mcp.WithNumber("count",
			mcp.Description("Number of questions to preview (default 5)"),
		),
	)
	s.mcpServer.AddTool(formPeekTool, s.handleFormPeek)

	formStartTool := mcp.NewTool(
		"form_start",
		mcp.WithDescription(descriptions.FormStartDescription),
		mcp.WithString("path",
			mcp.Description("Path to the PDF form template (uses the configured template if empty)"),
		),
	)
	s.mcpServer.AddTool(formStartTool, s.handleFormStart)

	formAnswerTool := mcp.NewTool(
		"form_answer",
		mcp.WithDescription(descriptions.FormAnswerDescription),
		mcp.WithString("session_id",
			mcp.Required(),
			mcp.Description("Session id returned by form_start"),
		),
		mcp.WithString("value",
			mcp.Description("Answer text for text fields, or an option label for radio fields"),
		),
		mcp.WithNumber("option_index",
			mcp.Description("0-based option index for radio fields"),
		),
	)
	s.mcpServer.AddTool(formAnswerTool, s.handleFormAnswer)

	formDocumentTool := mcp.NewTool(
		"form_document",
		mcp.WithDescription(descriptions.FormDocumentDescription),
		mcp.WithString("session_id",
			mcp.Required(),
			mcp.Description("Session id returned by form_start"),
		),
	)
	s.mcpServer.AddTool(formDocumentTool, s.handleFormDocument)
}

// loadTemplate reads and validates the template bytes for a tool call,
// falling back to the configured template when path is empty.
func (s *Server) loadTemplate(path string) ([]byte, error) {
	if path == "" {
		path = s.config.TemplatePath
	}
	if path == "" {
		return nil, fmt.Errorf("no template: pass 'path' or start the server with --template")
	}

	_, raw, err := docmodel.ReadFile(path, s.config.MaxFileSize)
	if err != nil {
		return nil, err
	}
	return raw, nil
}

func optionalPath(request mcp.CallToolRequest) string {
	if p, ok := request.GetArguments()["path"].(string); ok {
		return p
	}
	return ""
}

// Handler functions
func (s *Server) handleFormFields(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	template, err := s.loadTemplate(optionalPath(request))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	fs, err := s.engine.Fields(template)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	responseText := fmt.Sprintf("Detected %d field(s)\n\n", len(fs))
	for i, f := range fs {
		responseText += fmt.Sprintf("%d. [%s] %s (page %d, id %s)\n", i+1, f.Kind, f.Label, f.Page, f.ID)
		responseText += fmt.Sprintf("   Question: %s\n", f.Question)
		if f.Kind == fields.KindRadio {
			responseText += fmt.Sprintf("   Options: %s\n", strings.Join(f.OptionLabels(), ", "))
		} else {
			responseText += fmt.Sprintf("   Position: (%.1f, %.1f)\n", f.X, f.Y)
		}
	}

	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handleFormPeek(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	template, err := s.loadTemplate(optionalPath(request))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	count := 5
	if c, ok := request.GetArguments()["count"].(float64); ok && c > 0 {
		count = int(c)
	}

	questions, err := s.engine.Peek(template, count)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	responseText := fmt.Sprintf("First %d question(s)\n\n", len(questions))
	for i, q := range questions {
		responseText += fmt.Sprintf("%d. %s\n", i+1, formatQuestion(q))
	}

	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handleFormStart(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	template, err := s.loadTemplate(optionalPath(request))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.engine.Start(template)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	responseText := fmt.Sprintf("Session started: %s\n\n", result.SessionID)
	responseText += "First question:\n" + formatQuestion(result.Question)

	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handleFormAnswer(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	args := request.GetArguments()
	ans := fill.Answer{}
	if v, ok := args["value"].(string); ok {
		ans.Value = v
	}
	if idx, ok := args["option_index"].(float64); ok {
		i := int(idx)
		ans.OptionIndex = &i
	}

	result, err := s.engine.Submit(sessionID, ans)
	if err != nil {
		var selErr *fill.SelectionError
		if errors.As(err, &selErr) {
			return mcp.NewToolResultError(fmt.Sprintf(
				"option_index requis (0, 1, ...). Options: %s", strings.Join(selErr.Options, ", "))), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}

	if result.Finished {
		return mcp.NewToolResultText(s.formatFinished(result)), nil
	}

	responseText := "Answer recorded.\n\nNext question:\n" + formatQuestion(*result.Question)
	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handleFormDocument(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	doc, err := s.engine.Snapshot(sessionID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	responseText := fmt.Sprintf("Current document (%d bytes), base64:\n", len(doc))
	responseText += base64.StdEncoding.EncodeToString(doc)
	return mcp.NewToolResultText(responseText), nil
}

// Formatting methods
func formatQuestion(q fill.Question) string {
	text := fmt.Sprintf("[%s] %s", q.Kind, q.Text)
	if len(q.Options) > 0 {
		text += "\n   Options:"
		for i, o := range q.Options {
			text += fmt.Sprintf("\n   %d. %s", i, o)
		}
	}
	return text
}

func (s *Server) formatFinished(result *fill.SubmitResult) string {
	text := "Form complete.\n"
	text += fmt.Sprintf("Filename: %s\n", result.Filename)
	text += fmt.Sprintf("Document (%d bytes), base64:\n", len(result.Output))
	text += base64.StdEncoding.EncodeToString(result.Output)
	return text
}

// Run starts the MCP server in the configured mode
func (s *Server) Run(ctx context.Context) error {
	if s.config.IsServerMode() {
		return s.runServerMode(ctx)
	}
	return s.runStdioMode(ctx)
}

// runStdioMode runs the server in stdio mode
func (s *Server) runStdioMode(_ context.Context) error {
	if s.config.IsDebug() {
		log.Printf("Starting form filler MCP server in stdio mode")
		log.Printf("Template: %s", s.config.TemplatePath)
	}

	// Use the mark3labs/mcp-go server.ServeStdio function
	if err := server.ServeStdio(s.mcpServer); err != nil {
		return fmt.Errorf("failed to serve stdio: %w", err)
	}
	return nil
}

// runServerMode runs the server in HTTP server mode
func (s *Server) runServerMode(ctx context.Context) error {
	// For now, we'll just use stdio mode since the mark3labs library
	// handles the transport differently
	log.Printf("Server mode not yet implemented with mark3labs/mcp-go")
	log.Printf("Falling back to stdio mode")
	return s.runStdioMode(ctx)
}
