package internal

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// MCPServer wraps the MCP server and application dependencies
type MCPServer struct {
	app       *App
	mcpServer *server.MCPServer
}

// NewMCPServer creates a new MCP server instance
func NewMCPServer(app *App) *MCPServer {
	mcpServer := server.NewMCPServer(
		"vlearn-server",
		"1.0.0",
		server.WithToolCapabilities(true),
	)

	s := &MCPServer{
		app:       app,
		mcpServer: mcpServer,
	}

	// Register tools
	s.registerTools()

	return s
}

// registerTools registers all available MCP tools
func (s *MCPServer) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("process_video",
		mcp.WithDescription("Fetch the transcript for a YouTube video. Tries real captions first, then AI transcription, and falls back to a built-in sample transcript in demo mode, so it always returns text. The response notes which source was used."),
		mcp.WithString("url",
			mcp.Description("YouTube video URL or 11-character video ID"),
			mcp.Required(),
		),
	), s.handleProcessVideo)

	s.mcpServer.AddTool(mcp.NewTool("generate_summary",
		mcp.WithDescription("Generate a structured summary (summary text, key points, topics) of a YouTube video at a chosen detail level."),
		mcp.WithString("url",
			mcp.Description("YouTube video URL or 11-character video ID"),
			mcp.Required(),
		),
		mcp.WithString("length",
			mcp.Description("Detail level: Concise, Moderate, or Comprehensive (default Moderate)"),
		),
	), s.handleGenerateSummary)

	s.mcpServer.AddTool(mcp.NewTool("generate_quiz",
		mcp.WithDescription("Generate multiple-choice quiz questions from a YouTube video transcript."),
		mcp.WithString("url",
			mcp.Description("YouTube video URL or 11-character video ID"),
			mcp.Required(),
		),
		mcp.WithNumber("num_questions",
			mcp.Description("Number of questions to generate (default 5)"),
		),
		mcp.WithString("difficulty",
			mcp.Description("Question difficulty: Easy, Medium, or Hard (default Medium)"),
		),
	), s.handleGenerateQuiz)

	s.mcpServer.AddTool(mcp.NewTool("generate_flashcards",
		mcp.WithDescription("Generate front/back study flashcards from a YouTube video transcript."),
		mcp.WithString("url",
			mcp.Description("YouTube video URL or 11-character video ID"),
			mcp.Required(),
		),
		mcp.WithNumber("num_cards",
			mcp.Description("Number of flashcards to generate (default 10)"),
		),
	), s.handleGenerateFlashcards)

	s.mcpServer.AddTool(mcp.NewTool("get_video_overview",
		mcp.WithDescription("Generate a quick overview of a YouTube video: description, primary topic, target audience, and content type."),
		mcp.WithString("url",
			mcp.Description("YouTube video URL or 11-character video ID"),
			mcp.Required(),
		),
	), s.handleVideoOverview)

	s.mcpServer.AddTool(mcp.NewTool("generate_learning_path",
		mcp.WithDescription("Generate personalized learning recommendations (next steps, recommended videos, resources, milestones) from a YouTube video."),
		mcp.WithString("url",
			mcp.Description("YouTube video URL or 11-character video ID"),
			mcp.Required(),
		),
	), s.handleGenerateLearningPath)

	s.mcpServer.AddTool(mcp.NewTool("ask_video",
		mcp.WithDescription("Answer a question about a YouTube video, grounded in its transcript."),
		mcp.WithString("url",
			mcp.Description("YouTube video URL or 11-character video ID"),
			mcp.Required(),
		),
		mcp.WithString("question",
			mcp.Description("The question to answer"),
			mcp.Required(),
		),
	), s.handleAskVideo)
}

func (s *MCPServer) processFromRequest(ctx context.Context, request mcp.CallToolRequest) (*ProcessedVideo, *mcp.CallToolResult) {
	url, err := request.RequireString("url")
	if err != nil {
		return nil, mcp.NewToolResultError("url parameter is required and must be a string")
	}

	video, err := s.app.ProcessVideo(ctx, url, false)
	if err != nil {
		MCPLogError("process_video failed for %q: %v", url, err)
		return nil, mcp.NewToolResultErrorFromErr("invalid video reference", err)
	}
	return video, nil
}

// handleProcessVideo implements the process_video tool
func (s *MCPServer) handleProcessVideo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	video, errResult := s.processFromRequest(ctx, request)
	if errResult != nil {
		return errResult, nil
	}

	MCPLogInfo("process_video: %s source=%s degraded=%t", video.Info.ID, video.Transcript.Source, video.Transcript.Degraded)

	var buf strings.Builder
	buf.WriteString(fmt.Sprintf("Video: %s\n", video.Info.Title))
	buf.WriteString(fmt.Sprintf("URL: %s\n", video.Info.URL))
	buf.WriteString(fmt.Sprintf("Transcript source: %s\n", video.Transcript.Source))
	if video.Transcript.Degraded {
		buf.WriteString("Note: live transcript sources were unavailable; this is a demo-mode sample transcript.\n")
	}
	buf.WriteString("\n")
	buf.WriteString(video.Transcript.Text)

	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.NewTextContent(buf.String())},
	}, nil
}

// handleGenerateSummary implements the generate_summary tool
func (s *MCPServer) handleGenerateSummary(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	video, errResult := s.processFromRequest(ctx, request)
	if errResult != nil {
		return errResult, nil
	}

	length := ParseSummaryLength(request.GetString("length", string(LengthModerate)))
	summary := s.app.Summarize(ctx, video, length, false)
	return jsonToolResult(summary)
}

// handleGenerateQuiz implements the generate_quiz tool
func (s *MCPServer) handleGenerateQuiz(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	video, errResult := s.processFromRequest(ctx, request)
	if errResult != nil {
		return errResult, nil
	}

	numQuestions := request.GetInt("num_questions", DefaultQuizQuestions)
	difficulty := ParseQuizDifficulty(request.GetString("difficulty", DefaultQuizDifficulty))
	quiz := s.app.GenerateQuiz(ctx, video, numQuestions, difficulty, false)
	return jsonToolResult(quiz)
}

// handleGenerateFlashcards implements the generate_flashcards tool
func (s *MCPServer) handleGenerateFlashcards(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	video, errResult := s.processFromRequest(ctx, request)
	if errResult != nil {
		return errResult, nil
	}

	numCards := request.GetInt("num_cards", DefaultFlashcardCount)
	cards := s.app.GenerateFlashcards(ctx, video, numCards, false)
	return jsonToolResult(cards)
}

// handleVideoOverview implements the get_video_overview tool
func (s *MCPServer) handleVideoOverview(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	video, errResult := s.processFromRequest(ctx, request)
	if errResult != nil {
		return errResult, nil
	}

	overview := s.app.Overview(ctx, video)
	return jsonToolResult(overview)
}

// handleGenerateLearningPath implements the generate_learning_path tool
func (s *MCPServer) handleGenerateLearningPath(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	video, errResult := s.processFromRequest(ctx, request)
	if errResult != nil {
		return errResult, nil
	}

	summary := s.app.Summarize(ctx, video, LengthModerate, false)
	path, err := s.app.GenerateLearningPath(ctx, summary, false)
	if err != nil {
		MCPLogError("storing learning path failed: %v", err)
	}
	return jsonToolResult(path)
}

// handleAskVideo implements the ask_video tool
func (s *MCPServer) handleAskVideo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	video, errResult := s.processFromRequest(ctx, request)
	if errResult != nil {
		return errResult, nil
	}

	question, err := request.RequireString("question")
	if err != nil {
		return mcp.NewToolResultError("question parameter is required and must be a string"), nil
	}

	answer, status := s.app.Ask(ctx, video, question, nil)
	if !status.Validated() {
		MCPLogDebug("ask_video degraded: %s", status.Reason)
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.NewTextContent(answer)},
	}, nil
}

func jsonToolResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultErrorFromErr("encoding result", err), nil
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.NewTextContent(string(data))},
	}, nil
}

// Start starts the MCP server using the specified transport
func (s *MCPServer) Start(ctx context.Context, transport string, port int) error {
	if transport == "http" {
		httpServer := server.NewStreamableHTTPServer(s.mcpServer)
		addr := fmt.Sprintf(":%d", port)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return httpServer.Start(addr)
	}

	// Default to stdio transport
	return server.ServeStdio(s.mcpServer)
}

// GetServer returns the underlying MCP server for advanced configuration
func (s *MCPServer) GetServer() *server.MCPServer {
	return s.mcpServer
}
