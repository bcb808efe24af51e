package internal

import (
	"context"
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
		"ytscraper-server",
		"1.0.0",
		server.WithToolCapabilities(true),
	)

	s := &MCPServer{
		app:       app,
		mcpServer: mcpServer,
	}

	s.registerTools()

	return s
}

// registerTools registers all available MCP tools
func (s *MCPServer) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("get_video_metadata",
		mcp.WithDescription("Extract video metadata including caption availability. Check 'Has Captions' to decide between get_transcript (free) and transcribe_whisper (paid)."),
		mcp.WithString("url",
			mcp.Description("YouTube video URL or ID"),
			mcp.Required(),
		),
	), s.handleGetMetadata)

	s.mcpServer.AddTool(mcp.NewTool("get_transcript",
		mcp.WithDescription("Get existing YouTube captions for a video (FREE). Fails if the video has no captions - check metadata first."),
		mcp.WithString("url",
			mcp.Description("YouTube video URL or ID"),
			mcp.Required(),
		),
	), s.handleGetTranscript)

	s.mcpServer.AddTool(mcp.NewTool("transcribe_whisper",
		mcp.WithDescription("Create a transcript by downloading the audio and running OpenAI Whisper (PAID). Requires OPENAI_API_KEY. Use only when the video has no captions and the user explicitly agrees to incur costs."),
		mcp.WithString("url",
			mcp.Description("YouTube video URL or ID"),
			mcp.Required(),
		),
	), s.handleWhisperTranscribe)

	s.mcpServer.AddTool(mcp.NewTool("collect_channel",
		mcp.WithDescription("Collect transcripts for every video on a channel or playlist into the dataset file. Uses captions only; videos without captions produce failure records. Requires YOUTUBE_API_KEY."),
		mcp.WithString("url",
			mcp.Description("YouTube channel or playlist URL"),
			mcp.Required(),
		),
	), s.handleCollect)
}

// handleGetMetadata implements the get_video_metadata tool
func (s *MCPServer) handleGetMetadata(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	url, err := request.RequireString("url")
	if err != nil {
		return mcp.NewToolResultError("url parameter is required and must be a string"), nil
	}

	MCPLogInfo("get_video_metadata %s", url)

	videoURL, _ := ParseArg(url)
	metadata, err := s.app.Metadata(ctx, videoURL)
	if err != nil {
		MCPLogError("metadata error: %v", err)
		return mcp.NewToolResultErrorFromErr("metadata error", err), nil
	}

	var buf strings.Builder
	buf.WriteString(fmt.Sprintf("Title: %s\n", metadata.Title))
	buf.WriteString(fmt.Sprintf("Channel: %s\n", metadata.Channel))
	buf.WriteString(fmt.Sprintf("Duration: %.0f seconds\n", metadata.Duration))
	buf.WriteString(fmt.Sprintf("Description: %s\n", metadata.Description))
	buf.WriteString(fmt.Sprintf("Has Captions: %t\n", metadata.HasCaptions))

	if len(metadata.Tags) > 0 {
		buf.WriteString(fmt.Sprintf("Tags: %s\n", strings.Join(metadata.Tags, ", ")))
	}
	if len(metadata.Categories) > 0 {
		buf.WriteString(fmt.Sprintf("Categories: %s\n", strings.Join(metadata.Categories, ", ")))
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.NewTextContent(buf.String())},
	}, nil
}

// handleGetTranscript implements the get_transcript tool (captions only)
func (s *MCPServer) handleGetTranscript(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	url, err := request.RequireString("url")
	if err != nil {
		return mcp.NewToolResultError("url parameter is required and must be a string"), nil
	}

	MCPLogInfo("get_transcript %s", url)

	_, videoID := ParseArg(url)
	result := s.app.ResolveTranscript(ctx, VideoReference{ID: videoID}, false)
	if !result.OK() {
		MCPLogError("get_transcript failed: %s", result.Failure)
		return mcp.NewToolResultError("no captions available - use get_video_metadata to check caption availability, or consider transcribe_whisper (paid): " + result.Failure), nil
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.NewTextContent(result.Text)},
	}, nil
}

// handleWhisperTranscribe implements the transcribe_whisper tool
func (s *MCPServer) handleWhisperTranscribe(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	url, err := request.RequireString("url")
	if err != nil {
		return mcp.NewToolResultError("url parameter is required and must be a string"), nil
	}

	MCPLogInfo("transcribe_whisper %s", url)

	_, videoID := ParseArg(url)
	result := s.app.ResolveTranscript(ctx, VideoReference{ID: videoID}, true)
	if !result.OK() {
		MCPLogError("transcribe_whisper failed: %s", result.Failure)
		return mcp.NewToolResultError("failed to transcribe audio: " + result.Failure), nil
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.NewTextContent(result.Text)},
	}, nil
}

// handleCollect implements the collect_channel tool
func (s *MCPServer) handleCollect(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	url, err := request.RequireString("url")
	if err != nil {
		return mcp.NewToolResultError("url parameter is required and must be a string"), nil
	}

	MCPLogInfo("collect_channel %s", url)

	writer, err := OpenDataset(s.app.config.DatasetPath)
	if err != nil {
		return mcp.NewToolResultErrorFromErr("opening dataset", err), nil
	}
	defer writer.Close()

	stats, err := s.app.CollectURL(ctx, url, writer, false)
	if err != nil {
		MCPLogError("collect_channel failed: %v", err)
		return mcp.NewToolResultErrorFromErr("collection failed", err), nil
	}

	summary := fmt.Sprintf("Collected %d videos into %s: %d from captions, %d failed",
		stats.Videos, s.app.config.DatasetPath, stats.FromCaptions, stats.Failed)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.NewTextContent(summary)},
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
