// Package mcpserver exposes the feedback store to AI coding assistants as MCP tools.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"portfolio-feedback/internal/feedback"
)

const (
	ServerName    = "portfolio-feedback"
	ServerVersion = "1.0.0"
)

type ListFeedbackParams struct {
	Status   string `json:"status,omitempty" mcp:"filter by status: pending, in_progress, completed, rejected"`
	Priority string `json:"priority,omitempty" mcp:"filter by priority: high, medium, low"`
	Limit    int    `json:"limit,omitempty" mcp:"maximum number of items to return"`
}

type GetFeedbackParams struct {
	ID string `json:"id" mcp:"feedback ID"`
}

type UpdateStatusParams struct {
	ID                  string `json:"id" mcp:"feedback ID"`
	Status              string `json:"status" mcp:"new status: pending, in_progress, completed, rejected"`
	ImplementationNotes string `json:"implementation_notes,omitempty" mcp:"notes about the implementation"`
}

type AddNotesParams struct {
	ID           string   `json:"id" mcp:"feedback ID"`
	Notes        string   `json:"notes" mcp:"implementation notes"`
	FilesChanged []string `json:"files_changed,omitempty" mcp:"list of files that were modified"`
}

type SummaryParams struct{}

// FeedbackTools implements the MCP tool handlers on top of a feedback.Service.
type FeedbackTools struct {
	svc *feedback.Service
}

func NewFeedbackTools(svc *feedback.Service) *FeedbackTools {
	return &FeedbackTools{svc: svc}
}

// NewServer builds an MCP server with all feedback tools registered.
func NewServer(svc *feedback.Service) *mcp.Server {
	tools := NewFeedbackTools(svc)
	server := mcp.NewServer(&mcp.Implementation{
		Name:    ServerName,
		Version: ServerVersion,
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_feedback",
		Description: "List all feedback items with optional filtering by status and priority",
	}, tools.ListFeedback)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_feedback",
		Description: "Get detailed information about a specific feedback item",
	}, tools.GetFeedback)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "update_feedback_status",
		Description: "Update the status of a feedback item",
	}, tools.UpdateFeedbackStatus)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "add_implementation_notes",
		Description: "Add implementation notes to a feedback item",
	}, tools.AddImplementationNotes)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_pending_feedback_summary",
		Description: "Get a summary of all pending feedback items grouped by priority",
	}, tools.PendingSummary)

	log.Printf("📋 Registered 5 feedback MCP tools")
	return server
}

func (t *FeedbackTools) ListFeedback(ctx context.Context, session *mcp.ServerSession, params *mcp.CallToolParamsFor[ListFeedbackParams]) (*mcp.CallToolResultFor[any], error) {
	args := params.Arguments
	log.Printf("📋 MCP: list_feedback status=%q priority=%q limit=%d", args.Status, args.Priority, args.Limit)

	records, err := t.svc.Filter(feedback.Filter{
		Status:   feedback.Status(args.Status),
		Priority: feedback.Priority(args.Priority),
		Limit:    args.Limit,
	})
	if err != nil {
		return errorResult(err), nil
	}
	items, err := json.MarshalIndent(feedback.ListItems(records), "", "  ")
	if err != nil {
		return errorResult(err), nil
	}

	return &mcp.CallToolResultFor[any]{
		Content: []mcp.Content{
			&mcp.TextContent{Text: fmt.Sprintf("Found %d feedback items:\n\n%s", len(records), items)},
		},
		Meta: map[string]interface{}{"total": len(records)},
	}, nil
}

func (t *FeedbackTools) GetFeedback(ctx context.Context, session *mcp.ServerSession, params *mcp.CallToolParamsFor[GetFeedbackParams]) (*mcp.CallToolResultFor[any], error) {
	rawID := params.Arguments.ID
	log.Printf("🔍 MCP: get_feedback #%s", rawID)

	rec, err := withID(rawID, t.svc.Get)
	if err != nil {
		return errorResult(err), nil
	}
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return errorResult(err), nil
	}
	return textResult(string(data)), nil
}

func (t *FeedbackTools) UpdateFeedbackStatus(ctx context.Context, session *mcp.ServerSession, params *mcp.CallToolParamsFor[UpdateStatusParams]) (*mcp.CallToolResultFor[any], error) {
	args := params.Arguments
	log.Printf("🔄 MCP: update_feedback_status #%s -> %s", args.ID, args.Status)

	status := feedback.Status(args.Status)
	if !status.IsServerStatus() {
		return errorResult(&feedback.ValidationError{
			Field:  "status",
			Reason: fmt.Sprintf("%q is not one of %s", args.Status, joinStatuses(feedback.ServerStatuses)),
		}), nil
	}

	_, err := withID(args.ID, func(id int64) (feedback.Record, error) {
		return t.svc.UpdateStatus(id, status, args.ImplementationNotes)
	})
	if err != nil {
		return errorResult(err), nil
	}
	return textResult(fmt.Sprintf("✅ Feedback #%s status updated to: %s", args.ID, args.Status)), nil
}

func (t *FeedbackTools) AddImplementationNotes(ctx context.Context, session *mcp.ServerSession, params *mcp.CallToolParamsFor[AddNotesParams]) (*mcp.CallToolResultFor[any], error) {
	args := params.Arguments
	log.Printf("📝 MCP: add_implementation_notes #%s (%d files)", args.ID, len(args.FilesChanged))

	_, err := withID(args.ID, func(id int64) (feedback.Record, error) {
		return t.svc.AddNotes(id, args.Notes, args.FilesChanged)
	})
	if err != nil {
		return errorResult(err), nil
	}
	return textResult(fmt.Sprintf("📝 Implementation notes added to feedback #%s", args.ID)), nil
}

func (t *FeedbackTools) PendingSummary(ctx context.Context, session *mcp.ServerSession, params *mcp.CallToolParamsFor[SummaryParams]) (*mcp.CallToolResultFor[any], error) {
	log.Printf("📊 MCP: get_pending_feedback_summary")

	summary, err := t.svc.PendingSummary()
	if err != nil {
		return errorResult(err), nil
	}
	return textResult(summary), nil
}

// withID parses a tool id argument and runs fn. Ids that are not integers
// and ids missing from the store both report the same not-found message.
func withID(raw string, fn func(id int64) (feedback.Record, error)) (feedback.Record, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return feedback.Record{}, notFound(raw)
	}
	rec, err := fn(id)
	if errors.Is(err, feedback.ErrNotFound) {
		return feedback.Record{}, notFound(raw)
	}
	return rec, err
}

func notFound(raw string) error {
	return fmt.Errorf("Feedback with ID %s not found", raw)
}

func textResult(text string) *mcp.CallToolResultFor[any] {
	return &mcp.CallToolResultFor[any]{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

func errorResult(err error) *mcp.CallToolResultFor[any] {
	log.Printf("❌ MCP tool error: %v", err)
	return &mcp.CallToolResultFor[any]{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: "Error: " + err.Error()}},
	}
}

func joinStatuses(statuses []feedback.Status) string {
	parts := make([]string, len(statuses))
	for i, s := range statuses {
		parts[i] = string(s)
	}
	return strings.Join(parts, ", ")
}
