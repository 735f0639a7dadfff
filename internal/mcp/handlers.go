package mcp

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	"github.com/hpungsan/pelvilog/internal/config"
	"github.com/hpungsan/pelvilog/internal/errors"
	"github.com/hpungsan/pelvilog/internal/ops"
	"github.com/hpungsan/pelvilog/internal/record"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	db  *sql.DB
	cfg *config.Config
	loc *record.Locale
	log *zap.Logger
}

// NewHandlers creates a new Handlers instance. A nil logger discards output.
func NewHandlers(db *sql.DB, cfg *config.Config, loc *record.Locale, log *zap.Logger) *Handlers {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handlers{db: db, cfg: cfg, loc: loc, log: log}
}

// HandleAdd handles record_add.
func (h *Handlers) HandleAdd(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ops.AddInput](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	result, err := ops.Add(ctx, h.db, h.loc, input)
	if err != nil {
		return h.fail("record_add", err), nil
	}
	return successResult(result)
}

// HandleList handles record_list.
func (h *Handlers) HandleList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ops.ListInput](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	result, err := ops.List(ctx, h.db, h.loc, input)
	if err != nil {
		return h.fail("record_list", err), nil
	}
	return successResult(result)
}

// HandleDelete handles record_delete.
func (h *Handlers) HandleDelete(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ops.DeleteInput](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	result, err := ops.Delete(ctx, h.db, input)
	if err != nil {
		return h.fail("record_delete", err), nil
	}
	return successResult(result)
}

// HandleSummary handles record_summary.
func (h *Handlers) HandleSummary(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ops.DaySummaryInput](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	result, err := ops.DaySummary(ctx, h.db, h.loc, input)
	if err != nil {
		return h.fail("record_summary", err), nil
	}
	return successResult(result)
}

// HandleExport handles record_export.
func (h *Handlers) HandleExport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ops.ExportInput](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	result, err := ops.Export(ctx, h.db, h.cfg, h.loc, input)
	if err != nil {
		return h.fail("record_export", err), nil
	}
	return successResult(result)
}

// HandleImport handles record_import.
func (h *Handlers) HandleImport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ops.ImportInput](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	result, err := ops.Import(ctx, h.db, h.cfg, h.loc, h.log, input)
	if err != nil {
		return h.fail("record_import", err), nil
	}
	return successResult(result)
}

// HandleShare handles record_share.
func (h *Handlers) HandleShare(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ops.ShareInput](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	result, err := ops.Share(ctx, h.db, h.loc, input)
	if err != nil {
		return h.fail("record_share", err), nil
	}
	return successResult(result)
}

// fail logs internal failures with their cause before hiding it from the client.
func (h *Handlers) fail(tool string, err error) *mcp.CallToolResult {
	if pe, ok := errors.As(err); !ok || pe.Code == errors.ErrInternal {
		h.log.Error("tool failed", zap.String("tool", tool), zap.Error(err), zap.Any("details", detailsOf(pe)))
	}
	return errorResult(err)
}

func detailsOf(pe *errors.PelviError) map[string]any {
	if pe == nil {
		return nil
	}
	return pe.Details
}

// errorResult creates an MCP error result from any error.
// INTERNAL details never leave the process.
func errorResult(err error) *mcp.CallToolResult {
	errorObj := map[string]any{
		"code":    string(errors.ErrInternal),
		"message": "an internal error occurred",
		"status":  500,
	}
	if pe, ok := errors.As(err); ok {
		errorObj["code"] = string(pe.Code)
		errorObj["message"] = pe.Message
		errorObj["status"] = pe.Status
		if pe.Code != errors.ErrInternal && pe.Details != nil {
			errorObj["details"] = pe.Details
		}
	}

	content, _ := json.Marshal(map[string]any{"error": errorObj})
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
