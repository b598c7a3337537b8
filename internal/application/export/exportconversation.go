// Package export renders conversations for download. Export is itself a
// gated tool: the requested format goes through the access check as a tool
// parameter before anything is rendered.
package export

import (
	"context"
	"fmt"
	"strings"

	accessapp "luminara/internal/application/access"
	"luminara/internal/domain/access"
	"luminara/internal/domain/chat"
	"luminara/internal/shared/errors"
	"luminara/internal/shared/logger"
	"luminara/internal/shared/services/markdown"
)

const (
	FormatMarkdown = "markdown"
	FormatHTML     = "html"
)

// ExportConversationQuery names the conversation and output format.
type ExportConversationQuery struct {
	UserID          uint
	ConversationSID string
	Format          string
}

// ExportResult is the rendered document.
type ExportResult struct {
	Filename    string
	ContentType string
	Content     string
	// Denied is set instead of Content when the access check refused the
	// export.
	Denied *access.CheckResult
}

type ExportConversationUseCase struct {
	conversationRepo chat.ConversationRepository
	messageRepo      chat.MessageRepository
	accessService    *accessapp.ToolAccessService
	markdownService  markdown.MarkdownService
	logger           logger.Interface
}

func NewExportConversationUseCase(
	conversationRepo chat.ConversationRepository,
	messageRepo chat.MessageRepository,
	accessService *accessapp.ToolAccessService,
	markdownService markdown.MarkdownService,
	logger logger.Interface,
) *ExportConversationUseCase {
	return &ExportConversationUseCase{
		conversationRepo: conversationRepo,
		messageRepo:      messageRepo,
		accessService:    accessService,
		markdownService:  markdownService,
		logger:           logger,
	}
}

// messagePageSize bounds one export read; conversations are already capped
// by tier length limits well below this.
const messagePageSize = 1000

func (uc *ExportConversationUseCase) Execute(ctx context.Context, query ExportConversationQuery) (*ExportResult, error) {
	format := query.Format
	if format == "" {
		format = FormatMarkdown
	}
	if format != FormatMarkdown && format != FormatHTML {
		return nil, errors.NewValidationError("unsupported export format: " + format)
	}

	conversation, err := uc.conversationRepo.GetBySID(ctx, query.ConversationSID)
	if err != nil {
		return nil, errors.NewInternalError("failed to load conversation", err.Error())
	}
	if conversation == nil {
		return nil, errors.NewNotFoundError("conversation not found: " + query.ConversationSID)
	}
	if conversation.UserID() != query.UserID {
		return nil, errors.NewForbiddenError("conversation belongs to another user")
	}

	result, err := uc.accessService.CheckToolAccess(ctx, accessapp.CheckQuery{
		UserID:   query.UserID,
		ToolName: access.ToolConversationExport,
		Params:   map[string]any{"format": format},
	})
	if err != nil {
		return nil, err
	}
	if !result.Allowed {
		return &ExportResult{Denied: result}, nil
	}

	messages, err := uc.messageRepo.ListByConversationID(ctx, conversation.ID(), messagePageSize, 0)
	if err != nil {
		return nil, errors.NewInternalError("failed to load messages", err.Error())
	}

	doc := uc.renderMarkdown(conversation, messages)

	if format == FormatHTML {
		html, err := uc.markdownService.ToHTMLSanitized(doc)
		if err != nil {
			return nil, errors.NewInternalError("failed to render HTML", err.Error())
		}
		return &ExportResult{
			Filename:    conversation.SID() + ".html",
			ContentType: "text/html; charset=utf-8",
			Content:     html,
		}, nil
	}

	return &ExportResult{
		Filename:    conversation.SID() + ".md",
		ContentType: "text/markdown; charset=utf-8",
		Content:     doc,
	}, nil
}

func (uc *ExportConversationUseCase) renderMarkdown(conversation *chat.Conversation, messages []*chat.Message) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", conversation.Title())
	fmt.Fprintf(&b, "Exported %s\n\n", conversation.UpdatedAt().Format("2006-01-02"))

	for _, msg := range messages {
		switch msg.Role() {
		case chat.RoleUser:
			b.WriteString("## You\n\n")
		case chat.RoleAssistant:
			b.WriteString("## Guide\n\n")
		}
		if usage := msg.ToolUsage(); usage != nil {
			fmt.Fprintf(&b, "*%s*\n\n", usage.ToolName)
		}
		b.WriteString(msg.Content())
		b.WriteString("\n\n")
	}

	return b.String()
}
