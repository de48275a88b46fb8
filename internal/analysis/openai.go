// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analysis

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/pdiddy/codex-curator/pkg/types"
)

const messagePageSize = 100

// OpenAIService implements Service on the OpenAI Assistants API.
type OpenAIService struct {
	client *openai.Client
}

var _ Service = (*OpenAIService)(nil)

// NewOpenAIService builds a client for apiKey. An empty baseURL keeps the
// library default; httpClient may be nil.
func NewOpenAIService(apiKey, baseURL string, httpClient *http.Client) *OpenAIService {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if httpClient != nil {
		cfg.HTTPClient = httpClient
	}
	return &OpenAIService{client: openai.NewClientWithConfig(cfg)}
}

// UploadFile sends the file at path with the "assistants" purpose.
func (s *OpenAIService) UploadFile(ctx context.Context, path string) (types.RemoteFile, error) {
	f, err := s.client.CreateFile(ctx, openai.FileRequest{
		FileName: filepath.Base(path),
		FilePath: path,
		Purpose:  string(openai.PurposeAssistants),
	})
	if err != nil {
		return types.RemoteFile{}, err
	}
	return types.RemoteFile{
		ID:       f.ID,
		FileName: f.FileName,
		Bytes:    f.Bytes,
		Purpose:  f.Purpose,
	}, nil
}

// RetrieveAssistant looks up an assistant by ID.
func (s *OpenAIService) RetrieveAssistant(ctx context.Context, assistantID string) (Assistant, error) {
	a, err := s.client.RetrieveAssistant(ctx, assistantID)
	if err != nil {
		return Assistant{}, err
	}
	out := Assistant{ID: a.ID, Model: a.Model}
	if a.Name != nil {
		out.Name = *a.Name
	}
	return out, nil
}

// CreateThread opens a thread with one user message carrying the file as an
// attachment.
func (s *OpenAIService) CreateThread(ctx context.Context, req ThreadRequest) (Thread, error) {
	tools := make([]openai.ThreadAttachmentTool, 0, len(req.Tools))
	for _, t := range req.Tools {
		tools = append(tools, openai.ThreadAttachmentTool{Type: t})
	}
	th, err := s.client.CreateThread(ctx, openai.ThreadRequest{
		Messages: []openai.ThreadMessage{{
			Role:    openai.ThreadMessageRoleUser,
			Content: req.Prompt,
			Attachments: []openai.ThreadAttachment{{
				FileID: req.FileID,
				Tools:  tools,
			}},
		}},
		Metadata: req.Metadata,
	})
	if err != nil {
		return Thread{}, err
	}
	return Thread{ID: th.ID}, nil
}

// CreateRun starts a run of assistantID on threadID.
func (s *OpenAIService) CreateRun(ctx context.Context, threadID, assistantID string) (types.Run, error) {
	r, err := s.client.CreateRun(ctx, threadID, openai.RunRequest{AssistantID: assistantID})
	if err != nil {
		return types.Run{}, err
	}
	return convertRun(r), nil
}

// RetrieveRun fetches the current state of a run.
func (s *OpenAIService) RetrieveRun(ctx context.Context, threadID, runID string) (types.Run, error) {
	r, err := s.client.RetrieveRun(ctx, threadID, runID)
	if err != nil {
		return types.Run{}, err
	}
	return convertRun(r), nil
}

// ListMessages pages through the thread in ascending creation order.
func (s *OpenAIService) ListMessages(ctx context.Context, threadID string) ([]types.Message, error) {
	limit := messagePageSize
	order := "asc"
	var after *string

	var out []types.Message
	for {
		page, err := s.client.ListMessage(ctx, threadID, &limit, &order, after, nil, nil)
		if err != nil {
			return nil, err
		}
		for _, m := range page.Messages {
			out = append(out, types.Message{Role: m.Role, Content: messageText(m)})
		}
		if !page.HasMore || page.LastID == nil || len(page.Messages) == 0 {
			return out, nil
		}
		after = page.LastID
	}
}

func convertRun(r openai.Run) types.Run {
	out := types.Run{
		ID:          r.ID,
		ThreadID:    r.ThreadID,
		AssistantID: r.AssistantID,
		Status:      types.RunStatus(r.Status),
	}
	if r.LastError != nil {
		out.ErrorCode = string(r.LastError.Code)
		out.ErrorMessage = r.LastError.Message
	}
	return out
}

// messageText joins the text parts of a message. Non-text parts are
// rendered as a short placeholder naming their type.
func messageText(m openai.Message) string {
	parts := make([]string, 0, len(m.Content))
	for _, c := range m.Content {
		if c.Text != nil {
			parts = append(parts, c.Text.Value)
			continue
		}
		parts = append(parts, fmt.Sprintf("[%s]", c.Type))
	}
	return strings.Join(parts, "\n")
}
