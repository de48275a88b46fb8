// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analysis

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/pdiddy/codex-curator/internal/logging"
	"github.com/pdiddy/codex-curator/pkg/types"
)

// Runner executes the summarization job for an uploaded paper.
type Runner struct {
	svc         Service
	assistantID string
	prompt      string
	poll        PollConfig
	w           io.Writer
}

// NewRunner returns a Runner for the assistant and prompt in cfg, writing
// progress and the transcript to w.
func NewRunner(svc Service, cfg types.Config, w io.Writer) *Runner {
	cfg = cfg.WithDefaults()
	return &Runner{
		svc:         svc,
		assistantID: cfg.AssistantID,
		prompt:      cfg.Prompt,
		poll: PollConfig{
			Interval:    cfg.PollInterval,
			Timeout:     cfg.PollTimeout,
			MaxAttempts: cfg.PollMaxAttempts,
		},
		w: w,
	}
}

// Analyze runs the assistant over the uploaded file and prints the thread's
// messages once the run completes. A run that ends in a failure status
// returns ErrRunFailed and the transcript is not fetched.
func (r *Runner) Analyze(ctx context.Context, file types.RemoteFile) (types.Transcript, error) {
	logger := zerolog.Ctx(ctx)

	assistant, err := r.svc.RetrieveAssistant(ctx, r.assistantID)
	if err != nil {
		return types.Transcript{}, fmt.Errorf("%w: retrieving assistant %s: %w", ErrAnalysis, r.assistantID, err)
	}
	fmt.Fprintf(r.w, "Retrieved Assistant: %s (%s, %s)\n", assistant.ID, assistant.Name, assistant.Model)

	req := ThreadRequest{
		Prompt: r.prompt,
		FileID: file.ID,
		Tools:  []string{CodeInterpreter},
	}
	if id := logging.TraceID(ctx); id != "" {
		req.Metadata = map[string]any{"trace_id": id}
	}
	thread, err := r.svc.CreateThread(ctx, req)
	if err != nil {
		return types.Transcript{}, fmt.Errorf("%w: creating thread: %w", ErrAnalysis, err)
	}
	fmt.Fprintf(r.w, "Message Thread Created: %s\n", thread.ID)

	run, err := r.svc.CreateRun(ctx, thread.ID, assistant.ID)
	if err != nil {
		return types.Transcript{}, fmt.Errorf("%w: starting run: %w", ErrAnalysis, err)
	}
	fmt.Fprintf(r.w, "Run Started: %s (%s)\n", run.ID, run.Status)
	logger.Debug().Str("thread_id", thread.ID).Str("run_id", run.ID).Msg("run started")

	run, err = Poll(ctx, r.poll, run,
		func(run types.Run) bool { return run.Status.Terminal() },
		func(ctx context.Context) (types.Run, error) {
			return r.svc.RetrieveRun(ctx, thread.ID, run.ID)
		},
		func(run types.Run) { fmt.Fprintf(r.w, "Run Status: %s\n", run.Status) },
	)
	if err != nil {
		if errors.Is(err, ErrPollTimeout) || errors.Is(err, context.Canceled) {
			return types.Transcript{}, fmt.Errorf("run %s last status %s: %w", run.ID, run.Status, err)
		}
		return types.Transcript{}, fmt.Errorf("%w: polling run %s: %w", ErrAnalysis, run.ID, err)
	}

	if run.Status != types.RunCompleted {
		fmt.Fprintf(r.w, "Run Failed. Details: %s\n", describeRun(run))
		return types.Transcript{}, fmt.Errorf("%w: %s", ErrRunFailed, describeRun(run))
	}

	msgs, err := r.svc.ListMessages(ctx, thread.ID)
	if err != nil {
		return types.Transcript{}, fmt.Errorf("%w: listing messages: %w", ErrAnalysis, err)
	}

	fmt.Fprintln(r.w, "Run Completed. Messages:")
	for _, m := range msgs {
		fmt.Fprintf(r.w, "%s: %s\n", m.Role, m.Content)
	}
	logger.Info().Str("run_id", run.ID).Int("messages", len(msgs)).Msg("run completed")

	return types.Transcript{ThreadID: thread.ID, RunID: run.ID, Messages: msgs}, nil
}

func describeRun(run types.Run) string {
	s := fmt.Sprintf("run=%s thread=%s assistant=%s status=%s", run.ID, run.ThreadID, run.AssistantID, run.Status)
	if run.ErrorCode != "" || run.ErrorMessage != "" {
		s += fmt.Sprintf(" error=%s: %s", run.ErrorCode, run.ErrorMessage)
	}
	return s
}
