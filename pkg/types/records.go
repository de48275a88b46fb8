// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the codex-curator pipeline.
package types

// TransferRecord notes one completed download. Records are appended to the
// ledger and never rewritten.
type TransferRecord struct {
	// URL is the address the paper was downloaded from, as given by the user.
	URL string `json:"url" yaml:"url"`

	// FilePath is the local path the PDF was written to.
	FilePath string `json:"file_path" yaml:"file_path"`
}

// RemoteFile is the handle the analysis service returns for an uploaded file.
type RemoteFile struct {
	ID       string `json:"id" yaml:"id"`
	FileName string `json:"filename" yaml:"filename"`
	Bytes    int    `json:"bytes" yaml:"bytes"`
	Purpose  string `json:"purpose" yaml:"purpose"`
}

// RunStatus is the job status vocabulary of the analysis service.
type RunStatus string

const (
	RunQueued         RunStatus = "queued"
	RunInProgress     RunStatus = "in_progress"
	RunRequiresAction RunStatus = "requires_action"
	RunCancelling     RunStatus = "cancelling"
	RunCancelled      RunStatus = "cancelled"
	RunFailed         RunStatus = "failed"
	RunCompleted      RunStatus = "completed"
	RunExpired        RunStatus = "expired"
	RunIncomplete     RunStatus = "incomplete"
)

// Terminal reports whether polling should stop at this status.
func (s RunStatus) Terminal() bool {
	switch s {
	case RunCompleted, RunFailed, RunCancelled, RunExpired, RunIncomplete:
		return true
	}
	return false
}

// Run is a snapshot of a server-side analysis job.
type Run struct {
	ID           string    `json:"id" yaml:"id"`
	ThreadID     string    `json:"thread_id" yaml:"thread_id"`
	AssistantID  string    `json:"assistant_id" yaml:"assistant_id"`
	Status       RunStatus `json:"status" yaml:"status"`
	ErrorCode    string    `json:"error_code,omitempty" yaml:"error_code,omitempty"`
	ErrorMessage string    `json:"error_message,omitempty" yaml:"error_message,omitempty"`
}

// Message is one entry of a thread transcript.
type Message struct {
	Role    string `json:"role" yaml:"role"`
	Content string `json:"content" yaml:"content"`
}

// Transcript is the ordered message list of a completed run.
type Transcript struct {
	ThreadID string    `json:"thread_id" yaml:"thread_id"`
	RunID    string    `json:"run_id" yaml:"run_id"`
	Messages []Message `json:"messages" yaml:"messages"`
}
