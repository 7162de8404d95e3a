// Package board implements the task board client for the QA workflow.
// It wraps the board's REST API (tasks, sections, stories, attachments)
// behind a narrow System interface so the engine can be tested against
// a fake board.
package board

// Task is a board task with the fields the workflow engine consumes.
type Task struct {
	GID         string       `json:"gid"`
	Name        string       `json:"name"`
	Notes       string       `json:"notes"`
	Completed   bool         `json:"completed"`
	Attachments []Attachment `json:"attachments,omitempty"`
}

// Attachment is a file attached to a task. DownloadURL is a short-lived
// signed URL issued by the board.
type Attachment struct {
	GID         string `json:"gid"`
	Name        string `json:"name"`
	DownloadURL string `json:"download_url"`
	SizeBytes   int64  `json:"size,omitempty"`
}

// Section is a named task grouping within a project.
type Section struct {
	GID  string `json:"gid"`
	Name string `json:"name"`
}

// CreateCommand carries the data needed to create a task. A command with a
// ParentGID creates a subtask under that task instead of a project task, in
// which case SectionGID is ignored.
type CreateCommand struct {
	Name       string
	Notes      string
	SectionGID string
	ParentGID  string
}
