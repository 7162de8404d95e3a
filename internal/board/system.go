package board

import "context"

// System defines the board operations the workflow engine depends on.
type System interface {
	// Sections lists all sections in the configured project.
	Sections(ctx context.Context) ([]Section, error)
	// SectionTasks lists tasks currently in the given section, including
	// notes and attachment metadata.
	SectionTasks(ctx context.Context, sectionGID string) ([]Task, error)
	// MoveTask reassigns a task to the given section.
	MoveTask(ctx context.Context, taskGID, sectionGID string) error
	// Comment appends a story to a task.
	Comment(ctx context.Context, taskGID, text string) error
	// CompleteTask marks a task completed.
	CompleteTask(ctx context.Context, taskGID string) error
	// DownloadAttachment fetches the attachment's bytes via its download URL.
	DownloadAttachment(ctx context.Context, att Attachment) ([]byte, error)
	// CreateTask creates a task in the project and places it in a section.
	CreateTask(ctx context.Context, cmd CreateCommand) (*Task, error)
}
