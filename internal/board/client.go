package board

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
)

const taskFields = "name,notes,completed"

type client struct {
	base    string
	token   string
	project string
	http    *http.Client
	logger  *slog.Logger
}

// New creates a board client from the given configuration.
func New(cfg *Config, logger *slog.Logger) System {
	return &client{
		base:    cfg.BaseURL,
		token:   cfg.Token,
		project: cfg.Project,
		http:    &http.Client{Timeout: cfg.TimeoutDuration()},
		logger:  logger.With("system", "board"),
	}
}

// envelope is the board API's standard response wrapper.
type envelope[T any] struct {
	Data T `json:"data"`
}

func (c *client) Sections(ctx context.Context) ([]Section, error) {
	var out envelope[[]Section]
	path := fmt.Sprintf("/projects/%s/sections", c.project)
	if err := c.get(ctx, path, nil, &out); err != nil {
		return nil, fmt.Errorf("list sections: %w", err)
	}
	return out.Data, nil
}

func (c *client) SectionTasks(ctx context.Context, sectionGID string) ([]Task, error) {
	var out envelope[[]Task]
	path := fmt.Sprintf("/sections/%s/tasks", sectionGID)
	query := url.Values{"opt_fields": {taskFields}}
	if err := c.get(ctx, path, query, &out); err != nil {
		return nil, fmt.Errorf("list section tasks: %w", err)
	}

	tasks := out.Data
	for i := range tasks {
		atts, err := c.attachments(ctx, tasks[i].GID)
		if err != nil {
			return nil, fmt.Errorf("task %s attachments: %w", tasks[i].GID, err)
		}
		tasks[i].Attachments = atts
	}

	return tasks, nil
}

func (c *client) MoveTask(ctx context.Context, taskGID, sectionGID string) error {
	body := map[string]any{"data": map[string]string{"task": taskGID}}
	path := fmt.Sprintf("/sections/%s/addTask", sectionGID)
	if err := c.send(ctx, http.MethodPost, path, body, nil); err != nil {
		return fmt.Errorf("move task %s: %w", taskGID, err)
	}
	return nil
}

func (c *client) Comment(ctx context.Context, taskGID, text string) error {
	body := map[string]any{"data": map[string]string{"text": text}}
	path := fmt.Sprintf("/tasks/%s/stories", taskGID)
	if err := c.send(ctx, http.MethodPost, path, body, nil); err != nil {
		return fmt.Errorf("comment on task %s: %w", taskGID, err)
	}
	return nil
}

func (c *client) CompleteTask(ctx context.Context, taskGID string) error {
	body := map[string]any{"data": map[string]bool{"completed": true}}
	path := fmt.Sprintf("/tasks/%s", taskGID)
	if err := c.send(ctx, http.MethodPut, path, body, nil); err != nil {
		return fmt.Errorf("complete task %s: %w", taskGID, err)
	}
	return nil
}

func (c *client) DownloadAttachment(ctx context.Context, att Attachment) ([]byte, error) {
	if att.DownloadURL == "" {
		return nil, ErrNoDownloadURL
	}

	// Download URLs are pre-signed; the board token must not be forwarded.
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, att.DownloadURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build attachment request: %w", err)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download attachment %s: %w", att.GID, err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("attachment %s: %w", att.GID, ErrNotFound)
	}
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download attachment %s: unexpected status %d", att.GID, res.StatusCode)
	}

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("read attachment %s: %w", att.GID, err)
	}

	return data, nil
}

func (c *client) CreateTask(ctx context.Context, cmd CreateCommand) (*Task, error) {
	data := map[string]any{
		"name":  cmd.Name,
		"notes": cmd.Notes,
	}
	if cmd.ParentGID != "" {
		data["parent"] = cmd.ParentGID
	} else {
		data["projects"] = []string{c.project}
	}
	body := map[string]any{"data": data}

	var out envelope[Task]
	if err := c.send(ctx, http.MethodPost, "/tasks", body, &out); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}

	if cmd.ParentGID == "" && cmd.SectionGID != "" {
		if err := c.MoveTask(ctx, out.Data.GID, cmd.SectionGID); err != nil {
			return nil, err
		}
	}

	return &out.Data, nil
}

func (c *client) attachments(ctx context.Context, taskGID string) ([]Attachment, error) {
	var out envelope[[]Attachment]
	path := fmt.Sprintf("/tasks/%s/attachments", taskGID)
	query := url.Values{"opt_fields": {"name,download_url,size"}}
	if err := c.get(ctx, path, query, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

func (c *client) get(ctx context.Context, path string, query url.Values, out any) error {
	target := c.base + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	return c.do(req, out)
}

func (c *client) send(ctx context.Context, method, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, out)
}

func (c *client) do(req *http.Request, out any) error {
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	switch {
	case res.StatusCode == http.StatusUnauthorized || res.StatusCode == http.StatusForbidden:
		return ErrUnauthorized
	case res.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case res.StatusCode < 200 || res.StatusCode >= 300:
		msg, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return fmt.Errorf("unexpected status %d: %s", res.StatusCode, string(msg))
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}
