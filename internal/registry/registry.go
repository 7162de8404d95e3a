// Package registry implements the USAC open-data client used to locate
// Form 470 records by application number.
package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
)

// Form470 is a matching record from the open-data Form 470 dataset.
type Form470 struct {
	ApplicationNumber string `json:"application_number"`
	BilledEntityName  string `json:"billed_entity_name"`
	FormPDF           string `json:"form_pdf"`
}

// System defines the registry lookup the workflow engine depends on.
// FindForm470 has three distinguishable outcomes: a match (*Form470, nil),
// confirmed absence (nil, nil), and lookup failure (nil, err). The engine
// routes absence and failure to different sections.
type System interface {
	FindForm470(ctx context.Context, applicationNumber string) (*Form470, error)
}

type client struct {
	base   string
	http   *http.Client
	logger *slog.Logger
}

// New creates a registry client from the given configuration.
func New(cfg *Config, logger *slog.Logger) System {
	return &client{
		base:   cfg.BaseURL,
		http:   &http.Client{Timeout: cfg.TimeoutDuration()},
		logger: logger.With("system", "registry"),
	}
}

func (c *client) FindForm470(ctx context.Context, applicationNumber string) (*Form470, error) {
	if applicationNumber == "" {
		return nil, ErrEmptyQuery
	}

	query := url.Values{
		"$where": {fmt.Sprintf("application_number='%s'", applicationNumber)},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build registry request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return nil, fmt.Errorf("%w: status %d: %s", ErrUnavailable, res.StatusCode, string(msg))
	}

	var records []Form470
	if err := json.NewDecoder(res.Body).Decode(&records); err != nil {
		return nil, fmt.Errorf("%w: decode response: %w", ErrUnavailable, err)
	}

	if len(records) == 0 {
		c.logger.InfoContext(ctx, "no matching form 470", "application_number", applicationNumber)
		return nil, nil
	}

	record := records[0]
	if record.FormPDF == "" {
		// A record without a document link cannot be handed to reviewers;
		// treat it the same as confirmed absence.
		c.logger.WarnContext(ctx, "form 470 record missing pdf link", "application_number", applicationNumber)
		return nil, nil
	}

	return &record, nil
}
