package reports

import (
	"encoding/json"
	"fmt"

	"github.com/JaimeStill/relay/pkg/repository"
)

const selectRecords = `
	SELECT id, started_at, finished_at, task_count, failure_count, results
	FROM pass_reports`

func scanRecord(s repository.Scanner) (PassRecord, error) {
	var (
		record PassRecord
		raw    []byte
	)

	err := s.Scan(
		&record.ID,
		&record.StartedAt,
		&record.FinishedAt,
		&record.TaskCount,
		&record.FailureCount,
		&raw,
	)
	if err != nil {
		return PassRecord{}, err
	}

	if err := json.Unmarshal(raw, &record.Results); err != nil {
		return PassRecord{}, fmt.Errorf("decode results: %w", err)
	}

	return record, nil
}
