package repository_test

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/JaimeStill/relay/pkg/repository"
)

var (
	errReportNotFound = errors.New("pass report not found")
	errDuplicatePass  = errors.New("pass already recorded")
)

func TestMapError(t *testing.T) {
	driverErr := errors.New("connection reset")
	fkErr := &pgconn.PgError{Code: "23503"}

	tests := []struct {
		name string
		err  error
		want error
	}{
		{"nil passes through", nil, nil},
		{"no rows becomes not found", sql.ErrNoRows, errReportNotFound},
		{"unique violation becomes duplicate", &pgconn.PgError{Code: "23505"}, errDuplicatePass},
		{"driver error passes through", driverErr, driverErr},
		{"non-duplicate pg error passes through", fkErr, fkErr},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := repository.MapError(tt.err, errReportNotFound, errDuplicatePass)
			if tt.want == nil {
				if got != nil {
					t.Errorf("got %v, want nil", got)
				}
				return
			}
			if !errors.Is(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMapErrorKeepsSentinelsDistinct(t *testing.T) {
	got := repository.MapError(sql.ErrNoRows, errReportNotFound, errDuplicatePass)
	if errors.Is(got, errDuplicatePass) {
		t.Error("not-found mapping must not satisfy the duplicate sentinel")
	}
}
