package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	models "github.com/davidhchng/Stock-Predictive-Model/internal/domain/models"
	xhttp "github.com/davidhchng/Stock-Predictive-Model/pkg/http"
)

func TestParseRange(t *testing.T) {
	tests := []struct {
		name    string
		from    string
		to      string
		wantErr bool
	}{
		{"both empty", "", "", false},
		{"valid range", "2024-01-01", "2024-06-30", false},
		{"from only", "2024-01-01", "", false},
		{"bad from", "01/01/2024", "", true},
		{"bad to", "", "yesterday", true},
		{"inverted range", "2024-06-30", "2024-01-01", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			from, to, err := parseRange(tt.from, tt.to)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseRange(%q, %q) err = %v, wantErr %v", tt.from, tt.to, err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if tt.from == "" && !from.IsZero() {
				t.Error("empty from should stay zero")
			}
			if tt.to == "" && !to.IsZero() {
				t.Error("empty to should stay zero")
			}
		})
	}
}

func TestMapAnalysisError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"insufficient data", fmt.Errorf("30 bars: %w", models.ErrInsufficientData), http.StatusUnprocessableEntity},
		{"model training", fmt.Errorf("fit: %w", models.ErrModelTraining), http.StatusUnprocessableEntity},
		{"invalid series", fmt.Errorf("validate: %w", models.ErrInvalidSeries), http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mapped := mapAnalysisError(tt.err)
			var appErr *xhttp.AppError
			if !errors.As(mapped, &appErr) {
				t.Fatalf("mapped error %T is not an AppError", mapped)
			}
			if appErr.Status != tt.wantStatus {
				t.Fatalf("status = %d, want %d", appErr.Status, tt.wantStatus)
			}
		})
	}
}

func TestMapAnalysisErrorPassthrough(t *testing.T) {
	err := errors.New("boom")
	if got := mapAnalysisError(err); got != err {
		t.Fatalf("unexpected mapping: %v", got)
	}
}
