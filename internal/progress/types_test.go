// Package progress_test tests stage status strings and stage info validation.
// Related: internal/progress/types.go
// Tags: progress, stages, validation
package progress_test

import (
	"strings"
	"testing"

	"github.com/mongfont/mongdata/internal/progress"
)

func TestStageStatus_String(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		status progress.StageStatus
		want   string
	}{
		"pending":     {status: progress.StagePending, want: "pending"},
		"in progress": {status: progress.StageInProgress, want: "in_progress"},
		"completed":   {status: progress.StageCompleted, want: "completed"},
		"failed":      {status: progress.StageFailed, want: "failed"},
		"unknown":     {status: progress.StageStatus(42), want: "unknown"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			if got := tt.status.String(); got != tt.want {
				t.Errorf("StageStatus.String() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStageInfo_Validate(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		stage  progress.StageInfo
		errMsg string
	}{
		"valid": {
			stage: progress.StageInfo{Name: progress.StageValidate, Number: 2, TotalStages: 3, Done: 4, Total: 10},
		},
		"valid without counts": {
			stage: progress.StageInfo{Name: progress.StageLoad, Number: 1, TotalStages: 1},
		},
		"empty name": {
			stage:  progress.StageInfo{Number: 1, TotalStages: 3},
			errMsg: "stage name cannot be empty",
		},
		"zero number": {
			stage:  progress.StageInfo{Name: "x", Number: 0, TotalStages: 3},
			errMsg: "stage number must be > 0",
		},
		"zero total stages": {
			stage:  progress.StageInfo{Name: "x", Number: 1, TotalStages: 0},
			errMsg: "total stages must be > 0",
		},
		"number exceeds total": {
			stage:  progress.StageInfo{Name: "x", Number: 4, TotalStages: 3},
			errMsg: "stage number cannot exceed total stages",
		},
		"negative items": {
			stage:  progress.StageInfo{Name: "x", Number: 1, TotalStages: 1, Done: -1},
			errMsg: "item counts cannot be negative",
		},
		"done exceeds total": {
			stage:  progress.StageInfo{Name: "x", Number: 1, TotalStages: 1, Done: 5, Total: 4},
			errMsg: "done items cannot exceed total items",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			err := tt.stage.Validate()
			if tt.errMsg == "" {
				if err != nil {
					t.Errorf("Validate() unexpected error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.errMsg) {
				t.Errorf("Validate() error = %v, want %q", err, tt.errMsg)
			}
		})
	}
}
