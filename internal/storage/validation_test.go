package storage

import (
	"context"
	"testing"
	"time"

	"github.com/Veraticus/basket/internal/model"
)

func TestValidateContext(t *testing.T) {
	tests := []struct {
		ctx     context.Context
		name    string
		wantErr bool
	}{
		{
			name:    "valid context",
			ctx:     context.Background(),
			wantErr: false,
		},
		{
			name:    "nil context",
			ctx:     nil,
			wantErr: true,
		},
		{
			name: "canceled context still valid",
			ctx: func() context.Context {
				ctx, cancel := context.WithCancel(context.Background())
				cancel()
				return ctx
			}(),
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateContext(tt.ctx)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateContext() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateRun(t *testing.T) {
	valid := func() *model.RunRecord {
		return testRun("groceries.txt", time.Now())
	}

	tests := []struct {
		modify  func(*model.RunRecord)
		name    string
		nilRun  bool
		wantErr bool
	}{
		{
			name:    "valid run",
			modify:  func(*model.RunRecord) {},
			wantErr: false,
		},
		{
			name:    "nil run",
			nilRun:  true,
			wantErr: true,
		},
		{
			name:    "blank input",
			modify:  func(r *model.RunRecord) { r.Input = "   " },
			wantErr: true,
		},
		{
			name:    "zero min support",
			modify:  func(r *model.RunRecord) { r.MinSupport = 0 },
			wantErr: true,
		},
		{
			name:    "confidence above one",
			modify:  func(r *model.RunRecord) { r.MinConfidence = 1.5 },
			wantErr: true,
		},
		{
			name:    "missing timestamp",
			modify:  func(r *model.RunRecord) { r.CreatedAt = time.Time{} },
			wantErr: true,
		},
		{
			name:    "level counts disagree with total",
			modify:  func(r *model.RunRecord) { r.LevelCounts = []int{3} },
			wantErr: true,
		},
		{
			name:    "zero confidence allowed",
			modify:  func(r *model.RunRecord) { r.MinConfidence = 0 },
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var run *model.RunRecord
			if !tt.nilRun {
				run = valid()
				tt.modify(run)
			}
			err := validateRun(run)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateRun() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
