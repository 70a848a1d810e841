package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"

	"EdgePull/internal/domain/models"
	"EdgePull/internal/domain/repository"
)

const metricsFileName = "metrics.jsonl"

// FileSink appends decision events as JSONL with size-based rotation.
// Writes are serialized so each event lands as exactly one line even under
// concurrent appends.
type FileSink struct {
	mu sync.Mutex
	w  *lumberjack.Logger
}

// NewFileSink creates a file sink writing metrics.jsonl under dir.
func NewFileSink(dir string, rotateMB, keep int) (*FileSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("sink dir: %w", err)
	}
	if rotateMB <= 0 {
		rotateMB = 50
	}
	if keep <= 0 {
		keep = 7
	}
	return &FileSink{
		w: &lumberjack.Logger{
			Filename:   filepath.Join(dir, metricsFileName),
			MaxSize:    rotateMB,
			MaxBackups: keep,
		},
	}, nil
}

func (s *FileSink) Append(ctx context.Context, ev *models.DecisionEvent) error {
	b, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	b = append(b, '\n')

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.w.Write(b); err != nil {
		return fmt.Errorf("append event: %w", err)
	}
	return nil
}

func (s *FileSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Close()
}

var _ repository.EventSink = (*FileSink)(nil)
