package widget

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
)

// FileSink пишет по одному JSON-файлу на пользователя.
type FileSink struct {
	dir string
	mu  sync.Mutex
	log *zap.Logger
}

func NewFileSink(dir string, log *zap.Logger) (*FileSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("widget dir: %w", err)
	}
	return &FileSink{dir: dir, log: log}, nil
}

func (s *FileSink) path(telegramID int64) string {
	return filepath.Join(s.dir, fmt.Sprintf("%d.json", telegramID))
}

func (s *FileSink) Write(ctx context.Context, snap Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := atomicWriteFileJSON(s.path(snap.TelegramID), snap); err != nil {
		s.log.Error("widget: failed to write snapshot", zap.Int64("telegram_id", snap.TelegramID), zap.Error(err))
		return err
	}
	return nil
}

// Read возвращает последнюю записанную сводку; ok=false, если её ещё нет.
func (s *FileSink) Read(telegramID int64) (Snapshot, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Open(s.path(telegramID))
	if err != nil {
		if os.IsNotExist(err) {
			return Snapshot{}, false, nil
		}
		return Snapshot{}, false, err
	}
	defer f.Close()

	var snap Snapshot
	if err := json.NewDecoder(f).Decode(&snap); err != nil {
		if errors.Is(err, io.EOF) {
			return Snapshot{}, false, nil
		}
		return Snapshot{}, false, err
	}
	return snap, true, nil
}

func atomicWriteFileJSON(filePath string, data interface{}) error {
	tempFile := filePath + ".tmp"
	f, err := os.Create(tempFile)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		f.Close()
		os.Remove(tempFile)
		return err
	}

	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tempFile)
		return err
	}

	if err := f.Close(); err != nil {
		os.Remove(tempFile)
		return err
	}

	return os.Rename(tempFile, filePath)
}
