package relay

import (
	"os"

	"go.uber.org/zap"
)

// TempFileManager removes the transiently stored upload. The handler defers
// Cleanup on every path, so a received file never outlives its request.
type TempFileManager struct {
	log *zap.Logger
}

func NewTempFileManager(log *zap.Logger) *TempFileManager {
	return &TempFileManager{log: log}
}

// Cleanup deletes path if it exists. Deletion failure is logged, never
// escalated; there is nothing useful a request can do about it.
func (m *TempFileManager) Cleanup(path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		m.log.Warn("Failed to delete temp file",
			zap.String("path", path),
			zap.Error(err))
		return
	}
	m.log.Debug("Temp file removed", zap.String("path", path))
}
