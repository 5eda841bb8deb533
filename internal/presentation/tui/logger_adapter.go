package tui

import (
	"fmt"

	"pdf2cbz/internal/domain/repositories"
)

// UILogger адаптер логгера для отображения записей в TUI.
// Дублирует записи в базовый логгер, если тот задан.
type UILogger struct {
	fileLogger repositories.Logger
	tuiManager *Manager
}

// NewUILogger создает новый UI логгер
func NewUILogger(fileLogger repositories.Logger, tuiManager *Manager) *UILogger {
	return &UILogger{
		fileLogger: fileLogger,
		tuiManager: tuiManager,
	}
}

// Debug логирует отладочное сообщение
func (l *UILogger) Debug(format string, args ...interface{}) {
	l.forward("DEBUG", format, args...)
}

// Info логирует информационное сообщение
func (l *UILogger) Info(format string, args ...interface{}) {
	l.forward("INFO", format, args...)
}

// Warning логирует предупреждение
func (l *UILogger) Warning(format string, args ...interface{}) {
	l.forward("WARNING", format, args...)
}

// Error логирует ошибку
func (l *UILogger) Error(format string, args ...interface{}) {
	l.forward("ERROR", format, args...)
}

// Success логирует успешное выполнение
func (l *UILogger) Success(format string, args ...interface{}) {
	l.forward("SUCCESS", format, args...)
}

// Close закрывает базовый логгер
func (l *UILogger) Close() error {
	if l.fileLogger != nil {
		return l.fileLogger.Close()
	}
	return nil
}

// forward отправляет запись в базовый логгер и в TUI
func (l *UILogger) forward(level, format string, args ...interface{}) {
	if l.fileLogger != nil {
		switch level {
		case "DEBUG":
			l.fileLogger.Debug(format, args...)
		case "WARNING":
			l.fileLogger.Warning(format, args...)
		case "ERROR":
			l.fileLogger.Error(format, args...)
		case "SUCCESS":
			l.fileLogger.Success(format, args...)
		default:
			l.fileLogger.Info(format, args...)
		}
	}
	if l.tuiManager != nil {
		l.tuiManager.AddLog(level, fmt.Sprintf(format, args...))
	}
}
