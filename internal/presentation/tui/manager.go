package tui

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"pdf2cbz/internal/domain/entities"
)

// Параметры отображения
const (
	MaxLogBufferSize   = 1000
	LogFlushInterval   = 50 * time.Millisecond
	ProgressBarWidth   = 40
	MaxFileNameDisplay = 57
)

// Manager управляет TUI интерфейсом отображения прогресса конвертации
type Manager struct {
	app *tview.Application

	// UI компоненты
	progressView *tview.TextView
	logView      *tview.TextView
	statusBar    *tview.TextView

	// Callbacks
	onCancel func()

	// Состояние
	logBuffer   []string
	statusMutex sync.RWMutex

	// Батчинг логов через канал
	logChan chan string
	logDone chan struct{}
}

// NewManager создает новый менеджер TUI
func NewManager() *Manager {
	m := &Manager{
		app:       tview.NewApplication(),
		logBuffer: make([]string, 0, MaxLogBufferSize),
		logChan:   make(chan string, 100),
		logDone:   make(chan struct{}),
	}
	go m.logProcessor()
	return m
}

// Initialize строит интерфейс и привязывает клавиши
func (m *Manager) Initialize() {
	m.progressView = tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignLeft)
	m.progressView.SetBorder(true).SetTitle(" Прогресс ")

	m.logView = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetChangedFunc(func() {
			m.app.Draw()
		})
	m.logView.SetBorder(true).SetTitle(" Журнал ")

	m.statusBar = tview.NewTextView().
		SetDynamicColors(true).
		SetText("[yellow]q[-] / [yellow]Ctrl+C[-] — прервать обработку")

	layout := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(m.progressView, 9, 0, false).
		AddItem(m.logView, 0, 1, true).
		AddItem(m.statusBar, 1, 0, false)

	m.app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyCtrlC || event.Rune() == 'q' {
			if m.onCancel != nil {
				m.onCancel()
			}
			return nil
		}
		return event
	})

	m.app.SetRoot(layout, true)
}

// Run запускает TUI
func (m *Manager) Run() error {
	return m.app.Run()
}

// Stop останавливает TUI
func (m *Manager) Stop() {
	close(m.logDone)
	m.app.Stop()
}

// SetOnCancel устанавливает callback отмены обработки
func (m *Manager) SetOnCancel(callback func()) {
	m.onCancel = callback
}

// SendStatusUpdate обновляет панель прогресса
func (m *Manager) SendStatusUpdate(status entities.ProcessingStatus) {
	m.app.QueueUpdateDraw(func() {
		m.progressView.SetText(m.renderStatus(&status))
	})
}

// AddLog добавляет запись в журнал
func (m *Manager) AddLog(level, message string) {
	line := fmt.Sprintf("[%s]%s[-] %s", levelColor(level), level, tview.Escape(message))
	select {
	case m.logChan <- line:
	default:
		// Канал переполнен, запись теряется, но UI не блокируется
	}
}

// logProcessor переносит записи из канала в журнал пачками
func (m *Manager) logProcessor() {
	ticker := time.NewTicker(LogFlushInterval)
	defer ticker.Stop()

	var pending []string
	flush := func() {
		if len(pending) == 0 {
			return
		}
		batch := strings.Join(pending, "\n")
		pending = pending[:0]
		m.app.QueueUpdateDraw(func() {
			m.statusMutex.Lock()
			m.logBuffer = append(m.logBuffer, batch)
			if len(m.logBuffer) > MaxLogBufferSize {
				m.logBuffer = m.logBuffer[len(m.logBuffer)-MaxLogBufferSize:]
			}
			m.statusMutex.Unlock()
			fmt.Fprintln(m.logView, batch)
			m.logView.ScrollToEnd()
		})
	}

	for {
		select {
		case line := <-m.logChan:
			pending = append(pending, line)
		case <-ticker.C:
			flush()
		case <-m.logDone:
			flush()
			return
		}
	}
}

// renderStatus форматирует панель прогресса
func (m *Manager) renderStatus(status *entities.ProcessingStatus) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Фаза: [yellow]%s[-]\n", status.Phase)

	if status.CurrentFile != "" {
		name := filepath.Base(status.CurrentFile)
		if len(name) > MaxFileNameDisplay {
			name = name[:MaxFileNameDisplay] + "..."
		}
		fmt.Fprintf(&b, "Файл: %s\n", tview.Escape(name))
	}

	fmt.Fprintf(&b, "\n%s %.0f%%\n", progressBar(status.Progress), status.Progress)
	fmt.Fprintf(&b, "Файлы: %d/%d  [green]✓ %d[-]  [red]✗ %d[-]  [yellow]─ %d[-]\n",
		status.ProcessedFiles, status.TotalFiles,
		status.SuccessfulFiles, status.FailedFiles, status.SkippedFiles)
	fmt.Fprintf(&b, "Прошло: %s  Осталось: %s",
		status.FormatElapsedTime(), status.FormatEstimatedTime())

	return b.String()
}

// progressBar рисует текстовую полосу прогресса
func progressBar(percent float64) string {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	filled := int(percent / 100 * ProgressBarWidth)
	return "[green]" + strings.Repeat("█", filled) + "[-]" + strings.Repeat("░", ProgressBarWidth-filled)
}

// levelColor возвращает цвет tview для уровня лога
func levelColor(level string) string {
	switch level {
	case "ERROR":
		return "red"
	case "WARNING":
		return "yellow"
	case "SUCCESS":
		return "green"
	case "DEBUG":
		return "gray"
	default:
		return "white"
	}
}
