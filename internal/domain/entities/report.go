package entities

import (
	"fmt"
	"time"
)

// PageResult результат рендеринга одной страницы
type PageResult struct {
	Page      int    // индекс страницы, начиная с нуля
	ImagePath string // путь к изображению на диске при успехе
	Size      int64  // размер изображения в байтах
	Attempted bool   // страница была взята воркером
	Err       error
}

// OK сообщает, отрендерилась ли страница успешно
func (pr *PageResult) OK() bool {
	return pr.Attempted && pr.Err == nil
}

// PageFailure описание неудачной страницы в отчете
type PageFailure struct {
	Page  int
	Cause error
}

// ConversionStatus итоговый статус конвертации документа
type ConversionStatus int

const (
	StatusDone ConversionStatus = iota
	StatusFailed
	StatusAnalysed
	StatusSkipped
)

// String возвращает название статуса
func (s ConversionStatus) String() string {
	switch s {
	case StatusDone:
		return "Готово"
	case StatusFailed:
		return "Ошибка"
	case StatusAnalysed:
		return "Анализ"
	case StatusSkipped:
		return "Пропущен"
	default:
		return "Неизвестно"
	}
}

// ConversionReport итоговый отчет по одному документу.
// После построения не изменяется.
type ConversionReport struct {
	Input          string
	Output         string
	Status         ConversionStatus
	DPI            int
	TotalPages     int
	SucceededPages int
	Failures       []PageFailure
	OriginalSize   int64
	OutputSize     int64
	Estimate       *SizeEstimate // заполняется только в режиме анализа
	Elapsed        time.Duration
	Err            error // фатальная ошибка документа (например, сборка архива)
}

// FailedPages возвращает число неудачных страниц
func (r *ConversionReport) FailedPages() int {
	return len(r.Failures)
}

// Ratio возвращает отношение размера архива к размеру исходного PDF в процентах
func (r *ConversionReport) Ratio() float64 {
	if r.OriginalSize <= 0 {
		return 0
	}
	return float64(r.OutputSize) / float64(r.OriginalSize) * 100
}

// ArchiveResult результат сборки CBZ архива
type ArchiveResult struct {
	Path    string
	Size    int64
	Entries int
}

// BatchReport агрегированный отчет пакетной обработки:
// упорядоченный список отчетов по документам и счетчики.
type BatchReport struct {
	Reports    []*ConversionReport
	TotalFiles int
	Succeeded  int
	Failed     int
	Skipped    int
}

// Add добавляет отчет документа и обновляет счетчики
func (b *BatchReport) Add(report *ConversionReport) {
	b.Reports = append(b.Reports, report)
	b.TotalFiles++
	switch report.Status {
	case StatusDone:
		b.Succeeded++
	case StatusSkipped:
		b.Skipped++
	default:
		b.Failed++
	}
}

// FormatSize форматирует размер в байтах в человекочитаемую строку
func FormatSize(sizeBytes int64) string {
	size := float64(sizeBytes)
	for _, unit := range []string{"B", "KB", "MB", "GB", "TB"} {
		if size < 1024.0 {
			return fmt.Sprintf("%.2f %s", size, unit)
		}
		size /= 1024.0
	}
	return fmt.Sprintf("%.2f PB", size)
}
