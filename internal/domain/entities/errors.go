package entities

import (
	"errors"
	"fmt"
)

// Доменные ошибки
var (
	ErrInvalidInput       = errors.New("входной файл не является корректным PDF")
	ErrEmptyDocument      = errors.New("PDF не содержит ни одной страницы")
	ErrInvalidGeometry    = errors.New("страница имеет нулевые или отрицательные размеры")
	ErrInvalidFormat      = errors.New("формат изображения должен быть jpeg или png")
	ErrInvalidQuality     = errors.New("качество JPEG должно быть от 1 до 100")
	ErrInvalidDPI         = errors.New("DPI должен быть от 72 до 1200")
	ErrInvalidCompression = errors.New("уровень сжатия ZIP должен быть от 0 до 9")
	ErrInvalidThreads     = errors.New("число потоков не может быть отрицательным")
	ErrFileNotFound       = errors.New("файл не найден")
	ErrDirectoryNotFound  = errors.New("директория не найдена")
	ErrNoFilesFound       = errors.New("PDF файлы не найдены")
)

// RenderError ошибка рендеринга одной страницы.
// Записывается в результат страницы и не прерывает обработку соседних страниц.
type RenderError struct {
	Page int // индекс страницы, начиная с нуля
	Err  error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("ошибка рендеринга страницы %d: %v", e.Page+1, e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

// AssemblyError ошибка сборки архива. Фатальна для документа.
type AssemblyError struct {
	Entry string // исходный файл страницы, если применимо
	Err   error
}

func (e *AssemblyError) Error() string {
	if e.Entry != "" {
		return fmt.Sprintf("ошибка сборки архива (%s): %v", e.Entry, e.Err)
	}
	return fmt.Sprintf("ошибка сборки архива: %v", e.Err)
}

func (e *AssemblyError) Unwrap() error {
	return e.Err
}
