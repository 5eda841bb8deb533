package usecases

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"sync/atomic"

	"pdf2cbz/internal/domain/entities"
	"pdf2cbz/internal/domain/repositories"
)

// RenderPagesUseCase распределяет рендеринг страниц по ограниченному
// пулу воркеров и собирает результаты в порядке страниц
type RenderPagesUseCase struct {
	renderer         repositories.PageRenderer
	logger           repositories.Logger
	progressReporter func(completed, total int)
}

// NewRenderPagesUseCase создает новый планировщик рендеринга страниц
func NewRenderPagesUseCase(renderer repositories.PageRenderer, logger repositories.Logger) *RenderPagesUseCase {
	return &RenderPagesUseCase{
		renderer: renderer,
		logger:   logger,
	}
}

// SetProgressReporter устанавливает функцию для отчета о прогрессе по страницам
func (uc *RenderPagesUseCase) SetProgressReporter(reporter func(completed, total int)) {
	uc.progressReporter = reporter
}

// Execute рендерит все страницы документа и возвращает результаты,
// проиндексированные номером страницы независимо от порядка завершения.
// Ошибки отдельных страниц записываются в результаты и не прерывают
// рендеринг остальных.
func (uc *RenderPagesUseCase) Execute(ctx context.Context, doc *entities.Document, req *entities.ConversionRequest, dpi int, workDir string) []entities.PageResult {
	results := make([]entities.PageResult, doc.Pages)
	for i := range results {
		results[i].Page = i
	}

	workers := req.Threads
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	// Лишних воркеров не создаем
	if workers > doc.Pages {
		workers = doc.Pages
	}

	// Общий счетчик незанятых страниц: fetch-and-increment гарантирует,
	// что одна страница не достанется двум воркерам
	var next int64
	var completed int64
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				// Кооперативная отмена: новые страницы не берем,
				// уже начатые дорабатывают естественным образом
				if ctx.Err() != nil {
					return
				}

				idx := int(atomic.AddInt64(&next, 1)) - 1
				if idx >= doc.Pages {
					return
				}

				results[idx].Attempted = true
				path, err := uc.renderer.RenderPage(ctx, doc, idx, dpi, req, workDir)
				if err != nil {
					results[idx].Err = &entities.RenderError{Page: idx, Err: err}
					if uc.logger != nil {
						uc.logger.Error("✗ Страница %d из '%s': %v", idx+1, filepath.Base(doc.Path), err)
					}
					uc.reportProgress(&completed, doc.Pages)
					continue
				}

				info, statErr := os.Stat(path)
				if statErr != nil {
					results[idx].Err = &entities.RenderError{Page: idx, Err: statErr}
					uc.reportProgress(&completed, doc.Pages)
					continue
				}

				results[idx].ImagePath = path
				results[idx].Size = info.Size()
				uc.reportProgress(&completed, doc.Pages)
			}
		}()
	}

	wg.Wait()

	// Страницы, не начатые из-за отмены, помечаются причиной отмены
	if err := ctx.Err(); err != nil {
		for i := range results {
			if !results[i].Attempted {
				results[i].Err = &entities.RenderError{Page: i, Err: err}
			}
		}
	}

	return results
}

// reportProgress отправляет обновление прогресса по страницам
func (uc *RenderPagesUseCase) reportProgress(completed *int64, total int) {
	done := atomic.AddInt64(completed, 1)
	if uc.progressReporter != nil {
		uc.progressReporter(int(done), total)
	}
}
