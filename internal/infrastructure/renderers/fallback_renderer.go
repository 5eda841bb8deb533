package renderers

import (
	"context"
	"fmt"

	"pdf2cbz/internal/domain/entities"
	"pdf2cbz/internal/domain/repositories"
)

// FallbackRenderer пробует основной рендерер и при его отказе один раз
// переключается на резервный. Оба реализуют один и тот же контракт.
type FallbackRenderer struct {
	primary   repositories.PageRenderer
	secondary repositories.PageRenderer
	enabled   bool
	logger    repositories.Logger
}

// NewFallbackRenderer создает рендерер с резервным путем
func NewFallbackRenderer(primary, secondary repositories.PageRenderer, fallbackEnabled bool, logger repositories.Logger) *FallbackRenderer {
	return &FallbackRenderer{
		primary:   primary,
		secondary: secondary,
		enabled:   fallbackEnabled,
		logger:    logger,
	}
}

// RenderPage рендерит страницу основным рендерером, при ошибке — резервным
func (f *FallbackRenderer) RenderPage(ctx context.Context, doc *entities.Document, pageIndex, dpi int, req *entities.ConversionRequest, workDir string) (string, error) {
	path, primaryErr := f.primary.RenderPage(ctx, doc, pageIndex, dpi, req, workDir)
	if primaryErr == nil {
		return path, nil
	}

	if !f.enabled || f.secondary == nil {
		return "", primaryErr
	}

	if f.logger != nil {
		f.logger.Debug("Основной растеризатор не справился со страницей %d: %v, переключаемся на резервный", pageIndex+1, primaryErr)
	}

	path, fallbackErr := f.secondary.RenderPage(ctx, doc, pageIndex, dpi, req, workDir)
	if fallbackErr != nil {
		return "", fmt.Errorf("основной растеризатор: %v; резервный: %w", primaryErr, fallbackErr)
	}
	return path, nil
}
