package usecases

import (
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"os"

	"github.com/nfnt/resize"

	"pdf2cbz/internal/domain/entities"
	"pdf2cbz/internal/domain/repositories"
)

// PreviewDPI разрешение, достаточное для экранного предпросмотра
const PreviewDPI = 96

// RenderPreviewUseCase сценарий рендеринга одной страницы для
// предпросмотра в слое представления
type RenderPreviewUseCase struct {
	renderer repositories.PageRenderer
	logger   repositories.Logger
}

// NewRenderPreviewUseCase создает новый сценарий предпросмотра
func NewRenderPreviewUseCase(renderer repositories.PageRenderer, logger repositories.Logger) *RenderPreviewUseCase {
	return &RenderPreviewUseCase{
		renderer: renderer,
		logger:   logger,
	}
}

// Execute рендерит страницу pageIndex при пониженном DPI и вписывает
// результат в рамку maxWidth x maxHeight с сохранением пропорций
func (uc *RenderPreviewUseCase) Execute(ctx context.Context, doc *entities.Document, req *entities.ConversionRequest, pageIndex int, maxWidth, maxHeight uint) (image.Image, error) {
	if pageIndex < 0 || pageIndex >= doc.Pages {
		return nil, fmt.Errorf("страница %d вне диапазона документа (%d страниц)", pageIndex+1, doc.Pages)
	}

	workDir, err := os.MkdirTemp("", "pdf2cbz_preview_")
	if err != nil {
		return nil, fmt.Errorf("ошибка создания временной директории: %w", err)
	}
	defer os.RemoveAll(workDir)

	path, err := uc.renderer.RenderPage(ctx, doc, pageIndex, PreviewDPI, req, workDir)
	if err != nil {
		return nil, &entities.RenderError{Page: pageIndex, Err: err}
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("ошибка открытия изображения предпросмотра: %w", err)
	}
	defer file.Close()

	var img image.Image
	switch req.Format {
	case entities.FormatJPEG:
		img, err = jpeg.Decode(file)
	default:
		img, err = png.Decode(file)
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка декодирования изображения предпросмотра: %w", err)
	}

	return resize.Thumbnail(maxWidth, maxHeight, img, resize.Lanczos3), nil
}
