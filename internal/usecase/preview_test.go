package usecases_test

import (
	"context"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pdf2cbz/internal/domain/entities"
	usecases "pdf2cbz/internal/usecase"
)

// imageRenderer пишет настоящие PNG изображения заданного размера
type imageRenderer struct {
	width  int
	height int
	err    error
	dpi    int
}

func (r *imageRenderer) RenderPage(ctx context.Context, doc *entities.Document, pageIndex, dpi int, req *entities.ConversionRequest, workDir string) (string, error) {
	r.dpi = dpi
	if r.err != nil {
		return "", r.err
	}

	path := filepath.Join(workDir, "preview.png")
	file, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	img := image.NewRGBA(image.Rect(0, 0, r.width, r.height))
	if err := png.Encode(file, img); err != nil {
		return "", err
	}
	return path, nil
}

func TestRenderPreview_FitsWithinBounds(t *testing.T) {
	renderer := &imageRenderer{width: 800, height: 1200}
	uc := usecases.NewRenderPreviewUseCase(renderer, nil)

	doc := testDocument("/books/vol1.pdf", 3)
	req := testRequest(t.TempDir())
	req.Format = entities.FormatPNG

	img, err := uc.Execute(context.Background(), doc, req, 1, 200, 300)
	require.NoError(t, err)
	require.NotNil(t, img)

	bounds := img.Bounds()
	assert.LessOrEqual(t, bounds.Dx(), 200)
	assert.LessOrEqual(t, bounds.Dy(), 300)
	assert.Equal(t, usecases.PreviewDPI, renderer.dpi, "предпросмотр рендерится при пониженном DPI")
}

func TestRenderPreview_SmallImageNotUpscaled(t *testing.T) {
	renderer := &imageRenderer{width: 100, height: 150}
	uc := usecases.NewRenderPreviewUseCase(renderer, nil)

	doc := testDocument("/books/vol1.pdf", 1)
	req := testRequest(t.TempDir())
	req.Format = entities.FormatPNG

	img, err := uc.Execute(context.Background(), doc, req, 0, 400, 600)
	require.NoError(t, err)

	bounds := img.Bounds()
	assert.Equal(t, 100, bounds.Dx())
	assert.Equal(t, 150, bounds.Dy())
}

func TestRenderPreview_PageOutOfRange(t *testing.T) {
	uc := usecases.NewRenderPreviewUseCase(&imageRenderer{width: 10, height: 10}, nil)
	doc := testDocument("/books/vol1.pdf", 2)

	_, err := uc.Execute(context.Background(), doc, testRequest(t.TempDir()), 5, 200, 300)
	assert.Error(t, err)
}

func TestRenderPreview_RenderError(t *testing.T) {
	cause := errors.New("render failed")
	uc := usecases.NewRenderPreviewUseCase(&imageRenderer{err: cause}, nil)
	doc := testDocument("/books/vol1.pdf", 2)

	req := testRequest(t.TempDir())
	req.Format = entities.FormatPNG

	_, err := uc.Execute(context.Background(), doc, req, 0, 200, 300)
	var renderErr *entities.RenderError
	require.ErrorAs(t, err, &renderErr)
	assert.ErrorIs(t, err, cause)
}
