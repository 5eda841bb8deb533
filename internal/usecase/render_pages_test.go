package usecases_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pdf2cbz/internal/domain/entities"
	usecases "pdf2cbz/internal/usecase"
)

func TestRenderPages_EveryPageRenderedOnce(t *testing.T) {
	renderer := &fakeRenderer{}
	uc := usecases.NewRenderPagesUseCase(renderer, nil)

	doc := testDocument("/books/vol1.pdf", 8)
	req := testRequest(t.TempDir())
	req.Threads = 3

	results := uc.Execute(context.Background(), doc, req, 200, t.TempDir())
	require.Len(t, results, 8)

	rendered := renderer.renderedPages()
	sort.Ints(rendered)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7}, rendered, "каждая страница берется ровно один раз")

	for i, result := range results {
		assert.Equal(t, i, result.Page, "результаты индексированы номером страницы")
		assert.True(t, result.OK(), "страница %d должна быть успешной", i)
		assert.NotEmpty(t, result.ImagePath)
		assert.Positive(t, result.Size)
	}
}

// delayedFirstPageRenderer задерживает страницу 0 до завершения страницы 1,
// принудительно обращая порядок завершения относительно порядка страниц
type delayedFirstPageRenderer struct {
	pageOneDone chan struct{}
}

func (r *delayedFirstPageRenderer) RenderPage(ctx context.Context, doc *entities.Document, pageIndex, dpi int, req *entities.ConversionRequest, workDir string) (string, error) {
	if pageIndex == 0 {
		<-r.pageOneDone
	}

	path := filepath.Join(workDir, fmt.Sprintf("r_%04d.%s", pageIndex+1, req.Format.Ext()))
	if err := os.WriteFile(path, []byte("image data"), 0644); err != nil {
		return "", err
	}

	if pageIndex == 1 {
		close(r.pageOneDone)
	}
	return path, nil
}

func TestRenderPages_OrderIndependentOfCompletionOrder(t *testing.T) {
	renderer := &delayedFirstPageRenderer{pageOneDone: make(chan struct{})}
	uc := usecases.NewRenderPagesUseCase(renderer, nil)

	doc := testDocument("/books/vol1.pdf", 2)
	req := testRequest(t.TempDir())
	req.Threads = 2

	results := uc.Execute(context.Background(), doc, req, 200, t.TempDir())
	require.Len(t, results, 2)

	// Страница 1 завершилась раньше страницы 0, но результаты
	// остаются в порядке страниц
	for i, result := range results {
		require.True(t, result.OK(), "страница %d должна быть успешной", i)
		assert.Equal(t, i, result.Page)
	}
	assert.Equal(t, "r_0001.jpg", filepath.Base(results[0].ImagePath))
	assert.Equal(t, "r_0002.jpg", filepath.Base(results[1].ImagePath))
}

func TestRenderPages_WorkersClampedToPageCount(t *testing.T) {
	renderer := &fakeRenderer{}
	uc := usecases.NewRenderPagesUseCase(renderer, nil)

	doc := testDocument("/books/short.pdf", 2)
	req := testRequest(t.TempDir())
	req.Threads = 16

	results := uc.Execute(context.Background(), doc, req, 200, t.TempDir())
	require.Len(t, results, 2)
	assert.Len(t, renderer.renderedPages(), 2)
}

func TestRenderPages_FailureDoesNotStopOthers(t *testing.T) {
	cause := errors.New("pdftocairo exited with status 1")
	renderer := &fakeRenderer{failPages: map[int]error{2: cause}}
	uc := usecases.NewRenderPagesUseCase(renderer, nil)

	doc := testDocument("/books/vol1.pdf", 5)
	results := uc.Execute(context.Background(), doc, testRequest(t.TempDir()), 200, t.TempDir())
	require.Len(t, results, 5)

	for i, result := range results {
		if i == 2 {
			assert.False(t, result.OK())
			var renderErr *entities.RenderError
			require.ErrorAs(t, result.Err, &renderErr)
			assert.Equal(t, 2, renderErr.Page)
			assert.ErrorIs(t, result.Err, cause)
			continue
		}
		assert.True(t, result.OK(), "страница %d не должна зависеть от ошибки страницы 2", i)
	}
}

func TestRenderPages_CancelledBeforeStart(t *testing.T) {
	renderer := &fakeRenderer{}
	uc := usecases.NewRenderPagesUseCase(renderer, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	doc := testDocument("/books/vol1.pdf", 4)
	results := uc.Execute(ctx, doc, testRequest(t.TempDir()), 200, t.TempDir())
	require.Len(t, results, 4)

	assert.Empty(t, renderer.renderedPages(), "после отмены новые страницы не берутся")
	for _, result := range results {
		assert.False(t, result.OK())
		require.Error(t, result.Err)
		assert.ErrorIs(t, result.Err, context.Canceled)
	}
}

func TestRenderPages_ProgressReachesTotal(t *testing.T) {
	renderer := &fakeRenderer{}
	uc := usecases.NewRenderPagesUseCase(renderer, nil)

	var maxDone, lastTotal atomic.Int64
	uc.SetProgressReporter(func(completed, total int) {
		lastTotal.Store(int64(total))
		for {
			current := maxDone.Load()
			if int64(completed) <= current || maxDone.CompareAndSwap(current, int64(completed)) {
				return
			}
		}
	})

	doc := testDocument("/books/vol1.pdf", 6)
	uc.Execute(context.Background(), doc, testRequest(t.TempDir()), 200, t.TempDir())

	assert.Equal(t, int64(6), lastTotal.Load())
	assert.Equal(t, int64(6), maxDone.Load(), "после завершения прогресс равен числу страниц")
}
