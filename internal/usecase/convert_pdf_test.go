package usecases_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pdf2cbz/internal/domain/entities"
	usecases "pdf2cbz/internal/usecase"
)

func newConvertFixture(doc *entities.Document) (*usecases.ConvertPDFUseCase, *fakeRenderer, *fakeArchiver, *fakeFileRepo) {
	renderer := &fakeRenderer{}
	archiver := &fakeArchiver{}
	fileRepo := &fakeFileRepo{existing: map[string]bool{}}
	reader := &fakeReader{docs: map[string]*entities.Document{doc.Path: doc}}
	scheduler := usecases.NewRenderPagesUseCase(renderer, nil)
	uc := usecases.NewConvertPDFUseCase(reader, scheduler, archiver, fileRepo, nil)
	return uc, renderer, archiver, fileRepo
}

func TestConvertPDF_Success(t *testing.T) {
	doc := testDocument("/books/vol1.pdf", 4)
	uc, renderer, archiver, _ := newConvertFixture(doc)

	req := testRequest(t.TempDir())
	req.OutputDir = "/out"
	req.Comment = "my collection"

	report, err := uc.Execute(context.Background(), doc.Path, req)
	require.NoError(t, err)
	require.NotNil(t, report)

	assert.Equal(t, entities.StatusDone, report.Status)
	assert.Equal(t, filepath.Join("/out", "vol1.cbz"), report.Output)
	assert.Equal(t, 4, report.TotalPages)
	assert.Equal(t, 4, report.SucceededPages)
	assert.Empty(t, report.Failures)
	assert.Equal(t, int64(4096), report.OutputSize)
	assert.Positive(t, report.DPI)

	assert.Len(t, renderer.renderedPages(), 4)
	assert.Equal(t, 1, archiver.calls)
	assert.Len(t, archiver.imagePaths, 4)
	assert.Equal(t, "my collection", archiver.comment)
	assert.Equal(t, entities.DefaultCompressionLevel, archiver.level)
}

func TestConvertPDF_CreatesOutputDirectory(t *testing.T) {
	doc := testDocument("/books/vol1.pdf", 1)
	uc, _, _, fileRepo := newConvertFixture(doc)

	req := testRequest(t.TempDir())
	req.OutputDir = "/out/comics"

	_, err := uc.Execute(context.Background(), doc.Path, req)
	require.NoError(t, err)
	assert.Contains(t, fileRepo.createdDirs, "/out/comics")
}

func TestConvertPDF_OutputNextToInputByDefault(t *testing.T) {
	doc := testDocument("/books/vol1.pdf", 1)
	uc, _, archiver, _ := newConvertFixture(doc)

	report, err := uc.Execute(context.Background(), doc.Path, testRequest(t.TempDir()))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/books", "vol1.cbz"), report.Output)
	assert.Equal(t, report.Output, archiver.outputPath)
}

func TestConvertPDF_ExplicitOutputPath(t *testing.T) {
	doc := testDocument("/books/vol1.pdf", 1)
	uc, _, archiver, _ := newConvertFixture(doc)

	req := testRequest(t.TempDir())
	req.OutputPath = "/archive/custom.cbz"

	report, err := uc.Execute(context.Background(), doc.Path, req)
	require.NoError(t, err)
	assert.Equal(t, "/archive/custom.cbz", report.Output)
	assert.Equal(t, "/archive/custom.cbz", archiver.outputPath)
}

func TestConvertPDF_PageFailureProducesNoArchive(t *testing.T) {
	doc := testDocument("/books/vol1.pdf", 5)
	uc, renderer, archiver, _ := newConvertFixture(doc)
	renderer.failPages = map[int]error{2: errors.New("render failed")}

	tempDir := t.TempDir()
	report, err := uc.Execute(context.Background(), doc.Path, testRequest(tempDir))
	require.NoError(t, err)

	assert.Equal(t, entities.StatusFailed, report.Status)
	assert.Equal(t, 4, report.SucceededPages)
	require.Len(t, report.Failures, 1)
	assert.Equal(t, 2, report.Failures[0].Page)
	assert.Equal(t, 0, archiver.calls, "частичный архив не создается")

	// Рабочая директория удаляется и при неудаче
	entries, readErr := os.ReadDir(tempDir)
	require.NoError(t, readErr)
	assert.Empty(t, entries)
}

func TestConvertPDF_KeepTempPreservesWorkDir(t *testing.T) {
	doc := testDocument("/books/vol1.pdf", 2)
	uc, _, _, _ := newConvertFixture(doc)

	tempDir := t.TempDir()
	req := testRequest(tempDir)
	req.KeepTemp = true

	_, err := uc.Execute(context.Background(), doc.Path, req)
	require.NoError(t, err)

	entries, readErr := os.ReadDir(tempDir)
	require.NoError(t, readErr)
	require.Len(t, entries, 1)

	images, readErr := os.ReadDir(filepath.Join(tempDir, entries[0].Name()))
	require.NoError(t, readErr)
	assert.Len(t, images, 2)
}

func TestConvertPDF_SkipsExistingWithoutForce(t *testing.T) {
	doc := testDocument("/books/vol1.pdf", 3)
	uc, renderer, archiver, fileRepo := newConvertFixture(doc)
	existingPath := filepath.Join("/books", "vol1.cbz")
	fileRepo.existing[existingPath] = true
	fileRepo.sizes = map[string]int64{existingPath: 12345}

	report, err := uc.Execute(context.Background(), doc.Path, testRequest(t.TempDir()))
	require.NoError(t, err)

	assert.Equal(t, entities.StatusSkipped, report.Status)
	assert.Empty(t, renderer.renderedPages(), "пропущенный документ не рендерится")
	assert.Equal(t, 0, archiver.calls)
	assert.Equal(t, int64(12345), report.OutputSize, "отчет сообщает размер существующего архива")
}

func TestConvertPDF_ForceOverwritesExisting(t *testing.T) {
	doc := testDocument("/books/vol1.pdf", 3)
	uc, _, archiver, fileRepo := newConvertFixture(doc)
	fileRepo.existing[filepath.Join("/books", "vol1.cbz")] = true

	req := testRequest(t.TempDir())
	req.Force = true

	report, err := uc.Execute(context.Background(), doc.Path, req)
	require.NoError(t, err)
	assert.Equal(t, entities.StatusDone, report.Status)
	assert.Equal(t, 1, archiver.calls)
}

func TestConvertPDF_AssemblyFailure(t *testing.T) {
	doc := testDocument("/books/vol1.pdf", 2)
	uc, _, archiver, _ := newConvertFixture(doc)
	archiver.err = &entities.AssemblyError{Entry: "page_0002.jpg", Err: errors.New("no such file")}

	report, err := uc.Execute(context.Background(), doc.Path, testRequest(t.TempDir()))
	require.NoError(t, err)

	assert.Equal(t, entities.StatusFailed, report.Status)
	require.Error(t, report.Err)
	var asmErr *entities.AssemblyError
	assert.ErrorAs(t, report.Err, &asmErr)
}

func TestConvertPDF_ProvenanceCommentWhenPreservingMetadata(t *testing.T) {
	doc := testDocument("/books/vol1.pdf", 2)
	uc, _, archiver, _ := newConvertFixture(doc)

	req := testRequest(t.TempDir())
	req.PreserveMetadata = true

	_, err := uc.Execute(context.Background(), doc.Path, req)
	require.NoError(t, err)
	assert.Contains(t, archiver.comment, "vol1")
	assert.Contains(t, archiver.comment, "2")
}

func TestConvertPDF_InvalidRequest(t *testing.T) {
	doc := testDocument("/books/vol1.pdf", 1)
	uc, renderer, _, _ := newConvertFixture(doc)

	req := testRequest(t.TempDir())
	req.Format = "webp"

	report, err := uc.Execute(context.Background(), doc.Path, req)
	assert.Nil(t, report)
	assert.ErrorIs(t, err, entities.ErrInvalidFormat)
	assert.Empty(t, renderer.renderedPages())
}

func TestConvertPDF_ReaderError(t *testing.T) {
	doc := testDocument("/books/vol1.pdf", 1)
	uc, _, _, _ := newConvertFixture(doc)

	report, err := uc.Execute(context.Background(), "/books/missing.pdf", testRequest(t.TempDir()))
	assert.Nil(t, report)
	assert.ErrorIs(t, err, entities.ErrFileNotFound)
}

func TestConvertPDF_AnalyseRendersNothing(t *testing.T) {
	doc := testDocument("/books/vol1.pdf", 10)
	uc, renderer, archiver, _ := newConvertFixture(doc)

	report, err := uc.Analyse(doc.Path, testRequest(t.TempDir()))
	require.NoError(t, err)

	assert.Equal(t, entities.StatusAnalysed, report.Status)
	assert.Equal(t, 10, report.TotalPages)
	assert.Positive(t, report.DPI)
	require.NotNil(t, report.Estimate)
	assert.Len(t, report.Estimate.PerPage, 10)
	assert.Positive(t, report.Estimate.Total)

	assert.Empty(t, renderer.renderedPages())
	assert.Equal(t, 0, archiver.calls)
}
