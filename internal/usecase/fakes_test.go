package usecases_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"pdf2cbz/internal/domain/entities"
)

// fakeRenderer пишет файлы-заглушки вместо реального рендеринга и
// позволяет имитировать ошибки отдельных страниц
type fakeRenderer struct {
	mu        sync.Mutex
	rendered  []int
	failPages map[int]error
}

func (r *fakeRenderer) RenderPage(ctx context.Context, doc *entities.Document, pageIndex, dpi int, req *entities.ConversionRequest, workDir string) (string, error) {
	r.mu.Lock()
	r.rendered = append(r.rendered, pageIndex)
	r.mu.Unlock()

	if err, ok := r.failPages[pageIndex]; ok {
		return "", err
	}

	path := filepath.Join(workDir, fmt.Sprintf("r_%04d.%s", pageIndex+1, req.Format.Ext()))
	if err := os.WriteFile(path, []byte("image data"), 0644); err != nil {
		return "", err
	}
	return path, nil
}

func (r *fakeRenderer) renderedPages() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int(nil), r.rendered...)
}

type fakeReader struct {
	mu    sync.Mutex
	docs  map[string]*entities.Document
	errs  map[string]error
	reads []string
}

func (r *fakeReader) ReadDocument(path string) (*entities.Document, error) {
	r.mu.Lock()
	r.reads = append(r.reads, path)
	r.mu.Unlock()

	if err, ok := r.errs[path]; ok {
		return nil, err
	}
	doc, ok := r.docs[path]
	if !ok {
		return nil, entities.ErrFileNotFound
	}
	return doc, nil
}

func (r *fakeReader) readPaths() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.reads...)
}

type fakeArchiver struct {
	imagePaths []string
	outputPath string
	comment    string
	level      int
	calls      int
	err        error
}

func (a *fakeArchiver) Assemble(imagePaths []string, outputPath, comment string, compressionLevel int) (*entities.ArchiveResult, error) {
	a.calls++
	a.imagePaths = append([]string(nil), imagePaths...)
	a.outputPath = outputPath
	a.comment = comment
	a.level = compressionLevel
	if a.err != nil {
		return nil, a.err
	}
	return &entities.ArchiveResult{
		Path:    outputPath,
		Size:    4096,
		Entries: len(imagePaths),
	}, nil
}

type fakeFileRepo struct {
	existing    map[string]bool
	sizes       map[string]int64
	files       []string
	listErr     error
	createdDirs []string
}

func (f *fakeFileRepo) FileExists(path string) bool {
	return f.existing[path]
}

func (f *fakeFileRepo) CreateDirectory(path string) error {
	f.createdDirs = append(f.createdDirs, path)
	return nil
}

func (f *fakeFileRepo) ListPDFFiles(dirPath string) ([]string, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.files, nil
}

func (f *fakeFileRepo) FileSize(path string) (int64, error) {
	if size, ok := f.sizes[path]; ok {
		return size, nil
	}
	return 0, os.ErrNotExist
}

// testDocument документ с заданным числом страниц формата A4
func testDocument(path string, pages int) *entities.Document {
	doc := &entities.Document{
		Path:  path,
		Size:  2 << 20,
		Pages: pages,
	}
	for i := 0; i < pages; i++ {
		doc.PageSizes = append(doc.PageSizes, entities.PageSize{WidthPt: 595.276, HeightPt: 841.89})
	}
	return doc
}

// testRequest валидный запрос конвертации с временной директорией теста
func testRequest(tempDir string) *entities.ConversionRequest {
	return &entities.ConversionRequest{
		Format:           entities.FormatJPEG,
		Quality:          entities.DefaultQuality,
		CompressionLevel: entities.DefaultCompressionLevel,
		TempDir:          tempDir,
	}
}
