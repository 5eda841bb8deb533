package repositories

import (
	"context"

	"pdf2cbz/internal/domain/entities"
)

// PageRenderer интерфейс рендеринга одной страницы PDF в файл изображения.
// Возвращает путь к созданному файлу внутри workDir; удаление файла
// принадлежит вызывающей стороне.
type PageRenderer interface {
	RenderPage(ctx context.Context, doc *entities.Document, pageIndex, dpi int, req *entities.ConversionRequest, workDir string) (string, error)
}

// DocumentReader интерфейс чтения структуры PDF документа
type DocumentReader interface {
	ReadDocument(path string) (*entities.Document, error)
}

// Archiver интерфейс сборки CBZ архива из упорядоченного набора изображений
type Archiver interface {
	Assemble(imagePaths []string, outputPath, comment string, compressionLevel int) (*entities.ArchiveResult, error)
}

// FileRepository интерфейс для работы с файловой системой
type FileRepository interface {
	FileExists(path string) bool
	CreateDirectory(path string) error
	ListPDFFiles(directory string) ([]string, error)
	FileSize(path string) (int64, error)
}
