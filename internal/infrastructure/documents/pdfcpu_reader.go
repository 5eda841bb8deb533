package documents

import (
	"fmt"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"pdf2cbz/internal/domain/entities"
)

// PDFCPUReader читает структуру PDF документа средствами pdfcpu
type PDFCPUReader struct{}

// NewPDFCPUReader создает новый pdfcpu-читатель документов
func NewPDFCPUReader() *PDFCPUReader {
	return &PDFCPUReader{}
}

// ReadDocument валидирует PDF и возвращает его структуру:
// размер файла, число страниц и геометрию каждой страницы в пунктах
func (r *PDFCPUReader) ReadDocument(path string) (*entities.Document, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", entities.ErrFileNotFound, path)
	}

	if err := api.ValidateFile(path, nil); err != nil {
		return nil, fmt.Errorf("%w: %v", entities.ErrInvalidInput, err)
	}

	dims, err := api.PageDimsFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entities.ErrInvalidInput, err)
	}
	if len(dims) == 0 {
		return nil, fmt.Errorf("%w: %s", entities.ErrEmptyDocument, path)
	}

	pageSizes := make([]entities.PageSize, len(dims))
	for i, dim := range dims {
		pageSizes[i] = entities.PageSize{
			WidthPt:  dim.Width,
			HeightPt: dim.Height,
		}
	}

	return &entities.Document{
		Path:      path,
		Size:      info.Size(),
		Pages:     len(dims),
		PageSizes: pageSizes,
	}, nil
}
