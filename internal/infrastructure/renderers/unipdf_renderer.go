package renderers

import (
	"context"
	"fmt"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/unidoc/unipdf/v3/model"
	"github.com/unidoc/unipdf/v3/render"

	"pdf2cbz/internal/domain/entities"
)

// UniPDFRenderer резервный рендерер внутри процесса на базе UniPDF.
// Используется, когда pdftocairo недоступен или завершился с ошибкой.
type UniPDFRenderer struct {
	licenseKey string
}

// NewUniPDFRenderer создает новый UniPDF рендерер
func NewUniPDFRenderer(licenseKey string) *UniPDFRenderer {
	return &UniPDFRenderer{licenseKey: licenseKey}
}

// RenderPage декодирует документ, рендерит запрошенную страницу в память
// и кодирует ее в файл изображения внутри workDir
func (u *UniPDFRenderer) RenderPage(ctx context.Context, doc *entities.Document, pageIndex, dpi int, req *entities.ConversionRequest, workDir string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	// Проверяем лицензионный ключ из конфигурации или переменной окружения
	licenseKey := u.licenseKey
	if licenseKey == "" {
		licenseKey = os.Getenv("UNIDOC_LICENSE_API_KEY")
	}
	if licenseKey == "" {
		return "", fmt.Errorf("UniPDF требует лицензионный ключ: установите его в конфигурации или в переменной UNIDOC_LICENSE_API_KEY")
	}
	os.Setenv("UNIDOC_LICENSE_API_KEY", licenseKey)

	pdfReader, file, err := model.NewPdfReaderFromFile(doc.Path, nil)
	if err != nil {
		return "", fmt.Errorf("ошибка открытия файла: %w", err)
	}
	defer file.Close()

	page, err := pdfReader.GetPage(pageIndex + 1)
	if err != nil {
		return "", fmt.Errorf("ошибка получения страницы %d: %w", pageIndex+1, err)
	}

	device := render.NewImageDevice()
	if pageIndex < len(doc.PageSizes) {
		device.OutputWidth = int(doc.PageSizes[pageIndex].WidthInches() * float64(dpi))
	}

	img, err := device.Render(page)
	if err != nil {
		return "", fmt.Errorf("ошибка рендеринга страницы %d: %w", pageIndex+1, err)
	}

	outPath := filepath.Join(workDir, fmt.Sprintf("up_%s.%s", uuid.New().String(), req.Format.Ext()))
	outFile, err := os.Create(outPath)
	if err != nil {
		return "", fmt.Errorf("ошибка создания выходного файла: %w", err)
	}

	switch req.Format {
	case entities.FormatJPEG:
		err = jpeg.Encode(outFile, img, &jpeg.Options{Quality: req.Quality})
	default:
		encoder := &png.Encoder{CompressionLevel: png.BestCompression}
		err = encoder.Encode(outFile, img)
	}

	if closeErr := outFile.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(outPath)
		return "", fmt.Errorf("ошибка кодирования страницы %d: %w", pageIndex+1, err)
	}
	return outPath, nil
}
