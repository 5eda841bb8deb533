package usecases

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"pdf2cbz/internal/domain/entities"
	"pdf2cbz/internal/domain/repositories"
)

// ConvertPDFUseCase сценарий конвертации одного PDF документа в CBZ.
// Проходит состояния: валидация → разрешение DPI → рендеринг → сборка.
type ConvertPDFUseCase struct {
	reader    repositories.DocumentReader
	scheduler *RenderPagesUseCase
	archiver  repositories.Archiver
	fileRepo  repositories.FileRepository
	logger    repositories.Logger
}

// NewConvertPDFUseCase создает новый сценарий конвертации PDF
func NewConvertPDFUseCase(
	reader repositories.DocumentReader,
	scheduler *RenderPagesUseCase,
	archiver repositories.Archiver,
	fileRepo repositories.FileRepository,
	logger repositories.Logger,
) *ConvertPDFUseCase {
	return &ConvertPDFUseCase{
		reader:    reader,
		scheduler: scheduler,
		archiver:  archiver,
		fileRepo:  fileRepo,
		logger:    logger,
	}
}

// Analyse выполняет анализ документа: разрешает DPI и оценивает размер
// результата, не рендеря ни одной страницы и ничего не записывая
func (uc *ConvertPDFUseCase) Analyse(inputPath string, req *entities.ConversionRequest) (*entities.ConversionReport, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()

	doc, err := uc.reader.ReadDocument(inputPath)
	if err != nil {
		return nil, err
	}

	dpi, err := entities.PlanDPI(doc, req)
	if err != nil {
		return nil, err
	}

	estimate, err := entities.EstimateSize(doc, dpi, req)
	if err != nil {
		return nil, err
	}

	return &entities.ConversionReport{
		Input:        inputPath,
		Status:       entities.StatusAnalysed,
		DPI:          dpi,
		TotalPages:   doc.Pages,
		OriginalSize: doc.Size,
		Estimate:     estimate,
		Elapsed:      time.Since(start),
	}, nil
}

// Execute выполняет полную конвертацию документа. Ошибки отдельных
// страниц и сборки архива возвращаются в отчете со статусом Failed;
// ошибка (второе значение) означает, что конвертация не начиналась.
func (uc *ConvertPDFUseCase) Execute(ctx context.Context, inputPath string, req *entities.ConversionRequest) (*entities.ConversionReport, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()

	// Валидация входного документа
	doc, err := uc.reader.ReadDocument(inputPath)
	if err != nil {
		return nil, err
	}

	outputPath := uc.outputPathFor(doc, req)
	if !req.Force && uc.fileRepo.FileExists(outputPath) {
		uc.logWarning("⚠️  Файл уже существует: %s (используйте --force для перезаписи)", outputPath)
		skipped := &entities.ConversionReport{
			Input:        inputPath,
			Output:       outputPath,
			Status:       entities.StatusSkipped,
			TotalPages:   doc.Pages,
			OriginalSize: doc.Size,
			Elapsed:      time.Since(start),
		}
		// Отчет пропуска сообщает размер уже существующего архива
		if size, sizeErr := uc.fileRepo.FileSize(outputPath); sizeErr == nil {
			skipped.OutputSize = size
		}
		return skipped, nil
	}

	// Разрешение DPI
	dpi, err := entities.PlanDPI(doc, req)
	if err != nil {
		return nil, err
	}

	uc.logInfo("Конвертация '%s' (%d страниц) с DPI=%d...", filepath.Base(inputPath), doc.Pages, dpi)

	// Рендеринг: рабочая директория приватна для документа и удаляется
	// на любом пути выхода, если не запрошено сохранение
	workDir, err := os.MkdirTemp(req.TempDir, doc.Stem()+"_pages_")
	if err != nil {
		return nil, fmt.Errorf("ошибка создания временной директории: %w", err)
	}
	if !req.KeepTemp {
		defer func() {
			if rmErr := os.RemoveAll(workDir); rmErr != nil {
				uc.logWarning("Не удалось удалить временную директорию %s: %v", workDir, rmErr)
			} else {
				uc.logDebug("🧹 Временная директория удалена: %s", workDir)
			}
		}()
	}

	results := uc.scheduler.Execute(ctx, doc, req, dpi, workDir)

	report := &entities.ConversionReport{
		Input:        inputPath,
		Output:       outputPath,
		DPI:          dpi,
		TotalPages:   doc.Pages,
		OriginalSize: doc.Size,
	}

	imagePaths := make([]string, 0, doc.Pages)
	for i := range results {
		if results[i].OK() {
			report.SucceededPages++
			imagePaths = append(imagePaths, results[i].ImagePath)
			continue
		}
		report.Failures = append(report.Failures, entities.PageFailure{
			Page:  results[i].Page,
			Cause: results[i].Err,
		})
	}

	// Сборка: архив создается только при полном наборе страниц
	if len(report.Failures) > 0 {
		report.Status = entities.StatusFailed
		report.Elapsed = time.Since(start)
		uc.logError("✗ Конвертация '%s' не удалась: %d из %d страниц с ошибками", filepath.Base(inputPath), report.FailedPages(), report.TotalPages)
		return report, nil
	}

	comment := req.Comment
	if comment == "" && req.PreserveMetadata {
		comment = fmt.Sprintf("%s | %d страниц | исходный PDF %s", doc.Stem(), doc.Pages, entities.FormatSize(doc.Size))
	}

	if dir := filepath.Dir(outputPath); dir != "." {
		if err := uc.fileRepo.CreateDirectory(dir); err != nil {
			report.Status = entities.StatusFailed
			report.Err = &entities.AssemblyError{Err: fmt.Errorf("ошибка создания выходной директории: %w", err)}
			report.Elapsed = time.Since(start)
			uc.logError("✗ Сборка архива '%s' не удалась: %v", outputPath, report.Err)
			return report, nil
		}
	}

	archiveResult, err := uc.archiver.Assemble(imagePaths, outputPath, comment, req.CompressionLevel)
	if err != nil {
		report.Status = entities.StatusFailed
		report.Err = err
		report.Elapsed = time.Since(start)
		uc.logError("✗ Сборка архива '%s' не удалась: %v", outputPath, err)
		return report, nil
	}

	report.Status = entities.StatusDone
	report.OutputSize = archiveResult.Size
	report.Elapsed = time.Since(start)

	uc.logSuccess("✅ CBZ сохранен: %s", outputPath)
	uc.logInfo("📦 Размер: %s (PDF: %s, соотношение: %.1f%%)",
		entities.FormatSize(report.OutputSize),
		entities.FormatSize(report.OriginalSize),
		report.Ratio())
	uc.logInfo("⏱️ Готово за %s", report.Elapsed.Round(time.Second))

	return report, nil
}

// outputPathFor определяет путь выходного архива:
// явный путь из запроса либо <имя входного>.cbz в выходной директории
func (uc *ConvertPDFUseCase) outputPathFor(doc *entities.Document, req *entities.ConversionRequest) string {
	if req.OutputPath != "" {
		return req.OutputPath
	}
	dir := req.OutputDir
	if dir == "" {
		dir = filepath.Dir(doc.Path)
	}
	return filepath.Join(dir, doc.Stem()+".cbz")
}

// Методы для логирования
func (uc *ConvertPDFUseCase) logDebug(format string, args ...interface{}) {
	if uc.logger != nil {
		uc.logger.Debug(format, args...)
	}
}

func (uc *ConvertPDFUseCase) logInfo(format string, args ...interface{}) {
	if uc.logger != nil {
		uc.logger.Info(format, args...)
	}
}

func (uc *ConvertPDFUseCase) logSuccess(format string, args ...interface{}) {
	if uc.logger != nil {
		uc.logger.Success(format, args...)
	}
}

func (uc *ConvertPDFUseCase) logWarning(format string, args ...interface{}) {
	if uc.logger != nil {
		uc.logger.Warning(format, args...)
	}
}

func (uc *ConvertPDFUseCase) logError(format string, args ...interface{}) {
	if uc.logger != nil {
		uc.logger.Error(format, args...)
	}
}
