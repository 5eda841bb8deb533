package usecases

import (
	"context"
	"path/filepath"

	"pdf2cbz/internal/domain/entities"
	"pdf2cbz/internal/domain/repositories"
)

// ConvertDirectoryUseCase сценарий пакетной конвертации всех PDF файлов
// в директории. Каждый документ — независимая единица отказа: ошибка
// одного документа не прерывает обработку остальных.
type ConvertDirectoryUseCase struct {
	convert          *ConvertPDFUseCase
	fileRepo         repositories.FileRepository
	logger           repositories.Logger
	progressReporter func(entities.ProcessingStatus)
}

// NewConvertDirectoryUseCase создает новый сценарий пакетной конвертации
func NewConvertDirectoryUseCase(
	convert *ConvertPDFUseCase,
	fileRepo repositories.FileRepository,
	logger repositories.Logger,
) *ConvertDirectoryUseCase {
	return &ConvertDirectoryUseCase{
		convert:  convert,
		fileRepo: fileRepo,
		logger:   logger,
	}
}

// SetProgressReporter устанавливает функцию для отчета о прогрессе
func (uc *ConvertDirectoryUseCase) SetProgressReporter(reporter func(entities.ProcessingStatus)) {
	uc.progressReporter = reporter
}

// reportProgress отправляет обновление прогресса
func (uc *ConvertDirectoryUseCase) reportProgress(status *entities.ProcessingStatus) {
	if uc.progressReporter != nil {
		uc.progressReporter(*status)
	}
}

// Execute конвертирует все PDF файлы директории по одному.
// Отмена контекста проверяется между документами: начатый документ
// дорабатывает, следующие не начинаются.
func (uc *ConvertDirectoryUseCase) Execute(ctx context.Context, inputDir string, req *entities.ConversionRequest) (*entities.BatchReport, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if !uc.fileRepo.FileExists(inputDir) {
		return nil, entities.ErrDirectoryNotFound
	}

	status := entities.NewProcessingStatus(0)
	status.SetPhase(entities.PhaseScanning, "Сканирование PDF файлов...")
	uc.reportProgress(status)

	files, err := uc.fileRepo.ListPDFFiles(inputDir)
	if err != nil {
		status.Fail(err)
		uc.reportProgress(status)
		return nil, err
	}
	if len(files) == 0 {
		return nil, entities.ErrNoFilesFound
	}

	status.TotalFiles = len(files)

	uc.logInfo("╔════════════════════════════════════════════════════════════")
	uc.logInfo("║ Начало конвертации PDF → CBZ")
	uc.logInfo("╠════════════════════════════════════════════════════════════")
	uc.logInfo("║ Исходная директория: %s", inputDir)
	uc.logInfo("║ Формат изображений: %s", req.Format)
	uc.logInfo("║ Файлов к обработке: %d", len(files))
	uc.logInfo("╚════════════════════════════════════════════════════════════")

	status.SetPhase(entities.PhaseConverting, "Конвертация PDF файлов...")
	uc.reportProgress(status)

	batch := &entities.BatchReport{}

	for i, file := range files {
		// Документы после отмены не начинаются
		if ctx.Err() != nil {
			uc.logWarning("⚠️  Обработка прервана: %v", ctx.Err())
			break
		}

		status.SetCurrentFile(file, 0)
		uc.reportProgress(status)

		// В пакетном режиме имя архива всегда выводится из входного файла
		fileReq := *req
		fileReq.OutputPath = ""

		report, err := uc.convert.Execute(ctx, file, &fileReq)
		if err != nil {
			// Ошибка одного документа не прерывает пакет
			report = &entities.ConversionReport{
				Input:  file,
				Status: entities.StatusFailed,
				Err:    err,
			}
			uc.logError("[%d/%d] ✗ %s", i+1, len(files), filepath.Base(file))
			uc.logError("    └─ Ошибка: %v", err)
		} else {
			switch report.Status {
			case entities.StatusDone:
				uc.logSuccess("[%d/%d] ✓ %s", i+1, len(files), filepath.Base(file))
			case entities.StatusSkipped:
				uc.logWarning("[%d/%d] ─ %s (пропущен)", i+1, len(files), filepath.Base(file))
			default:
				uc.logError("[%d/%d] ✗ %s (%d страниц с ошибками)", i+1, len(files), filepath.Base(file), report.FailedPages())
			}
		}

		batch.Add(report)
		status.AddReport(report)
		uc.reportProgress(status)
	}

	status.Complete()
	uc.reportProgress(status)

	uc.logInfo("")
	uc.logInfo("╔════════════════════════════════════════════════════════════")
	uc.logInfo("║ Обработка завершена")
	uc.logInfo("╠════════════════════════════════════════════════════════════")
	uc.logInfo("║ Время выполнения: %s", status.FormatElapsedTime())
	uc.logInfo("║ Всего файлов: %d", batch.TotalFiles)
	uc.logSuccess("║ Успешно: %d", batch.Succeeded)
	if batch.Failed > 0 {
		uc.logError("║ С ошибками: %d", batch.Failed)
	}
	if batch.Skipped > 0 {
		uc.logWarning("║ Пропущено: %d", batch.Skipped)
	}
	if status.TotalOriginalSize > 0 {
		uc.logInfo("║ Исходный объем: %s", entities.FormatSize(status.TotalOriginalSize))
		uc.logInfo("║ Объем архивов: %s", entities.FormatSize(status.TotalOutputSize))
	}
	uc.logInfo("╚════════════════════════════════════════════════════════════")

	return batch, nil
}

// Методы для логирования
func (uc *ConvertDirectoryUseCase) logInfo(format string, args ...interface{}) {
	if uc.logger != nil {
		uc.logger.Info(format, args...)
	}
}

func (uc *ConvertDirectoryUseCase) logSuccess(format string, args ...interface{}) {
	if uc.logger != nil {
		uc.logger.Success(format, args...)
	}
}

func (uc *ConvertDirectoryUseCase) logWarning(format string, args ...interface{}) {
	if uc.logger != nil {
		uc.logger.Warning(format, args...)
	}
}

func (uc *ConvertDirectoryUseCase) logError(format string, args ...interface{}) {
	if uc.logger != nil {
		uc.logger.Error(format, args...)
	}
}
