package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"pdf2cbz/internal/domain/entities"
	"pdf2cbz/internal/domain/repositories"
	"pdf2cbz/internal/infrastructure/archive"
	"pdf2cbz/internal/infrastructure/config"
	"pdf2cbz/internal/infrastructure/documents"
	"pdf2cbz/internal/infrastructure/logging"
	"pdf2cbz/internal/infrastructure/renderers"
	infraRepos "pdf2cbz/internal/infrastructure/repositories"
	"pdf2cbz/internal/presentation/tui"
	usecases "pdf2cbz/internal/usecase"
)

// cliOptions значения флагов командной строки
type cliOptions struct {
	input      string
	output     string
	configPath string

	dpi         int
	format      string
	quality     int
	threads     int
	outputDir   string
	compression int
	comment     string
	tempDir     string

	keepTemp bool
	force    bool
	analyse  bool
	logfile  string
	verbose  bool
	tui      bool
}

// runConversion загружает конфигурацию, собирает зависимости и
// запускает одиночную или пакетную конвертацию
func runConversion(cmd *cobra.Command, opts *cliOptions) error {
	var configRepo repositories.AppConfigRepository = config.NewRepository()
	appConfig, err := configRepo.Load(opts.configPath)
	if err != nil {
		return fmt.Errorf("ошибка загрузки конфигурации: %w", err)
	}

	req := appConfig.Request()
	applyOverrides(cmd, opts, req)
	req.OutputPath = opts.output

	info, err := os.Stat(opts.input)
	if err != nil {
		return fmt.Errorf("%w: %s", entities.ErrFileNotFound, opts.input)
	}
	isBatch := info.IsDir()
	if isBatch && opts.output != "" {
		return errors.New("явное имя выходного файла допустимо только для одиночного PDF")
	}
	useTUI := opts.tui && isBatch && !opts.analyse

	// Базовый логгер: файл и/или консоль; в TUI режиме консольный
	// вывод отключается, чтобы не ломать экран
	logLevel := appConfig.Output.LogLevel
	if opts.verbose {
		logLevel = "debug"
	}
	logFileName := appConfig.Output.LogFileName
	logToFile := appConfig.Output.LogToFile
	if opts.logfile != "" {
		logFileName = opts.logfile
		logToFile = true
	}
	fileLogger, err := logging.NewFileLogger(logFileName, logLevel, logToFile, appConfig.Output.Console && !useTUI)
	if err != nil {
		return fmt.Errorf("ошибка инициализации логгера: %w", err)
	}

	var logger repositories.Logger
	if fileLogger != nil {
		logger = fileLogger
		defer fileLogger.Close()
	}

	var manager *tui.Manager
	if useTUI {
		manager = tui.NewManager()
		manager.Initialize()
		logger = tui.NewUILogger(logger, manager)
	}

	// Отмена по Ctrl+C: новые страницы и документы не начинаются,
	// начатые дорабатывают
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reader := documents.NewPDFCPUReader()
	primary := renderers.NewPdftocairoRenderer(appConfig.Rasterizer.PdftocairoPath)
	secondary := renderers.NewUniPDFRenderer(appConfig.Rasterizer.UniPDFLicenseKey)
	renderer := renderers.NewFallbackRenderer(primary, secondary, appConfig.Rasterizer.FallbackEnabled, logger)

	scheduler := usecases.NewRenderPagesUseCase(renderer, logger)
	fileRepo := infraRepos.NewFileSystemRepository()
	archiver := archive.NewCBZAssembler()
	convertUC := usecases.NewConvertPDFUseCase(reader, scheduler, archiver, fileRepo, logger)

	if opts.analyse {
		return runAnalysis(cmd.OutOrStdout(), convertUC, fileRepo, opts.input, req, isBatch)
	}

	if isBatch {
		batchUC := usecases.NewConvertDirectoryUseCase(convertUC, fileRepo, logger)
		if manager != nil {
			return runBatchTUI(ctx, manager, batchUC, opts.input, req)
		}
		batch, err := batchUC.Execute(ctx, opts.input, req)
		return summarizeBatch(batch, err)
	}

	if appConfig.Output.ProgressBar {
		out := cmd.OutOrStdout()
		scheduler.SetProgressReporter(func(done, total int) {
			fmt.Fprintf(out, "\rПрогресс: %d%% (%d/%d)", done*100/total, done, total)
			if done == total {
				fmt.Fprintln(out)
			}
		})
	}

	report, err := convertUC.Execute(ctx, opts.input, req)
	if err != nil {
		return err
	}
	if report.Status == entities.StatusFailed {
		if report.Err != nil {
			return report.Err
		}
		return fmt.Errorf("конвертация завершилась с ошибками: %d из %d страниц", report.FailedPages(), report.TotalPages)
	}
	return nil
}

// runBatchTUI выполняет пакетную конвертацию под управлением TUI
func runBatchTUI(ctx context.Context, manager *tui.Manager, batchUC *usecases.ConvertDirectoryUseCase, inputDir string, req *entities.ConversionRequest) error {
	batchCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	manager.SetOnCancel(cancel)

	batchUC.SetProgressReporter(func(status entities.ProcessingStatus) {
		manager.SendStatusUpdate(status)
	})

	var batch *entities.BatchReport
	var runErr error
	done := make(chan struct{})
	go func() {
		defer close(done)
		batch, runErr = batchUC.Execute(batchCtx, inputDir, req)
		manager.Stop()
	}()

	if err := manager.Run(); err != nil {
		cancel()
		<-done
		return err
	}
	<-done
	return summarizeBatch(batch, runErr)
}

// runAnalysis печатает отчеты анализа без рендеринга и записи
func runAnalysis(out io.Writer, convertUC *usecases.ConvertPDFUseCase, fileRepo repositories.FileRepository, input string, req *entities.ConversionRequest, isBatch bool) error {
	files := []string{input}
	if isBatch {
		var err error
		files, err = fileRepo.ListPDFFiles(input)
		if err != nil {
			return err
		}
		if len(files) == 0 {
			return entities.ErrNoFilesFound
		}
	}

	for _, file := range files {
		report, err := convertUC.Analyse(file, req)
		if err != nil {
			fmt.Fprintf(out, "%s: ошибка анализа: %v\n", filepath.Base(file), err)
			continue
		}
		printAnalysis(out, report)
	}
	return nil
}

// printAnalysis форматирует отчет анализа одного документа
func printAnalysis(out io.Writer, report *entities.ConversionReport) {
	estimate := report.Estimate
	fmt.Fprintf(out, "%s\n", filepath.Base(report.Input))
	fmt.Fprintf(out, "  Страниц: %d\n", report.TotalPages)
	fmt.Fprintf(out, "  Рекомендуемый DPI: %d\n", report.DPI)
	fmt.Fprintf(out, "  Размер исходного PDF: %s\n", entities.FormatSize(estimate.OriginalSize))
	if len(estimate.PerPage) > 0 {
		fmt.Fprintf(out, "  Оценка размера одной страницы: %s\n", entities.FormatSize(estimate.PerPage[0]))
	}
	fmt.Fprintf(out, "  Прогноз размера CBZ: %s (%d страниц)\n", entities.FormatSize(estimate.Total), report.TotalPages)
}

// applyOverrides накладывает явно заданные флаги поверх конфигурации
func applyOverrides(cmd *cobra.Command, opts *cliOptions, req *entities.ConversionRequest) {
	flags := cmd.Flags()
	if flags.Changed("dpi") {
		req.DPI = opts.dpi
	}
	if flags.Changed("format") {
		req.Format = entities.ImageFormat(opts.format)
	}
	if flags.Changed("quality") {
		req.Quality = opts.quality
	}
	if flags.Changed("threads") {
		req.Threads = opts.threads
	}
	if flags.Changed("output-dir") {
		req.OutputDir = opts.outputDir
	}
	if flags.Changed("compression") {
		req.CompressionLevel = opts.compression
	}
	if flags.Changed("cbz-comment") {
		req.Comment = opts.comment
	}
	if flags.Changed("temp-dir") {
		req.TempDir = opts.tempDir
	}
	if opts.keepTemp {
		req.KeepTemp = true
	}
	if opts.force {
		req.Force = true
	}
}

// summarizeBatch переводит итог пакета в код возврата процесса
func summarizeBatch(batch *entities.BatchReport, err error) error {
	if err != nil {
		return err
	}
	if batch.Failed > 0 {
		return fmt.Errorf("пакетная обработка завершилась с ошибками: %d из %d файлов", batch.Failed, batch.TotalFiles)
	}
	return nil
}
