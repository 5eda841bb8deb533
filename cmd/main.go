package main

import (
	"os"

	"github.com/spf13/cobra"
)

var version = "1.0.5"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCmd строит корневую команду CLI. Флаги повторяют поверхность
// классического конвертера, значения накладываются поверх config.yaml.
func newRootCmd() *cobra.Command {
	opts := &cliOptions{}

	cmd := &cobra.Command{
		Use:     "pdf2cbz <входной PDF или директория> [выходной CBZ]",
		Short:   "Конвертер PDF документов в CBZ архивы",
		Long:    "pdf2cbz растеризует страницы PDF через pdftocairo (с резервным\nрендерингом UniPDF) и собирает их в CBZ архив для комикс-читалок.",
		Version: version,
		Args:    cobra.RangeArgs(1, 2),

		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.input = args[0]
			if len(args) > 1 {
				opts.output = args[1]
			}
			return runConversion(cmd, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.configPath, "config", "c", "config.yaml", "путь к файлу конфигурации")
	flags.IntVarP(&opts.dpi, "dpi", "d", 0, "принудительный DPI (0 = авто по геометрии страниц)")
	flags.StringVarP(&opts.format, "format", "f", "", "формат изображений: jpeg или png")
	flags.IntVarP(&opts.quality, "quality", "q", 0, "качество JPEG (1-100)")
	flags.IntVarP(&opts.threads, "threads", "t", 0, "число воркеров рендеринга (0 = по числу CPU)")
	flags.StringVar(&opts.outputDir, "output-dir", "", "директория для CBZ файлов")
	flags.IntVar(&opts.compression, "compression", 0, "уровень ZIP сжатия (0-9)")
	flags.StringVar(&opts.comment, "cbz-comment", "", "комментарий CBZ архива")
	flags.StringVar(&opts.tempDir, "temp-dir", "", "директория для временных изображений")
	flags.BoolVar(&opts.keepTemp, "keep-temp", false, "не удалять временные изображения")
	flags.BoolVar(&opts.force, "force", false, "перезаписывать существующие CBZ")
	flags.BoolVar(&opts.analyse, "analyse", false, "только анализ: рекомендуемый DPI и прогноз размера")
	flags.StringVarP(&opts.logfile, "logfile", "l", "", "файл журнала")
	flags.BoolVar(&opts.verbose, "verbose", false, "подробный вывод")
	flags.BoolVar(&opts.tui, "tui", false, "интерактивное отображение прогресса (пакетный режим)")

	return cmd
}
