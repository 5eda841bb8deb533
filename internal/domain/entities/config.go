package entities

// Config представляет конфигурацию приложения
type Config struct {
	Conversion ConversionConfig `yaml:"conversion"`
	Rasterizer RasterizerConfig `yaml:"rasterizer"`
	Output     OutputConfig     `yaml:"output"`
}

// ConversionConfig настройки конвертации по умолчанию.
// Нулевые и пустые значения означают "вычислить автоматически".
type ConversionConfig struct {
	DPI              int    `yaml:"dpi"`               // 0 = авто по геометрии
	Format           string `yaml:"format"`            // jpeg | png
	Quality          int    `yaml:"quality"`           // качество JPEG (1-100)
	Threads          int    `yaml:"threads"`           // 0 = по числу процессоров
	OutputDirectory  string `yaml:"output_directory"`  // пусто = рядом с входным файлом
	CompressionLevel int    `yaml:"compression_level"` // уровень ZIP сжатия (0-9)
	PreserveMetadata bool   `yaml:"preserve_metadata"` // сведения об источнике в комментарий архива
	KeepTemp         bool   `yaml:"keep_temp"`         // не удалять временные изображения
	TempDirectory    string `yaml:"temp_directory"`    // пусто = системная временная директория
	CBZComment       string `yaml:"cbz_comment"`       // комментарий архива
}

// RasterizerConfig настройки растеризатора
type RasterizerConfig struct {
	PdftocairoPath   string `yaml:"pdftocairo_path"`    // пусто = искать в PATH
	FallbackEnabled  bool   `yaml:"fallback_enabled"`   // резервный рендеринг через UniPDF
	UniPDFLicenseKey string `yaml:"unipdf_license_key"` // лицензионный ключ UniPDF
}

// OutputConfig настройки вывода
type OutputConfig struct {
	LogLevel    string `yaml:"log_level"`
	ProgressBar bool   `yaml:"progress_bar"`
	LogToFile   bool   `yaml:"log_to_file"`
	LogFileName string `yaml:"log_file_name"`
	Console     bool   `yaml:"console"`
}

// Request строит запрос конвертации из конфигурации, подставляя
// значения по умолчанию вместо пустых. Переопределения вызывающей
// стороны накладываются поверх до валидации.
func (c *Config) Request() *ConversionRequest {
	req := &ConversionRequest{
		DPI:              c.Conversion.DPI,
		Format:           ImageFormat(c.Conversion.Format),
		Quality:          c.Conversion.Quality,
		Threads:          c.Conversion.Threads,
		OutputDir:        c.Conversion.OutputDirectory,
		Comment:          c.Conversion.CBZComment,
		CompressionLevel: c.Conversion.CompressionLevel,
		PreserveMetadata: c.Conversion.PreserveMetadata,
		KeepTemp:         c.Conversion.KeepTemp,
		TempDir:          c.Conversion.TempDirectory,
	}
	if req.Format == "" {
		req.Format = DefaultFormat
	}
	if req.Quality == 0 {
		req.Quality = DefaultQuality
	}
	return req
}
