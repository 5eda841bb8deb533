package entities

// ImageFormat формат страничных изображений в архиве
type ImageFormat string

const (
	FormatJPEG ImageFormat = "jpeg"
	FormatPNG  ImageFormat = "png"
)

// Ext возвращает расширение файла для формата
func (f ImageFormat) Ext() string {
	if f == FormatJPEG {
		return "jpg"
	}
	return "png"
}

// Lossy сообщает, является ли формат форматом с потерями
func (f ImageFormat) Lossy() bool {
	return f == FormatJPEG
}

// Значения по умолчанию для запроса конвертации
const (
	DefaultFormat           = FormatJPEG
	DefaultQuality          = 85
	DefaultCompressionLevel = 6
)

// ConversionRequest разрешенный набор параметров конвертации одного документа.
// Собирается один раз из конфигурации и переопределений вызывающей стороны,
// после чего не изменяется. Нулевые числовые значения означают "вычислить
// значение по умолчанию", а не литеральный ноль.
type ConversionRequest struct {
	DPI              int         // 0 = авто по геометрии страниц
	Format           ImageFormat // jpeg | png
	Quality          int         // только для jpeg
	Threads          int         // 0 = по числу процессоров
	OutputDir        string      // пусто = директория входного файла
	OutputPath       string      // явное имя архива (только одиночный режим)
	Comment          string      // комментарий архива
	CompressionLevel int         // уровень ZIP сжатия 0-9
	PreserveMetadata bool        // встраивать сведения об источнике в комментарий
	KeepTemp         bool        // не удалять временные изображения
	TempDir          string      // пусто = системная временная директория
	Force            bool        // перезаписывать существующий архив
}

// Validate проверяет корректность запроса до начала рендеринга
func (r *ConversionRequest) Validate() error {
	if r.Format != FormatJPEG && r.Format != FormatPNG {
		return ErrInvalidFormat
	}
	if r.Format.Lossy() && (r.Quality < 1 || r.Quality > 100) {
		return ErrInvalidQuality
	}
	if r.DPI != 0 && (r.DPI < 72 || r.DPI > 1200) {
		return ErrInvalidDPI
	}
	if r.CompressionLevel < 0 || r.CompressionLevel > 9 {
		return ErrInvalidCompression
	}
	if r.Threads < 0 {
		return ErrInvalidThreads
	}
	return nil
}
