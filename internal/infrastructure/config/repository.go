package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"pdf2cbz/internal/domain/entities"
)

// Repository реализация репозитория конфигурации
type Repository struct{}

// NewRepository создает новый репозиторий конфигурации
func NewRepository() *Repository {
	return &Repository{}
}

// Load загружает конфигурацию из файла
func (r *Repository) Load(configPath string) (*entities.Config, error) {
	// Если файл не существует, создаем файл-образец со значениями
	// по умолчанию, чтобы пользователю было что редактировать.
	// Ошибка записи не мешает работе со значениями по умолчанию.
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		config := r.createDefaultConfig()
		_ = r.Save(configPath, config)
		return config, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	config := r.createDefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, err
	}

	return config, nil
}

// Save сохраняет конфигурацию в файл
func (r *Repository) Save(configPath string, config *entities.Config) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0644)
}

// createDefaultConfig создает конфигурацию по умолчанию.
// Нулевые значения dpi и threads означают автоподбор.
func (r *Repository) createDefaultConfig() *entities.Config {
	return &entities.Config{
		Conversion: entities.ConversionConfig{
			DPI:              0,
			Format:           string(entities.DefaultFormat),
			Quality:          entities.DefaultQuality,
			Threads:          0,
			OutputDirectory:  "",
			CompressionLevel: entities.DefaultCompressionLevel,
			PreserveMetadata: true,
			KeepTemp:         false,
			TempDirectory:    "",
		},
		Rasterizer: entities.RasterizerConfig{
			PdftocairoPath:  "",
			FallbackEnabled: true,
		},
		Output: entities.OutputConfig{
			LogLevel:    "info",
			ProgressBar: true,
			LogToFile:   false,
			LogFileName: "pdf2cbz.log",
			Console:     true,
		},
	}
}
