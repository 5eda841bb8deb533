package archive

import (
	"archive/zip"
	"compress/flate"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"pdf2cbz/internal/domain/entities"
)

// CBZAssembler собирает CBZ архив из упорядоченного набора страничных
// изображений. Имена записей вида page_0001.<ext>: алфавитная сортировка
// в любой читалке восстанавливает порядок чтения.
type CBZAssembler struct{}

// NewCBZAssembler создает новый сборщик архивов
func NewCBZAssembler() *CBZAssembler {
	return &CBZAssembler{}
}

// Assemble записывает CBZ файл. Порядок записей совпадает с порядком
// imagePaths. При любой ошибке частично записанный архив удаляется.
func (a *CBZAssembler) Assemble(imagePaths []string, outputPath, comment string, compressionLevel int) (*entities.ArchiveResult, error) {
	if len(imagePaths) == 0 {
		return nil, &entities.AssemblyError{Err: errors.New("нет изображений для сборки")}
	}

	// Источники проверяются до создания выходного файла
	for _, path := range imagePaths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, &entities.AssemblyError{Entry: path, Err: err}
		}
		if info.Size() == 0 {
			return nil, &entities.AssemblyError{Entry: path, Err: errors.New("файл изображения нулевой длины")}
		}
	}

	if dir := filepath.Dir(outputPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, &entities.AssemblyError{Err: fmt.Errorf("ошибка создания выходной директории: %w", err)}
		}
	}

	outFile, err := os.Create(outputPath)
	if err != nil {
		return nil, &entities.AssemblyError{Err: fmt.Errorf("ошибка создания архива: %w", err)}
	}

	zipWriter := zip.NewWriter(outFile)

	method := zip.Store
	if compressionLevel > 0 {
		method = zip.Deflate
		level := compressionLevel
		zipWriter.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
			return flate.NewWriter(out, level)
		})
	}

	if comment != "" {
		if err := zipWriter.SetComment(comment); err != nil {
			return nil, a.abort(zipWriter, outFile, outputPath, "", err)
		}
	}

	for i, path := range imagePaths {
		entryName := fmt.Sprintf("page_%04d%s", i+1, filepath.Ext(path))
		if err := a.writeEntry(zipWriter, entryName, path, method); err != nil {
			return nil, a.abort(zipWriter, outFile, outputPath, path, err)
		}
	}

	if err := zipWriter.Close(); err != nil {
		outFile.Close()
		os.Remove(outputPath)
		return nil, &entities.AssemblyError{Err: err}
	}
	if err := outFile.Close(); err != nil {
		os.Remove(outputPath)
		return nil, &entities.AssemblyError{Err: err}
	}

	info, err := os.Stat(outputPath)
	if err != nil {
		return nil, &entities.AssemblyError{Err: err}
	}

	return &entities.ArchiveResult{
		Path:    outputPath,
		Size:    info.Size(),
		Entries: len(imagePaths),
	}, nil
}

// writeEntry копирует одно изображение в архив
func (a *CBZAssembler) writeEntry(zipWriter *zip.Writer, entryName, sourcePath string, method uint16) error {
	writer, err := zipWriter.CreateHeader(&zip.FileHeader{
		Name:   entryName,
		Method: method,
	})
	if err != nil {
		return err
	}

	source, err := os.Open(sourcePath)
	if err != nil {
		return err
	}
	defer source.Close()

	_, err = io.Copy(writer, source)
	return err
}

// abort закрывает архив и удаляет частично записанный выходной файл
func (a *CBZAssembler) abort(zipWriter *zip.Writer, outFile *os.File, outputPath, entry string, cause error) error {
	zipWriter.Close()
	outFile.Close()
	os.Remove(outputPath)
	return &entities.AssemblyError{Entry: entry, Err: cause}
}
