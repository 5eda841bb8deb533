package renderers

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"pdf2cbz/internal/domain/entities"
)

// PdftocairoRenderer вызывает внешний pdftocairo для растеризации
// ровно одной страницы за запуск
type PdftocairoRenderer struct {
	binaryPath string
}

// NewPdftocairoRenderer создает рендерер на базе pdftocairo.
// Пустой binaryPath означает поиск в PATH.
func NewPdftocairoRenderer(binaryPath string) *PdftocairoRenderer {
	if binaryPath == "" {
		binaryPath = "pdftocairo"
	}
	return &PdftocairoRenderer{binaryPath: binaryPath}
}

// RenderPage рендерит страницу pageIndex в файл изображения внутри workDir.
// Префикс выходного файла уникален для каждого вызова, поэтому
// параллельные запуски по одному документу не конфликтуют.
func (r *PdftocairoRenderer) RenderPage(ctx context.Context, doc *entities.Document, pageIndex, dpi int, req *entities.ConversionRequest, workDir string) (string, error) {
	prefix := filepath.Join(workDir, "pt_"+uuid.New().String())
	pageNum := strconv.Itoa(pageIndex + 1)

	args := []string{
		"-" + string(req.Format),
		"-r", strconv.Itoa(dpi),
		"-f", pageNum,
		"-l", pageNum,
	}
	if req.Format == entities.FormatJPEG {
		args = append(args, "-jpegopt", fmt.Sprintf("quality=%d", req.Quality))
	}
	args = append(args, doc.Path, prefix)

	cmd := exec.CommandContext(ctx, r.binaryPath, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return "", fmt.Errorf("pdftocairo: %w: %s", err, msg)
		}
		return "", fmt.Errorf("pdftocairo: %w", err)
	}

	// pdftocairo дописывает к префиксу номер страницы с переменным
	// выравниванием, поэтому результат ищется перебором директории.
	// Маска filepath.Glob не годится: путь workDir может содержать
	// метасимволы ([, *, ?)
	entries, err := os.ReadDir(workDir)
	if err != nil {
		return "", fmt.Errorf("ошибка чтения рабочей директории: %w", err)
	}

	base := filepath.Base(prefix)
	suffix := "." + req.Format.Ext()
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, base) && strings.HasSuffix(name, suffix) {
			return filepath.Join(workDir, name), nil
		}
	}
	return "", fmt.Errorf("pdftocairo не создал изображение для страницы %d", pageIndex+1)
}
