package entities

import (
	"fmt"
	"math"
)

// PointsPerInch пунктов в одном дюйме
const PointsPerInch = 72.0

// Константы планировщика DPI. Авто-режим подбирает разрешение,
// при котором самая широкая страница дает порядка TargetPixelWidth
// пикселей по ширине, в пределах MinAutoDPI..MaxAutoDPI.
const (
	TargetPixelWidth = 2000
	MinAutoDPI       = 150
	MaxAutoDPI       = 600
)

// Калибровочные коэффициенты оценки размера, байт на пиксель.
// Подобраны по выборке отрендеренных страниц при 150-300 DPI.
const (
	losslessBytesPerPixel  = 0.55
	lossyBaseBytesPerPixel = 0.02
	lossyQualityFactor     = 0.003
)

// PlanDPI вычисляет DPI рендеринга для документа.
// Явно заданный DPI возвращается без изменений; в авто-режиме DPI
// выводится из размеров самой широкой страницы и монотонно не
// возрастает с ростом страницы.
func PlanDPI(doc *Document, req *ConversionRequest) (int, error) {
	if err := validateGeometry(doc); err != nil {
		return 0, err
	}
	if req.DPI > 0 {
		return req.DPI, nil
	}

	largest := doc.LargestPage()
	dpi := int(math.Round(TargetPixelWidth / largest.WidthInches()))
	if dpi < MinAutoDPI {
		dpi = MinAutoDPI
	}
	if dpi > MaxAutoDPI {
		dpi = MaxAutoDPI
	}
	return dpi, nil
}

// SizeEstimate проекция размера результата без выполнения рендеринга
type SizeEstimate struct {
	DPI          int
	PerPage      []int64 // оценка размера каждой страницы в байтах
	Total        int64
	OriginalSize int64 // размер исходного PDF
}

// EstimateSize оценивает размер результата по геометрии страниц, DPI,
// формату и качеству. Работает за O(страниц) арифметики и ни одной
// страницы не рендерит.
func EstimateSize(doc *Document, dpi int, req *ConversionRequest) (*SizeEstimate, error) {
	if err := validateGeometry(doc); err != nil {
		return nil, err
	}
	if dpi <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidDPI, dpi)
	}

	bpp := bytesPerPixel(req.Format, req.Quality)
	estimate := &SizeEstimate{
		DPI:          dpi,
		PerPage:      make([]int64, doc.Pages),
		OriginalSize: doc.Size,
	}

	for i, page := range doc.PageSizes {
		pixels := page.WidthInches() * float64(dpi) * page.HeightInches() * float64(dpi)
		size := int64(pixels * bpp)
		estimate.PerPage[i] = size
		estimate.Total += size
	}
	return estimate, nil
}

// bytesPerPixel эвристика плотности данных для формата
func bytesPerPixel(format ImageFormat, quality int) float64 {
	if format.Lossy() {
		return lossyBaseBytesPerPixel + lossyQualityFactor*float64(quality)
	}
	return losslessBytesPerPixel
}

func validateGeometry(doc *Document) error {
	if doc.Pages < 1 || len(doc.PageSizes) == 0 {
		return ErrEmptyDocument
	}
	for i, p := range doc.PageSizes {
		if p.WidthPt <= 0 || p.HeightPt <= 0 {
			return fmt.Errorf("страница %d: %w", i+1, ErrInvalidGeometry)
		}
	}
	return nil
}
