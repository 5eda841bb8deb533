package entities

import (
	"path/filepath"
	"strings"
)

// PageSize размеры страницы PDF в пунктах (1 пункт = 1/72 дюйма)
type PageSize struct {
	WidthPt  float64
	HeightPt float64
}

// WidthInches возвращает ширину страницы в дюймах
func (p PageSize) WidthInches() float64 {
	return p.WidthPt / PointsPerInch
}

// HeightInches возвращает высоту страницы в дюймах
func (p PageSize) HeightInches() float64 {
	return p.HeightPt / PointsPerInch
}

// Document представляет прочитанный PDF документ.
// Читается один раз перед конвертацией и далее не изменяется.
type Document struct {
	Path      string
	Size      int64
	Pages     int
	PageSizes []PageSize
}

// Stem возвращает имя файла без директории и расширения
func (d *Document) Stem() string {
	base := filepath.Base(d.Path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// LargestPage возвращает самую широкую страницу документа
func (d *Document) LargestPage() PageSize {
	var largest PageSize
	for _, p := range d.PageSizes {
		if p.WidthPt > largest.WidthPt {
			largest = p
		}
	}
	return largest
}
