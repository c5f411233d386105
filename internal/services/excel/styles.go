// styles.go defines the workbook styles shared by every sheet writer (PEA-3).
package excel

import "github.com/xuri/excelize/v2"

// fontFamily renders CJK glyphs cleanly in Excel on both Windows and
// macOS, which the stock Calibri does not.
const fontFamily = "Microsoft YaHei"

// styleConfig is the immutable set of style definitions. It is built
// once per Exporter; style IDs are registered per workbook via resolve
// because excelize scopes them to a file.
type styleConfig struct {
	title      *excelize.Style
	stamp      *excelize.Style
	label      *excelize.Style
	body       *excelize.Style
	paragraph  *excelize.Style
	cell       *excelize.Style
	headerCell *excelize.Style
	errorTitle *excelize.Style
}

func newStyleConfig() *styleConfig {
	wrap := &excelize.Alignment{WrapText: true, Vertical: "top"}
	grey := excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"D9D9D9"}}

	return &styleConfig{
		title: &excelize.Style{
			Font: &excelize.Font{Family: fontFamily, Size: 12, Bold: true},
			Fill: grey,
		},
		stamp: &excelize.Style{
			Font: &excelize.Font{Family: fontFamily, Size: 9, Italic: true},
		},
		label: &excelize.Style{
			Font: &excelize.Font{Family: fontFamily, Size: 11, Bold: true},
		},
		body: &excelize.Style{
			Font: &excelize.Font{Family: fontFamily, Size: 11},
		},
		paragraph: &excelize.Style{
			Font:      &excelize.Font{Family: fontFamily, Size: 11},
			Alignment: wrap,
		},
		cell: &excelize.Style{
			Font:      &excelize.Font{Family: fontFamily, Size: 11},
			Alignment: wrap,
			Border:    thinBorder(),
		},
		headerCell: &excelize.Style{
			Font:      &excelize.Font{Family: fontFamily, Size: 12, Bold: true},
			Fill:      grey,
			Alignment: wrap,
			Border:    thinBorder(),
		},
		errorTitle: &excelize.Style{
			Font: &excelize.Font{Family: fontFamily, Size: 12, Bold: true, Color: "FF0000"},
			Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"FFE6E6"}},
		},
	}
}

func thinBorder() []excelize.Border {
	sides := []string{"left", "right", "top", "bottom"}
	borders := make([]excelize.Border, 0, len(sides))
	for _, side := range sides {
		borders = append(borders, excelize.Border{Type: side, Color: "000000", Style: 1})
	}
	return borders
}

// sheetStyles holds the style IDs registered in one workbook.
type sheetStyles struct {
	title      int
	stamp      int
	label      int
	body       int
	paragraph  int
	cell       int
	headerCell int
	errorTitle int
}

func (c *styleConfig) resolve(f *excelize.File) (*sheetStyles, error) {
	var (
		st  sheetStyles
		err error
	)
	if st.title, err = f.NewStyle(c.title); err != nil {
		return nil, err
	}
	if st.stamp, err = f.NewStyle(c.stamp); err != nil {
		return nil, err
	}
	if st.label, err = f.NewStyle(c.label); err != nil {
		return nil, err
	}
	if st.body, err = f.NewStyle(c.body); err != nil {
		return nil, err
	}
	if st.paragraph, err = f.NewStyle(c.paragraph); err != nil {
		return nil, err
	}
	if st.cell, err = f.NewStyle(c.cell); err != nil {
		return nil, err
	}
	if st.headerCell, err = f.NewStyle(c.headerCell); err != nil {
		return nil, err
	}
	if st.errorTitle, err = f.NewStyle(c.errorTitle); err != nil {
		return nil, err
	}
	return &st, nil
}
