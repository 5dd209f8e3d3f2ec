package emit

import (
	"fmt"
	"io"

	"github.com/dfaudit/sigtrack/pkg/centers"
	"github.com/dfaudit/sigtrack/pkg/sigmodel"
	"github.com/dfaudit/sigtrack/pkg/state"
	"github.com/xuri/excelize/v2"
)

// Column layout, matching the COL_* constants in xls.c.
const (
	colRegion = iota
	colCountry
	colCenter
	colPID
	colVisit
	colSigPlate
	colSigDesc
	colStatus
	colSigner
	colSigDate
	colPlate
	colField
	colDesc
	colSigValue
	colCurValue
	colChanger
	colChangeDate
	colComment
	colCount
)

const (
	alignLeft = iota
	alignRight
)

// fillColors gives the RGB fill/font pair for each state.Color, matching
// the format_set_bg_color/format_set_font_color calls in xls.c.
var fillColors = map[state.Color][2]string{
	state.ColorWhite:    {"", ""},
	state.ColorLtRed:    {"FFC7CE", "9C0006"},
	state.ColorLtGreen:  {"C6EFCE", "006180"},
	state.ColorLtPurple: {"CCC0DA", "403151"},
	state.ColorLtYellow: {"FFEB9C", "9C6500"},
	state.ColorRed:      {"FF0000", "000000"},
	state.ColorLtOrange: {"FCE4C6", "9C0006"},
}

// WorkbookOptions controls the optional decorations applied to the
// emitted workbook.
type WorkbookOptions struct {
	ArrivedOnly bool
	SDVMode     bool
	Centers     []*centers.Center
	Countries   []*centers.Country
}

// WriteWorkbook writes the decorated per-(patient,visit,signature) report,
// one row group per signature node and one sub-row per plate/field-change
// detail, matching write_xls in xls.c.
func WriteWorkbook(w io.Writer, tree *sigmodel.Tree, opts WorkbookOptions) error {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "e-Signatures"
	if opts.SDVMode {
		sheetName = "SDV Report"
	}
	sheetIdx, err := f.NewSheet(sheetName)
	if err != nil {
		return fmt.Errorf("emit: creating worksheet: %w", err)
	}
	f.SetActiveSheet(sheetIdx)
	f.DeleteSheet("Sheet1")

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"808080"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    thinBorder(),
	})
	if err != nil {
		return err
	}

	cellStyle := make(map[state.Color][2]int)
	for color, rgb := range fillColors {
		left, err := colorStyle(f, rgb, alignLeft)
		if err != nil {
			return err
		}
		right, err := colorStyle(f, rgb, alignRight)
		if err != nil {
			return err
		}
		cellStyle[color] = [2]int{left, right}
	}

	writeHeaders(f, sheetName, headerStyle, opts.SDVMode)
	setColumnWidths(f, sheetName, len(opts.Centers) > 0)

	row := 2 // excelize rows are 1-indexed; row 1 holds headers.
	tree.Ascend(func(n *sigmodel.Node) bool {
		if opts.ArrivedOnly && !n.WasSigRecSeen() {
			return true
		}
		row += writeNodeRows(f, sheetName, cellStyle, n, row, opts)
		return true
	})

	f.SetRowHeight(sheetName, 1, 40)
	f.SetPanes(sheetName, &excelize.Panes{Freeze: true, Split: false, XSplit: 0, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})
	lastCol, _ := excelize.ColumnNumberToName(colComment + 1)
	f.AutoFilter(sheetName, fmt.Sprintf("A1:%s%d", lastCol, row-1), nil)
	if len(opts.Centers) > 0 {
		f.SetSheetViewOptions(sheetName, 0, excelize.ZoomScale(90))
	}

	return f.Write(w)
}

func thinBorder() []excelize.Border {
	var b []excelize.Border
	for _, side := range []string{"left", "top", "right", "bottom"} {
		b = append(b, excelize.Border{Type: side, Color: "000000", Style: 1})
	}
	return b
}

func colorStyle(f *excelize.File, rgb [2]string, align int) (int, error) {
	style := &excelize.Style{
		Alignment: &excelize.Alignment{WrapText: true, Vertical: "center"},
		Border:    thinBorder(),
	}
	if align == alignRight {
		style.Alignment.Horizontal = "right"
		style.NumFmt = 1 // "0"
	} else {
		style.CustomNumFmt = strPtr("@")
	}
	if rgb[0] != "" {
		style.Fill = excelize.Fill{Type: "pattern", Color: []string{rgb[0]}, Pattern: 1}
		style.Font = &excelize.Font{Color: rgb[1]}
	}
	return f.NewStyle(style)
}

func strPtr(s string) *string { return &s }

func writeHeaders(f *excelize.File, sheet string, style int, sdvMode bool) {
	set := func(col int, text string) {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(sheet, cell, text)
		f.SetCellStyle(sheet, cell, cell, style)
	}
	set(colRegion, "Region")
	set(colCountry, "Country")
	set(colCenter, "Center")
	set(colPID, "Patient ID")
	set(colVisit, "Visit")
	set(colStatus, "Status")
	set(colPlate, "Plate")
	set(colField, "Field")
	set(colDesc, "Description")
	set(colCurValue, "Current Value")
	set(colChanger, "Last Changer")
	set(colChangeDate, "Last Changed")
	set(colComment, "Comment")
	if sdvMode {
		set(colSigPlate, "SDV Plate")
		set(colSigDesc, "SDV Desc")
		set(colSigner, "SDV By")
		set(colSigDate, "SDV Date")
		set(colSigValue, "SDV Value")
	} else {
		set(colSigPlate, "Sig. Plate")
		set(colSigDesc, "Sig. Desc")
		set(colSigner, "Signer")
		set(colSigDate, "Signed")
		set(colSigValue, "Signed Value")
	}
}

func setColumnWidths(f *excelize.File, sheet string, haveCenters bool) {
	widths := map[int]float64{
		colPID: 20, colVisit: 10, colSigPlate: 10, colSigDesc: 15,
		colStatus: 15, colSigner: 15, colSigDate: 20, colPlate: 10,
		colField: 10, colDesc: 30, colSigValue: 20, colCurValue: 20,
		colChanger: 15, colChangeDate: 20, colComment: 20,
	}
	for col, width := range widths {
		name, _ := excelize.ColumnNumberToName(col + 1)
		f.SetColWidth(sheet, name, name, width)
	}

	regionCols := []int{colRegion, colCountry, colCenter}
	regionWidths := []float64{15, 15, 10}
	for i, col := range regionCols {
		name, _ := excelize.ColumnNumberToName(col + 1)
		f.SetColWidth(sheet, name, name, regionWidths[i])
		f.SetColVisible(sheet, name, haveCenters)
	}
}

// writeNodeRows writes every row belonging to one signature node and
// returns how many rows it used, matching the per-node body of the
// RB_FOREACH(esn, ...) loop in write_xls.
func writeNodeRows(f *excelize.File, sheet string, styles map[state.Color][2]int, n *sigmodel.Node, row int, opts WorkbookOptions) int {
	addnRow := 0
	sigColor := state.ColorFor(n.Status)

	n.Plates.Ascend(func(cp *sigmodel.CoveredPlate) bool {
		plateColor := state.ColorFor(cp.Status)

		plateRows := 0
		if n.Status.Signature != sigmodel.SigNone {
			plateRows = cp.FieldChangeCount
		}
		plateClosed := cp.Changes.IsEmpty() && cp.Status.Rec != sigmodel.RecNormal && cp.Status.Change == sigmodel.ChangeDeclined
		if plateClosed {
			plateRows++
		}

		plateStart := row + addnRow
		if plateRows > 1 {
			mergeRange(f, sheet, colPlate, plateStart, plateStart+plateRows-1, styles[plateColor][alignRight])
		}

		if plateClosed {
			comment := plateComment(cp.Status.Rec)
			r := row + addnRow
			setNumber(f, sheet, colPlate, r, float64(cp.Plate), styles[plateColor][alignRight])
			for col := colField; col <= colChangeDate; col++ {
				setString(f, sheet, col, r, "", styles[plateColor][alignLeft])
			}
			setString(f, sheet, colComment, r, comment, styles[plateColor][alignLeft])
			addnRow++
		}

		if n.Status.Signature != sigmodel.SigNone {
			cp.Changes.Ascend(func(fc *sigmodel.FieldChange) bool {
				fieldColor := state.ColorFor(fc.Status)
				comment := fc.Comment
				if c := plateComment(cp.Status.Rec); c != "" {
					comment = c
				}

				r := row + addnRow
				setNumber(f, sheet, colPlate, r, float64(cp.Plate), styles[plateColor][alignRight])
				setNumber(f, sheet, colField, r, float64(fc.Field), styles[fieldColor][alignRight])
				setString(f, sheet, colDesc, r, fc.Desc, styles[fieldColor][alignLeft])
				setString(f, sheet, colSigValue, r, fc.OldValue, styles[fieldColor][alignLeft])
				setString(f, sheet, colCurValue, r, fc.NewValue, styles[fieldColor][alignLeft])
				setString(f, sheet, colChanger, r, fc.Who, styles[fieldColor][alignLeft])
				setString(f, sheet, colChangeDate, r, makeDate(fc.Date, fc.Time), styles[fieldColor][alignLeft])
				setString(f, sheet, colComment, r, comment, styles[fieldColor][alignLeft])
				addnRow++
				return true
			})
		}
		return true
	})

	if addnRow == 0 {
		for col := colPlate; col <= colComment; col++ {
			setString(f, sheet, col, row, "", styles[sigColor][alignLeft])
		}
		addnRow++
	}

	if addnRow > 1 {
		last := row + addnRow - 1
		mergeRange(f, sheet, colRegion, row, last, styles[sigColor][alignLeft])
		mergeRange(f, sheet, colCountry, row, last, styles[sigColor][alignLeft])
		mergeRange(f, sheet, colCenter, row, last, styles[sigColor][alignRight])
		mergeRange(f, sheet, colPID, row, last, styles[sigColor][alignRight])
		mergeRange(f, sheet, colVisit, row, last, styles[sigColor][alignRight])
		mergeRange(f, sheet, colSigPlate, row, last, styles[sigColor][alignRight])
		mergeRange(f, sheet, colSigDesc, row, last, styles[sigColor][alignLeft])
		mergeRange(f, sheet, colStatus, row, last, styles[sigColor][alignLeft])
		mergeRange(f, sheet, colSigner, row, last, styles[sigColor][alignLeft])
		mergeRange(f, sheet, colSigDate, row, last, styles[sigColor][alignLeft])
	}

	centerID := centers.FindCenter(opts.Centers, n.Patient)
	country := centers.FindCountry(opts.Countries, centerID)
	region := centers.FindRegion(opts.Countries, centerID)

	for i := 0; i < addnRow; i++ {
		r := row + i
		setString(f, sheet, colRegion, r, region, styles[sigColor][alignLeft])
		setString(f, sheet, colCountry, r, country, styles[sigColor][alignLeft])
		setNumber(f, sheet, colCenter, r, float64(centerID), styles[sigColor][alignRight])
		setNumber(f, sheet, colPID, r, float64(n.Patient), styles[sigColor][alignRight])
		setNumber(f, sheet, colVisit, r, float64(n.Visit), styles[sigColor][alignRight])
		setNumber(f, sheet, colSigPlate, r, float64(n.Config.SigPlate), styles[sigColor][alignRight])
		setString(f, sheet, colSigDesc, r, n.Config.Name, styles[sigColor][alignLeft])
		setString(f, sheet, colStatus, r, state.Describe(n.Status, opts.SDVMode), styles[sigColor][alignLeft])
		setString(f, sheet, colSigner, r, n.Signer, styles[sigColor][alignLeft])
		if n.Date != "" && n.Time != "" {
			setString(f, sheet, colSigDate, r, makeDate(n.Date, n.Time), styles[sigColor][alignLeft])
		} else {
			setString(f, sheet, colSigDate, r, "", styles[sigColor][alignLeft])
		}
	}

	return addnRow
}

func plateComment(rec sigmodel.RecStatus) string {
	switch rec {
	case sigmodel.RecLost:
		return "Record marked Lost"
	case sigmodel.RecError:
		return "Record marked in Error"
	case sigmodel.RecDeleted:
		return "Record Deleted"
	}
	return ""
}

// makeDate reformats a compact YYYYMMDD/HHMMSS pair into
// "YYYY/MM/DD HH:MM:SS", matching make_date.
func makeDate(date, time string) string {
	pad := func(s string, n int) string {
		for len(s) < n {
			s += " "
		}
		return s[:n]
	}
	date = pad(date, 8)
	time = pad(time, 6)
	return fmt.Sprintf("%s/%s/%s %s:%s:%s",
		date[0:4], date[4:6], date[6:8], time[0:2], time[2:4], time[4:6])
}

func setString(f *excelize.File, sheet string, col, row int, value string, style int) {
	cell, _ := excelize.CoordinatesToCellName(col+1, row)
	f.SetCellValue(sheet, cell, value)
	f.SetCellStyle(sheet, cell, cell, style)
}

func setNumber(f *excelize.File, sheet string, col, row int, value float64, style int) {
	cell, _ := excelize.CoordinatesToCellName(col+1, row)
	f.SetCellValue(sheet, cell, value)
	f.SetCellStyle(sheet, cell, cell, style)
}

func mergeRange(f *excelize.File, sheet string, col, rowStart, rowEnd, style int) {
	if rowEnd <= rowStart {
		return
	}
	start, _ := excelize.CoordinatesToCellName(col+1, rowStart)
	end, _ := excelize.CoordinatesToCellName(col+1, rowEnd)
	f.SetCellStyle(sheet, start, end, style)
	f.MergeCell(sheet, start, end)
}
