package diet

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const xlsxSheet = "Diet Chart"

var xlsxHeader = []any{"Time", "Meal", "Calories", "Foods", "Macros"}

// WriteXLSX は食事表を1シートのExcelファイルとして書き出します。最終行は合計です。
func WriteXLSX(w io.Writer, title string, meals []MealEntry, notes []string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), xlsxSheet); err != nil {
		return fmt.Errorf("シート名の設定に失敗しました: %w", err)
	}

	row := 1
	if title != "" {
		if err := f.SetCellValue(xlsxSheet, "A1", title); err != nil {
			return fmt.Errorf("タイトルの書き込みに失敗しました: %w", err)
		}
		row = 3
	}

	headerCell, _ := excelize.CoordinatesToCellName(1, row)
	if err := f.SetSheetRow(xlsxSheet, headerCell, &xlsxHeader); err != nil {
		return fmt.Errorf("ヘッダーの書き込みに失敗しました: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("スタイルの作成に失敗しました: %w", err)
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(xlsxHeader), row)
	if err := f.SetCellStyle(xlsxSheet, headerCell, lastHeader, bold); err != nil {
		return fmt.Errorf("スタイルの適用に失敗しました: %w", err)
	}

	for _, m := range meals {
		row++
		cell, _ := excelize.CoordinatesToCellName(1, row)
		values := []any{m.Time, string(m.Name), m.Calories, m.Foods, m.Macros}
		if err := f.SetSheetRow(xlsxSheet, cell, &values); err != nil {
			return fmt.Errorf("%d行目の書き込みに失敗しました: %w", row, err)
		}
	}

	row++
	totalCell, _ := excelize.CoordinatesToCellName(1, row)
	total := []any{"Total", "", SumMeals(meals)}
	if err := f.SetSheetRow(xlsxSheet, totalCell, &total); err != nil {
		return fmt.Errorf("合計行の書き込みに失敗しました: %w", err)
	}
	lastTotal, _ := excelize.CoordinatesToCellName(3, row)
	if err := f.SetCellStyle(xlsxSheet, totalCell, lastTotal, bold); err != nil {
		return fmt.Errorf("スタイルの適用に失敗しました: %w", err)
	}

	if len(notes) > 0 {
		row += 2
		for _, n := range notes {
			cell, _ := excelize.CoordinatesToCellName(1, row)
			if err := f.SetCellValue(xlsxSheet, cell, n); err != nil {
				return fmt.Errorf("メモの書き込みに失敗しました: %w", err)
			}
			row++
		}
	}

	_ = f.SetColWidth(xlsxSheet, "A", "C", 12)
	_ = f.SetColWidth(xlsxSheet, "D", "D", 60)
	_ = f.SetColWidth(xlsxSheet, "E", "E", 24)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("Excelファイルの書き出しに失敗しました: %w", err)
	}
	return nil
}
