package export

import (
	"fmt"
	"os"
	"path/filepath"

	"courtpulse/internal/models"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
)

// Exporter renders owner revenue reports to xlsx files.
type Exporter struct {
	path   string
	logger zerolog.Logger
}

func NewExporter(path string, logger *zerolog.Logger) *Exporter {
	return &Exporter{
		path:   path,
		logger: logger.With().Str("component", "export").Logger(),
	}
}

// WriteRevenueReport lays the computed dashboard out on two sheets:
// the summary (metric cards + revenue shares + chart series) and the
// booking history.
func (e *Exporter) WriteRevenueReport(
	task models.ReportTask,
	cards []models.MetricCard,
	slices []models.ProportionSlice,
	series []models.Bucket,
	history models.HistoryPage,
) (string, error) {
	// Создаем папку для экспорта, если не существует
	if err := os.MkdirAll(e.path, 0o755); err != nil {
		return "", fmt.Errorf("error creating export directory: %v", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	summarySheet := "Сводка"
	index, err := f.NewSheet(summarySheet)
	if err != nil {
		return "", fmt.Errorf("error creating sheet: %v", err)
	}
	f.SetActiveSheet(index)

	titleStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font: &excelize.Font{Bold: true},
	})

	_ = f.SetCellValue(summarySheet, "A1", reportTitle(task))
	_ = f.MergeCell(summarySheet, "A1", "D1")
	_ = f.SetCellStyle(summarySheet, "A1", "A1", titleStyle)

	// Карточки метрик
	row := 3
	for i, header := range []string{"Показатель", "Текущий период", "Предыдущий период", "Изменение, %"} {
		cell, _ := excelize.CoordinatesToCellName(i+1, row)
		_ = f.SetCellValue(summarySheet, cell, header)
		_ = f.SetCellStyle(summarySheet, cell, cell, headerStyle)
	}
	for _, card := range cards {
		row++
		_ = f.SetCellValue(summarySheet, fmt.Sprintf("A%d", row), card.Name)
		_ = f.SetCellValue(summarySheet, fmt.Sprintf("B%d", row), card.Value)
		_ = f.SetCellValue(summarySheet, fmt.Sprintf("C%d", row), card.Previous)
		_ = f.SetCellValue(summarySheet, fmt.Sprintf("D%d", row), card.PercentChange)
	}

	// Доли выручки
	row += 2
	shareHeader := row
	_ = f.SetCellValue(summarySheet, fmt.Sprintf("A%d", shareHeader), "Категория")
	_ = f.SetCellValue(summarySheet, fmt.Sprintf("B%d", shareHeader), "Выручка")
	_ = f.SetCellValue(summarySheet, fmt.Sprintf("C%d", shareHeader), "Доля, %")
	_ = f.SetCellStyle(summarySheet, fmt.Sprintf("A%d", shareHeader), fmt.Sprintf("C%d", shareHeader), headerStyle)
	for _, slice := range slices {
		row++
		_ = f.SetCellValue(summarySheet, fmt.Sprintf("A%d", row), slice.Label)
		_ = f.SetCellValue(summarySheet, fmt.Sprintf("B%d", row), slice.Amount)
		_ = f.SetCellValue(summarySheet, fmt.Sprintf("C%d", row), slice.Percentage)
	}

	// Серия для графика
	row += 2
	seriesHeader := row
	_ = f.SetCellValue(summarySheet, fmt.Sprintf("A%d", seriesHeader), "Интервал")
	_ = f.SetCellValue(summarySheet, fmt.Sprintf("B%d", seriesHeader), "Бронирований")
	_ = f.SetCellStyle(summarySheet, fmt.Sprintf("A%d", seriesHeader), fmt.Sprintf("B%d", seriesHeader), headerStyle)
	for _, bucket := range series {
		row++
		_ = f.SetCellValue(summarySheet, fmt.Sprintf("A%d", row), bucket.Label)
		_ = f.SetCellValue(summarySheet, fmt.Sprintf("B%d", row), bucket.Count)
	}

	_ = f.SetColWidth(summarySheet, "A", "A", 25)
	_ = f.SetColWidth(summarySheet, "B", "D", 18)

	e.writeHistorySheet(f, headerStyle, history)

	// Удаляем стандартный лист
	_ = f.DeleteSheet("Sheet1")

	fileName := fmt.Sprintf("revenue_%d_%s.xlsx", task.OwnerID, task.RequestedAt.Format("2006-01-02_15-04-05"))
	filePath := filepath.Join(e.path, fileName)

	if err := f.SaveAs(filePath); err != nil {
		return "", fmt.Errorf("error saving file: %v", err)
	}

	e.logger.Info().Str("file_path", filePath).Int64("owner_id", task.OwnerID).Msg("Excel report created")
	return filePath, nil
}

func (e *Exporter) writeHistorySheet(f *excelize.File, headerStyle int, history models.HistoryPage) {
	sheet := "Бронирования"
	if _, err := f.NewSheet(sheet); err != nil {
		return
	}

	headers := []string{"ID", "Корт", "Клиент", "Начало", "Окончание", "Статус", "Сумма"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, header)
		_ = f.SetCellStyle(sheet, cell, cell, headerStyle)
	}

	for i, booking := range history.Bookings {
		row := i + 2
		_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", row), booking.ID)
		_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", row), booking.CourtName)
		_ = f.SetCellValue(sheet, fmt.Sprintf("C%d", row), booking.UserName)
		_ = f.SetCellValue(sheet, fmt.Sprintf("D%d", row), booking.StartTime.Format("02.01.2006 15:04"))
		_ = f.SetCellValue(sheet, fmt.Sprintf("E%d", row), booking.EndTime.Format("02.01.2006 15:04"))
		_ = f.SetCellValue(sheet, fmt.Sprintf("F%d", row), booking.Status)
		_ = f.SetCellValue(sheet, fmt.Sprintf("G%d", row), booking.Amount)
	}

	_ = f.SetColWidth(sheet, "A", "A", 8)
	_ = f.SetColWidth(sheet, "B", "C", 20)
	_ = f.SetColWidth(sheet, "D", "E", 18)
	_ = f.SetColWidth(sheet, "F", "G", 12)
}

func reportTitle(task models.ReportTask) string {
	if task.PeriodMode == "yearly" {
		return fmt.Sprintf("Отчет по выручке за %d год", task.Year)
	}
	return fmt.Sprintf("Отчет по выручке за %02d.%d", task.MonthIndex+1, task.Year)
}
