// Package export renders the booking history as an Excel workbook, one
// sheet per device.
package export

import (
	"fmt"
	"io"

	"cartbook/internal/models"

	"github.com/xuri/excelize/v2"
)

var header = []string{"Date", "Start", "End", "Name", "Partner", "Place", "Returned", "Owner"}

// Report writes an xlsx workbook for the given bookings. Bookings are
// expected in start-time order; sheets appear in first-seen device order.
func Report(bookings []models.Booking, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	var devices []string
	byDevice := make(map[string][]models.Booking)
	for _, b := range bookings {
		if _, ok := byDevice[b.Device]; !ok {
			devices = append(devices, b.Device)
		}
		byDevice[b.Device] = append(byDevice[b.Device], b)
	}

	if len(devices) == 0 {
		devices = []string{"Bookings"}
	}

	for i, device := range devices {
		sheet := sheetName(device)
		if i == 0 {
			f.SetSheetName("Sheet1", sheet)
		} else {
			if _, err := f.NewSheet(sheet); err != nil {
				return fmt.Errorf("create sheet %s: %w", sheet, err)
			}
		}

		if err := writeRow(f, sheet, 1, toAny(header)); err != nil {
			return err
		}
		if err := boldRow(f, sheet, 1, len(header)); err != nil {
			return err
		}

		for row, b := range byDevice[device] {
			win := b.Window()
			values := []interface{}{
				b.Date.Format("2006-01-02"),
				win.Start.Format("15:04"),
				win.End.Format("15:04"),
				b.Name,
				b.Partner,
				b.Place,
				b.Returned,
				b.Owner,
			}
			if err := writeRow(f, sheet, row+2, values); err != nil {
				return err
			}
		}
	}

	return f.Write(w)
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	for i, val := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, val); err != nil {
			return err
		}
	}
	return nil
}

func boldRow(f *excelize.File, sheet string, row, cols int) error {
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	start, _ := excelize.CoordinatesToCellName(1, row)
	end, _ := excelize.CoordinatesToCellName(cols, row)
	return f.SetCellStyle(sheet, start, end, style)
}

// sheetName truncates to the 31-char Excel sheet name limit.
func sheetName(name string) string {
	if len(name) > 31 {
		return name[:31]
	}
	return name
}

func toAny(ss []string) []interface{} {
	out := make([]interface{}, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
