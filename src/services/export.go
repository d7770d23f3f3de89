package services

import (
	"encoding/csv"
	"fintrack-server/src/models"
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"
)

var exportHeader = []string{"ID", "Name", "Amount", "Description", "Category", "Type", "Date", "Created At"}

const exportSheet = "Transactions"

func exportRow(t models.Transaction) []string {
	description := ""
	if t.Description != nil {
		description = *t.Description
	}
	return []string{
		fmt.Sprint(t.ID),
		t.Name,
		t.Amount.StringFixed(2),
		description,
		t.Category,
		string(t.Type),
		t.Date.UTC().Format(time.RFC3339),
		t.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// WriteCSV writes transactions as RFC 4180 CSV with a header row.
func WriteCSV(w io.Writer, txns []models.Transaction) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return err
	}
	for _, t := range txns {
		if err := cw.Write(exportRow(t)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteXLSX writes transactions to a single-sheet workbook.
func WriteXLSX(w io.Writer, txns []models.Transaction) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return err
	}

	header := make([]interface{}, len(exportHeader))
	for i, h := range exportHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(exportSheet, "A1", &header); err != nil {
		return err
	}

	for i, t := range txns {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := exportRow(t)
		values := []interface{}{t.ID, row[1], t.Amount.InexactFloat64(), row[3], row[4], row[5], row[6], row[7]}
		if err := f.SetSheetRow(exportSheet, cell, &values); err != nil {
			return err
		}
	}

	return f.Write(w)
}
