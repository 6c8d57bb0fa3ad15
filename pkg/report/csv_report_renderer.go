package report

import (
	"bytes"
	"encoding/csv"

	log "github.com/sirupsen/logrus"
)

type Renderer interface {
	Render(report MonthlyReport) (string, error)
}

type CsvReportRendererImpl struct {
}

func NewCsvReportRenderer() *CsvReportRendererImpl {
	return &CsvReportRendererImpl{}
}

func (t *CsvReportRendererImpl) Render(report MonthlyReport) (string, error) {
	data := make([][]string, 0, len(report.Rows)+4)
	data = append(data, []string{"Date", "Wallet", "Category", "Kind", "Amount", "Note"})
	for _, row := range report.Rows {
		data = append(data, []string{
			row.Date.Format("02/01/2006"),
			row.Wallet,
			row.Category,
			string(row.Kind),
			row.Amount.String(),
			row.Note,
		})
	}
	data = append(data,
		[]string{"Total income", "", "", "", report.TotalIncome.String(), ""},
		[]string{"Total expense", "", "", "", report.TotalExpense.String(), ""},
		[]string{"Net", "", "", "", report.Net.String(), ""},
	)

	var b bytes.Buffer
	writer := csv.NewWriter(&b)
	for _, row := range data {
		err := writer.Write(row)
		if err != nil {
			log.Errorf("Error writing to csv: %v", err)
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		log.Errorf("Error writing to csv: %v", err)
		return "", err
	}

	return b.String(), nil
}
