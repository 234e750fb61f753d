package listing

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/timvest/intake-server-go/internal/model"
)

const (
	ContentTypeCSV = "text/csv"
	dateLayout     = "2006-01-02"
)

var csvHeaders = []string{
	"Company Name",
	"Contact Person",
	"Email",
	"Phone",
	"Company Type",
	"Payment Plan",
	"Status",
	"Applied Date",
}

// WriteCSV writes a header line followed by one line per application. Every
// data field is double-quoted, with embedded quotes doubled. Lines end in "\n".
func WriteCSV(w io.Writer, apps []model.Application) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(strings.Join(csvHeaders, ",") + "\n"); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, app := range apps {
		row := []string{
			app.CompanyName,
			app.ContactPerson,
			app.Email,
			app.Phone,
			string(app.CompanyType),
			string(app.PaymentPlan),
			string(app.Status),
			app.CreatedAt.UTC().Format(dateLayout),
		}
		for i, field := range row {
			row[i] = quote(field)
		}
		if _, err := bw.WriteString(strings.Join(row, ",") + "\n"); err != nil {
			return fmt.Errorf("failed to write csv row %d: %w", app.ID, err)
		}
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to flush csv: %w", err)
	}
	return nil
}

func quote(field string) string {
	return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
}

func ExportFilename(now time.Time) string {
	return "apex-applications-" + now.UTC().Format(dateLayout) + ".csv"
}
