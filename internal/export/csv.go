package export

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/skyphotography/wedding-portal-backend/internal/domain"
)

var clientHeader = []string{
	"Name", "Email", "Phone", "Bride", "Groom", "Wedding Date", "Venue", "Completion %", "Last Updated",
}

// WriteClientsCSV writes one row per client. Every cell is quoted.
func WriteClientsCSV(w io.Writer, clients []domain.Client) error {
	rows := make([][]string, 0, len(clients)+1)
	rows = append(rows, clientHeader)
	for _, c := range clients {
		data := domain.FieldMap{}
		updated := ""
		if c.Form != nil {
			data = c.Form.FormData
			if !c.Form.UpdatedAt.IsZero() {
				updated = c.Form.UpdatedAt.UTC().Format(time.RFC3339)
			}
		}
		rows = append(rows, []string{
			c.FullName,
			c.Email,
			c.Phone,
			data.String("bride_name"),
			data.String("groom_name"),
			data.String("wedding_date"),
			data.String("venue_name"),
			strconv.Itoa(c.CompletionPercentage),
			updated,
		})
	}
	return writeQuoted(w, rows)
}

// writeQuoted emits CRLF rows with every field quoted and embedded quotes doubled.
func writeQuoted(w io.Writer, rows [][]string) error {
	var b strings.Builder
	for _, row := range rows {
		for i, cell := range row {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteByte('"')
			b.WriteString(strings.ReplaceAll(cell, `"`, `""`))
			b.WriteByte('"')
		}
		b.WriteString("\r\n")
	}
	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}
