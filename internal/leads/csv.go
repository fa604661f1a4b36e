package leads

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// csvHeader fixes the exported column order.
var csvHeader = []string{
	"ID", "Name", "Email", "Phone", "Company", "Budget",
	"Message", "Timestamp", "IPAddress", "UserAgent", "CreatedAt",
}

// ExportCSV regenerates the CSV mirror from the full collection. An empty
// collection produces a header-only file. Quoting follows RFC 4180: fields
// containing the delimiter or quote character are quoted, inner quotes
// doubled.
func (s *FileStore) ExportCSV() error {
	s.mu.Lock()
	rows := make([][]string, 0, len(s.leads)+1)
	rows = append(rows, csvHeader)
	for _, lead := range s.leads {
		rows = append(rows, []string{
			strconv.Itoa(lead.ID),
			lead.Name,
			lead.Email,
			lead.Phone,
			deref(lead.Company),
			deref(lead.Budget),
			deref(lead.Message),
			lead.Timestamp,
			lead.IPAddress,
			lead.UserAgent,
			lead.CreatedAt.Format(time.RFC3339),
		})
	}
	s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.csvPath), 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	f, err := os.Create(s.csvPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", s.csvPath, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("write %s: %w", s.csvPath, err)
	}
	return w.Error()
}
