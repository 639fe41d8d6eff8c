// Package export serializes a ticket collection for download.
package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/spec-kit/ticket-dashboard/internal/domain"
	apperrors "github.com/spec-kit/ticket-dashboard/pkg/util/errorutil"
)

// Format is a supported export format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatXLSX Format = "xlsx"
)

const (
	timestampLayout = "2006-01-02 15:04:05"
	sheetName       = "Tickets"
)

// ParseFormat accepts csv, json, xlsx and the "excel" alias. Blank means csv.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	case "xlsx", "excel":
		return FormatXLSX, nil
	}
	return "", apperrors.NewValidationError("Unsupported format", map[string]any{"format": s})
}

// ContentType is the MIME type of f.
func (f Format) ContentType() string {
	switch f {
	case FormatJSON:
		return "application/json"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv"
}

// Options tunes the export.
type Options struct {
	IncludeUsers     bool
	IncludeAnalytics bool
	Now              time.Time
}

// File is a rendered export.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// Filename is support-tickets-YYYY-MM-DD.<ext>.
func Filename(f Format, now time.Time) string {
	return fmt.Sprintf("support-tickets-%s.%s", now.UTC().Format("2006-01-02"), f)
}

// Tickets renders tickets in format f.
func Tickets(f Format, tickets []domain.Ticket, opts Options) (*File, error) {
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}
	var (
		data []byte
		err  error
	)
	switch f {
	case FormatCSV:
		data, err = toCSV(tickets, opts)
	case FormatJSON:
		data, err = toJSON(tickets, opts)
	case FormatXLSX:
		data, err = toXLSX(tickets, opts)
	default:
		return nil, apperrors.NewValidationError("Unsupported format", map[string]any{"format": string(f)})
	}
	if err != nil {
		return nil, apperrors.NewInternalError(fmt.Errorf("exporting %s: %w", f, err))
	}
	return &File{Name: Filename(f, opts.Now), ContentType: f.ContentType(), Data: data}, nil
}

func header(opts Options) []string {
	cols := []string{"ID", "Subject", "Description", "Priority", "Category", "Status", "Created At"}
	if opts.IncludeUsers {
		cols = append(cols, "User Name", "User Email")
	}
	return cols
}

func record(t domain.Ticket, opts Options) []string {
	row := []string{
		strconv.FormatInt(t.ID, 10),
		t.Title,
		t.Description,
		string(t.Priority),
		t.Category,
		string(t.Status),
		formatTime(t.CreatedAt),
	}
	if opts.IncludeUsers {
		row = append(row, orNA(t.CreatorName), orNA(t.CreatorEmail))
	}
	return row
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(timestampLayout)
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func toCSV(tickets []domain.Ticket, opts Options) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(header(opts)); err != nil {
		return nil, err
	}
	for _, t := range tickets {
		if err := w.Write(record(t, opts)); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type jsonUser struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type jsonTicket struct {
	ID          int64     `json:"id"`
	Subject     string    `json:"subject"`
	Description string    `json:"description"`
	Priority    string    `json:"priority"`
	Category    string    `json:"category"`
	Status      string    `json:"status"`
	CreatedAt   string    `json:"created_at"`
	User        *jsonUser `json:"user,omitempty"`
}

type jsonAnalytics struct {
	StatusDistribution   map[string]int `json:"status_distribution"`
	PriorityDistribution map[string]int `json:"priority_distribution"`
}

type jsonExport struct {
	ExportDate   string         `json:"export_date"`
	TotalTickets int            `json:"total_tickets"`
	Analytics    *jsonAnalytics `json:"analytics,omitempty"`
	Tickets      []jsonTicket   `json:"tickets"`
}

func toJSON(tickets []domain.Ticket, opts Options) ([]byte, error) {
	doc := jsonExport{
		ExportDate:   opts.Now.UTC().Format(time.RFC3339),
		TotalTickets: len(tickets),
		Tickets:      make([]jsonTicket, 0, len(tickets)),
	}
	if opts.IncludeAnalytics {
		doc.Analytics = &jsonAnalytics{
			StatusDistribution:   map[string]int{},
			PriorityDistribution: map[string]int{},
		}
	}
	for _, t := range tickets {
		item := jsonTicket{
			ID:          t.ID,
			Subject:     t.Title,
			Description: t.Description,
			Priority:    string(t.Priority),
			Category:    t.Category,
			Status:      string(t.Status),
		}
		if !t.CreatedAt.IsZero() {
			item.CreatedAt = t.CreatedAt.UTC().Format(time.RFC3339)
		}
		if opts.IncludeUsers && (t.CreatorName != "" || t.CreatorEmail != "") {
			item.User = &jsonUser{Name: t.CreatorName, Email: t.CreatorEmail}
		}
		if doc.Analytics != nil {
			doc.Analytics.StatusDistribution[string(t.Status)]++
			doc.Analytics.PriorityDistribution[string(t.Priority)]++
		}
		doc.Tickets = append(doc.Tickets, item)
	}
	return json.MarshalIndent(doc, "", "  ")
}

func toXLSX(tickets []domain.Ticket, opts Options) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, err
	}
	if err := writeRow(f, 1, header(opts)); err != nil {
		return nil, err
	}
	for i, t := range tickets {
		if err := writeRow(f, i+2, record(t, opts)); err != nil {
			return nil, err
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeRow(f *excelize.File, row int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return f.SetSheetRow(sheetName, cell, &cells)
}
