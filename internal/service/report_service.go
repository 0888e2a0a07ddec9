package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/nurpe/balance-ledger/internal/model"
	"github.com/nurpe/balance-ledger/internal/repository"
)

const maxReportLimit = 100

type ReportGenerator interface {
	Generate(report model.EarningsReport) ([]byte, error)
}

// Period is a half-open payment window [From, To).
type Period struct {
	From time.Time
	To   time.Time
}

type ExportResult struct {
	FileName    string
	ContentType string
	Content     []byte
}

type ReportService struct {
	store       *repository.Store
	excel       ReportGenerator
	pdf         ReportGenerator
	clientLimit int
	now         func() time.Time
}

func NewReportService(store *repository.Store, excel, pdf ReportGenerator, clientLimit int) *ReportService {
	return &ReportService{
		store:       store,
		excel:       excel,
		pdf:         pdf,
		clientLimit: clientLimit,
		now: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// ParsePeriod reads an inclusive [start, end] window. A date-only end covers
// the whole day.
func ParsePeriod(startRaw, endRaw string) (Period, error) {
	startRaw, endRaw = strings.TrimSpace(startRaw), strings.TrimSpace(endRaw)
	if startRaw == "" || endRaw == "" {
		return Period{}, fmt.Errorf("%w: start and end are required", ErrInvalidInput)
	}

	start, _, err := parseTime(startRaw)
	if err != nil {
		return Period{}, fmt.Errorf("%w: invalid start", ErrInvalidInput)
	}
	end, dateOnly, err := parseTime(endRaw)
	if err != nil {
		return Period{}, fmt.Errorf("%w: invalid end", ErrInvalidInput)
	}
	if start.After(end) {
		return Period{}, fmt.Errorf("%w: start must be before or equal to end", ErrInvalidInput)
	}

	to := end.Add(time.Microsecond)
	if dateOnly {
		to = end.Add(24 * time.Hour)
	}
	return Period{From: start, To: to}, nil
}

func parseTime(raw string) (time.Time, bool, error) {
	if parsed, err := time.Parse("2006-01-02", raw); err == nil {
		return parsed.UTC(), true, nil
	}
	layouts := []string{
		time.RFC3339Nano,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
	}
	for _, layout := range layouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed.UTC(), false, nil
		}
	}
	return time.Time{}, false, fmt.Errorf("unsupported time %q", raw)
}

// BestProfession returns the contractor profession that earned the most in
// the period. Equal totals resolve to the lexicographically smallest name.
func (s *ReportService) BestProfession(ctx context.Context, period Period) (*model.BestProfession, error) {
	rows, err := s.store.Reports.EarningsByProfession(ctx, period.From, period.To, 1)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return &model.BestProfession{}, nil
	}
	profession := rows[0].Profession
	return &model.BestProfession{Profession: &profession}, nil
}

func (s *ReportService) BestClients(ctx context.Context, period Period, limit int) ([]model.ClientSpend, error) {
	if limit == 0 {
		limit = s.clientLimit
	}
	if limit < 0 || limit > maxReportLimit {
		return nil, fmt.Errorf("%w: limit must be between 1 and %d", ErrInvalidInput, maxReportLimit)
	}
	return s.store.Reports.BestClients(ctx, period.From, period.To, limit)
}

func (s *ReportService) EarningsReport(ctx context.Context, period Period, format model.ReportFormat) (*ExportResult, error) {
	var (
		generator   ReportGenerator
		contentType string
	)
	switch format {
	case model.ReportFormatXLSX:
		generator = s.excel
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case model.ReportFormatPDF:
		generator = s.pdf
		contentType = "application/pdf"
	default:
		return nil, fmt.Errorf("%w: unsupported format %q", ErrInvalidInput, format)
	}

	professions, err := s.store.Reports.EarningsByProfession(ctx, period.From, period.To, 0)
	if err != nil {
		return nil, err
	}
	clients, err := s.store.Reports.BestClients(ctx, period.From, period.To, maxReportLimit)
	if err != nil {
		return nil, err
	}

	report := model.EarningsReport{
		PeriodStart: period.From,
		PeriodEnd:   period.To.Add(-time.Microsecond),
		Professions: professions,
		Clients:     clients,
		GeneratedAt: s.now(),
	}
	content, err := generator.Generate(report)
	if err != nil {
		return nil, err
	}

	return &ExportResult{
		FileName:    buildFileName(period, format),
		ContentType: contentType,
		Content:     content,
	}, nil
}

func buildFileName(period Period, format model.ReportFormat) string {
	return fmt.Sprintf("earnings-%s-%s.%s",
		period.From.Format("20060102"),
		period.To.Add(-time.Microsecond).Format("20060102"),
		format,
	)
}

func ParseReportFormat(raw string) (model.ReportFormat, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "xlsx":
		return model.ReportFormatXLSX, nil
	case "pdf":
		return model.ReportFormatPDF, nil
	default:
		return "", fmt.Errorf("%w: format must be xlsx or pdf", ErrInvalidInput)
	}
}
