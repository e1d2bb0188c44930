package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/wareflow/backend-go/internal/domain"
	"github.com/wareflow/backend-go/internal/storage"
)

// ReportService exports day summaries to object storage. Export is
// best effort; a failed upload never fails the run that produced it.
type ReportService struct {
	store storage.ObjectStorage
}

func NewReportService(store storage.ObjectStorage) *ReportService {
	return &ReportService{store: store}
}

// Export uploads one report keyed by its date.
func (r *ReportService) Export(ctx context.Context, report *domain.DayReport) error {
	if r.store == nil {
		return nil
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"date", "orders_fulfilled", "orders_pending", "overspend", "underperformance", "fuel_spend", "gas_price"}); err != nil {
		return fmt.Errorf("write report header: %w", err)
	}
	if err := w.Write([]string{
		report.Date,
		strconv.Itoa(report.OrdersFulfilled),
		strconv.Itoa(report.OrdersPending),
		strconv.Itoa(report.OverspendCount),
		strconv.Itoa(report.UnderperformanceCount),
		strconv.FormatFloat(report.FuelSpend, 'f', 2, 64),
		strconv.FormatFloat(report.GasPrice, 'f', 3, 64),
	}); err != nil {
		return fmt.Errorf("write report row: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush report: %w", err)
	}

	key := fmt.Sprintf("reports/%s.csv", report.Date)
	if err := r.store.UploadObject(ctx, key, buf.Bytes()); err != nil {
		return fmt.Errorf("upload report: %w", err)
	}
	log.Info().Str("key", key).Msg("day report exported")
	return nil
}

// BuildDayReport assembles the export row from the current state.
func (s *SimulationService) BuildDayReport(ctx context.Context, day time.Time) (*domain.DayReport, error) {
	summary, err := s.buildSummary(ctx)
	if err != nil {
		return nil, err
	}
	return &domain.DayReport{
		Date:                  day.Format("20060102"),
		OrdersFulfilled:       summary.DeliveriesCompleted,
		OrdersPending:         summary.PendingOrders,
		OverspendCount:        summary.OverspendCount,
		UnderperformanceCount: summary.UnderperformanceCount,
		FuelSpend:             summary.FuelSpend,
		GasPrice:              summary.GasPrice,
	}, nil
}
