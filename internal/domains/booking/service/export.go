package service

import (
	"context"
	"fmt"
	"labplanner/internal/domains/booking/collision"
	"labplanner/internal/domains/booking/model"
	"labplanner/internal/domains/booking/model/dto"
	"labplanner/internal/domains/booking/repository"
	"labplanner/shared/constant"
	gDto "labplanner/shared/dto"
	"labplanner/shared/failure"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"
)

const exportSheet = "Bookings"

var exportHeaders = []any{
	"ID", "Equipment", "Start", "End", "Description", "TMA", "Project", "Note", "Blocker",
}

type columnWidth struct {
	from, to string
	width    float64
}

var exportWidths = []columnWidth{
	{from: "B", to: "B", width: 30},
	{from: "C", to: "D", width: 12},
	{from: "E", to: "E", width: 50},
	{from: "F", to: "H", width: 20},
}

func applyColumnWidths(f *excelize.File, sheet string, widths []columnWidth) error {
	for _, w := range widths {
		if err := f.SetColWidth(sheet, w.from, w.to, w.width); err != nil {
			return fmt.Errorf("failed to set width of columns %s:%s: %w", w.from, w.to, err)
		}
	}

	return nil
}

// Export writes the bookings overlapping [From, To] to an xlsx workbook and
// uploads it to object storage.
func (s *serviceImpl) Export(ctx context.Context, req dto.ExportRequest) (res dto.ExportResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Export")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	from, to, err := collision.ParseRange(req.From, req.To)
	if err != nil {
		return res, failure.BadRequest(err) // nolint:wrapcheck
	}

	bookings, err := s.repo.GetAll(ctx,
		gDto.QueryParams{SortBy: model.FieldStartDate, SortDir: gDto.SortDirAsc},
		repository.FilterWithin(from.In(time.UTC), to.In(time.UTC)),
	)
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings for export")

		return res, fmt.Errorf("failed to get bookings for export: %w", err)
	}

	data, err := buildWorkbook(bookings)
	if err != nil {
		log.Error().Err(err).Msg("failed to build booking workbook")

		return res, err
	}

	res.FileName = fmt.Sprintf("bookings_%s_%s_%s.xlsx", from, to, uuid.NewString()[:8])
	res.TotalData = len(bookings)

	res.URL, err = s.storage.UploadFileBytes(ctx, s.cfg.External.S3.BucketName, s.cfg.Booking.ExportDirectory, res.FileName, constant.ContentTypeXLSX, data)
	if err != nil {
		log.Error().Err(err).Msg("failed to upload booking workbook")

		return res, fmt.Errorf("failed to upload booking workbook: %w", err)
	}

	return res, nil
}

func buildWorkbook(bookings []model.Booking) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	if err := f.SetSheetRow(exportSheet, "A1", &exportHeaders); err != nil {
		return nil, fmt.Errorf("failed to write header row: %w", err)
	}

	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	if err = f.SetCellStyle(exportSheet, "A1", "I1", style); err != nil {
		return nil, fmt.Errorf("failed to style header row: %w", err)
	}

	for i, booking := range bookings {
		var r dto.BookingResponse
		r.FromModel(booking)

		row := []any{
			r.ID, r.EquipmentID, r.StartDate, r.EndDate, r.Description, r.TmaNumber, r.ProjectName, r.Note, r.IsBlocker,
		}

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("failed to address row %d: %w", i+2, err)
		}

		if err = f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := applyColumnWidths(f, exportSheet, exportWidths); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}

	return buf.Bytes(), nil
}
