package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/exampool/exam-service/internal/repositories"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// ExportService renders an exam's submitted results as a downloadable file.
type ExportService interface {
	ExportExamResultsXLSX(ctx context.Context, examID uint, actor Actor) ([]byte, error)
	ExportExamResultsCSV(ctx context.Context, examID uint, actor Actor) ([]byte, error)
}

type exportService struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewExportService(repo repositories.Repository, logger *slog.Logger) ExportService {
	return &exportService{
		repo:   repo,
		logger: logger,
	}
}

var exportHeader = []string{"Test Taker", "Grade", "Percentage", "Submitted At"}

type exportRow struct {
	username    string
	grade       int
	percentage  float64
	submittedAt time.Time
}

func (s *exportService) ExportExamResultsXLSX(ctx context.Context, examID uint, actor Actor) ([]byte, error) {
	rows, err := s.collectRows(ctx, examID, actor)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	if err := f.SetSheetRow(sheet, "A1", &exportHeader); err != nil {
		return nil, fmt.Errorf("failed to write header row: %w", err)
	}
	for i, row := range rows {
		cell := fmt.Sprintf("A%d", i+2)
		values := []interface{}{
			row.username,
			row.grade,
			fmt.Sprintf("%.1f%%", row.percentage),
			row.submittedAt.Format(time.RFC3339),
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return nil, fmt.Errorf("failed to write result row: %w", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to render workbook: %w", err)
	}

	s.logger.Info("exported exam results", "exam_id", examID, "format", "xlsx", "rows", len(rows))
	return buf.Bytes(), nil
}

func (s *exportService) ExportExamResultsCSV(ctx context.Context, examID uint, actor Actor) ([]byte, error) {
	rows, err := s.collectRows(ctx, examID, actor)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	if err := writer.Write(exportHeader); err != nil {
		return nil, err
	}
	for _, row := range rows {
		record := []string{
			row.username,
			strconv.Itoa(row.grade),
			fmt.Sprintf("%.1f%%", row.percentage),
			row.submittedAt.Format(time.RFC3339),
		}
		if err := writer.Write(record); err != nil {
			return nil, err
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}

	s.logger.Info("exported exam results", "exam_id", examID, "format", "csv", "rows", len(rows))
	return buf.Bytes(), nil
}

func (s *exportService) collectRows(ctx context.Context, examID uint, actor Actor) ([]exportRow, error) {
	if err := requireAdmin(actor, "exam", "export_results"); err != nil {
		return nil, err
	}

	exam, err := s.repo.Exam().GetByID(ctx, examID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrExamNotFound
		}
		return nil, err
	}

	sessions, err := s.repo.TestSession().ListSubmittedByExam(ctx, examID)
	if err != nil {
		return nil, err
	}

	rows := make([]exportRow, 0, len(sessions))
	for _, session := range sessions {
		rows = append(rows, exportRow{
			username:    session.TestTaker.Username,
			grade:       session.Grade,
			percentage:  float64(session.Grade) / float64(exam.NumberOfQuestions) * 100,
			submittedAt: session.UpdatedAt,
		})
	}
	return rows, nil
}
