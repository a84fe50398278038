package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"github.com/SAP-F-2025/score-service/internal/models"
)

const (
	scoresSheet     = "Scores"
	statisticsSheet = "Statistics"

	XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type exportService struct {
	scores ScoreService
	logger *slog.Logger
}

func NewExportService(scores ScoreService, logger *slog.Logger) ExportService {
	return &exportService{
		scores: scores,
		logger: logger,
	}
}

// ExportScores runs the query and renders it as a workbook with a scores
// sheet and a statistics sheet. A not-found query yields ErrNotFound.
func (s *exportService) ExportScores(ctx context.Context, kind models.QueryKind, key string) (*ExportFile, error) {
	result, err := s.scores.Query(ctx, kind, key)
	if err != nil {
		return nil, err
	}
	if result.Error != "" {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, result.Error)
	}

	data, err := renderWorkbook(kind, result)
	if err != nil {
		return nil, fmt.Errorf("failed to render workbook: %w", err)
	}

	s.logger.Info("Exported scores", "kind", kind, "key", key, "rows", len(result.Scores))
	return &ExportFile{
		Filename:    fmt.Sprintf("scores-%s-%s.xlsx", kind, key),
		ContentType: XLSXContentType,
		Data:        data,
	}, nil
}

func renderWorkbook(kind models.QueryKind, result *models.ScoreQueryResult) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", scoresSheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(statisticsSheet); err != nil {
		return nil, err
	}

	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}

	var columns []interface{}
	if kind == models.QueryByStudent {
		columns = []interface{}{"Course ID", "Course Name", "Teacher", "Score"}
	} else {
		columns = []interface{}{"Student ID", "Name", "Major", "Score"}
	}
	if err := writeRow(f, scoresSheet, 1, columns); err != nil {
		return nil, err
	}
	if err := f.SetRowStyle(scoresSheet, 1, 1, header); err != nil {
		return nil, err
	}

	for i, row := range result.Scores {
		var values []interface{}
		switch {
		case row.Course != nil:
			values = []interface{}{row.Course.CourseID, row.Course.CourseName, row.Course.Teacher, row.Score}
		case row.Student != nil:
			values = []interface{}{row.Student.StudentID, row.Student.Name, row.Student.Major, row.Score}
		default:
			values = []interface{}{"", "", "", row.Score}
		}
		if err := writeRow(f, scoresSheet, i+2, values); err != nil {
			return nil, err
		}
	}

	stats := [][]interface{}{
		{"Average", result.Statistics.Average},
		{"Highest", result.Statistics.Highest},
		{"Lowest", result.Statistics.Lowest},
		{"Count", result.Statistics.Count},
		{"Pass Rate", result.Statistics.PassRate},
	}
	if info := result.StudentInfo; info != nil {
		stats = append([][]interface{}{
			{"Student ID", info.ID},
			{"Name", info.Name},
			{"Class", info.Class},
			{"Major", info.Major},
		}, stats...)
	}
	for i, values := range stats {
		if err := writeRow(f, statisticsSheet, i+1, values); err != nil {
			return nil, err
		}
	}
	if err := f.SetColStyle(statisticsSheet, "A", header); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}
