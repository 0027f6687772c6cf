package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"github.com/aoliva-2020376/GestorAcademico-2020376/internal/repositories"
)

type reportService struct {
	repo   repositories.Repository
	db     *gorm.DB
	logger *slog.Logger
}

func NewReportService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger) ReportService {
	return &reportService{
		repo:   repo,
		db:     db,
		logger: logger,
	}
}

// CourseRoster renders the enrolled-student roster of a course as an xlsx
// workbook. Restricted to the owning teacher.
func (s *reportService) CourseRoster(ctx context.Context, courseID, requesterID uint) ([]byte, string, error) {
	course, err := s.repo.Course().GetByID(ctx, courseID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, "", ErrCourseNotFound
		}
		return nil, "", fmt.Errorf("failed to get course: %w", err)
	}

	if course.TeacherID != requesterID {
		return nil, "", ErrForbidden
	}

	students, err := s.repo.Enrollment().ListStudents(ctx, courseID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to list course students: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Roster"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{"ID", "Name", "Surname", "Username", "Email", "Member Since"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, "", fmt.Errorf("failed to write header: %w", err)
		}
	}

	for row, student := range students {
		values := []interface{}{
			student.ID,
			student.Name,
			student.Surname,
			student.Username,
			student.Email,
			student.CreatedAt.Format(time.RFC3339),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, "", fmt.Errorf("failed to write row: %w", err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", fmt.Errorf("failed to render workbook: %w", err)
	}

	filename := fmt.Sprintf("roster-course-%d.xlsx", courseID)

	s.logger.Info("Roster exported",
		"course_id", courseID,
		"teacher_id", requesterID,
		"students", len(students))

	return buf.Bytes(), filename, nil
}
