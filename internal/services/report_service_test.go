package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/aoliva-2020376/GestorAcademico-2020376/internal/models"
)

func TestCourseRoster(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	teacher := env.createUser(t, "teacher1", models.RoleTeacher)
	course := env.createCourse(t, "Algebra I", teacher.ID)

	for i := 0; i < 2; i++ {
		s := env.createUser(t, fmt.Sprintf("student%d", i+1), models.RoleStudent)
		if _, err := env.enrollments.Enroll(ctx, course.ID, s.ID, s.ID); err != nil {
			t.Fatalf("Enroll() error = %v", err)
		}
	}

	data, filename, err := env.reports.CourseRoster(ctx, course.ID, teacher.ID)
	if err != nil {
		t.Fatalf("CourseRoster() error = %v", err)
	}

	want := fmt.Sprintf("roster-course-%d.xlsx", course.ID)
	if filename != want {
		t.Errorf("filename = %s, want %s", filename, want)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("exported workbook does not open: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Roster")
	if err != nil {
		t.Fatalf("GetRows() error = %v", err)
	}
	// Header plus one row per enrolled student
	if len(rows) != 3 {
		t.Fatalf("row count = %d, want 3", len(rows))
	}
	if rows[0][1] != "Name" || rows[0][3] != "Username" {
		t.Errorf("unexpected header row: %v", rows[0])
	}
	if rows[1][3] != "student1" {
		t.Errorf("first roster row username = %s, want student1", rows[1][3])
	}
}

func TestCourseRoster_OwnerOnly(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	owner := env.createUser(t, "teacher1", models.RoleTeacher)
	other := env.createUser(t, "teacher2", models.RoleTeacher)
	course := env.createCourse(t, "Algebra I", owner.ID)

	if _, _, err := env.reports.CourseRoster(ctx, course.ID, other.ID); !errors.Is(err, ErrForbidden) {
		t.Errorf("CourseRoster() by non-owner error = %v, want ErrForbidden", err)
	}
}

func TestCourseRoster_NotFound(t *testing.T) {
	env := newTestEnv(t)

	teacher := env.createUser(t, "teacher1", models.RoleTeacher)

	if _, _, err := env.reports.CourseRoster(context.Background(), 9999, teacher.ID); !errors.Is(err, ErrCourseNotFound) {
		t.Errorf("CourseRoster() for unknown course error = %v, want ErrCourseNotFound", err)
	}
}
