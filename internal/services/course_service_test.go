package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/aoliva-2020376/GestorAcademico-2020376/internal/events"
	"github.com/aoliva-2020376/GestorAcademico-2020376/internal/models"
	"github.com/aoliva-2020376/GestorAcademico-2020376/internal/validator"
)

func TestCourseCreate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	teacher := env.createUser(t, "teacher1", models.RoleTeacher)

	desc := "Linear equations and matrices"
	course, err := env.courses.Create(ctx, teacher.ID, &validator.CourseCreateRequest{
		Name:        "Algebra I",
		Description: &desc,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if course.TeacherID != teacher.ID {
		t.Errorf("teacher ID = %d, want %d", course.TeacherID, teacher.ID)
	}
	if course.Name != "Algebra I" {
		t.Errorf("name = %s, want Algebra I", course.Name)
	}
	if course.Description == nil || *course.Description != desc {
		t.Errorf("description = %v, want %s", course.Description, desc)
	}
	if len(course.Students) != 0 {
		t.Errorf("new course should have no students, got %d", len(course.Students))
	}
}

func TestCourseCreate_StudentRejected(t *testing.T) {
	env := newTestEnv(t)

	student := env.createUser(t, "student1", models.RoleStudent)

	_, err := env.courses.Create(context.Background(), student.ID, &validator.CourseCreateRequest{
		Name: "Algebra I",
	})
	if !errors.Is(err, ErrInvalidRole) {
		t.Errorf("Create() as student error = %v, want ErrInvalidRole", err)
	}
}

func TestCourseCreate_EmptyName(t *testing.T) {
	env := newTestEnv(t)

	teacher := env.createUser(t, "teacher1", models.RoleTeacher)

	_, err := env.courses.Create(context.Background(), teacher.ID, &validator.CourseCreateRequest{})
	if !errors.Is(err, ErrValidation) {
		t.Errorf("Create() without name error = %v, want validation error", err)
	}
}

func TestCourseGetByID_NotFound(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.courses.GetByID(context.Background(), 9999)
	if !errors.Is(err, ErrCourseNotFound) {
		t.Errorf("GetByID() error = %v, want ErrCourseNotFound", err)
	}
}

func TestCourseList_Pagination(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	teacher := env.createUser(t, "teacher1", models.RoleTeacher)
	for i := 0; i < 5; i++ {
		env.createCourse(t, fmt.Sprintf("Course %d", i+1), teacher.ID)
	}

	page, total, err := env.courses.List(ctx, 2, 0)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if total != 5 {
		t.Errorf("total = %d, want 5", total)
	}
	if len(page) != 2 {
		t.Errorf("page size = %d, want 2", len(page))
	}

	rest, _, err := env.courses.List(ctx, 10, 4)
	if err != nil {
		t.Fatalf("List() with offset error = %v", err)
	}
	if len(rest) != 1 {
		t.Errorf("remaining page size = %d, want 1", len(rest))
	}
}

func TestCourseUpdate_OwnerOnly(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	owner := env.createUser(t, "teacher1", models.RoleTeacher)
	other := env.createUser(t, "teacher2", models.RoleTeacher)
	course := env.createCourse(t, "Algebra I", owner.ID)

	name := "Algebra II"
	_, err := env.courses.Update(ctx, course.ID, other.ID, &validator.CourseUpdateRequest{Name: &name})
	if !errors.Is(err, ErrForbidden) {
		t.Errorf("Update() by non-owner error = %v, want ErrForbidden", err)
	}

	updated, err := env.courses.Update(ctx, course.ID, owner.ID, &validator.CourseUpdateRequest{Name: &name})
	if err != nil {
		t.Fatalf("Update() by owner error = %v", err)
	}
	if updated.Name != "Algebra II" {
		t.Errorf("name = %s, want Algebra II", updated.Name)
	}
	if updated.TeacherID != owner.ID {
		t.Errorf("teacher ID = %d, ownership must not change", updated.TeacherID)
	}
}

func TestCourseUpdate_RequiresAField(t *testing.T) {
	env := newTestEnv(t)

	owner := env.createUser(t, "teacher1", models.RoleTeacher)
	course := env.createCourse(t, "Algebra I", owner.ID)

	_, err := env.courses.Update(context.Background(), course.ID, owner.ID, &validator.CourseUpdateRequest{})
	if !errors.Is(err, ErrValidation) {
		t.Errorf("Update() with empty patch error = %v, want validation error", err)
	}
}

func TestCourseDelete_OwnerOnly(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	owner := env.createUser(t, "teacher1", models.RoleTeacher)
	other := env.createUser(t, "teacher2", models.RoleTeacher)
	course := env.createCourse(t, "Algebra I", owner.ID)

	if err := env.courses.Delete(ctx, course.ID, other.ID); !errors.Is(err, ErrForbidden) {
		t.Errorf("Delete() by non-owner error = %v, want ErrForbidden", err)
	}

	if err := env.courses.Delete(ctx, course.ID, owner.ID); err != nil {
		t.Fatalf("Delete() by owner error = %v", err)
	}

	if _, err := env.courses.GetByID(ctx, course.ID); !errors.Is(err, ErrCourseNotFound) {
		t.Errorf("GetByID() after delete error = %v, want ErrCourseNotFound", err)
	}
}

func TestCourseDelete_CascadesEnrollments(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	teacher := env.createUser(t, "teacher1", models.RoleTeacher)
	course := env.createCourse(t, "Algebra I", teacher.ID)
	keep := env.createCourse(t, "Geometry", teacher.ID)

	var students []*models.User
	for i := 0; i < 2; i++ {
		s := env.createUser(t, fmt.Sprintf("student%d", i+1), models.RoleStudent)
		students = append(students, s)
		if _, err := env.enrollments.Enroll(ctx, course.ID, s.ID, s.ID); err != nil {
			t.Fatalf("Enroll() error = %v", err)
		}
	}
	if _, err := env.enrollments.Enroll(ctx, keep.ID, students[0].ID, students[0].ID); err != nil {
		t.Fatalf("Enroll() into surviving course error = %v", err)
	}
	env.publisher.ClearEvents()

	if err := env.courses.Delete(ctx, course.ID, teacher.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	// Every student of the deleted course lost exactly that membership
	for i, s := range students {
		courses, err := env.enrollments.CoursesByStudent(ctx, s.ID)
		if err != nil {
			t.Fatalf("CoursesByStudent() error = %v", err)
		}
		for _, c := range courses {
			if c.ID == course.ID {
				t.Errorf("student %d still enrolled in deleted course", i+1)
			}
		}
	}

	// The unrelated enrollment survives
	remaining, err := env.enrollments.CoursesByStudent(ctx, students[0].ID)
	if err != nil {
		t.Fatalf("CoursesByStudent() error = %v", err)
	}
	if len(remaining) != 1 || remaining[0].ID != keep.ID {
		t.Errorf("surviving enrollments = %v, want only course %d", remaining, keep.ID)
	}

	published := env.eventsOfType(events.EventCourseDeleted)
	if len(published) != 1 {
		t.Fatalf("expected 1 course.deleted event, got %d", len(published))
	}
	payload, ok := published[0].Data.(events.CourseDeletedEvent)
	if !ok {
		t.Fatalf("event data type = %T, want events.CourseDeletedEvent", published[0].Data)
	}
	if payload.CourseID != course.ID || payload.RemovedEnrollments != 2 {
		t.Errorf("event payload = %+v, want course %d with 2 removed enrollments", payload, course.ID)
	}
}

func TestCourseDelete_EvictsCachedCourse(t *testing.T) {
	env := newTestEnvWithCache(t)
	ctx := context.Background()

	teacher := env.createUser(t, "teacher1", models.RoleTeacher)
	course := env.createCourse(t, "Algebra I", teacher.ID)

	// Warm the cache and wait for the asynchronous write-back
	if _, err := env.courses.GetByID(ctx, course.ID); err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	env.waitForCacheKey(t, fmt.Sprintf("course:id:%d", course.ID))

	if err := env.courses.Delete(ctx, course.ID, teacher.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	// The cached copy must not outlive the course
	if _, err := env.courses.GetByID(ctx, course.ID); !errors.Is(err, ErrCourseNotFound) {
		t.Errorf("GetByID() after delete error = %v, want ErrCourseNotFound", err)
	}
}

func TestCourseUpdate_RefreshesCachedCourse(t *testing.T) {
	env := newTestEnvWithCache(t)
	ctx := context.Background()

	teacher := env.createUser(t, "teacher1", models.RoleTeacher)
	course := env.createCourse(t, "Algebra I", teacher.ID)

	if _, err := env.courses.GetByID(ctx, course.ID); err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	env.waitForCacheKey(t, fmt.Sprintf("course:id:%d", course.ID))

	name := "Algebra II"
	if _, err := env.courses.Update(ctx, course.ID, teacher.ID, &validator.CourseUpdateRequest{Name: &name}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	got, err := env.courses.GetByID(ctx, course.ID)
	if err != nil {
		t.Fatalf("GetByID() after update error = %v", err)
	}
	if got.Name != "Algebra II" {
		t.Errorf("name after update = %s, want Algebra II", got.Name)
	}
}

func TestCourseDelete_NotFound(t *testing.T) {
	env := newTestEnv(t)

	teacher := env.createUser(t, "teacher1", models.RoleTeacher)

	if err := env.courses.Delete(context.Background(), 9999, teacher.ID); !errors.Is(err, ErrCourseNotFound) {
		t.Errorf("Delete() of unknown course error = %v, want ErrCourseNotFound", err)
	}
}
