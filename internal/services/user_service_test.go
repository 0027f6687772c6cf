package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/aoliva-2020376/GestorAcademico-2020376/internal/models"
	"github.com/aoliva-2020376/GestorAcademico-2020376/internal/validator"
)

func TestUserList_Pagination(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		env.createUser(t, fmt.Sprintf("student%d", i+1), models.RoleStudent)
	}

	page, total, err := env.users.List(ctx, 3, 0)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if total != 5 {
		t.Errorf("total = %d, want 5", total)
	}
	if len(page) != 3 {
		t.Errorf("page size = %d, want 3", len(page))
	}
}

func TestUserGetByID(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	created := env.createUser(t, "student1", models.RoleStudent)

	user, err := env.users.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if user.Username != "student1" {
		t.Errorf("username = %s, want student1", user.Username)
	}

	if _, err := env.users.GetByID(ctx, 9999); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("GetByID() for unknown user error = %v, want ErrUserNotFound", err)
	}
}

func TestUserUpdate_SelfOnly(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user := env.createUser(t, "student1", models.RoleStudent)
	other := env.createUser(t, "student2", models.RoleStudent)

	name := "Updated"
	if _, err := env.users.Update(ctx, user.ID, other.ID, &validator.UserUpdateRequest{Name: &name}); !errors.Is(err, ErrForbidden) {
		t.Errorf("Update() of another user error = %v, want ErrForbidden", err)
	}

	updated, err := env.users.Update(ctx, user.ID, user.ID, &validator.UserUpdateRequest{Name: &name})
	if err != nil {
		t.Fatalf("Update() of own profile error = %v", err)
	}
	if updated.Name != "Updated" {
		t.Errorf("name = %s, want Updated", updated.Name)
	}
}

func TestUserUpdate_UsernameConflict(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user := env.createUser(t, "student1", models.RoleStudent)
	env.createUser(t, "student2", models.RoleStudent)

	taken := "student2"
	if _, err := env.users.Update(ctx, user.ID, user.ID, &validator.UserUpdateRequest{Username: &taken}); !errors.Is(err, ErrDuplicateUsername) {
		t.Errorf("Update() to taken username error = %v, want ErrDuplicateUsername", err)
	}

	// Re-submitting the current username is not a conflict
	same := "student1"
	if _, err := env.users.Update(ctx, user.ID, user.ID, &validator.UserUpdateRequest{Username: &same}); err != nil {
		t.Errorf("Update() keeping own username error = %v", err)
	}
}

func TestUserUpdate_RequiresAField(t *testing.T) {
	env := newTestEnv(t)

	user := env.createUser(t, "student1", models.RoleStudent)

	if _, err := env.users.Update(context.Background(), user.ID, user.ID, &validator.UserUpdateRequest{}); !errors.Is(err, ErrValidation) {
		t.Errorf("Update() with empty patch error = %v, want validation error", err)
	}
}

func TestUserDelete_SelfOnly(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user := env.createUser(t, "student1", models.RoleStudent)
	other := env.createUser(t, "student2", models.RoleStudent)

	if err := env.users.Delete(ctx, user.ID, other.ID); !errors.Is(err, ErrForbidden) {
		t.Errorf("Delete() of another user error = %v, want ErrForbidden", err)
	}

	if err := env.users.Delete(ctx, user.ID, user.ID); err != nil {
		t.Fatalf("Delete() of own account error = %v", err)
	}
	if _, err := env.users.GetByID(ctx, user.ID); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("GetByID() after delete error = %v, want ErrUserNotFound", err)
	}
}

func TestUserDelete_EvictsCachedUser(t *testing.T) {
	env := newTestEnvWithCache(t)
	ctx := context.Background()

	user := env.createUser(t, "student1", models.RoleStudent)

	if _, err := env.users.GetByID(ctx, user.ID); err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	env.waitForCacheKey(t, fmt.Sprintf("user:id:%d", user.ID))

	if err := env.users.Delete(ctx, user.ID, user.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	if _, err := env.users.GetByID(ctx, user.ID); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("GetByID() after delete error = %v, want ErrUserNotFound", err)
	}
}

func TestUserDelete_PrunesEnrollments(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	teacher := env.createUser(t, "teacher1", models.RoleTeacher)
	student := env.createUser(t, "student1", models.RoleStudent)
	course := env.createCourse(t, "Algebra I", teacher.ID)

	if _, err := env.enrollments.Enroll(ctx, course.ID, student.ID, student.ID); err != nil {
		t.Fatalf("Enroll() error = %v", err)
	}

	if err := env.users.Delete(ctx, student.ID, student.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	// The course roster no longer references the deleted student
	roster, err := env.repo.Enrollment().ListStudents(ctx, course.ID)
	if err != nil {
		t.Fatalf("ListStudents() error = %v", err)
	}
	if len(roster) != 0 {
		t.Errorf("expected empty roster after student deletion, got %d entries", len(roster))
	}
}
