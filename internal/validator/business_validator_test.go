package validator

import (
	"strings"
	"testing"

	"github.com/aoliva-2020376/GestorAcademico-2020376/internal/models"
)

func validRegister() *RegisterRequest {
	return &RegisterRequest{
		Name:     "Ada",
		Surname:  "Lovelace",
		Username: "ada.lovelace",
		Email:    "ada@example.com",
		Password: "password123",
	}
}

func TestValidateRegister(t *testing.T) {
	v := New()

	tests := []struct {
		name    string
		mutate  func(*RegisterRequest)
		wantErr bool
	}{
		{name: "valid", mutate: func(r *RegisterRequest) {}},
		{name: "valid with role", mutate: func(r *RegisterRequest) { r.Role = models.RoleTeacher }},
		{name: "missing name", mutate: func(r *RegisterRequest) { r.Name = "" }, wantErr: true},
		{name: "blank name", mutate: func(r *RegisterRequest) { r.Name = "   " }, wantErr: true},
		{name: "missing email", mutate: func(r *RegisterRequest) { r.Email = "" }, wantErr: true},
		{name: "bad email", mutate: func(r *RegisterRequest) { r.Email = "not-an-email" }, wantErr: true},
		{name: "short password", mutate: func(r *RegisterRequest) { r.Password = "short" }, wantErr: true},
		{name: "username too long", mutate: func(r *RegisterRequest) { r.Username = strings.Repeat("a", 16) }, wantErr: true},
		{name: "username bad chars", mutate: func(r *RegisterRequest) { r.Username = "ada lovelace" }, wantErr: true},
		{name: "unknown role", mutate: func(r *RegisterRequest) { r.Role = "ADMIN_ROLE" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRegister()
			tt.mutate(req)

			errs := v.ValidateRegister(req)
			if errs.HasErrors() != tt.wantErr {
				t.Errorf("ValidateRegister() errors = %v, wantErr %v", errs, tt.wantErr)
			}
		})
	}
}

func TestValidateLogin(t *testing.T) {
	v := New()

	tests := []struct {
		name    string
		req     LoginRequest
		wantErr bool
	}{
		{name: "by email", req: LoginRequest{Email: "ada@example.com", Password: "secret"}},
		{name: "by username", req: LoginRequest{Username: "ada", Password: "secret"}},
		{name: "no identifier", req: LoginRequest{Password: "secret"}, wantErr: true},
		{name: "no password", req: LoginRequest{Email: "ada@example.com"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := v.ValidateLogin(&tt.req)
			if errs.HasErrors() != tt.wantErr {
				t.Errorf("ValidateLogin() errors = %v, wantErr %v", errs, tt.wantErr)
			}
		})
	}
}

func TestValidateCourseCreate(t *testing.T) {
	v := New()

	if errs := v.ValidateCourseCreate(&CourseCreateRequest{Name: "Algebra I"}); errs.HasErrors() {
		t.Errorf("valid course rejected: %v", errs)
	}
	if errs := v.ValidateCourseCreate(&CourseCreateRequest{}); !errs.HasErrors() {
		t.Error("missing name accepted")
	}
	if errs := v.ValidateCourseCreate(&CourseCreateRequest{Name: "   "}); !errs.HasErrors() {
		t.Error("blank name accepted")
	}
	long := strings.Repeat("x", 201)
	if errs := v.ValidateCourseCreate(&CourseCreateRequest{Name: long}); !errs.HasErrors() {
		t.Error("overlong name accepted")
	}
}

func TestValidateCourseUpdate_RequiresAField(t *testing.T) {
	v := New()

	if errs := v.ValidateCourseUpdate(&CourseUpdateRequest{}); !errs.HasErrors() {
		t.Error("empty patch accepted")
	}

	name := "Algebra II"
	if errs := v.ValidateCourseUpdate(&CourseUpdateRequest{Name: &name}); errs.HasErrors() {
		t.Errorf("valid patch rejected: %v", errs)
	}
}

func TestValidateUserUpdate_RequiresAField(t *testing.T) {
	v := New()

	if errs := v.ValidateUserUpdate(&UserUpdateRequest{}); !errs.HasErrors() {
		t.Error("empty patch accepted")
	}

	email := "new@example.com"
	if errs := v.ValidateUserUpdate(&UserUpdateRequest{Email: &email}); errs.HasErrors() {
		t.Errorf("valid patch rejected: %v", errs)
	}
}

func TestValidationErrorsMessage(t *testing.T) {
	errs := ValidationErrors{
		{Field: "email", Message: "is required"},
		{Field: "password", Message: "must be at least 8 characters"},
	}

	got := errs.Error()
	if !strings.Contains(got, "email: is required") || !strings.Contains(got, "password:") {
		t.Errorf("Error() = %q", got)
	}
}
