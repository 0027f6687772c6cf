package services

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/aoliva-2020376/GestorAcademico-2020376/internal/events"
	"github.com/aoliva-2020376/GestorAcademico-2020376/internal/models"
	"github.com/aoliva-2020376/GestorAcademico-2020376/internal/repositories"
	"github.com/aoliva-2020376/GestorAcademico-2020376/internal/repositories/postgres"
	"github.com/aoliva-2020376/GestorAcademico-2020376/internal/utils"
	"github.com/aoliva-2020376/GestorAcademico-2020376/internal/validator"
	"github.com/aoliva-2020376/GestorAcademico-2020376/pkg"
)

type testEnv struct {
	db        *gorm.DB
	repo      repositories.Repository
	publisher *events.MockEventPublisher
	redis     *miniredis.Miniredis

	auth        AuthService
	users       UserService
	courses     CourseService
	enrollments EnrollmentService
	reports     ReportService
}

func newTestEnv(t *testing.T) *testEnv {
	return buildTestEnv(t, nil)
}

// newTestEnvWithCache runs the repositories against a real redis cache so the
// cached read path after mutations is part of the test surface
func newTestEnvWithCache(t *testing.T) *testEnv {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	env := buildTestEnv(t, client)
	env.redis = mr
	return env
}

// waitForCacheKey blocks until the asynchronous cache write-back lands
func (e *testEnv) waitForCacheKey(t *testing.T, key string) {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for !e.redis.Exists(key) {
		if time.Now().After(deadline) {
			t.Fatalf("cache key %s never landed", key)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func buildTestEnv(t *testing.T, redisClient *redis.Client) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	// A single connection keeps every session on the same in-memory database
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get database instance: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := pkg.AutoMigrate(db); err != nil {
		t.Fatalf("failed to migrate schema: %v", err)
	}

	slogLogger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	repo := postgres.NewPostgreSQLRepository(postgres.RepositoryConfig{DB: db, RedisClient: redisClient})
	publisher := events.NewMockEventPublisher(slogLogger)
	v := validator.New()
	tokens := utils.NewTokenManager("test-secret", time.Hour)

	return &testEnv{
		db:          db,
		repo:        repo,
		publisher:   publisher,
		auth:        NewAuthService(repo, db, slogLogger, v, tokens),
		users:       NewUserService(repo, db, slogLogger, v),
		courses:     NewCourseService(repo, db, slogLogger, v, publisher),
		enrollments: NewEnrollmentService(repo, db, slogLogger, publisher),
		reports:     NewReportService(repo, db, slogLogger),
	}
}

var testPasswordHash = func() string {
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	return string(hash)
}()

func (e *testEnv) createUser(t *testing.T, username string, role models.UserRole) *models.User {
	t.Helper()

	user := &models.User{
		Name:     "Test",
		Surname:  "User",
		Username: username,
		Email:    fmt.Sprintf("%s@example.com", username),
		Password: testPasswordHash,
		Role:     role,
	}
	if err := e.repo.User().Create(context.Background(), user); err != nil {
		t.Fatalf("failed to create user %s: %v", username, err)
	}
	return user
}

func (e *testEnv) createCourse(t *testing.T, name string, teacherID uint) *models.Course {
	t.Helper()

	course := &models.Course{
		Name:      name,
		TeacherID: teacherID,
	}
	if err := e.repo.Course().Create(context.Background(), course); err != nil {
		t.Fatalf("failed to create course %s: %v", name, err)
	}
	return course
}

func (e *testEnv) eventsOfType(eventType string) []events.Event {
	var out []events.Event
	for _, ev := range e.publisher.GetPublishedEvents() {
		if ev.Type == eventType {
			out = append(out, ev)
		}
	}
	return out
}
