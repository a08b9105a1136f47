package repository

import (
	"context"
	"testing"

	"answerhub/internal/model"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&model.User{}, &model.Question{}, &model.Answer{}, &model.Task{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestRepository_CreateAndGetBy(t *testing.T) {
	db := newTestDB(t)
	repo := New[model.Question]()
	ctx := context.Background()

	question := &model.Question{Text: "What is Go?"}
	if err := repo.Create(ctx, db, question); err != nil {
		t.Fatalf("create: %v", err)
	}
	if question.ID == 0 {
		t.Fatalf("expected assigned id")
	}
	if question.CreatedAt.IsZero() {
		t.Fatalf("expected assigned creation timestamp")
	}

	got, err := repo.GetBy(ctx, db, Filters{"id": question.ID})
	if err != nil {
		t.Fatalf("get by: %v", err)
	}
	if got == nil || got.Text != "What is Go?" {
		t.Fatalf("unexpected entity: %+v", got)
	}
}

func TestRepository_GetBy_NoMatch(t *testing.T) {
	db := newTestDB(t)
	repo := New[model.Question]()

	got, err := repo.GetBy(context.Background(), db, Filters{"id": 42})
	if err != nil {
		t.Fatalf("expected no error on zero matches, got %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil for missing entity, got %+v", got)
	}
}

func TestRepository_GetAll_Order(t *testing.T) {
	db := newTestDB(t)
	repo := New[model.Question]()
	ctx := context.Background()

	for _, text := range []string{"first", "second", "third"} {
		if err := repo.Create(ctx, db, &model.Question{Text: text}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	questions, err := repo.GetAll(ctx, db, nil, "id DESC")
	if err != nil {
		t.Fatalf("get all: %v", err)
	}
	if len(questions) != 3 {
		t.Fatalf("expected 3 questions, got %d", len(questions))
	}
	if questions[0].Text != "third" {
		t.Fatalf("expected newest first, got %q", questions[0].Text)
	}

	empty, err := repo.GetAll(ctx, db, Filters{"text": "missing"})
	if err != nil {
		t.Fatalf("get all filtered: %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("expected empty result, got %d", len(empty))
	}
}

func TestRepository_UpdateBy(t *testing.T) {
	db := newTestDB(t)
	repo := New[model.Task]()
	ctx := context.Background()

	task := &model.Task{Title: "old", Description: "desc", Status: model.TaskStatusCreated}
	if err := repo.Create(ctx, db, task); err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := repo.UpdateBy(ctx, db, map[string]any{"title": "new"}, Filters{"id": task.ID})
	if err != nil {
		t.Fatalf("update by: %v", err)
	}
	if updated == nil || updated.Title != "new" {
		t.Fatalf("unexpected updated entity: %+v", updated)
	}
	if updated.Description != "desc" {
		t.Fatalf("expected untouched fields to survive partial update")
	}

	missing, err := repo.UpdateBy(ctx, db, map[string]any{"title": "x"}, Filters{"id": 999})
	if err != nil {
		t.Fatalf("update missing: %v", err)
	}
	if missing != nil {
		t.Fatalf("expected nil for missing entity")
	}
}

func TestRepository_UpdateBy_FilterOnUpdatedColumn(t *testing.T) {
	db := newTestDB(t)
	repo := New[model.Task]()
	ctx := context.Background()

	task := &model.Task{Title: "t", Status: model.TaskStatusCreated}
	if err := repo.Create(ctx, db, task); err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := repo.UpdateBy(ctx, db,
		map[string]any{"status": model.TaskStatusInProgress},
		Filters{"id": task.ID, "status": model.TaskStatusCreated},
	)
	if err != nil {
		t.Fatalf("guarded update: %v", err)
	}
	if updated == nil || updated.Status != model.TaskStatusInProgress {
		t.Fatalf("unexpected entity after guarded update: %+v", updated)
	}

	// 条件中的状态已经过期，不应再匹配
	stale, err := repo.UpdateBy(ctx, db,
		map[string]any{"status": model.TaskStatusInProgress},
		Filters{"id": task.ID, "status": model.TaskStatusCreated},
	)
	if err != nil {
		t.Fatalf("stale update: %v", err)
	}
	if stale != nil {
		t.Fatalf("expected no match for stale status filter")
	}
}

func TestRepository_DeleteBy(t *testing.T) {
	db := newTestDB(t)
	repo := New[model.Question]()
	ctx := context.Background()

	question := &model.Question{Text: "delete me"}
	if err := repo.Create(ctx, db, question); err != nil {
		t.Fatalf("create: %v", err)
	}

	deleted, err := repo.DeleteBy(ctx, db, Filters{"id": question.ID})
	if err != nil {
		t.Fatalf("delete by: %v", err)
	}
	if !deleted {
		t.Fatalf("expected deletion to report a removed row")
	}

	again, err := repo.DeleteBy(ctx, db, Filters{"id": question.ID})
	if err != nil {
		t.Fatalf("second delete: %v", err)
	}
	if again {
		t.Fatalf("expected second delete to report no removed row")
	}
}

func TestQuestionRepository_CascadeDelete(t *testing.T) {
	db := newTestDB(t)
	questions := NewQuestion()
	answers := New[model.Answer]()
	ctx := context.Background()

	question := &model.Question{Text: "What is Python?"}
	if err := questions.Create(ctx, db, question); err != nil {
		t.Fatalf("create question: %v", err)
	}
	for i := 0; i < 3; i++ {
		answer := &model.Answer{QuestionID: question.ID, UserID: 1, Text: "answer"}
		if err := answers.Create(ctx, db, answer); err != nil {
			t.Fatalf("create answer: %v", err)
		}
	}

	loaded, err := questions.GetWithAnswers(ctx, db, question.ID)
	if err != nil {
		t.Fatalf("get with answers: %v", err)
	}
	if loaded == nil || len(loaded.Answers) != 3 {
		t.Fatalf("expected 3 answers, got %+v", loaded)
	}

	deleted, err := questions.DeleteWithAnswers(ctx, db, question.ID)
	if err != nil {
		t.Fatalf("delete with answers: %v", err)
	}
	if !deleted {
		t.Fatalf("expected question to be deleted")
	}

	remaining, err := answers.GetAll(ctx, db, Filters{"question_id": question.ID})
	if err != nil {
		t.Fatalf("list answers: %v", err)
	}
	if len(remaining) != 0 {
		t.Fatalf("expected cascade delete to remove %d answers", len(remaining))
	}
}
