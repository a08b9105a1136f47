package usecase

import (
	"context"
	"log/slog"

	"answerhub/internal/model"
	"answerhub/internal/pkg/metrics"
	"answerhub/internal/repository"

	"gorm.io/gorm"
)

// TaskCreateInput 创建任务的输入。
type TaskCreateInput struct {
	Title       string
	Description string
}

// TaskUpdateInput 部分更新任务的输入，nil 字段不修改。
type TaskUpdateInput struct {
	Title       *string
	Description *string
}

// TaskUsecase 任务相关的应用逻辑，包括状态机的唯一修改入口。
type TaskUsecase struct {
	tasks  *repository.Repository[model.Task]
	logger *slog.Logger
}

// NewTask 创建任务 usecase。
func NewTask(logger *slog.Logger) *TaskUsecase {
	return &TaskUsecase{
		tasks:  repository.New[model.Task](),
		logger: logger,
	}
}

// Create 创建任务，初始状态固定为 CREATED。
func (u *TaskUsecase) Create(ctx context.Context, db *gorm.DB, input TaskCreateInput) (*model.Task, error) {
	task := &model.Task{
		Title:       input.Title,
		Description: input.Description,
		Status:      model.TaskStatusCreated,
	}
	if err := u.tasks.Create(ctx, db, task); err != nil {
		return nil, err
	}

	if u.logger != nil {
		u.logger.Info("task created", slog.Uint64("id", uint64(task.ID)))
	}
	return task, nil
}

// GetByID 按 ID 返回任务。
func (u *TaskUsecase) GetByID(ctx context.Context, db *gorm.DB, id uint) (*model.Task, error) {
	task, err := u.tasks.GetBy(ctx, db, repository.Filters{"id": id})
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, ErrTaskNotFound
	}
	return task, nil
}

// GetAll 返回全部任务。
func (u *TaskUsecase) GetAll(ctx context.Context, db *gorm.DB) ([]model.Task, error) {
	return u.tasks.GetAll(ctx, db, nil)
}

// UpdateByID 部分更新任务的标题/描述。状态不经过这里修改。
func (u *TaskUsecase) UpdateByID(ctx context.Context, db *gorm.DB, id uint, input TaskUpdateInput) (*model.Task, error) {
	updates := map[string]any{}
	if input.Title != nil {
		updates["title"] = *input.Title
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if len(updates) == 0 {
		return u.GetByID(ctx, db, id)
	}

	task, err := u.tasks.UpdateBy(ctx, db, updates, repository.Filters{"id": id})
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, ErrTaskNotFound
	}
	return task, nil
}

// DeleteByID 按 ID 删除任务。
func (u *TaskUsecase) DeleteByID(ctx context.Context, db *gorm.DB, id uint) error {
	deleted, err := u.tasks.DeleteBy(ctx, db, repository.Filters{"id": id})
	if err != nil {
		return err
	}
	if !deleted {
		return ErrTaskNotFound
	}
	return nil
}

// GetTransitions 返回任务当前状态可到达的状态集合（终态为空集合）。
func (u *TaskUsecase) GetTransitions(ctx context.Context, db *gorm.DB, id uint) ([]model.TaskStatus, error) {
	task, err := u.GetByID(ctx, db, id)
	if err != nil {
		return nil, err
	}
	return task.Status.Transitions(), nil
}

// UpdateStatus 校验并执行任务状态转移。
//
// 这是状态的唯一写入口。更新语句带上当前状态作为条件，
// 并发修改同一任务时校验过的转移不会覆盖别人的写入。
func (u *TaskUsecase) UpdateStatus(ctx context.Context, db *gorm.DB, id uint, status model.TaskStatus) (*model.Task, error) {
	task, err := u.GetByID(ctx, db, id)
	if err != nil {
		return nil, err
	}
	if !task.Status.CanTransitionTo(status) {
		return nil, ErrIllegalTransition
	}

	updated, err := u.tasks.UpdateBy(ctx, db,
		map[string]any{"status": status},
		repository.Filters{"id": id, "status": task.Status},
	)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		// 任务在校验后被并发删除或改变了状态
		if current, getErr := u.tasks.GetBy(ctx, db, repository.Filters{"id": id}); getErr != nil {
			return nil, getErr
		} else if current == nil {
			return nil, ErrTaskNotFound
		}
		return nil, ErrIllegalTransition
	}

	if metrics.TaskTransitionsTotal != nil {
		metrics.TaskTransitionsTotal.WithLabelValues(string(task.Status), string(status)).Inc()
	}
	if u.logger != nil {
		u.logger.Info("task status updated",
			slog.Uint64("id", uint64(id)),
			slog.String("from", string(task.Status)),
			slog.String("to", string(status)),
		)
	}
	return updated, nil
}
