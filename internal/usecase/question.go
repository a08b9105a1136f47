package usecase

import (
	"context"
	"log/slog"

	"answerhub/internal/model"
	"answerhub/internal/repository"

	"gorm.io/gorm"
)

// QuestionUsecase 问题相关的应用逻辑。
type QuestionUsecase struct {
	questions *repository.QuestionRepository
	logger    *slog.Logger
}

// NewQuestion 创建问题 usecase。
func NewQuestion(logger *slog.Logger) *QuestionUsecase {
	return &QuestionUsecase{
		questions: repository.NewQuestion(),
		logger:    logger,
	}
}

// GetAll 返回全部问题，按创建时间倒序（最新的在前）。
func (u *QuestionUsecase) GetAll(ctx context.Context, db *gorm.DB) ([]model.Question, error) {
	return u.questions.GetAll(ctx, db, nil, "created_at DESC, id DESC")
}

// Create 创建一个新问题。文本长度由请求边界校验，这里原样持久化。
func (u *QuestionUsecase) Create(ctx context.Context, db *gorm.DB, text string) (*model.Question, error) {
	question := &model.Question{Text: text}
	if err := u.questions.Create(ctx, db, question); err != nil {
		return nil, err
	}

	if u.logger != nil {
		u.logger.Info("question created", slog.Uint64("id", uint64(question.ID)))
	}
	return question, nil
}

// GetWithAnswers 返回问题及其全部回答。
func (u *QuestionUsecase) GetWithAnswers(ctx context.Context, db *gorm.DB, id uint) (*model.Question, error) {
	question, err := u.questions.GetWithAnswers(ctx, db, id)
	if err != nil {
		return nil, err
	}
	if question == nil {
		return nil, ErrQuestionNotFound
	}
	return question, nil
}

// DeleteByID 删除问题及其所有回答。
func (u *QuestionUsecase) DeleteByID(ctx context.Context, db *gorm.DB, id uint) error {
	deleted, err := u.questions.DeleteWithAnswers(ctx, db, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrQuestionNotFound
	}

	if u.logger != nil {
		u.logger.Info("question deleted", slog.Uint64("id", uint64(id)))
	}
	return nil
}
