package usecase

import (
	"context"
	"log/slog"

	"answerhub/internal/model"
	"answerhub/internal/repository"

	"gorm.io/gorm"
)

// AnswerUsecase 回答相关的应用逻辑。
type AnswerUsecase struct {
	answers   *repository.Repository[model.Answer]
	questions *repository.QuestionRepository
	logger    *slog.Logger
}

// NewAnswer 创建回答 usecase。
func NewAnswer(logger *slog.Logger) *AnswerUsecase {
	return &AnswerUsecase{
		answers:   repository.New[model.Answer](),
		questions: repository.NewQuestion(),
		logger:    logger,
	}
}

// Create 为指定问题创建回答。目标问题不存在时不会写入任何记录。
func (u *AnswerUsecase) Create(ctx context.Context, db *gorm.DB, questionID, userID uint, text string) (*model.Answer, error) {
	question, err := u.questions.GetBy(ctx, db, repository.Filters{"id": questionID})
	if err != nil {
		return nil, err
	}
	if question == nil {
		return nil, ErrQuestionNotFound
	}

	answer := &model.Answer{
		QuestionID: questionID,
		UserID:     userID,
		Text:       text,
	}
	if err := u.answers.Create(ctx, db, answer); err != nil {
		return nil, err
	}

	if u.logger != nil {
		u.logger.Info("answer created",
			slog.Uint64("id", uint64(answer.ID)),
			slog.Uint64("question_id", uint64(questionID)),
		)
	}
	return answer, nil
}

// GetByID 按 ID 返回回答。
func (u *AnswerUsecase) GetByID(ctx context.Context, db *gorm.DB, id uint) (*model.Answer, error) {
	answer, err := u.answers.GetBy(ctx, db, repository.Filters{"id": id})
	if err != nil {
		return nil, err
	}
	if answer == nil {
		return nil, ErrAnswerNotFound
	}
	return answer, nil
}

// DeleteByID 按 ID 删除回答。
func (u *AnswerUsecase) DeleteByID(ctx context.Context, db *gorm.DB, id uint) error {
	deleted, err := u.answers.DeleteBy(ctx, db, repository.Filters{"id": id})
	if err != nil {
		return err
	}
	if !deleted {
		return ErrAnswerNotFound
	}

	if u.logger != nil {
		u.logger.Info("answer deleted", slog.Uint64("id", uint64(id)))
	}
	return nil
}
