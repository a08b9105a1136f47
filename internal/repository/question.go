package repository

import (
	"context"
	"errors"
	"fmt"

	"answerhub/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// QuestionRepository 在通用仓储之上补充问题特有的查询。
type QuestionRepository struct {
	Repository[model.Question]
}

// NewQuestion 创建问题仓储。
func NewQuestion() *QuestionRepository {
	return &QuestionRepository{}
}

// GetWithAnswers 返回问题及其全部回答（预加载，不分页）。
//
// 没有找到时返回 (nil, nil)。
func (r *QuestionRepository) GetWithAnswers(ctx context.Context, db *gorm.DB, id uint) (*model.Question, error) {
	question := &model.Question{}
	err := db.WithContext(ctx).Preload("Answers").Where("id = ?", id).First(question).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get question with answers: %w", err)
	}
	return question, nil
}

// DeleteWithAnswers 删除问题并级联删除其所有回答。
//
// 除数据库外键级联外，这里显式带上关联删除，保证不依赖连接
// 是否开启了外键约束。返回是否删除了问题。
func (r *QuestionRepository) DeleteWithAnswers(ctx context.Context, db *gorm.DB, id uint) (bool, error) {
	result := db.WithContext(ctx).Select(clause.Associations).Delete(&model.Question{ID: id})
	if result.Error != nil {
		return false, fmt.Errorf("delete question: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}
