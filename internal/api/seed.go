package api

import (
	"context"
	"errors"

	"answerhub/internal/model"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedDemoData 初始化演示数据：一个已激活的演示用户和一条带回答的示例问题。
//
// 重复调用是幂等的，已有数据不会被重复创建。
func (s *Server) SeedDemoData(ctx context.Context) error {
	const demoEmail = "demo@answerhub.dev"

	var user model.User
	err := s.db.WithContext(ctx).Where("email = ?", demoEmail).First(&user).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		hash, hashErr := bcrypt.GenerateFromPassword([]byte("demo-password"), bcrypt.DefaultCost)
		if hashErr != nil {
			return hashErr
		}
		user = model.User{
			Email:          demoEmail,
			FirstName:      "Demo",
			HashedPassword: string(hash),
			IsActive:       true,
		}
		if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
			return err
		}
	}

	const demoText = "What is Go?"
	var question model.Question
	err = s.db.WithContext(ctx).Where("text = ?", demoText).First(&question).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		question = model.Question{Text: demoText}
		if err := s.db.WithContext(ctx).Create(&question).Error; err != nil {
			return err
		}
		answer := model.Answer{
			QuestionID: question.ID,
			UserID:     user.ID,
			Text:       "A statically typed language built for simple, reliable services.",
		}
		if err := s.db.WithContext(ctx).Create(&answer).Error; err != nil {
			return err
		}
	}

	return nil
}
