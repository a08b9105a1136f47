// Package repository 提供按实体类型参数化的通用数据访问层。
//
// 所有方法都在调用方传入的 *gorm.DB 会话上执行，从不自行开启或提交事务，
// 事务边界由调用方（usecase / handler）决定。
package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Filters 等值过滤条件，列名 → 期望值。
type Filters map[string]any

// Repository 通用 CRUD 仓储，T 是 GORM 实体类型。
type Repository[T any] struct{}

// New 创建一个 T 类型的仓储。
func New[T any]() *Repository[T] {
	return &Repository[T]{}
}

// Create 插入一条新记录。
//
// 插入成功后 entity 中会带上数据库分配的主键和时间戳。
// 约束冲突（如唯一索引）以存储层错误原样返回，不做业务翻译。
func (r *Repository[T]) Create(ctx context.Context, db *gorm.DB, entity *T) error {
	if err := db.WithContext(ctx).Create(entity).Error; err != nil {
		return fmt.Errorf("create: %w", err)
	}
	return nil
}

// GetBy 返回匹配全部过滤条件的唯一记录。
//
// 零条匹配返回 (nil, nil)，不视为错误；过滤条件应当基于唯一键，
// 多条匹配时只返回第一条，属于调用方契约违反。
func (r *Repository[T]) GetBy(ctx context.Context, db *gorm.DB, filters Filters) (*T, error) {
	entity := new(T)
	err := db.WithContext(ctx).Where(map[string]any(filters)).First(entity).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get by: %w", err)
	}
	return entity, nil
}

// GetAll 返回匹配过滤条件的全部记录，order 可选指定排序表达式。
func (r *Repository[T]) GetAll(ctx context.Context, db *gorm.DB, filters Filters, order ...string) ([]T, error) {
	var entities []T
	query := db.WithContext(ctx)
	if len(filters) > 0 {
		query = query.Where(map[string]any(filters))
	}
	for _, o := range order {
		query = query.Order(o)
	}
	if err := query.Find(&entities).Error; err != nil {
		return nil, fmt.Errorf("get all: %w", err)
	}
	return entities, nil
}

// UpdateBy 对匹配过滤条件的唯一记录应用部分字段更新。
//
// 没有匹配到记录时返回 (nil, nil)。返回更新后的记录；重新查询时
// 用 updates 中的新值覆盖过滤条件里同名的列。
func (r *Repository[T]) UpdateBy(ctx context.Context, db *gorm.DB, updates map[string]any, filters Filters) (*T, error) {
	result := db.WithContext(ctx).Model(new(T)).Where(map[string]any(filters)).Updates(updates)
	if result.Error != nil {
		return nil, fmt.Errorf("update by: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}

	refetch := make(Filters, len(filters))
	for k, v := range filters {
		refetch[k] = v
	}
	for k, v := range updates {
		if _, ok := refetch[k]; ok {
			refetch[k] = v
		}
	}
	return r.GetBy(ctx, db, refetch)
}

// DeleteBy 删除匹配过滤条件的记录，返回是否删除了至少一行。
func (r *Repository[T]) DeleteBy(ctx context.Context, db *gorm.DB, filters Filters) (bool, error) {
	result := db.WithContext(ctx).Where(map[string]any(filters)).Delete(new(T))
	if result.Error != nil {
		return false, fmt.Errorf("delete by: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}
