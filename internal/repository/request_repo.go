package repository

import (
	"context"

	"russify/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RequestRepository struct {
	db *gorm.DB
}

func NewRequestRepository(db *gorm.DB) *RequestRepository {
	return &RequestRepository{db: db}
}

func (r *RequestRepository) Create(ctx context.Context, req *domain.ServiceRequest) error {
	return r.db.WithContext(ctx).Create(req).Error
}

func (r *RequestRepository) GetByID(ctx context.Context, id int64) (*domain.ServiceRequest, error) {
	var req domain.ServiceRequest
	if err := r.db.WithContext(ctx).First(&req, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &req, nil
}

// GetForUpdate locks the row for the rest of the transaction. sqlite ignores
// the locking clause and serializes writers instead.
func (r *RequestRepository) GetForUpdate(ctx context.Context, id int64) (*domain.ServiceRequest, error) {
	var req domain.ServiceRequest
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&req, id).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &req, nil
}

// ListByUser returns a partner's requests, newest first.
func (r *RequestRepository) ListByUser(ctx context.Context, userID int64) ([]domain.ServiceRequest, error) {
	var out []domain.ServiceRequest
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&out).Error
	return out, err
}

func (r *RequestRepository) ListAll(ctx context.Context) ([]domain.ServiceRequest, error) {
	var out []domain.ServiceRequest
	err := r.db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Find(&out).Error
	return out, err
}

func (r *RequestRepository) UpdateStatus(ctx context.Context, id int64, status domain.RequestStatus) error {
	res := r.db.WithContext(ctx).
		Model(&domain.ServiceRequest{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete is a soft delete; the row disappears from every list.
func (r *RequestRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&domain.ServiceRequest{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
