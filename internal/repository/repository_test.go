package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"russify/internal/database/dbtest"
	"russify/internal/domain"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func ptr[T any](v T) *T { return &v }

func seedPartner(t *testing.T, db *gorm.DB, phone string) *domain.User {
	t.Helper()
	u := &domain.User{Name: "Partner", Phone: phone, PasswordHash: "x", Role: domain.RolePartner}
	require.NoError(t, NewUserRepository(db).Create(context.Background(), u))
	return u
}

func seedRequest(t *testing.T, db *gorm.DB, userID int64) *domain.ServiceRequest {
	t.Helper()
	req := &domain.ServiceRequest{
		UserID:      userID,
		ClientName:  "Ivan",
		ClientPhone: "+79990000000",
		CarBrand:    "Toyota",
		CarModel:    "Camry",
		CarYear:     2020,
		ServiceType: domain.ServiceMultimedia,
		Status:      domain.StatusPending,
	}
	require.NoError(t, NewRequestRepository(db).Create(context.Background(), req))
	return req
}

func TestUserRepository_GetByLogin(t *testing.T) {
	db := dbtest.New(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	u := &domain.User{Name: "A", Phone: " +7700 ", Email: ptr("Shop@Example.com "), PasswordHash: "h", Role: domain.RolePartner}
	require.NoError(t, repo.Create(ctx, u))

	byPhone, err := repo.GetByLogin(ctx, "+7700")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byPhone.ID)

	byEmail, err := repo.GetByLogin(ctx, "shop@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)

	_, err = repo.GetByLogin(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserRepository_DuplicatePhone(t *testing.T) {
	db := dbtest.New(t)
	seedPartner(t, db, "+7701")

	err := NewUserRepository(db).Create(context.Background(), &domain.User{Name: "B", Phone: "+7701", PasswordHash: "h"})
	require.Error(t, err)
	assert.True(t, IsUniqueViolation(err))
}

func TestUserRepository_AddBonus(t *testing.T) {
	db := dbtest.New(t)
	repo := NewUserRepository(db)
	ctx := context.Background()
	u := seedPartner(t, db, "+7702")

	require.NoError(t, repo.AddBonus(ctx, u.ID, 500))
	require.NoError(t, repo.AddBonus(ctx, u.ID, -200))

	got, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(300), got.BonusBalance)

	assert.ErrorIs(t, repo.AddBonus(ctx, 9999, 1), ErrNotFound)
}

func TestRequestRepository_SoftDelete(t *testing.T) {
	db := dbtest.New(t)
	repo := NewRequestRepository(db)
	ctx := context.Background()
	u := seedPartner(t, db, "+7703")
	keep := seedRequest(t, db, u.ID)
	gone := seedRequest(t, db, u.ID)

	require.NoError(t, repo.Delete(ctx, gone.ID))

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, keep.ID, all[0].ID)

	_, err = repo.GetByID(ctx, gone.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, gone.ID), ErrNotFound)
}

func TestMessageRepository_ThreadOrderAndUnread(t *testing.T) {
	db := dbtest.New(t)
	repo := NewMessageRepository(db)
	ctx := context.Background()
	u := seedPartner(t, db, "+7704")
	req := seedRequest(t, db, u.ID)
	other := seedRequest(t, db, u.ID)

	same := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	msgs := []*domain.Message{
		{RequestID: req.ID, SenderID: u.ID, SenderType: domain.SenderClient, MessageText: ptr("second"), CreatedAt: same.Add(time.Minute)},
		{RequestID: req.ID, SenderID: 1, SenderType: domain.SenderCompany, MessageText: ptr("first-a"), CreatedAt: same},
		{RequestID: req.ID, SenderID: 1, SenderType: domain.SenderCompany, MessageText: ptr("first-b"), CreatedAt: same},
		{RequestID: other.ID, SenderID: 1, SenderType: domain.SenderCompany, MessageText: ptr("elsewhere"), CreatedAt: same},
	}
	for _, m := range msgs {
		require.NoError(t, repo.Create(ctx, m))
	}

	thread, err := repo.GetThread(ctx, req.ID)
	require.NoError(t, err)
	require.Len(t, thread, 3)
	assert.Equal(t, "first-a", *thread[0].MessageText)
	assert.Equal(t, "first-b", *thread[1].MessageText)
	assert.Equal(t, "second", *thread[2].MessageText)

	counts, err := repo.CountUnread(ctx, []int64{req.ID, other.ID}, domain.SenderCompany)
	require.NoError(t, err)
	assert.Equal(t, map[int64]int{req.ID: 2, other.ID: 1}, counts)

	n, err := repo.MarkRead(ctx, req.ID, domain.SenderCompany)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	counts, err = repo.CountUnread(ctx, []int64{req.ID, other.ID}, domain.SenderCompany)
	require.NoError(t, err)
	assert.Equal(t, map[int64]int{other.ID: 1}, counts)

	counts, err = repo.CountUnread(ctx, nil, domain.SenderCompany)
	require.NoError(t, err)
	assert.Empty(t, counts)
}

func TestWorkRepository_MarkBonusPaidOnce(t *testing.T) {
	db := dbtest.New(t)
	repo := NewWorkRepository(db)
	ctx := context.Background()
	u := seedPartner(t, db, "+7705")
	req := seedRequest(t, db, u.ID)

	w := &domain.CompletedWork{RequestID: req.ID, UserID: u.ID, WorkCost: 15000, BonusEarned: 500, WorkDate: time.Now()}
	require.NoError(t, repo.Create(ctx, w))

	flipped, err := repo.MarkBonusPaid(ctx, w.ID)
	require.NoError(t, err)
	assert.True(t, flipped)

	flipped, err = repo.MarkBonusPaid(ctx, w.ID)
	require.NoError(t, err)
	assert.False(t, flipped)

	dup := &domain.CompletedWork{RequestID: req.ID, UserID: u.ID, WorkDate: time.Now()}
	err = repo.Create(ctx, dup)
	require.Error(t, err)
	assert.True(t, IsUniqueViolation(err))
}

func TestBonusRepository_Balance(t *testing.T) {
	db := dbtest.New(t)
	repo := NewBonusRepository(db)
	ctx := context.Background()
	u := seedPartner(t, db, "+7706")

	balance, err := repo.Balance(ctx, u.ID)
	require.NoError(t, err)
	assert.Zero(t, balance)

	require.NoError(t, repo.Create(ctx, &domain.BonusTransaction{UserID: u.ID, TransactionType: domain.TransactionEarned, Amount: 500}))
	require.NoError(t, repo.Create(ctx, &domain.BonusTransaction{UserID: u.ID, TransactionType: domain.TransactionEarned, Amount: 300}))
	require.NoError(t, repo.Create(ctx, &domain.BonusTransaction{UserID: u.ID, TransactionType: domain.TransactionSpent, Amount: 500}))

	balance, err = repo.Balance(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(300), balance)
}

func TestCatalogRepository_ListOrderAndActive(t *testing.T) {
	db := dbtest.New(t)
	repo := NewCatalogRepository(db)
	ctx := context.Background()

	items := []*domain.CatalogItem{
		{Type: domain.CatalogProducts, Title: "c", DisplayOrder: 2, IsActive: true},
		{Type: domain.CatalogProducts, Title: "a", DisplayOrder: 1, IsActive: true},
		{Type: domain.CatalogProducts, Title: "hidden", DisplayOrder: 0},
		{Type: domain.CatalogServices, Title: "other type", IsActive: true},
	}
	for _, it := range items {
		require.NoError(t, repo.Create(ctx, it))
	}

	public, err := repo.List(ctx, domain.CatalogProducts, false)
	require.NoError(t, err)
	require.Len(t, public, 2)
	assert.Equal(t, "a", public[0].Title)
	assert.Equal(t, "c", public[1].Title)

	all, err := repo.List(ctx, domain.CatalogProducts, true)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	_, err = repo.GetByID(ctx, domain.CatalogServices, items[0].ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, domain.CatalogServices, items[0].ID), ErrNotFound)
	assert.NoError(t, repo.Delete(ctx, domain.CatalogProducts, items[0].ID))
}

func TestIsUniqueViolation(t *testing.T) {
	assert.False(t, IsUniqueViolation(nil))
	assert.False(t, IsUniqueViolation(errors.New("boom")))
	assert.True(t, IsUniqueViolation(gorm.ErrDuplicatedKey))
	assert.True(t, IsUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.True(t, IsUniqueViolation(errors.New("constraint failed: UNIQUE constraint failed: users.phone (2067)")))
}
