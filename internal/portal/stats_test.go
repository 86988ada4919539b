package portal

import (
	"testing"

	"russify/internal/domain"

	"github.com/google/go-cmp/cmp"
)

func statsFixture() (*PartnerDashboard, *AdminDashboard) {
	reqs := []domain.ServiceRequest{
		{ID: 1, UserID: 10, Status: domain.StatusPending, UnreadCount: 2},
		{ID: 2, UserID: 10, Status: domain.StatusInProgress},
		{ID: 3, UserID: 10, Status: domain.StatusCompleted, UnreadCount: 1},
		{ID: 4, UserID: 11, Status: domain.StatusToDelete},
		{ID: 5, UserID: 11, Status: domain.StatusCompleted},
	}
	works := []domain.CompletedWork{
		{ID: 1, RequestID: 3, UserID: 10, WorkCost: 15000, BonusEarned: 500, IsBonusPaid: true},
		{ID: 2, RequestID: 5, UserID: 11, WorkCost: 8000, BonusEarned: 200},
		{ID: 3, RequestID: 6, UserID: 11, WorkCost: 1000, BonusEarned: 0},
	}
	ledger := []domain.BonusTransaction{
		{UserID: 10, TransactionType: domain.TransactionEarned, Amount: 500},
		{UserID: 10, TransactionType: domain.TransactionSpent, Amount: 500},
		{UserID: 10, TransactionType: domain.TransactionEarned, Amount: 120},
	}
	users := []domain.User{
		{ID: 1, Role: domain.RoleAdmin},
		{ID: 10, Role: domain.RolePartner, BonusBalance: 120},
		{ID: 11, Role: domain.RolePartner, BonusBalance: 200},
	}

	partner := &PartnerDashboard{Requests: reqs[:3], Works: works[:1], BonusHistory: ledger, User: &users[1]}
	admin := &AdminDashboard{Requests: reqs, Users: users, Works: works}
	return partner, admin
}

func TestSummarizePartner(t *testing.T) {
	partner, _ := statsFixture()

	want := PartnerSummary{
		Requests:     3,
		Active:       2,
		Completed:    1,
		Unread:       3,
		WorkTotal:    15000,
		BonusBalance: 120,
		Bonus:        BonusTotals{Earned: 620, Spent: 500, Balance: 120},
	}
	if diff := cmp.Diff(want, SummarizePartner(partner)); diff != "" {
		t.Errorf("SummarizePartner() mismatch (-want +got):\n%s", diff)
	}
}

func TestSummarizeAdmin(t *testing.T) {
	_, admin := statsFixture()

	want := AdminSummary{
		ByStatus: map[domain.RequestStatus]int{
			domain.StatusPending:    1,
			domain.StatusInProgress: 1,
			domain.StatusCompleted:  2,
			domain.StatusToDelete:   1,
		},
		Requests:          5,
		Unread:            3,
		Partners:          2,
		Works:             3,
		Revenue:           24000,
		UnpaidBonusCount:  1,
		UnpaidBonusPoints: 200,
	}
	if diff := cmp.Diff(want, SummarizeAdmin(admin)); diff != "" {
		t.Errorf("SummarizeAdmin() mismatch (-want +got):\n%s", diff)
	}
}

func TestSingleAggregates(t *testing.T) {
	_, admin := statsFixture()

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"count by status", CountByStatus(admin.Requests)[domain.StatusCompleted], 2},
		{"total unread", TotalUnread(admin.Requests), 3},
		{"unpaid count", UnpaidBonusCount(admin.Works), 1},
		{"unpaid points", UnpaidBonusPoints(admin.Works), int64(200)},
		{"partners", PartnerCount(admin.Users), 2},
		{"empty ledger", SumBonus(nil), BonusTotals{}},
		{"empty requests", len(CountByStatus(nil)), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, tt.got); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
