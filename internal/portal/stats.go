package portal

import "russify/internal/domain"

// The functions below are single passes over already fetched slices.

func CountByStatus(reqs []domain.ServiceRequest) map[domain.RequestStatus]int {
	out := make(map[domain.RequestStatus]int, 5)
	for _, r := range reqs {
		out[r.Status]++
	}
	return out
}

func TotalUnread(reqs []domain.ServiceRequest) int {
	n := 0
	for _, r := range reqs {
		n += r.UnreadCount
	}
	return n
}

func UnpaidBonusCount(works []domain.CompletedWork) int {
	n := 0
	for _, w := range works {
		if !w.IsBonusPaid && w.BonusEarned > 0 {
			n++
		}
	}
	return n
}

func UnpaidBonusPoints(works []domain.CompletedWork) int64 {
	var n int64
	for _, w := range works {
		if !w.IsBonusPaid {
			n += w.BonusEarned
		}
	}
	return n
}

func PartnerCount(users []domain.User) int {
	n := 0
	for _, u := range users {
		if u.Role == domain.RolePartner {
			n++
		}
	}
	return n
}

type BonusTotals struct {
	Earned  int64 `json:"earned"`
	Spent   int64 `json:"spent"`
	Balance int64 `json:"balance"`
}

// SumBonus folds a ledger. Balance matches the account's bonus_balance when
// the ledger is complete.
func SumBonus(txns []domain.BonusTransaction) BonusTotals {
	var t BonusTotals
	for _, tx := range txns {
		switch tx.TransactionType {
		case domain.TransactionEarned:
			t.Earned += tx.Amount
		case domain.TransactionSpent:
			t.Spent += tx.Amount
		}
	}
	t.Balance = t.Earned - t.Spent
	return t
}

// PartnerSummary backs the tiles of the partner dashboard.
type PartnerSummary struct {
	Requests     int         `json:"requests"`
	Active       int         `json:"active"`
	Completed    int         `json:"completed"`
	Unread       int         `json:"unread"`
	WorkTotal    float64     `json:"work_total"`
	BonusBalance int64       `json:"bonus_balance"`
	Bonus        BonusTotals `json:"bonus"`
}

func SummarizePartner(d *PartnerDashboard) PartnerSummary {
	s := PartnerSummary{Requests: len(d.Requests), Bonus: SumBonus(d.BonusHistory)}
	for _, r := range d.Requests {
		switch r.Status {
		case domain.StatusPending, domain.StatusInProgress:
			s.Active++
		case domain.StatusCompleted:
			s.Completed++
		}
		s.Unread += r.UnreadCount
	}
	for _, w := range d.Works {
		s.WorkTotal += w.WorkCost
	}
	if d.User != nil {
		s.BonusBalance = d.User.BonusBalance
	}
	return s
}

// AdminSummary backs the tiles of the admin console.
type AdminSummary struct {
	ByStatus          map[domain.RequestStatus]int `json:"by_status"`
	Requests          int                          `json:"requests"`
	Unread            int                          `json:"unread"`
	Partners          int                          `json:"partners"`
	Works             int                          `json:"works"`
	Revenue           float64                      `json:"revenue"`
	UnpaidBonusCount  int                          `json:"unpaid_bonus_count"`
	UnpaidBonusPoints int64                        `json:"unpaid_bonus_points"`
}

func SummarizeAdmin(d *AdminDashboard) AdminSummary {
	s := AdminSummary{
		ByStatus: make(map[domain.RequestStatus]int, 5),
		Requests: len(d.Requests),
		Partners: PartnerCount(d.Users),
		Works:    len(d.Works),
	}
	for _, r := range d.Requests {
		s.ByStatus[r.Status]++
		s.Unread += r.UnreadCount
	}
	for _, w := range d.Works {
		s.Revenue += w.WorkCost
		if !w.IsBonusPaid {
			if w.BonusEarned > 0 {
				s.UnpaidBonusCount++
			}
			s.UnpaidBonusPoints += w.BonusEarned
		}
	}
	return s
}
