package storage

import (
	"context"
	"fmt"
	"time"
)

// PlanMonths は会員プランの月数です。未知のプランは1か月として扱います。
func PlanMonths(plan string) int {
	switch plan {
	case "6months":
		return 6
	case "1year":
		return 12
	default:
		return 1
	}
}

// Membership は購入された会員プランです。
type Membership struct {
	ID    int64     `json:"id"`
	Plan  string    `json:"plan"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// MembershipStatus は会員履歴の1行です。TimeLeft はミリ秒です。
type MembershipStatus struct {
	ID       int64   `json:"id"`
	Plan     string  `json:"plan"`
	Start    string  `json:"start"`
	End      string  `json:"end"`
	Status   string  `json:"status"`
	TimeLeft float64 `json:"timeLeft"`
}

// BuyMembership は会員プランを購入します。期間は 30日 × 月数 です。
func (s *Store) BuyMembership(ctx context.Context, email, plan string) (Membership, error) {
	start := s.now()
	end := start.AddDate(0, 0, 30*PlanMonths(plan))

	res, err := s.db.ExecContext(ctx, `INSERT INTO memberships (user_email, plan, start_date, end_date) VALUES (?, ?, ?, ?)`,
		email, plan, formatTime(start), formatTime(end))
	if err != nil {
		return Membership{}, fmt.Errorf("failed to insert membership: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Membership{}, fmt.Errorf("failed to read membership id: %w", err)
	}
	return Membership{ID: id, Plan: plan, Start: start, End: end}, nil
}

// MembershipHistory は会員履歴を開始日の新しい順に、now 時点の状態付きで返します。
func (s *Store) MembershipHistory(ctx context.Context, email string, now time.Time) ([]MembershipStatus, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT id, plan, start_date, end_date FROM memberships
        WHERE user_email = ? ORDER BY start_date DESC, id DESC`, email)
	if err != nil {
		return nil, fmt.Errorf("failed to query memberships: %w", err)
	}
	defer rows.Close()

	history := []MembershipStatus{}
	for rows.Next() {
		var id int64
		var plan, startStr, endStr string
		if err := rows.Scan(&id, &plan, &startStr, &endStr); err != nil {
			return nil, fmt.Errorf("failed to scan membership: %w", err)
		}
		start, err := parseTime(startStr)
		if err != nil {
			return nil, err
		}
		end, err := parseTime(endStr)
		if err != nil {
			return nil, err
		}
		history = append(history, membershipStatus(id, plan, start, end, now))
	}
	return history, rows.Err()
}

func membershipStatus(id int64, plan string, start, end, now time.Time) MembershipStatus {
	st := MembershipStatus{
		ID:     id,
		Plan:   plan,
		Start:  start.Format(time.RFC3339),
		End:    end.Format(time.RFC3339),
		Status: "Not Expired",
	}
	if end.Before(now) {
		st.Status = "Expired"
	}
	if end.After(now) {
		st.TimeLeft = float64(end.Sub(now).Milliseconds())
	}
	return st
}
