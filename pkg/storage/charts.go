package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Chart は保存済みの食事表です。ChartData と UserData はJSONのまま保持します。
type Chart struct {
	ID             int64           `json:"id"`
	UserEmail      string          `json:"-"`
	Name           string          `json:"chart_name"`
	Goal           string          `json:"goal"`
	TargetCalories int             `json:"target_calories"`
	ChartData      json.RawMessage `json:"chart_data"`
	UserData       json.RawMessage `json:"user_data"`
	CreatedAt      time.Time       `json:"created_date"`
	Active         bool            `json:"-"`
}

const chartColumns = `id, user_email, chart_name, chart_data, user_data, goal, target_calories, created_date, is_active`

// SaveChart は食事表を有効な状態で保存します。
func (s *Store) SaveChart(ctx context.Context, c Chart) (Chart, error) {
	return insertChart(ctx, s.db, c, s.now())
}

// SaveMergedChart は統合した食事表を保存し、同じユーザーの他の食事表をすべて無効にします。
func (s *Store) SaveMergedChart(ctx context.Context, c Chart) (Chart, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Chart{}, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `UPDATE diet_charts SET is_active = 0 WHERE user_email = ? AND is_active = 1`, c.UserEmail); err != nil {
		return Chart{}, fmt.Errorf("failed to deactivate charts: %w", err)
	}
	saved, err := insertChart(ctx, tx, c, s.now())
	if err != nil {
		return Chart{}, err
	}
	if err := tx.Commit(); err != nil {
		return Chart{}, fmt.Errorf("failed to commit merged chart: %w", err)
	}
	return saved, nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertChart(ctx context.Context, db execer, c Chart, now time.Time) (Chart, error) {
	if len(c.ChartData) == 0 {
		c.ChartData = json.RawMessage(`{}`)
	}
	if len(c.UserData) == 0 {
		c.UserData = json.RawMessage(`{}`)
	}
	res, err := db.ExecContext(ctx, `
        INSERT INTO diet_charts (user_email, chart_name, chart_data, user_data, goal, target_calories, created_date, is_active)
        VALUES (?, ?, ?, ?, ?, ?, ?, 1)`,
		c.UserEmail, c.Name, string(c.ChartData), string(c.UserData), c.Goal, c.TargetCalories, formatTime(now))
	if err != nil {
		return Chart{}, fmt.Errorf("failed to insert diet chart: %w", err)
	}
	c.ID, err = res.LastInsertId()
	if err != nil {
		return Chart{}, fmt.Errorf("failed to read diet chart id: %w", err)
	}
	c.CreatedAt = now
	c.Active = true
	return c, nil
}

// ListActiveCharts は有効な食事表を新しい順に返します。
func (s *Store) ListActiveCharts(ctx context.Context, email string) ([]Chart, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+chartColumns+` FROM diet_charts
        WHERE user_email = ? AND is_active = 1 ORDER BY created_date DESC, id DESC`, email)
	if err != nil {
		return nil, fmt.Errorf("failed to query diet charts: %w", err)
	}
	return scanCharts(rows)
}

// ActiveCharts は指定IDのうち、ユーザーの有効な食事表を返します。
func (s *Store) ActiveCharts(ctx context.Context, email string, ids []int64) ([]Chart, error) {
	if len(ids) == 0 {
		return []Chart{}, nil
	}
	args := make([]any, 0, len(ids)+1)
	args = append(args, email)
	for _, id := range ids {
		args = append(args, id)
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	rows, err := s.db.QueryContext(ctx, `SELECT `+chartColumns+` FROM diet_charts
        WHERE user_email = ? AND is_active = 1 AND id IN (`+placeholders+`) ORDER BY id`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query diet charts: %w", err)
	}
	return scanCharts(rows)
}

// GetChart はユーザーの食事表を1件返します。無効化された食事表も返します。
func (s *Store) GetChart(ctx context.Context, email string, id int64) (Chart, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+chartColumns+` FROM diet_charts WHERE id = ? AND user_email = ?`, id, email)
	if err != nil {
		return Chart{}, fmt.Errorf("failed to query diet chart: %w", err)
	}
	charts, err := scanCharts(rows)
	if err != nil {
		return Chart{}, err
	}
	if len(charts) == 0 {
		return Chart{}, ErrChartNotFound
	}
	return charts[0], nil
}

// AllCharts は全ユーザーの食事表を無効化済みも含めて ID 順に返します。検索インデックスの再構築に使います。
func (s *Store) AllCharts(ctx context.Context) ([]Chart, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+chartColumns+` FROM diet_charts ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query diet charts: %w", err)
	}
	return scanCharts(rows)
}

// DeactivateChart は食事表を無効にします。行は削除しません。
func (s *Store) DeactivateChart(ctx context.Context, email string, id int64) error {
	res, err := s.db.ExecContext(ctx, `UPDATE diet_charts SET is_active = 0 WHERE id = ? AND user_email = ?`, id, email)
	if err != nil {
		return fmt.Errorf("failed to deactivate diet chart: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return ErrChartNotFound
	}
	return nil
}

func scanCharts(rows *sql.Rows) ([]Chart, error) {
	defer rows.Close()
	charts := []Chart{}
	for rows.Next() {
		var c Chart
		var chartData, userData, created string
		var active int
		if err := rows.Scan(&c.ID, &c.UserEmail, &c.Name, &chartData, &userData, &c.Goal, &c.TargetCalories, &created, &active); err != nil {
			return nil, fmt.Errorf("failed to scan diet chart: %w", err)
		}
		t, err := parseTime(created)
		if err != nil {
			return nil, err
		}
		c.CreatedAt = t
		c.Active = active == 1
		c.ChartData = json.RawMessage(chartData)
		c.UserData = json.RawMessage(userData)
		charts = append(charts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate diet charts: %w", err)
	}
	return charts, nil
}
