package s0_data

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/wonny/equityrank/internal/contracts"
)

// Querier is the part of pgxpool.Pool the repository uses
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Repository reads company fundamentals from Postgres
// ⭐ SSOT: 지표 데이터 조회는 여기서만
type Repository struct {
	db Querier
}

var _ contracts.MetricsRepository = (*Repository)(nil)

// NewRepository creates a new Repository instance
func NewRepository(db Querier) *Repository {
	return &Repository{db: db}
}

const listMetricSetsSQL = `
	SELECT
		ticker,
		COALESCE(name, ''),
		COALESCE(sector, ''),
		market_cap,
		current_price,
		pe_ratio,
		return_on_equity,
		dividend_yield,
		payout_ratio,
		debt_to_equity,
		revenue_growth,
		earnings_growth,
		return_on_assets,
		free_cash_flow_yield,
		fair_value,
		price_to_intrinsic
	FROM data.company_metrics
	WHERE $1 = '' OR LOWER(sector) = LOWER($1)
	ORDER BY ticker
`

// ListMetricSets returns companies in ticker order. NULL columns become nil.
// sector "" or "all" returns every company.
func (r *Repository) ListMetricSets(ctx context.Context, sector string) ([]contracts.MetricSet, error) {
	filter := strings.TrimSpace(sector)
	if strings.EqualFold(filter, "all") {
		filter = ""
	}

	rows, err := r.db.Query(ctx, listMetricSetsSQL, filter)
	if err != nil {
		return nil, fmt.Errorf("query company metrics: %w", err)
	}
	defer rows.Close()

	sets := make([]contracts.MetricSet, 0)
	for rows.Next() {
		var s contracts.MetricSet
		if err := rows.Scan(
			&s.Ticker,
			&s.Name,
			&s.Sector,
			&s.MarketCap,
			&s.CurrentPrice,
			&s.PERatio,
			&s.ReturnOnEquity,
			&s.DividendYield,
			&s.PayoutRatio,
			&s.DebtToEquity,
			&s.RevenueGrowth,
			&s.EarningsGrowth,
			&s.ReturnOnAssets,
			&s.FreeCashFlowYield,
			&s.FairValue,
			&s.PriceToIntrinsic,
		); err != nil {
			return nil, fmt.Errorf("scan company metrics: %w", err)
		}
		sets = append(sets, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate company metrics: %w", err)
	}

	return sets, nil
}

const upsertMetricSetSQL = `
	INSERT INTO data.company_metrics (
		ticker, name, sector,
		market_cap, current_price, pe_ratio, return_on_equity, dividend_yield,
		payout_ratio, debt_to_equity, revenue_growth, earnings_growth,
		return_on_assets, free_cash_flow_yield, fair_value, price_to_intrinsic,
		updated_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, NOW())
	ON CONFLICT (ticker) DO UPDATE SET
		name = EXCLUDED.name,
		sector = EXCLUDED.sector,
		market_cap = EXCLUDED.market_cap,
		current_price = EXCLUDED.current_price,
		pe_ratio = EXCLUDED.pe_ratio,
		return_on_equity = EXCLUDED.return_on_equity,
		dividend_yield = EXCLUDED.dividend_yield,
		payout_ratio = EXCLUDED.payout_ratio,
		debt_to_equity = EXCLUDED.debt_to_equity,
		revenue_growth = EXCLUDED.revenue_growth,
		earnings_growth = EXCLUDED.earnings_growth,
		return_on_assets = EXCLUDED.return_on_assets,
		free_cash_flow_yield = EXCLUDED.free_cash_flow_yield,
		fair_value = EXCLUDED.fair_value,
		price_to_intrinsic = EXCLUDED.price_to_intrinsic,
		updated_at = NOW()
`

// UpsertMetricSets stores companies loaded from a file (data import).
// Non-finite values are stored as NULL.
func (r *Repository) UpsertMetricSets(ctx context.Context, sets []contracts.MetricSet) (int, error) {
	saved := 0
	for _, raw := range sets {
		s := raw.Clone()
		if s.Ticker == "" {
			continue
		}
		_, err := r.db.Exec(ctx, upsertMetricSetSQL,
			s.Ticker, s.Name, s.Sector,
			s.MarketCap, s.CurrentPrice, s.PERatio, s.ReturnOnEquity, s.DividendYield,
			s.PayoutRatio, s.DebtToEquity, s.RevenueGrowth, s.EarningsGrowth,
			s.ReturnOnAssets, s.FreeCashFlowYield, s.FairValue, s.PriceToIntrinsic,
		)
		if err != nil {
			return saved, fmt.Errorf("upsert %s: %w", s.Ticker, err)
		}
		saved++
	}
	return saved, nil
}
