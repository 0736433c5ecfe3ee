package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"FinSeason/internal/domain/models"
	domrepo "FinSeason/internal/domain/repository"
	pkgch "FinSeason/pkg/clickhouse"
	applogger "FinSeason/pkg/logger"
)

const insertChunk = 2000

// CHPriceStore serves bars and ex-dividend dates from ClickHouse.
type CHPriceStore struct {
	db       *sql.DB
	database string
	l        *applogger.Logger
}

var (
	_ domrepo.PriceHistoryProvider = (*CHPriceStore)(nil)
	_ domrepo.DividendProvider     = (*CHPriceStore)(nil)
)

func NewCHPriceStore(ch *pkgch.Client) *CHPriceStore {
	return &CHPriceStore{db: ch.DB(), database: ch.Database(), l: applogger.Nop()}
}

// SetLogger injects a structured logger.
func (s *CHPriceStore) SetLogger(l *applogger.Logger) {
	if l != nil {
		s.l = l
	}
}

func (s *CHPriceStore) GetBars(ctx context.Context, symbol string, from, to time.Time, tf models.Timeframe) ([]models.PriceBar, error) {
	start := time.Now()
	table, err := s.tableForTF(tf)
	if err != nil {
		return nil, err
	}
	q := fmt.Sprintf(`
        SELECT ts, open, high, low, close, volume
        FROM %s FINAL
        WHERE symbol = ? AND ts >= ? AND ts <= ?
        ORDER BY ts ASC
    `, table)
	rows, err := s.db.QueryContext(ctx, q, normalizeSymbol(symbol), from.UTC(), to.UTC())
	if err != nil {
		s.l.Error("clickhouse get_bars query error",
			applogger.String("table", table),
			applogger.String("symbol", symbol),
			applogger.Error(err),
		)
		return nil, fmt.Errorf("get bars: %w", err)
	}
	defer rows.Close()

	out := make([]models.PriceBar, 0, 1024)
	for rows.Next() {
		var b models.PriceBar
		if err := rows.Scan(&b.Timestamp, &b.Open, &b.High, &b.Low, &b.Close, &b.Volume); err != nil {
			return nil, fmt.Errorf("scan bar: %w", err)
		}
		b.Timestamp = b.Timestamp.UTC()
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	s.l.Debug("clickhouse get_bars ok",
		applogger.String("table", table),
		applogger.String("symbol", symbol),
		applogger.Int("rows", len(out)),
		applogger.Duration("duration", time.Since(start)),
	)
	return out, nil
}

func (s *CHPriceStore) GetExDividendDates(ctx context.Context, symbol string) ([]time.Time, error) {
	q := fmt.Sprintf(`SELECT ex_date FROM %s.dividends FINAL WHERE symbol = ? ORDER BY ex_date ASC`, s.database)
	rows, err := s.db.QueryContext(ctx, q, normalizeSymbol(symbol))
	if err != nil {
		return nil, fmt.Errorf("get dividends: %w", err)
	}
	defer rows.Close()

	var out []time.Time
	for rows.Next() {
		var d time.Time
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("scan dividend: %w", err)
		}
		out = append(out, d.UTC())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return out, nil
}

// StoreBars upserts bars in multi-row VALUES chunks.
func (s *CHPriceStore) StoreBars(ctx context.Context, symbol string, tf models.Timeframe, bars []models.PriceBar) error {
	table, err := s.tableForTF(tf)
	if err != nil {
		return err
	}
	sym := normalizeSymbol(symbol)
	for startIdx := 0; startIdx < len(bars); startIdx += insertChunk {
		end := startIdx + insertChunk
		if end > len(bars) {
			end = len(bars)
		}
		q, args := buildBarInsert(table, sym, bars[startIdx:end])
		if q == "" {
			continue
		}
		if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
			return fmt.Errorf("insert bars into %s: %w", table, err)
		}
	}
	s.l.Info("clickhouse bars stored",
		applogger.String("table", table),
		applogger.String("symbol", sym),
		applogger.Int("rows", len(bars)),
	)
	return nil
}

// StoreDividends upserts ex-dividend dates.
func (s *CHPriceStore) StoreDividends(ctx context.Context, symbol string, dates []time.Time) error {
	if len(dates) == 0 {
		return nil
	}
	values := make([]string, 0, len(dates))
	args := make([]interface{}, 0, len(dates)*2)
	for _, d := range dates {
		values = append(values, "(?, ?)")
		args = append(args, normalizeSymbol(symbol), d.UTC())
	}
	q := fmt.Sprintf("INSERT INTO %s.dividends (symbol, ex_date) VALUES %s", s.database, strings.Join(values, ","))
	if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
		return fmt.Errorf("insert dividends: %w", err)
	}
	return nil
}

func buildBarInsert(table, symbol string, bars []models.PriceBar) (string, []interface{}) {
	values := make([]string, 0, len(bars))
	args := make([]interface{}, 0, len(bars)*7)
	for _, b := range bars {
		if b.Timestamp.IsZero() {
			continue
		}
		values = append(values, "(?, ?, ?, ?, ?, ?, ?)")
		args = append(args, symbol, b.Timestamp.UTC(), b.Open, b.High, b.Low, b.Close, b.Volume)
	}
	if len(values) == 0 {
		return "", nil
	}
	return fmt.Sprintf("INSERT INTO %s (symbol, ts, open, high, low, close, volume) VALUES %s",
		table, strings.Join(values, ",")), args
}

func (s *CHPriceStore) tableForTF(tf models.Timeframe) (string, error) {
	switch tf {
	case models.TFDaily:
		return s.database + ".bars_daily", nil
	case models.TFHourly:
		return s.database + ".bars_hourly", nil
	default:
		return "", fmt.Errorf("unsupported timeframe: %s", tf)
	}
}

func normalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}
