package clickhouse

import "fmt"

// Schema returns the DDL for the bar and dividend tables in database.
func Schema(database string) []string {
	return []string{
		fmt.Sprintf(`CREATE DATABASE IF NOT EXISTS %s`, database),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s.bars_daily (
    symbol LowCardinality(String),
    ts     DateTime('UTC'),
    open   Float64,
    high   Float64,
    low    Float64,
    close  Float64,
    volume Float64
) ENGINE = ReplacingMergeTree
ORDER BY (symbol, ts)`, database),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s.bars_hourly (
    symbol LowCardinality(String),
    ts     DateTime('UTC'),
    open   Float64,
    high   Float64,
    low    Float64,
    close  Float64,
    volume Float64
) ENGINE = ReplacingMergeTree
PARTITION BY toYear(ts)
ORDER BY (symbol, ts)`, database),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s.dividends (
    symbol  LowCardinality(String),
    ex_date Date
) ENGINE = ReplacingMergeTree
ORDER BY (symbol, ex_date)`, database),
	}
}
