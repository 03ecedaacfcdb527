package clickhouse

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

import (
	"context"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/goodnatureofminers/blockinsight7000-explorer/internal/utxo/model"
)

type (
	// Metrics records repository operation outcomes.
	Metrics interface {
		Observe(operation string, coin model.Coin, network model.Network, err error, started time.Time)
	}

	// Conn is the part of a ClickHouse connection the repository reads through.
	Conn interface {
		Query(ctx context.Context, query string, args ...any) (driver.Rows, error)
		Close() error
	}

	// Rows mirrors driver.Rows.
	Rows interface {
		Next() bool
		Scan(dest ...any) error
		ScanStruct(dest any) error
		ColumnTypes() []driver.ColumnType
		Totals(dest ...any) error
		Columns() []string
		Close() error
		Err() error
	}
)
