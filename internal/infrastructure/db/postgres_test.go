package db

import (
	"context"
	"errors"
	"testing"

	"bearcart-analytics/internal/infrastructure/config"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestConnect_Empty(t *testing.T) {
	ctx := context.Background()
	cfg := config.DBConfig{DSN: ""}
	db, err := Connect(ctx, cfg)
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if db != nil {
		t.Error("expected nil db for empty DSN")
	}
}

func TestPing(t *testing.T) {
	if err := Ping(context.Background(), nil); err != nil {
		t.Fatalf("nil db should be treated as not configured: %v", err)
	}

	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectPing()
	if err := Ping(context.Background(), db); err != nil {
		t.Fatalf("unexpected ping error: %v", err)
	}

	boom := errors.New("connection refused")
	mock.ExpectPing().WillReturnError(boom)
	if err := Ping(context.Background(), db); !errors.Is(err, boom) {
		t.Fatalf("expected ping error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
