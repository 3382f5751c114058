package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/salesdash/backend/internal/domain/analytics"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormReportRepository_Save(t *testing.T) {
	t.Run("persists a report snapshot", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormReportRepository(gormDB)

		start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		end := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
		report := analytics.NewReport(start, end,
			decimal.RequireFromString("100.00"), 4,
			[]analytics.ProductRanking{{ProductID: uuid.New(), ProductName: "Widget", TotalSales: decimal.NewFromInt(10)}},
			[]analytics.CustomerRanking{{CustomerID: uuid.New(), CustomerName: "Acme", TotalSpent: decimal.NewFromInt(60)}},
			nil, nil)

		mock.ExpectExec(`INSERT INTO "reports"`).
			WillReturnResult(sqlmock.NewResult(1, 1))

		err := repo.Save(context.Background(), report)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormReportRepository_FindAll(t *testing.T) {
	t.Run("returns reports newest first", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormReportRepository(gormDB)

		newerID := uuid.New()
		olderID := uuid.New()
		now := time.Now()

		rows := sqlmock.NewRows([]string{
			"id", "report_date", "start_date", "end_date",
			"total_revenue", "order_count", "avg_order_value",
			"top_products", "top_customers", "region_stats", "category_stats",
		}).
			AddRow(newerID, now, now.AddDate(0, -1, 0), now, "200.00", 2, "100.00",
				`[{"product_id":"`+uuid.Nil.String()+`","product_name":"Widget","total_sales":"10"}]`, `[]`, `[]`, `[]`).
			AddRow(olderID, now.AddDate(0, 0, -7), now.AddDate(0, -2, 0), now.AddDate(0, -1, 0), "50.00", 1, "50.00",
				`[]`, `[]`, `[]`, `[]`)

		mock.ExpectQuery(`SELECT \* FROM "reports" ORDER BY report_date DESC`).
			WillReturnRows(rows)

		reports, err := repo.FindAll(context.Background())

		require.NoError(t, err)
		require.Len(t, reports, 2)
		assert.Equal(t, newerID, reports[0].ID)
		assert.Equal(t, olderID, reports[1].ID)
		require.Len(t, reports[0].TopProducts, 1)
		assert.Equal(t, "Widget", reports[0].TopProducts[0].ProductName)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty store yields empty slice", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormReportRepository(gormDB)

		rows := sqlmock.NewRows([]string{"id", "report_date"})

		mock.ExpectQuery(`SELECT \* FROM "reports" ORDER BY report_date DESC`).
			WillReturnRows(rows)

		reports, err := repo.FindAll(context.Background())

		require.NoError(t, err)
		assert.Empty(t, reports)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
