package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/salesdash/backend/internal/domain/analytics"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToReportResponse(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	productID := uuid.New()
	customerID := uuid.New()

	report := analytics.NewReport(start, end,
		decimal.NewFromInt(500), 10,
		[]analytics.ProductRanking{{ProductID: productID, ProductName: "Widget Pro", TotalSales: decimal.NewFromInt(120)}},
		[]analytics.CustomerRanking{{CustomerID: customerID, CustomerName: "Acme Corp", TotalSpent: decimal.NewFromInt(300)}},
		[]analytics.RegionStat{{Region: "EMEA", TotalRevenue: decimal.NewFromInt(200), OrderCount: 4}},
		[]analytics.CategoryStat{{Category: "Hardware", TotalRevenue: decimal.NewFromInt(350), OrderCount: 7}},
	)

	resp := ToReportResponse(report)

	assert.Equal(t, report.ID.String(), resp.ID)
	assert.Equal(t, start, resp.StartDate)
	assert.Equal(t, end, resp.EndDate)
	assert.True(t, resp.TotalRevenue.Equal(decimal.NewFromInt(500)))
	assert.Equal(t, int64(10), resp.OrderCount)
	assert.True(t, resp.AvgOrderValue.Equal(decimal.NewFromInt(50)))

	require.Len(t, resp.TopProducts, 1)
	assert.Equal(t, productID.String(), resp.TopProducts[0].ProductID)
	assert.Equal(t, "Widget Pro", resp.TopProducts[0].ProductName)

	require.Len(t, resp.TopCustomers, 1)
	assert.Equal(t, customerID.String(), resp.TopCustomers[0].CustomerID)

	require.Len(t, resp.RegionStats, 1)
	assert.Equal(t, "EMEA", resp.RegionStats[0].Region)

	require.Len(t, resp.CategoryStats, 1)
	assert.Equal(t, "Hardware", resp.CategoryStats[0].Category)
}

func TestToReportResponse_EmptyRankingsRenderAsArrays(t *testing.T) {
	report := analytics.NewReport(
		time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC),
		decimal.Zero, 0, nil, nil, nil, nil,
	)

	raw, err := json.Marshal(ToReportResponse(report))
	require.NoError(t, err)

	assert.Contains(t, string(raw), `"topProducts":[]`)
	assert.Contains(t, string(raw), `"topCustomers":[]`)
	assert.Contains(t, string(raw), `"regionStats":[]`)
	assert.Contains(t, string(raw), `"categoryStats":[]`)
}

func TestToReportResponses(t *testing.T) {
	first := analytics.NewReport(
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		decimal.NewFromInt(10), 1, nil, nil, nil, nil,
	)
	second := analytics.NewReport(
		time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 2, 2, 0, 0, 0, 0, time.UTC),
		decimal.NewFromInt(20), 2, nil, nil, nil, nil,
	)

	out := ToReportResponses([]analytics.Report{*first, *second})

	require.Len(t, out, 2)
	assert.Equal(t, first.ID.String(), out[0].ID)
	assert.Equal(t, second.ID.String(), out[1].ID)
}
