package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	analyticsapp "github.com/salesdash/backend/internal/application/analytics"
	"github.com/salesdash/backend/internal/application/ingest"
	"github.com/salesdash/backend/internal/infrastructure/persistence"
	"github.com/salesdash/backend/internal/interfaces/http/dto"
	"github.com/salesdash/backend/internal/interfaces/http/handler"
	"github.com/salesdash/backend/internal/interfaces/http/middleware"
	"github.com/salesdash/backend/internal/interfaces/http/router"
)

const salesCSV = `customerName,customerRegion,customerType,productName,productCategory,price,quantity,date
Acme Corp,EMEA,Business,Widget,Hardware,25,2,2024-03-01
Acme Corp,EMEA,Business,Gadget,Electronics,100,1,2024-03-02
Beta LLC,APAC,Individual,Widget,Hardware,25,4,2024-03-03
`

type apiTestServer struct {
	engine   *gin.Engine
	db       *TestDB
	pipeline *ingest.Pipeline
	reports  *analyticsapp.ReportService
}

func newAPITestServer(t *testing.T) *apiTestServer {
	t.Helper()

	gin.SetMode(gin.TestMode)
	tdb := NewTestDB(t)
	log := zap.NewNop()

	customerRepo := persistence.NewGormCustomerRepository(tdb.DB)
	productRepo := persistence.NewGormProductRepository(tdb.DB)
	saleRepo := persistence.NewGormSaleRepository(tdb.DB)
	statsRepo := persistence.NewGormSalesStatsRepository(tdb.DB)
	reportRepo := persistence.NewGormReportRepository(tdb.DB)

	pipeline := ingest.NewPipeline(customerRepo, productRepo, saleRepo, log)
	reportService := analyticsapp.NewReportService(statsRepo, reportRepo, log)

	middleware.SetupValidator()
	engine := gin.New()
	engine.Use(middleware.RequestID())

	router.NewRouter(engine).
		Register(handler.NewAnalyticsHandler(reportService, log)).
		Register(handler.NewUploadHandler(pipeline, 100<<20, t.TempDir(), 0, log)).
		Register(handler.NewSystemHandler()).
		Setup()

	return &apiTestServer{
		engine:   engine,
		db:       tdb,
		pipeline: pipeline,
		reports:  reportService,
	}
}

func (s *apiTestServer) uploadCSV(t *testing.T, csv string) *httptest.ResponseRecorder {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", "sales.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte(csv))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", "/api/upload/csv", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestIngestAndReportFlow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container-backed test in short mode")
	}

	srv := newAPITestServer(t)
	ctx := context.Background()

	// Upload the CSV and verify the ingest summary.
	w := srv.uploadCSV(t, salesCSV)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decodeResponse(t, w)
	assert.True(t, resp.Success)

	data := resp.Data.(map[string]any)
	assert.Equal(t, float64(3), data["totalRows"])
	assert.Equal(t, float64(3), data["processedRows"])
	assert.Equal(t, float64(0), data["skippedRows"])

	// Entities are deduplicated by name during ingestion.
	customerRepo := persistence.NewGormCustomerRepository(srv.db.DB)
	productRepo := persistence.NewGormProductRepository(srv.db.DB)
	saleRepo := persistence.NewGormSaleRepository(srv.db.DB)

	customerCount, err := customerRepo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), customerCount)

	productCount, err := productRepo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), productCount)

	saleCount, err := saleRepo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), saleCount)

	// Generate a report over the ingested window.
	req := httptest.NewRequest("GET", "/api/analytics/report?startDate=2024-03-01&endDate=2024-03-31", nil)
	w = httptest.NewRecorder()
	srv.engine.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp = decodeResponse(t, w)
	require.True(t, resp.Success)

	report := resp.Data.(map[string]any)
	// Revenue: 25*2 + 100*1 + 25*4 = 250, over 3 orders.
	assert.Equal(t, "250", report["totalRevenue"])
	assert.Equal(t, float64(3), report["orderCount"])

	topProducts := report["topProducts"].([]any)
	require.NotEmpty(t, topProducts)
	best := topProducts[0].(map[string]any)
	assert.Equal(t, "Widget", best["productName"])

	// The generated snapshot shows up in the report listing, newest first.
	req = httptest.NewRequest("GET", "/api/analytics/reports", nil)
	w = httptest.NewRecorder()
	srv.engine.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp = decodeResponse(t, w)
	require.True(t, resp.Success)
	reports := resp.Data.([]any)
	assert.Len(t, reports, 1)
}

func TestIngestFlow_ReUploadAccumulates(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container-backed test in short mode")
	}

	srv := newAPITestServer(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		w := srv.uploadCSV(t, salesCSV)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}

	// Sales accumulate; customers and products stay deduplicated.
	saleCount, err := persistence.NewGormSaleRepository(srv.db.DB).Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(6), saleCount)

	customerCount, err := persistence.NewGormCustomerRepository(srv.db.DB).Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), customerCount)
}

func TestReportFlow_EmptyWindow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container-backed test in short mode")
	}

	srv := newAPITestServer(t)

	// A window with no sales still yields a stored zero-valued snapshot.
	req := httptest.NewRequest("GET", "/api/analytics/report?startDate=2030-01-01&endDate=2030-01-31", nil)
	w := httptest.NewRecorder()
	srv.engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decodeResponse(t, w)
	require.True(t, resp.Success)

	report := resp.Data.(map[string]any)
	assert.Equal(t, "0", report["totalRevenue"])
	assert.Equal(t, float64(0), report["orderCount"])
	assert.Equal(t, "0", report["avgOrderValue"])
	assert.Empty(t, report["topProducts"])
}
