package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/salesdash/backend/internal/application/ingest"
	"github.com/salesdash/backend/internal/domain/sales"
	"github.com/salesdash/backend/internal/domain/shared"
	"github.com/salesdash/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memCustomerRepo struct {
	byName map[string]*sales.Customer
}

func newMemCustomerRepo() *memCustomerRepo {
	return &memCustomerRepo{byName: make(map[string]*sales.Customer)}
}

func (r *memCustomerRepo) FindByID(ctx context.Context, id uuid.UUID) (*sales.Customer, error) {
	for _, c := range r.byName {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memCustomerRepo) FindByName(ctx context.Context, name string) (*sales.Customer, error) {
	if c, ok := r.byName[name]; ok {
		return c, nil
	}
	return nil, shared.ErrNotFound
}

func (r *memCustomerRepo) Save(ctx context.Context, customer *sales.Customer) error {
	r.byName[customer.Name] = customer
	return nil
}

func (r *memCustomerRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(r.byName)), nil
}

type memProductRepo struct {
	byName map[string]*sales.Product
}

func newMemProductRepo() *memProductRepo {
	return &memProductRepo{byName: make(map[string]*sales.Product)}
}

func (r *memProductRepo) FindByID(ctx context.Context, id uuid.UUID) (*sales.Product, error) {
	for _, p := range r.byName {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memProductRepo) FindByName(ctx context.Context, name string) (*sales.Product, error) {
	if p, ok := r.byName[name]; ok {
		return p, nil
	}
	return nil, shared.ErrNotFound
}

func (r *memProductRepo) Save(ctx context.Context, product *sales.Product) error {
	r.byName[product.Name] = product
	return nil
}

func (r *memProductRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(r.byName)), nil
}

type memSaleRepo struct {
	saved []*sales.Sale
}

func (r *memSaleRepo) Save(ctx context.Context, sale *sales.Sale) error {
	r.saved = append(r.saved, sale)
	return nil
}

func (r *memSaleRepo) SaveBatch(ctx context.Context, batch []*sales.Sale) error {
	r.saved = append(r.saved, batch...)
	return nil
}

func (r *memSaleRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(r.saved)), nil
}

func newUploadTestServer(t *testing.T, maxFileSize int64) (*gin.Engine, *memSaleRepo) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	saleRepo := &memSaleRepo{}
	pipeline := ingest.NewPipeline(newMemCustomerRepo(), newMemProductRepo(), saleRepo, zap.NewNop())
	h := NewUploadHandler(pipeline, maxFileSize, t.TempDir(), 0, zap.NewNop())

	engine := gin.New()
	api := engine.Group("/api")
	h.RegisterRoutes(api)
	return engine, saleRepo
}

func multipartBody(t *testing.T, fieldName, filename, contentType, content string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	header := make(map[string][]string)
	header["Content-Disposition"] = []string{`form-data; name="` + fieldName + `"; filename="` + filename + `"`}
	if contentType != "" {
		header["Content-Type"] = []string{contentType}
	}
	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	return body, writer.FormDataContentType()
}

const uploadCSV = "customerName,productName,price,quantity,date\n" +
	"Acme Corp,Widget Pro,10.00,2,2024-01-15\n" +
	"Globex GmbH,Widget Lite,5.00,1,2024-01-16\n"

func TestUploadHandler_UploadCSV(t *testing.T) {
	engine, saleRepo := newUploadTestServer(t, 1<<20)

	body, contentType := multipartBody(t, "file", "sales.csv", "text/csv", uploadCSV)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/upload/csv", body)
	req.Header.Set("Content-Type", contentType)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)

	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "File processed successfully", data["message"])
	assert.Equal(t, float64(2), data["totalRows"])
	assert.Equal(t, float64(2), data["processedRows"])
	assert.Equal(t, float64(0), data["skippedRows"])

	assert.Len(t, saleRepo.saved, 2)
}

func TestUploadHandler_MissingFile(t *testing.T) {
	engine, _ := newUploadTestServer(t, 1<<20)

	body, contentType := multipartBody(t, "wrongField", "sales.csv", "text/csv", uploadCSV)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/upload/csv", body)
	req.Header.Set("Content-Type", contentType)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeBadRequest, resp.Error.Code)
}

func TestUploadHandler_FileTooLarge(t *testing.T) {
	engine, _ := newUploadTestServer(t, 10) // 10 bytes

	body, contentType := multipartBody(t, "file", "sales.csv", "text/csv", uploadCSV)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/upload/csv", body)
	req.Header.Set("Content-Type", contentType)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeFileTooLarge, resp.Error.Code)
}

func TestUploadHandler_UnsupportedFile(t *testing.T) {
	engine, _ := newUploadTestServer(t, 1<<20)

	body, contentType := multipartBody(t, "file", "report.pdf", "application/pdf", "%PDF-1.4")
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/upload/csv", body)
	req.Header.Set("Content-Type", contentType)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeUnsupportedFile, resp.Error.Code)
}

func TestUploadHandler_CSVContentTypeWithoutExtension(t *testing.T) {
	engine, _ := newUploadTestServer(t, 1<<20)

	body, contentType := multipartBody(t, "file", "export.dat", "text/csv; charset=utf-8", uploadCSV)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/upload/csv", body)
	req.Header.Set("Content-Type", contentType)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestUploadHandler_EmptyFileFails(t *testing.T) {
	engine, _ := newUploadTestServer(t, 1<<20)

	body, contentType := multipartBody(t, "file", "empty.csv", "text/csv", "")
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/upload/csv", body)
	req.Header.Set("Content-Type", contentType)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestUploadHandler_TempFileRemoved(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tempDir := t.TempDir()
	saleRepo := &memSaleRepo{}
	pipeline := ingest.NewPipeline(newMemCustomerRepo(), newMemProductRepo(), saleRepo, zap.NewNop())
	h := NewUploadHandler(pipeline, 1<<20, tempDir, 0, zap.NewNop())

	engine := gin.New()
	api := engine.Group("/api")
	h.RegisterRoutes(api)

	run := func(content string) {
		body, contentType := multipartBody(t, "file", "sales.csv", "text/csv", content)
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodPost, "/api/upload/csv", body)
		req.Header.Set("Content-Type", contentType)
		engine.ServeHTTP(w, req)
	}

	// Success path
	run(uploadCSV)
	// Failure path (empty file aborts the pipeline)
	run("")

	entries, err := os.ReadDir(tempDir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.Failf(t, "temp file left behind", "unexpected file %s", filepath.Join(tempDir, e.Name()))
	}
}

func TestUploadHandler_StagingFailureLeavesNoFile(t *testing.T) {
	gin.SetMode(gin.TestMode)

	// Point the staging directory at a regular file so SaveUploadedFile
	// cannot create the temp file.
	parent := t.TempDir()
	notADir := filepath.Join(parent, "staging")
	require.NoError(t, os.WriteFile(notADir, []byte("occupied"), 0o600))

	saleRepo := &memSaleRepo{}
	pipeline := ingest.NewPipeline(newMemCustomerRepo(), newMemProductRepo(), saleRepo, zap.NewNop())
	h := NewUploadHandler(pipeline, 1<<20, notADir, 0, zap.NewNop())

	engine := gin.New()
	api := engine.Group("/api")
	h.RegisterRoutes(api)

	body, contentType := multipartBody(t, "file", "sales.csv", "text/csv", uploadCSV)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/upload/csv", body)
	req.Header.Set("Content-Type", contentType)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeInternal, resp.Error.Code)

	// Nothing was ingested and nothing leaked into the parent directory.
	assert.Empty(t, saleRepo.saved)
	entries, err := os.ReadDir(parent)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "staging", entries[0].Name())
}

func TestIsCSVUpload(t *testing.T) {
	tests := []struct {
		filename    string
		contentType string
		expected    bool
	}{
		{"sales.csv", "", true},
		{"SALES.CSV", "", true},
		{"export.dat", "text/csv", true},
		{"export.dat", "text/csv; charset=utf-8", true},
		{"export.dat", "TEXT/CSV", true},
		{"report.pdf", "application/pdf", false},
		{"data.txt", "text/plain", false},
		{"noextension", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.filename+"/"+tt.contentType, func(t *testing.T) {
			assert.Equal(t, tt.expected, isCSVUpload(tt.filename, tt.contentType))
		})
	}
}
