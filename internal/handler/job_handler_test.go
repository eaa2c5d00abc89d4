package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/edu-content-forge/internal/dto"
	"github.com/noah-isme/edu-content-forge/internal/models"
	"github.com/noah-isme/edu-content-forge/internal/service"
	appErrors "github.com/noah-isme/edu-content-forge/pkg/errors"
)

type jobQueryMock struct {
	job       *models.GenerationJob
	jobs      []models.GenerationJob
	products  []models.Product
	artifact  json.RawMessage
	err       error
	lastQuery dto.GenerationJobQuery
	lastKind  models.ArtifactKind
}

func (m *jobQueryMock) GetJob(ctx context.Context, id string) (*models.GenerationJob, error) {
	return m.job, m.err
}

func (m *jobQueryMock) ListJobs(ctx context.Context, query dto.GenerationJobQuery) ([]models.GenerationJob, *models.Pagination, error) {
	m.lastQuery = query
	return m.jobs, &models.Pagination{Page: 1, PageSize: 20, TotalCount: len(m.jobs)}, m.err
}

func (m *jobQueryMock) ListProducts(ctx context.Context, jobID string) ([]models.Product, error) {
	return m.products, m.err
}

func (m *jobQueryMock) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	if len(m.products) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "product not found")
	}
	return &m.products[0], m.err
}

func (m *jobQueryMock) GetArtifact(ctx context.Context, productID string, kind models.ArtifactKind) (json.RawMessage, error) {
	m.lastKind = kind
	return m.artifact, m.err
}

func newJobRouter(svc jobQueryService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewJobHandler(svc)
	r.GET("/generation-jobs", h.List)
	r.GET("/generation-jobs/:id", h.Get)
	r.GET("/generation-jobs/:id/products", h.Products)
	r.GET("/products/:id", h.Product)
	r.GET("/products/:id/artifacts/:kind", h.Artifact)
	return r
}

func TestJobHandlerGet(t *testing.T) {
	svc := &jobQueryMock{job: &models.GenerationJob{ID: "job-1", Status: models.JobStatusRunning, TotalProducts: 4, CompletedProducts: 2}}
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/generation-jobs/job-1", nil)
	newJobRouter(svc).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var envelope struct {
		Data models.GenerationJob `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, models.JobStatusRunning, envelope.Data.Status)
	assert.Equal(t, 2, envelope.Data.CompletedProducts)
}

func TestJobHandlerGetNotFound(t *testing.T) {
	svc := &jobQueryMock{err: appErrors.Clone(appErrors.ErrNotFound, "generation job not found")}
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/generation-jobs/nope", nil)
	newJobRouter(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestJobHandlerListPassesFilters(t *testing.T) {
	svc := &jobQueryMock{jobs: []models.GenerationJob{{ID: "a"}}}
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/generation-jobs?status=FAILED&page=2&page_size=5", nil)
	newJobRouter(svc).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "FAILED", svc.lastQuery.Status)
	assert.Equal(t, 2, svc.lastQuery.Page)
	assert.Equal(t, 5, svc.lastQuery.PageSize)
	assert.Contains(t, w.Body.String(), `"pagination"`)
}

func TestJobHandlerArtifact(t *testing.T) {
	svc := &jobQueryMock{artifact: json.RawMessage(`{"verdict":"PASS","score":90}`)}
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/products/p-1/artifacts/qc", nil)
	newJobRouter(svc).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.ArtifactQC, svc.lastKind)
	assert.Contains(t, w.Body.String(), `"verdict":"PASS"`)
}

func TestJobHandlerProductInternalError(t *testing.T) {
	svc := &jobQueryMock{products: []models.Product{{ID: "p-1"}}, err: errors.New("boom")}
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/generation-jobs/job-1/products", nil)
	newJobRouter(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

type pingStub struct{ err error }

func (p pingStub) PingContext(ctx context.Context) error { return p.err }

func TestMetricsHandlerReady(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/ready", NewMetricsHandler(nil, pingStub{}, nil).Ready)
	r.GET("/down", NewMetricsHandler(nil, pingStub{err: errors.New("refused")}, nil).Ready)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/ready", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest(http.MethodGet, "/down", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestMetricsHandlerStats(t *testing.T) {
	gin.SetMode(gin.TestMode)
	metrics := service.NewMetricsService()
	metrics.ObservePipelineRun(service.OutcomeGenerated)

	r := gin.New()
	r.GET("/stats", NewMetricsHandler(metrics, nil, nil).Stats)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/stats", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"products_generated":1`)
}
