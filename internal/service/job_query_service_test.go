package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/edu-content-forge/internal/dto"
	"github.com/noah-isme/edu-content-forge/internal/models"
	appErrors "github.com/noah-isme/edu-content-forge/pkg/errors"
	"github.com/noah-isme/edu-content-forge/pkg/storage"
)

func newQueryFixture(t *testing.T) (*memStore, *storage.ArtifactStore, *JobQueryService) {
	t.Helper()
	store := newMemStore()
	artifacts, err := storage.NewArtifactStore(t.TempDir())
	require.NoError(t, err)
	jobsStore := &jobStoreStub{memStore: store}
	products := &productStoreStub{memStore: store}
	progress := NewProgressService(jobsStore, products, nil, nil, 0, nil)
	return store, artifacts, NewJobQueryService(jobsStore, products, artifacts, progress, nil)
}

func TestJobQueryListProducts(t *testing.T) {
	store, _, svc := newQueryFixture(t)
	ids := store.seed(models.GenerationJob{ID: "job-1"}, models.ProductStatusDraft, models.ProductStatusFailed)

	products, err := svc.ListProducts(context.Background(), "job-1")
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, ids[0], products[0].ID)

	_, err = svc.ListProducts(context.Background(), "job-404")
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestJobQueryListJobsFiltersAndPaginates(t *testing.T) {
	store, _, svc := newQueryFixture(t)
	store.seed(models.GenerationJob{ID: "a", Status: models.JobStatusCompleted})
	store.seed(models.GenerationJob{ID: "b", Status: models.JobStatusPending})

	jobs, page, err := svc.ListJobs(context.Background(), dto.GenerationJobQuery{Status: "completed"})
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "a", jobs[0].ID)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 20, page.PageSize)
	assert.Equal(t, 1, page.TotalCount)

	_, _, err = svc.ListJobs(context.Background(), dto.GenerationJobQuery{Status: "DONE"})
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}

func TestJobQueryGetArtifact(t *testing.T) {
	store, artifacts, svc := newQueryFixture(t)
	ids := store.seed(models.GenerationJob{ID: "job-1"}, models.ProductStatusGenerated)
	ctx := context.Background()

	_, err := svc.GetArtifact(ctx, ids[0], models.ArtifactQC)
	assert.ErrorIs(t, err, appErrors.ErrNotFound)

	require.NoError(t, artifacts.Save(ctx, ids[0], models.ArtifactQC, passingQC()))
	doc, err := svc.GetArtifact(ctx, ids[0], models.ArtifactQC)
	require.NoError(t, err)
	assert.Contains(t, string(doc), `"verdict": "PASS"`)

	_, err = svc.GetArtifact(ctx, ids[0], "pdf")
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	_, err = svc.GetArtifact(ctx, "unknown", models.ArtifactRaw)
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}
