package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/edu-content-forge/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

var jobColumns = []string{"id", "standard_id", "locale", "curriculum_board", "grade_level", "job_type", "status",
	"total_products", "completed_products", "failed_products", "created_at", "updated_at"}

func TestGenerationJobRepositoryCreateWithProducts(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewGenerationJobRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO generation_jobs")).
		WithArgs(sqlmock.AnyArg(), "std-1", "US", "COMMON_CORE", 5, "FULL_BUNDLE", "PENDING", 2, 0, 0, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO products")).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO products")).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	job := &models.GenerationJob{
		StandardID:      "std-1",
		Locale:          models.LocaleUS,
		CurriculumBoard: models.CurriculumCommonCore,
		GradeLevel:      5,
		JobType:         models.JobTypeFullBundle,
	}
	products := []*models.Product{
		{StandardID: "std-1", ProductType: models.ProductTypeWorksheet, Locale: models.LocaleUS, CurriculumBoard: models.CurriculumCommonCore, GradeLevel: 5},
		{StandardID: "std-1", ProductType: models.ProductTypeQuiz, Locale: models.LocaleUS, CurriculumBoard: models.CurriculumCommonCore, GradeLevel: 5},
	}

	require.NoError(t, repo.CreateWithProducts(context.Background(), job, products))
	assert.NotEmpty(t, job.ID)
	assert.Equal(t, 2, job.TotalProducts)
	for _, p := range products {
		assert.NotEmpty(t, p.ID)
		assert.Equal(t, job.ID, p.GenerationJobID)
		assert.Equal(t, models.ProductStatusDraft, p.Status)
	}
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGenerationJobRepositoryCreateRollsBack(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewGenerationJobRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO generation_jobs")).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO products")).WillReturnError(errors.New("fk violation"))
	mock.ExpectRollback()

	err := repo.CreateWithProducts(context.Background(), &models.GenerationJob{StandardID: "std-1"}, []*models.Product{{StandardID: "std-1"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create product")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGenerationJobRepositoryGetByID(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewGenerationJobRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows(jobColumns).
		AddRow("job-1", "std-1", "IN", "CBSE", 4, "SINGLE_PRODUCT", "RUNNING", 1, 0, 0, now, now)
	mock.ExpectQuery(regexp.QuoteMeta("FROM generation_jobs WHERE id = $1")).
		WithArgs("job-1").
		WillReturnRows(rows)

	job, err := repo.GetByID(context.Background(), "job-1")
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusRunning, job.Status)
	assert.Equal(t, models.CurriculumCBSE, job.CurriculumBoard)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGenerationJobRepositoryList(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewGenerationJobRepository(db)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("FROM generation_jobs WHERE 1=1 AND status = $1 ORDER BY created_at DESC LIMIT 10 OFFSET 10")).
		WithArgs(models.JobStatusCompleted).
		WillReturnRows(sqlmock.NewRows(jobColumns).
			AddRow("job-9", "std-1", "US", "COMMON_CORE", 3, "FULL_BUNDLE", "COMPLETED", 4, 3, 1, now, now))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM generation_jobs WHERE 1=1 AND status = $1")).
		WithArgs(models.JobStatusCompleted).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(11))

	jobs, total, err := repo.List(context.Background(), models.GenerationJobFilter{Status: models.JobStatusCompleted, Page: 2, PageSize: 10})
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, 11, total)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGenerationJobRepositoryUpdateProgress(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewGenerationJobRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE generation_jobs SET total_products = $1, completed_products = $2, failed_products = $3, status = $4, updated_at = $5 WHERE id = $6")).
		WithArgs(4, 2, 1, models.JobStatusRunning, sqlmock.AnyArg(), "job-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateProgress(context.Background(), "job-1", models.JobProgress{Total: 4, Completed: 2, Failed: 1, Status: models.JobStatusRunning})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGenerationJobRepositoryUpdateProgressMissingJob(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewGenerationJobRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE generation_jobs")).WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateProgress(context.Background(), "missing", models.JobProgress{Status: models.JobStatusPending})
	assert.ErrorIs(t, err, ErrNoRowsAffected)
}

func TestGenerationJobRepositoryListUnfinished(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewGenerationJobRepository(db)

	now := time.Now()
	query := regexp.QuoteMeta("AND (created_at, id) > ($1, $2) ORDER BY created_at ASC, id ASC LIMIT $3")
	mock.ExpectQuery(query).
		WithArgs(time.Time{}, "", 50).
		WillReturnRows(sqlmock.NewRows(jobColumns).
			AddRow("job-1", "std-1", "US", "COMMON_CORE", 2, "SINGLE_PRODUCT", "PENDING", 1, 0, 0, now, now))
	mock.ExpectQuery(query).
		WithArgs(now, "job-1", 1).
		WillReturnRows(sqlmock.NewRows(jobColumns))

	jobs, err := repo.ListUnfinished(context.Background(), models.JobCursor{}, 0)
	require.NoError(t, err)
	require.Len(t, jobs, 1)

	next, err := repo.ListUnfinished(context.Background(), models.JobCursor{CreatedAt: now, ID: "job-1"}, 1)
	require.NoError(t, err)
	assert.Empty(t, next)
	require.NoError(t, mock.ExpectationsWereMet())
}
