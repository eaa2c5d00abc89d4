package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/edu-content-forge/internal/models"
)

var productColumnNames = []string{"id", "generation_job_id", "standard_id", "product_type", "locale", "curriculum_board", "grade_level", "status", "created_at", "updated_at"}

func TestProductRepositoryListByJob(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewProductRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows(productColumnNames).
		AddRow("p-1", "job-1", "std-1", "WORKSHEET", "US", "COMMON_CORE", 5, "GENERATED", now, now).
		AddRow("p-2", "job-1", "std-1", "QUIZ", "US", "COMMON_CORE", 5, "DRAFT", now, now)
	mock.ExpectQuery(regexp.QuoteMeta("FROM products WHERE generation_job_id = $1")).
		WithArgs("job-1").
		WillReturnRows(rows)

	products, err := repo.ListByJob(context.Background(), "job-1")
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, models.ProductStatusGenerated, products[0].Status)
	assert.Equal(t, models.ProductTypeQuiz, products[1].ProductType)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepositoryListByJobEmpty(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewProductRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM products WHERE generation_job_id = $1")).
		WithArgs("job-2").
		WillReturnRows(sqlmock.NewRows(productColumnNames))

	products, err := repo.ListByJob(context.Background(), "job-2")
	require.NoError(t, err)
	assert.NotNil(t, products)
	assert.Empty(t, products)
}

func TestProductRepositoryGetByID(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewProductRepository(db)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("FROM products WHERE id = $1")).
		WithArgs("p-1").
		WillReturnRows(sqlmock.NewRows(productColumnNames).
			AddRow("p-1", "job-1", "std-1", "PASSAGE", "IN", "CBSE", 8, "FAILED", now, now))

	product, err := repo.GetByID(context.Background(), "p-1")
	require.NoError(t, err)
	assert.Equal(t, models.ProductStatusFailed, product.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepositoryTransitionStatus(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewProductRepository(db)

	query := regexp.QuoteMeta("UPDATE products SET status = $1, updated_at = $2, claimed_by = NULL, claim_expires_at = NULL WHERE id = $3 AND status = $4")
	mock.ExpectExec(query).
		WithArgs(models.ProductStatusGenerated, sqlmock.AnyArg(), "p-1", models.ProductStatusDraft).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(query).
		WithArgs(models.ProductStatusDraft, sqlmock.AnyArg(), "p-2", models.ProductStatusFailed).
		WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err := repo.TransitionStatus(context.Background(), "p-1", models.ProductStatusDraft, models.ProductStatusGenerated)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.TransitionStatus(context.Background(), "p-2", models.ProductStatusFailed, models.ProductStatusDraft)
	require.NoError(t, err)
	assert.False(t, ok)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStandardRepositoryGetByID(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStandardRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, code, description, created_at FROM standards WHERE id = $1")).
		WithArgs("std-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "code", "description", "created_at"}).
			AddRow("std-1", "CCSS.MATH.5.NF.1", "Add and subtract fractions", time.Now()))

	standard, err := repo.GetByID(context.Background(), "std-1")
	require.NoError(t, err)
	assert.Equal(t, "CCSS.MATH.5.NF.1", standard.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepositoryClaim(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewProductRepository(db)

	query := regexp.QuoteMeta("UPDATE products SET claimed_by = $1, claim_expires_at = $2")
	mock.ExpectExec(query).
		WithArgs("worker-a", sqlmock.AnyArg(), "p-1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(query).
		WithArgs("worker-b", sqlmock.AnyArg(), "p-1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err := repo.Claim(context.Background(), "p-1", "worker-a", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.Claim(context.Background(), "p-1", "worker-b", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepositoryListAppliesFilters(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewProductRepository(db)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("FROM products WHERE 1=1 AND status = $1 AND product_type = $2 AND grade_level = $3 ORDER BY created_at DESC, id ASC LIMIT 10 OFFSET 10")).
		WithArgs(models.ProductStatusGenerated, models.ProductTypeQuiz, 6).
		WillReturnRows(sqlmock.NewRows(productColumnNames).
			AddRow("p-9", "job-3", "std-1", "QUIZ", "IN", "CBSE", 6, "GENERATED", now, now))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM products WHERE 1=1 AND status = $1 AND product_type = $2 AND grade_level = $3")).
		WithArgs(models.ProductStatusGenerated, models.ProductTypeQuiz, 6).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(11))

	products, total, err := repo.List(context.Background(), models.ProductFilter{
		Status:      models.ProductStatusGenerated,
		ProductType: models.ProductTypeQuiz,
		GradeLevel:  6,
		Page:        2,
		PageSize:    10,
	})
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, 11, total)
	assert.Equal(t, "p-9", products[0].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStandardRepositoryList(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStandardRepository(db)

	cols := []string{"id", "code", "description", "created_at"}
	mock.ExpectQuery(regexp.QuoteMeta("FROM standards ORDER BY code ASC")).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow("CBSE.MATH.6.1", "CBSE.MATH.6.1", "Knowing Our Numbers", time.Now()).
			AddRow("CBSE.SCI.6.1", "CBSE.SCI.6.1", "Sources of food", time.Now()))
	mock.ExpectQuery(regexp.QuoteMeta("FROM standards WHERE code LIKE $1 ORDER BY code ASC")).
		WithArgs("CBSE.SCI%").
		WillReturnRows(sqlmock.NewRows(cols))

	all, err := repo.List(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	none, err := repo.List(context.Background(), "CBSE.SCI")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStandardRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStandardRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO standards (id, code, description, created_at)")).
		WithArgs(sqlmock.AnyArg(), "CCSS.MATH.4.NF.3", "Add fractions with like denominators", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	standard := &models.Standard{Code: "CCSS.MATH.4.NF.3", Description: "Add fractions with like denominators"}
	require.NoError(t, repo.Create(context.Background(), standard))
	assert.NotEmpty(t, standard.ID)
	assert.False(t, standard.CreatedAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStandardRepositoryExistsByCode(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStandardRepository(db)

	query := regexp.QuoteMeta("SELECT 1 FROM standards WHERE LOWER(code) = LOWER($1) LIMIT 1")
	mock.ExpectQuery(query).WithArgs("cbse.math.6.1").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))
	mock.ExpectQuery(query).WithArgs("CBSE.ART.6.1").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}))

	exists, err := repo.ExistsByCode(context.Background(), "cbse.math.6.1")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByCode(context.Background(), "CBSE.ART.6.1")
	require.NoError(t, err)
	assert.False(t, exists)
	require.NoError(t, mock.ExpectationsWereMet())
}
