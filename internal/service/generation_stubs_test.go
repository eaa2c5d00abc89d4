package service

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/noah-isme/edu-content-forge/internal/agent"
	"github.com/noah-isme/edu-content-forge/internal/models"
	"github.com/noah-isme/edu-content-forge/pkg/jobs"
)

// memStore backs both the job and product stubs so progress recomputes see product writes.
type memStore struct {
	mu       sync.Mutex
	jobs     map[string]*models.GenerationJob
	products map[string]*models.Product
	claims   map[string]claim
	order    []string
	updates  int
}

type claim struct {
	owner   string
	expires time.Time
}

func newMemStore() *memStore {
	return &memStore{
		jobs:     map[string]*models.GenerationJob{},
		products: map[string]*models.Product{},
		claims:   map[string]claim{},
	}
}

func (s *memStore) seed(job models.GenerationJob, statuses ...models.ProductStatus) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	j := job
	s.jobs[j.ID] = &j
	ids := make([]string, 0, len(statuses))
	for i, status := range statuses {
		p := &models.Product{
			ID:              uuid.NewString(),
			GenerationJobID: j.ID,
			StandardID:      j.StandardID,
			ProductType:     models.AllProductTypes[i%len(models.AllProductTypes)],
			GradeLevel:      j.GradeLevel,
			CurriculumBoard: j.CurriculumBoard,
			Status:          status,
		}
		s.products[p.ID] = p
		s.order = append(s.order, p.ID)
		ids = append(ids, p.ID)
	}
	return ids
}

func (s *memStore) product(id string) models.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.products[id]
}

func (s *memStore) job(id string) models.GenerationJob {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.jobs[id]
}

type jobStoreStub struct {
	*memStore
	createErr error
	listCalls int
}

func (j *jobStoreStub) CreateWithProducts(ctx context.Context, job *models.GenerationJob, products []*models.Product) error {
	if j.createErr != nil {
		return j.createErr
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	job.ID = uuid.NewString()
	job.TotalProducts = len(products)
	stored := *job
	j.jobs[job.ID] = &stored
	for _, p := range products {
		p.ID = uuid.NewString()
		p.GenerationJobID = job.ID
		cp := *p
		j.products[p.ID] = &cp
		j.order = append(j.order, p.ID)
	}
	return nil
}

func (j *jobStoreStub) GetByID(ctx context.Context, id string) (*models.GenerationJob, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	job, ok := j.jobs[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *job
	return &cp, nil
}

func (j *jobStoreStub) List(ctx context.Context, filter models.GenerationJobFilter) ([]models.GenerationJob, int, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	var out []models.GenerationJob
	for _, job := range j.jobs {
		if filter.Status == "" || job.Status == filter.Status {
			out = append(out, *job)
		}
	}
	return out, len(out), nil
}

func (j *jobStoreStub) UpdateProgress(ctx context.Context, id string, progress models.JobProgress) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	job, ok := j.jobs[id]
	if !ok {
		return errors.New("no rows affected")
	}
	job.TotalProducts = progress.Total
	job.CompletedProducts = progress.Completed
	job.FailedProducts = progress.Failed
	job.Status = progress.Status
	j.updates++
	return nil
}

func (j *jobStoreStub) ListUnfinished(ctx context.Context, after models.JobCursor, limit int) ([]models.GenerationJob, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	var out []models.GenerationJob
	for _, job := range j.jobs {
		if job.Status != models.JobStatusPending && job.Status != models.JobStatusRunning {
			continue
		}
		if job.CreatedAt.Before(after.CreatedAt) || (job.CreatedAt.Equal(after.CreatedAt) && job.ID <= after.ID) {
			continue
		}
		out = append(out, *job)
	}
	sort.Slice(out, func(a, b int) bool {
		if !out[a].CreatedAt.Equal(out[b].CreatedAt) {
			return out[a].CreatedAt.Before(out[b].CreatedAt)
		}
		return out[a].ID < out[b].ID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	j.listCalls++
	return out, nil
}

type productStoreStub struct {
	*memStore
}

func (p *productStoreStub) GetByID(ctx context.Context, id string) (*models.Product, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	product, ok := p.products[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *product
	return &cp, nil
}

func (p *productStoreStub) ListByJob(ctx context.Context, jobID string) ([]models.Product, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := []models.Product{}
	for _, id := range p.order {
		if product := p.products[id]; product.GenerationJobID == jobID {
			out = append(out, *product)
		}
	}
	return out, nil
}

func (p *productStoreStub) TransitionStatus(ctx context.Context, id string, from, to models.ProductStatus) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	product, ok := p.products[id]
	if !ok || product.Status != from {
		return false, nil
	}
	product.Status = to
	delete(p.claims, id)
	return true, nil
}

func (p *productStoreStub) Claim(ctx context.Context, id, owner string, ttl time.Duration) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	product, ok := p.products[id]
	if !ok || product.Status != models.ProductStatusDraft {
		return false, nil
	}
	now := time.Now()
	if c, held := p.claims[id]; held && c.expires.After(now) {
		return false, nil
	}
	p.claims[id] = claim{owner: owner, expires: now.Add(ttl)}
	return true, nil
}

func (p *productStoreStub) List(ctx context.Context, filter models.ProductFilter) ([]models.Product, int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := []models.Product{}
	for _, id := range p.order {
		product := p.products[id]
		if filter.Status != "" && product.Status != filter.Status {
			continue
		}
		if filter.ProductType != "" && product.ProductType != filter.ProductType {
			continue
		}
		if filter.GenerationJobID != "" && product.GenerationJobID != filter.GenerationJobID {
			continue
		}
		out = append(out, *product)
	}
	return out, len(out), nil
}

type standardStub struct {
	standards map[string]models.Standard
	err       error
}

func (s *standardStub) GetByID(ctx context.Context, id string) (*models.Standard, error) {
	if s.err != nil {
		return nil, s.err
	}
	std, ok := s.standards[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &std, nil
}

type generatorStub struct {
	mu      sync.Mutex
	calls   int
	content agent.Content
	err     error
	panics  bool
}

func (g *generatorStub) Generate(ctx context.Context, req agent.Request) (agent.Content, error) {
	g.mu.Lock()
	g.calls++
	g.mu.Unlock()
	if g.panics {
		panic("generator exploded")
	}
	if g.err != nil {
		return nil, g.err
	}
	return g.content, nil
}

type evaluatorStub struct {
	mu     sync.Mutex
	calls  int
	result models.QCResult
	err    error
}

func (e *evaluatorStub) Evaluate(ctx context.Context, req agent.Request, content agent.Content) (models.QCResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls++
	return e.result, e.err
}

type synthesizerStub struct {
	mu    sync.Mutex
	calls int
}

func (s *synthesizerStub) Synthesize(ctx context.Context, req agent.Request, content agent.Content) models.ProductMetadata {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return agent.FallbackMetadata(req.ProductType, req.GradeLevel, req.Standard.Code)
}

type recomputeCounter struct {
	mu    sync.Mutex
	inner progressRecomputer
	calls map[string]int
}

func newRecomputeCounter(inner progressRecomputer) *recomputeCounter {
	return &recomputeCounter{inner: inner, calls: map[string]int{}}
}

func (r *recomputeCounter) Recompute(ctx context.Context, jobID string) (*models.GenerationJob, error) {
	r.mu.Lock()
	r.calls[jobID]++
	r.mu.Unlock()
	return r.inner.Recompute(ctx, jobID)
}

func (r *recomputeCounter) count(jobID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls[jobID]
}

type dispatcherStub struct {
	mu   sync.Mutex
	jobs []jobs.Job
	err  error
}

func (d *dispatcherStub) Enqueue(ctx context.Context, job jobs.Job) error {
	if d.err != nil {
		return d.err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.jobs = append(d.jobs, job)
	return nil
}

func passingQC() models.QCResult {
	return models.QCResult{
		Verdict: models.VerdictPass, Score: 88,
		StructureScore: 90, AlignmentScore: 88, ClarityScore: 85,
		DifficultyScore: 86, InclusivityScore: 90, AccuracyScore: 89,
		Strengths: []string{"clear"},
	}
}
