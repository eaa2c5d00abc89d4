package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/edu-content-forge/internal/models"
)

func TestRenderJobs(t *testing.T) {
	var buf bytes.Buffer
	renderJobs(&buf, []models.GenerationJob{{
		ID: "job-1", JobType: models.JobTypeFullBundle, StandardID: "std-1", GradeLevel: 5,
		Status: models.JobStatusRunning, CompletedProducts: 2, FailedProducts: 1, TotalProducts: 4,
	}})

	out := buf.String()
	assert.Contains(t, out, "STATUS")
	assert.Contains(t, out, "job-1")
	assert.Contains(t, out, "FULL_BUNDLE")
	assert.Contains(t, out, "RUNNING")
}

func TestRenderProducts(t *testing.T) {
	var buf bytes.Buffer
	renderProducts(&buf, []models.Product{{ID: "p-1", ProductType: models.ProductTypeQuiz, Status: models.ProductStatusFailed}})

	assert.Contains(t, buf.String(), "QUIZ")
	assert.Contains(t, buf.String(), "FAILED")
}

func TestRenderStandards(t *testing.T) {
	var buf bytes.Buffer
	renderStandards(&buf, []models.Standard{{ID: "CBSE.SCI.7.1", Code: "CBSE.SCI.7.1", Description: "Nutrition in Plants"}})

	assert.Contains(t, buf.String(), "CBSE.SCI.7.1")
	assert.Contains(t, buf.String(), "Nutrition in Plants")
}

func TestCommandTree(t *testing.T) {
	cmds := map[string]bool{}
	for _, c := range []string{"jobs", "recompute", "run-product", "drain", "artifact", "standards"} {
		cmds[c] = false
	}
	root := rootCmd
	root.AddCommand(jobsCmd(), recomputeCmd(), runProductCmd(), drainCmd(), artifactCmd(), standardsCmd())
	for _, c := range root.Commands() {
		if _, ok := cmds[c.Name()]; ok {
			cmds[c.Name()] = true
		}
	}
	for name, found := range cmds {
		assert.True(t, found, name)
	}
}
