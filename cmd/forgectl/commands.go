package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/noah-isme/edu-content-forge/internal/app"
	"github.com/noah-isme/edu-content-forge/internal/dto"
	"github.com/noah-isme/edu-content-forge/internal/models"
	"github.com/noah-isme/edu-content-forge/pkg/jobs"
)

func jobsCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "jobs", Short: "Inspect generation jobs"}

	var query dto.GenerationJobQuery
	list := &cobra.Command{
		Use:   "list",
		Short: "List generation jobs, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				items, page, err := a.Query.ListJobs(ctx, query)
				if err != nil {
					return err
				}
				if jsonOutput {
					return printJSON(map[string]interface{}{"jobs": items, "pagination": page})
				}
				renderJobs(os.Stdout, items)
				fmt.Printf("page %d, %d of %d jobs\n", page.Page, len(items), page.TotalCount)
				return nil
			})
		},
	}
	list.Flags().StringVar(&query.Status, "status", "", "PENDING, RUNNING, COMPLETED or FAILED")
	list.Flags().IntVar(&query.Page, "page", 1, "page number")
	list.Flags().IntVar(&query.PageSize, "page-size", 20, "jobs per page")

	show := &cobra.Command{
		Use:   "show <job-id>",
		Short: "Show a job and its products",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				job, err := a.Query.GetJob(ctx, args[0])
				if err != nil {
					return err
				}
				products, err := a.Query.ListProducts(ctx, args[0])
				if err != nil {
					return err
				}
				if jsonOutput {
					return printJSON(map[string]interface{}{"job": job, "products": products})
				}
				renderJobs(os.Stdout, []models.GenerationJob{*job})
				renderProducts(os.Stdout, products)
				return nil
			})
		},
	}

	cmd.AddCommand(list, show)
	return cmd
}

func recomputeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "recompute <job-id>",
		Short: "Recompute a job's counters and status from its products",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				job, err := a.Progress.Recompute(ctx, args[0])
				if err != nil {
					return err
				}
				if jsonOutput {
					return printJSON(job)
				}
				renderJobs(os.Stdout, []models.GenerationJob{*job})
				return nil
			})
		},
	}
}

func runProductCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run-product <product-id>",
		Short: "Run the pipeline for one DRAFT product in the foreground",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				status, err := a.Pipeline.RunProduct(ctx, args[0])
				if err != nil {
					return err
				}
				fmt.Printf("%s %s\n", args[0], status)
				return nil
			})
		},
	}
}

func drainCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "drain",
		Short: "Run every unfinished job in the foreground",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				pending, err := a.Jobs.ListUnfinished(ctx, models.JobCursor{}, limit)
				if err != nil {
					return err
				}
				for _, job := range pending {
					if err := a.Worker.Handle(ctx, jobs.Job{ID: job.ID}); err != nil {
						return fmt.Errorf("job %s: %w", job.ID, err)
					}
				}
				fmt.Printf("drained %d jobs\n", len(pending))
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 50, "maximum jobs to run")
	return cmd
}

func artifactCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "artifact <product-id> <raw|qc|metadata>",
		Short: "Print a stored stage artifact",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				doc, err := a.Query.GetArtifact(ctx, args[0], models.ArtifactKind(args[1]))
				if err != nil {
					return err
				}
				var v interface{}
				if err := json.Unmarshal(doc, &v); err != nil {
					return err
				}
				return printJSON(v)
			})
		},
	}
}

func standardsCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "standards", Short: "List or add curriculum standards"}

	var query dto.StandardQuery
	list := &cobra.Command{
		Use:   "list",
		Short: "List standards ordered by code",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				items, err := a.StandardSvc.List(ctx, query)
				if err != nil {
					return err
				}
				if jsonOutput {
					return printJSON(items)
				}
				renderStandards(os.Stdout, items)
				return nil
			})
		},
	}
	list.Flags().StringVar(&query.Code, "code", "", "code prefix")

	var req dto.CreateStandardRequest
	add := &cobra.Command{
		Use:   "add <code>",
		Short: "Add a standard",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Code = args[0]
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				standard, err := a.StandardSvc.Create(ctx, req)
				if err != nil {
					return err
				}
				if jsonOutput {
					return printJSON(standard)
				}
				renderStandards(os.Stdout, []models.Standard{*standard})
				return nil
			})
		},
	}
	add.Flags().StringVar(&req.Description, "description", "", "human readable description")

	cmd.AddCommand(list, add)
	return cmd
}

func renderJobs(w io.Writer, items []models.GenerationJob) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.AppendHeader(table.Row{"ID", "Type", "Standard", "Grade", "Status", "Done", "Failed", "Total", "Updated"})
	for _, j := range items {
		tw.AppendRow(table.Row{j.ID, j.JobType, j.StandardID, j.GradeLevel, j.Status,
			j.CompletedProducts, j.FailedProducts, j.TotalProducts, j.UpdatedAt.Format("2006-01-02 15:04:05")})
	}
	tw.Render()
}

func renderProducts(w io.Writer, items []models.Product) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.AppendHeader(table.Row{"ID", "Type", "Locale", "Curriculum", "Status"})
	for _, p := range items {
		tw.AppendRow(table.Row{p.ID, p.ProductType, p.Locale, p.CurriculumBoard, p.Status})
	}
	tw.Render()
}

func renderStandards(w io.Writer, items []models.Standard) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.AppendHeader(table.Row{"ID", "Code", "Description"})
	for _, s := range items {
		tw.AppendRow(table.Row{s.ID, s.Code, s.Description})
	}
	tw.Render()
}
