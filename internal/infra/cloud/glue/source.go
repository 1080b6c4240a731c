// Package glue lists ETL jobs and data catalog tables as discovery records.
package glue

import (
	"context"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsglue "github.com/aws/aws-sdk-go-v2/service/glue"
	gluetypes "github.com/aws/aws-sdk-go-v2/service/glue/types"

	"github.com/mfilipelino/aws-tools/internal/core/domain"
	"github.com/mfilipelino/aws-tools/internal/scan"
)

// API is the slice of the Glue client the sources need.
type API interface {
	GetJobs(ctx context.Context, in *awsglue.GetJobsInput, optFns ...func(*awsglue.Options)) (*awsglue.GetJobsOutput, error)
	GetJobRuns(ctx context.Context, in *awsglue.GetJobRunsInput, optFns ...func(*awsglue.Options)) (*awsglue.GetJobRunsOutput, error)
	GetTables(ctx context.Context, in *awsglue.GetTablesInput, optFns ...func(*awsglue.Options)) (*awsglue.GetTablesOutput, error)
}

// NewClient builds the concrete Glue client.
func NewClient(cfg aws.Config) API {
	return awsglue.NewFromConfig(cfg)
}

// JobSource pages through ETL jobs.
type JobSource struct {
	api     API
	verbose bool
}

// NewJobSource builds a job source.
func NewJobSource(api API, verbose bool) *JobSource {
	return &JobSource{api: api, verbose: verbose}
}

// Pages returns the page function for the discovery pipeline.
func (s *JobSource) Pages() scan.PageFunc {
	return func(ctx context.Context, cursor string) ([]domain.Record, string, error) {
		in := &awsglue.GetJobsInput{}
		if cursor != "" {
			in.NextToken = aws.String(cursor)
		}

		out, err := s.api.GetJobs(ctx, in)
		if err != nil {
			return nil, "", err
		}

		records := make([]domain.Record, 0, len(out.Jobs))
		for _, job := range out.Jobs {
			records = append(records, s.shape(job))
		}
		return records, aws.ToString(out.NextToken), nil
	}
}

// LastRun returns an enricher that attaches the job's most recent run. It is
// needed when filtering by run status or for verbose output.
func (s *JobSource) LastRun() scan.Enricher {
	return func(ctx context.Context, rec domain.Record) (domain.Record, error) {
		name := rec.GetString("name")
		out, err := s.api.GetJobRuns(ctx, &awsglue.GetJobRunsInput{
			JobName:    aws.String(name),
			MaxResults: aws.Int32(1),
		})
		if err != nil {
			return domain.Record{}, &domain.EnrichmentError{Resource: name, Err: err}
		}

		enriched := rec.Clone()
		if len(out.JobRuns) > 0 {
			run := out.JobRuns[0]
			enriched.Set("last_run_status", string(run.JobRunState))
			enriched.Set("last_run_time", aws.ToTime(run.StartedOn).UTC())
			enriched.Set("last_run_duration", int64(run.ExecutionTime))
		}
		return enriched, nil
	}
}

func (s *JobSource) shape(job gluetypes.Job) domain.Record {
	rec := domain.NewRecord(
		domain.Field{Name: "name", Value: aws.ToString(job.Name)},
		domain.Field{Name: "role", Value: aws.ToString(job.Role)},
		domain.Field{Name: "created_on", Value: aws.ToTime(job.CreatedOn).UTC()},
		domain.Field{Name: "max_capacity", Value: aws.ToFloat64(job.MaxCapacity)},
	)
	if s.verbose {
		rec.Set("description", aws.ToString(job.Description))
		command := ""
		scriptLocation := ""
		if job.Command != nil {
			command = aws.ToString(job.Command.Name)
			scriptLocation = aws.ToString(job.Command.ScriptLocation)
		}
		rec.Set("command", command)
		rec.Set("script_location", scriptLocation)
		rec.Set("max_retries", int64(job.MaxRetries))
		rec.Set("timeout", int64(aws.ToInt32(job.Timeout)))
	}
	return rec
}

// TableSource pages through one database's catalog tables.
type TableSource struct {
	api      API
	database string
	verbose  bool
}

// NewTableSource builds a catalog table source.
func NewTableSource(api API, database string, verbose bool) *TableSource {
	return &TableSource{api: api, database: database, verbose: verbose}
}

// Pages returns the page function for the discovery pipeline.
func (s *TableSource) Pages() scan.PageFunc {
	return func(ctx context.Context, cursor string) ([]domain.Record, string, error) {
		in := &awsglue.GetTablesInput{DatabaseName: aws.String(s.database)}
		if cursor != "" {
			in.NextToken = aws.String(cursor)
		}

		out, err := s.api.GetTables(ctx, in)
		if err != nil {
			return nil, "", err
		}

		records := make([]domain.Record, 0, len(out.TableList))
		for _, table := range out.TableList {
			records = append(records, s.shapeTable(table))
		}
		return records, aws.ToString(out.NextToken), nil
	}
}

func (s *TableSource) shapeTable(table gluetypes.Table) domain.Record {
	tableType := aws.ToString(table.TableType)
	if tableType == "" {
		tableType = "EXTERNAL_TABLE"
	}
	rec := domain.NewRecord(
		domain.Field{Name: "database", Value: s.database},
		domain.Field{Name: "table", Value: aws.ToString(table.Name)},
		domain.Field{Name: "type", Value: tableType},
		domain.Field{Name: "created_time", Value: aws.ToTime(table.CreateTime).UTC()},
		domain.Field{Name: "updated_time", Value: aws.ToTime(table.UpdateTime).UTC()},
	)

	sd := table.StorageDescriptor
	if sd != nil {
		rec.Set("location", aws.ToString(sd.Location))
		rec.Set("input_format", shortClassName(aws.ToString(sd.InputFormat)))
		rec.Set("output_format", shortClassName(aws.ToString(sd.OutputFormat)))
		if sd.SerdeInfo != nil {
			rec.Set("serde", shortClassName(aws.ToString(sd.SerdeInfo.SerializationLibrary)))
		}
	}

	if s.verbose {
		var columns []any
		if sd != nil {
			for _, col := range sd.Columns {
				columns = append(columns, map[string]string{
					"name": aws.ToString(col.Name),
					"type": aws.ToString(col.Type),
				})
			}
		}
		rec.Set("column_count", int64(len(columns)))
		rec.Set("columns", columns)

		partitionKeys := make([]any, 0, len(table.PartitionKeys))
		for _, col := range table.PartitionKeys {
			partitionKeys = append(partitionKeys, aws.ToString(col.Name))
		}
		rec.Set("partition_count", int64(len(partitionKeys)))
		rec.Set("partition_keys", partitionKeys)
	}
	return rec
}

// shortClassName trims a fully qualified Java class name to its last segment.
func shortClassName(name string) string {
	if idx := strings.LastIndex(name, "."); idx >= 0 {
		return name[idx+1:]
	}
	return name
}
