package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ppiankov/aletheia/internal/model"
)

// ReportFetcher fetches one normalized report
type ReportFetcher interface {
	Fetch(ctx context.Context, mode model.UserMode, query string) (*model.AnalysisRecord, error)
}

// ReportJob generates the report for one query
type ReportJob struct {
	Query   string
	Mode    model.UserMode
	Target  string // Rate-limit key, normally the service base URL
	Fetcher ReportFetcher
	Limiter *Limiter
}

// Execute waits for the limiter and fetches the report
func (j *ReportJob) Execute(ctx context.Context) Result {
	start := time.Now()
	res := &ReportResult{Query: j.Query, Mode: j.Mode}

	if err := ctx.Err(); err != nil {
		res.Error = err
		return res
	}

	if j.Limiter != nil {
		if err := j.Limiter.Wait(ctx, j.Target); err != nil {
			res.Error = fmt.Errorf("rate limit: %w", err)
			return res
		}
	}

	res.Record, res.Error = j.Fetcher.Fetch(ctx, j.Mode, j.Query)
	res.Elapsed = time.Since(start)
	return res
}

// ReportResult is the outcome of a ReportJob
type ReportResult struct {
	Query   string
	Mode    model.UserMode
	Record  *model.AnalysisRecord
	Error   error
	Elapsed time.Duration
}

// GetError returns the job error
func (r *ReportResult) GetError() error {
	return r.Error
}

// BatchProcessor generates reports for many queries concurrently
type BatchProcessor struct {
	fetcher ReportFetcher
	target  string
	pool    *Pool
	limiter *Limiter
}

// NewBatchProcessor creates a processor. Requests to target are limited to
// requestsPerSecond with the given burst; a non-positive rate disables limiting.
func NewBatchProcessor(fetcher ReportFetcher, target string, workers int, requestsPerSecond float64, burst int) *BatchProcessor {
	return &BatchProcessor{
		fetcher: fetcher,
		target:  target,
		pool:    NewPool(workers),
		limiter: NewLimiter(requestsPerSecond, burst),
	}
}

// Workers returns the effective number of concurrent workers
func (b *BatchProcessor) Workers() int {
	return b.pool.Workers()
}

// ProcessQueries runs one report job per query and returns results in query order.
// progress may be nil.
func (b *BatchProcessor) ProcessQueries(ctx context.Context, mode model.UserMode, queries []string, progress func(done, total int, r *ReportResult)) []*ReportResult {
	jobs := make([]Job, len(queries))
	for i, q := range queries {
		jobs[i] = &ReportJob{
			Query:   q,
			Mode:    mode,
			Target:  b.target,
			Fetcher: b.fetcher,
			Limiter: b.limiter,
		}
	}

	var onResult ProgressFunc
	if progress != nil {
		onResult = func(done, total int, r Result) {
			progress(done, total, r.(*ReportResult))
		}
	}

	results := b.pool.Run(ctx, jobs, onResult)

	out := make([]*ReportResult, len(results))
	for i, r := range results {
		out[i] = r.(*ReportResult)
	}
	return out
}

// ProcessFile reads queries from a file and processes them
func (b *BatchProcessor) ProcessFile(ctx context.Context, mode model.UserMode, filePath string, progress func(done, total int, r *ReportResult)) ([]*ReportResult, error) {
	queries, err := ReadQueriesFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read queries: %w", err)
	}

	return b.ProcessQueries(ctx, mode, queries, progress), nil
}

// ReadQueriesFromFile reads one query per line. Blank lines and lines starting
// with # are skipped; repeated queries are kept once.
func ReadQueriesFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var queries []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.Join(strings.Fields(scanner.Text()), " ")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if !seen[line] {
			seen[line] = true
			queries = append(queries, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return queries, nil
}
