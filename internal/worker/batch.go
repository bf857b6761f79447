package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/prospectorhq/prospector/internal/model"
)

// Researcher runs a full capture+profile cycle for one prospect
type Researcher interface {
	Research(ctx context.Context, name, website string) (*model.ProfileResult, error)
}

// Prospect is one line of a batch input file
type Prospect struct {
	Name    string
	Website string
}

// ProspectJob wraps one prospect for pool execution
type ProspectJob struct {
	Prospect   Prospect
	Researcher Researcher
}

// Execute runs the research job
func (j *ProspectJob) Execute(ctx context.Context) Result {
	profile, err := j.Researcher.Research(ctx, j.Prospect.Name, j.Prospect.Website)
	return &ProspectResult{
		Prospect: j.Prospect,
		Profile:  profile,
		Error:    err,
	}
}

// ProspectResult is the outcome of one batch research job
type ProspectResult struct {
	Prospect Prospect
	Profile  *model.ProfileResult
	Error    error
}

// GetError returns the job error, if any
func (r *ProspectResult) GetError() error {
	return r.Error
}

// BatchProcessor researches multiple prospects concurrently
type BatchProcessor struct {
	researcher  Researcher
	concurrency int
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(researcher Researcher, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		researcher:  researcher,
		concurrency: concurrency,
	}
}

// ProcessProspects researches the given prospects through the pool
func (b *BatchProcessor) ProcessProspects(ctx context.Context, prospects []Prospect) []*ProspectResult {
	if len(prospects) == 0 {
		return []*ProspectResult{}
	}

	pool := NewPool(b.concurrency)
	pool.Start()

	for _, prospect := range prospects {
		pool.Submit(&ProspectJob{
			Prospect:   prospect,
			Researcher: b.researcher,
		})
	}

	results := pool.Wait()

	prospectResults := make([]*ProspectResult, len(results))
	for i, result := range results {
		prospectResults[i] = result.(*ProspectResult)
	}

	return prospectResults
}

// ProcessFile reads prospects from a file and researches them concurrently
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath string) ([]*ProspectResult, error) {
	prospects, err := ReadProspectsFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read prospects: %w", err)
	}

	return b.ProcessProspects(ctx, prospects), nil
}

// ReadProspectsFromFile reads one "Name,website" pair per line. Blank
// lines and # comments are skipped; duplicate websites are dropped.
func ReadProspectsFromFile(filePath string) ([]Prospect, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var prospects []Prospect
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		name, website, found := strings.Cut(line, ",")
		if !found {
			return nil, fmt.Errorf("line %d: expected \"Name,website\", got %q", lineNo, line)
		}

		name = strings.TrimSpace(name)
		website = strings.TrimSpace(website)
		if name == "" || website == "" {
			return nil, fmt.Errorf("line %d: empty name or website in %q", lineNo, line)
		}

		key := strings.ToLower(website)
		if !seen[key] {
			seen[key] = true
			prospects = append(prospects, Prospect{Name: name, Website: website})
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return prospects, nil
}
