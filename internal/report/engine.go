package report

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/ethankinchan/Z-jiraBugStatistics/internal/config"
	"github.com/ethankinchan/Z-jiraBugStatistics/internal/jira"
	"github.com/ethankinchan/Z-jiraBugStatistics/internal/stats"
)

// Result summarizes one report run. OutputDir and the file paths stay
// empty when the filter matched no issues.
type Result struct {
	FilterID     string
	Target       string
	JQL          string
	OutputDir    string
	WorkbookPath string
	ChartPath    string

	Table *stats.Table

	Fetched    int
	Classified int
	Skipped    int
	Coerced    int

	StartTime time.Time
	EndTime   time.Time
}

type Engine struct {
	jiraClient *jira.Client
	config     *config.Config
	style      *Style
	logger     *slog.Logger
	location   *time.Location
}

func NewEngine(jiraClient *jira.Client, cfg *config.Config, style *Style, logger *slog.Logger) *Engine {
	loc, err := time.LoadLocation(cfg.Report.Timezone)
	if err != nil {
		logger.Warn("Error loading report timezone. Assuming server local", "error", err)
		loc = time.Local
	}

	if style == nil {
		style = DefaultStyle()
	}

	return &Engine{
		jiraClient: jiraClient,
		config:     cfg,
		style:      style,
		logger:     logger,
		location:   loc,
	}
}

// Run resolves the filter, fetches its issues and writes the workbook
// and chart into a fresh timestamped output directory.
func (e *Engine) Run(ctx context.Context, filterID string) (*Result, error) {
	e.logger.Info("Starting bug statistics run...", "filter", filterID)

	result := &Result{
		FilterID:  filterID,
		StartTime: time.Now(),
	}

	jql, err := e.jiraClient.FilterJQL(ctx, filterID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve filter: %w", err)
	}
	result.JQL = jql
	result.Target = jira.TargetFromJQL(jql)

	issues, err := e.jiraClient.SearchIssues(ctx, jql)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve issues: %w", err)
	}
	result.Fetched = len(issues)

	if len(issues) == 0 {
		e.logger.Info("No issues found")
		result.EndTime = time.Now()
		return result, nil
	}

	e.logger.Info("Processing issues...", "count", len(issues), "target", result.Target)

	outputDir, err := e.createOutputDirectory(result.Target)
	if err != nil {
		return nil, err
	}
	result.OutputDir = outputDir

	table := stats.Aggregate(issues, e.logger)
	result.Table = table
	result.Classified = table.GrandTotal()
	result.Skipped = table.SkippedStatuses
	result.Coerced = table.CoercedUrgencies

	bundle := BuildBundle(issues, e.location)

	workbookPath := filepath.Join(outputDir, e.config.Report.WorkbookName)
	if err := WriteWorkbook(workbookPath, table, bundle, e.style); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	result.WorkbookPath = workbookPath
	e.logger.Info("Excel report saved", "path", workbookPath)

	chartPath := filepath.Join(outputDir, e.config.Report.ChartName)
	written, err := RenderStatusPie(chartPath, table, e.style)
	if err != nil {
		return nil, fmt.Errorf("failed to render chart: %w", err)
	}
	if written {
		result.ChartPath = chartPath
		e.logger.Info("Pie chart saved", "path", chartPath)
	} else {
		e.logger.Info("No data available for visualization")
	}

	result.EndTime = time.Now()
	e.logger.Info("Run completed",
		"fetched", result.Fetched,
		"classified", result.Classified,
		"skipped", result.Skipped)

	return result, nil
}

// createOutputDirectory makes <base>/Report/<target>_<timestamp> with
// the timestamp taken in the report timezone.
func (e *Engine) createOutputDirectory(target string) (string, error) {
	timestamp := time.Now().In(e.location).Format("20060102_150405")
	dir := filepath.Join(e.config.Report.BaseDir, "Report", fmt.Sprintf("%s_%s", target, timestamp))

	if err := os.MkdirAll(dir, 0750); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	return dir, nil
}
