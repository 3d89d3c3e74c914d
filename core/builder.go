package core

import (
	"github.com/iipmodel/readiness/schema"
)

// ReportBuilder assembles the paginated report of a session.
type ReportBuilder struct {
	session *Session
	result  *schema.AssessmentResult
	report  *schema.Report
}

// NewReportBuilder is the starting point for building a report.
func NewReportBuilder(s *Session) *ReportBuilder {
	return &ReportBuilder{
		session: s,
		report: &schema.Report{
			Title:     s.Catalog.Title,
			Subtitle:  s.Catalog.Subtitle,
			Intro:     s.Catalog.Intro,
			SessionID: s.ID,
		},
	}
}

// WithResult reuses an already aggregated result for the summary page.
func (b *ReportBuilder) WithResult(result schema.AssessmentResult) *ReportBuilder {
	b.result = &result
	return b
}

// BuildSummary fills the summary page, aggregating the session if no result was given.
func (b *ReportBuilder) BuildSummary() *ReportBuilder {
	if b.result == nil {
		result := Aggregate(b.session)
		b.result = &result
	}
	b.report.Result = *b.result
	b.report.GeneratedAt = b.result.GeneratedAt
	return b
}

// BuildPages adds one page per catalog dimension, including unanswered ones.
func (b *ReportBuilder) BuildPages() *ReportBuilder {
	b.report.Pages = BuildBreakdown(b.session)
	return b
}

// Build returns the finished report.
func (b *ReportBuilder) Build() schema.Report {
	return *b.report
}

// BuildReport is a shortcut for the full builder chain.
func BuildReport(s *Session, result schema.AssessmentResult) schema.Report {
	return NewReportBuilder(s).
		WithResult(result).
		BuildSummary().
		BuildPages().
		Build()
}
