package ports

import (
	"context"

	"github.com/intego360/intego-ui/internal/domain/sector"
)

// MetricValue is one evaluated headline number. Value is nil when the
// response does not carry it.
type MetricValue struct {
	Label string
	Value any
}

// Overview is the summary of one sector.
type Overview struct {
	Sector  sector.Sector
	Metrics []MetricValue
	Raw     map[string]any
}

// Page is one page of a sector collection.
type Page struct {
	Count   int
	Next    string
	Results []map[string]any
}

// SectorDataAPI reads sector data on behalf of a session. Implementations
// never send a request without an access token and retry at most once after
// asking the session for a new one.
type SectorDataAPI interface {
	Overview(ctx context.Context, session SessionTokens, s sector.Sector) (Overview, error)
	List(ctx context.Context, session SessionTokens, s sector.Sector, resource string, page int) (Page, error)
}
