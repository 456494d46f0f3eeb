package server

import (
	"context"
	"sort"

	"github.com/kylerisse/staleboard/pkg/node"
	"github.com/kylerisse/staleboard/pkg/staleness"
)

// Summary counts nodes per status class.
type Summary struct {
	Total    int `json:"total"`
	Normal   int `json:"normal"`
	Warning  int `json:"warning"`
	Critical int `json:"critical"`
}

// collect scans the status source and evaluates every node against the
// current time. The result is sorted by name.
func (s *Server) collect(ctx context.Context) ([]node.Record, error) {
	statuses, err := s.source.Scan(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	records := make([]node.Record, 0, len(statuses))
	for _, st := range statuses {
		records = append(records, node.NewRecord(st, now, s.thresholds, s.location))
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].Name < records[j].Name
	})
	return records, nil
}

func summarize(records []node.Record) Summary {
	sum := Summary{Total: len(records)}
	for _, rec := range records {
		switch rec.StatusClass {
		case staleness.ClassNormal:
			sum.Normal++
		case staleness.ClassWarning:
			sum.Warning++
		case staleness.ClassCritical:
			sum.Critical++
		}
	}
	return sum
}
