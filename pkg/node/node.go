// Package node reads per-node status files from a directory and turns
// them into display records.
//
// Each eligible file in the status directory represents one node: the
// file's base name with the configured suffix stripped is the node name,
// its content is shown verbatim, and its modification time is the last
// time the node reported.
package node

import (
	"time"

	"github.com/kylerisse/staleboard/pkg/staleness"
)

// TimestampLayout is the layout used for Record.LastUpdated.
const TimestampLayout = "2006-01-02 15:04:05 -0700"

// Status is the raw result of reading one status file.
type Status struct {
	Name    string
	Content string
	ModTime time.Time
}

// Record is a Status with its staleness evaluated at a point in time.
type Record struct {
	Name        string          `json:"name"`
	Content     string          `json:"content"`
	LastUpdated string          `json:"last_updated"`
	Age         string          `json:"age"`
	AgeSeconds  int64           `json:"age_seconds"`
	StatusClass staleness.Class `json:"status_class"`
}

// NewRecord evaluates st against now. LastUpdated is rendered in loc;
// a nil loc means time.Local.
func NewRecord(st Status, now time.Time, th staleness.Thresholds, loc *time.Location) Record {
	if loc == nil {
		loc = time.Local
	}
	elapsed := staleness.Elapsed(st.ModTime, now)
	return Record{
		Name:        st.Name,
		Content:     st.Content,
		LastUpdated: st.ModTime.In(loc).Format(TimestampLayout),
		Age:         staleness.FormatAge(elapsed),
		AgeSeconds:  staleness.Seconds(elapsed),
		StatusClass: th.Classify(elapsed),
	}
}
