package pipeline

import (
	"github.com/matzehuels/uniquepaths/pkg/estimate"
	"github.com/matzehuels/uniquepaths/pkg/paths"
)

// Summary is the serializable view of a Result returned by the API and
// written by the CLI's JSON output.
type Summary struct {
	ReportID   string             `json:"report_id,omitempty"`
	GraphHash  string             `json:"graph_hash"`
	Nodes      int                `json:"nodes"`
	Edges      int                `json:"edges"`
	Estimate   estimate.Result    `json:"estimate"`
	Exact      *estimate.Result   `json:"exact,omitempty"`
	Breakdown  paths.Breakdown    `json:"breakdown"`
	Components []ComponentSummary `json:"components,omitempty"`
	Cached     CacheInfo          `json:"cache"`
}

// ComponentSummary describes one cyclic component.
type ComponentSummary struct {
	ID             int     `json:"id"`
	Representative int     `json:"representative"`
	Size           int     `json:"size"`
	In             []int   `json:"in"`
	Out            []int   `json:"out"`
	PathCount      int64   `json:"path_count"`
	AvgLength      float64 `json:"avg_length"`
	Saturated      bool    `json:"saturated,omitempty"`
	Computed       bool    `json:"computed"`
}

// Summary builds the serializable view of r. Only cyclic components are
// listed; singletons all share the pass-through statistic.
func (r *Result) Summary() Summary {
	s := Summary{
		ReportID:  r.ReportID,
		GraphHash: r.GraphHash,
		Nodes:     r.Stats.NodeCount,
		Edges:     r.Stats.EdgeCount,
		Estimate:  r.Estimate,
		Exact:     r.Exact,
		Breakdown: r.Breakdown,
		Cached:    r.CacheInfo,
	}
	if r.Condensation == nil {
		return s
	}
	for _, sn := range r.Condensation.SuperNodes() {
		c := sn.Component
		if c.IsTrivial() {
			continue
		}
		s.Components = append(s.Components, ComponentSummary{
			ID:             c.ID,
			Representative: sn.Representative,
			Size:           c.Size(),
			In:             c.InNodes(),
			Out:            c.OutNodes(),
			PathCount:      c.TotalPathCount(),
			AvgLength:      c.TotalAvgLength(),
			Saturated:      c.Stats().Saturated,
			Computed:       c.Computed(),
		})
	}
	return s
}
