package cmd

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/achilleasa/meshquery/types"
	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"
	"github.com/segmentio/encoding/json"
)

// Build statistics for one acceleration structure.
type indexReport struct {
	Index      string        `json:"index"`
	Nodes      int           `json:"nodes"`
	Leafs      int           `json:"leafs"`
	MaxDepth   int           `json:"max_depth"`
	References int           `json:"references"`
	BuildTime  time.Duration `json:"build_time_ns"`
}

// Query statistics for one acceleration method.
type methodReport struct {
	Method string `json:"method"`

	NearestMean time.Duration `json:"nearest_mean_ns"`
	RayMean     time.Duration `json:"ray_mean_ns"`
	RayHits     int           `json:"ray_hits"`

	// Agreement with the brute force results.
	ExactNearest     int     `json:"exact_nearest"`
	MeanNearestError float32 `json:"mean_nearest_error"`
	MaxNearestError  float32 `json:"max_nearest_error"`
	RayMismatches    int     `json:"ray_mismatches"`
}

type benchReport struct {
	Mesh      string         `json:"mesh"`
	Triangles int            `json:"triangles"`
	Queries   int            `json:"queries"`
	Seed      int64          `json:"seed"`
	Indices   []indexReport  `json:"indices"`
	Methods   []methodReport `json:"methods"`
}

// A single node of an octree or BVH dump.
type nodeRecord struct {
	Depth     int        `json:"depth"`
	Leaf      bool       `json:"leaf"`
	Triangles int        `json:"triangles"`
	Min       types.Vec3 `json:"min"`
	Max       types.Vec3 `json:"max"`
}

func writeJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encode report")
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

func renderBenchTables(report benchReport) string {
	var buf bytes.Buffer

	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Index", "Nodes", "Leafs", "Max depth", "References", "Build time"})
	for _, idx := range report.Indices {
		table.Append([]string{
			idx.Index,
			fmt.Sprintf("%d", idx.Nodes),
			fmt.Sprintf("%d", idx.Leafs),
			fmt.Sprintf("%d", idx.MaxDepth),
			fmt.Sprintf("%d", idx.References),
			idx.BuildTime.String(),
		})
	}
	table.Render()
	buf.WriteByte('\n')

	table = tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Method", "Nearest (mean)", "Exact", "Mean error", "Max error", "Ray (mean)", "Hits", "Mismatches"})
	for _, m := range report.Methods {
		table.Append([]string{
			m.Method,
			m.NearestMean.String(),
			fmt.Sprintf("%d/%d", m.ExactNearest, report.Queries),
			fmt.Sprintf("%.6f", m.MeanNearestError),
			fmt.Sprintf("%.6f", m.MaxNearestError),
			m.RayMean.String(),
			fmt.Sprintf("%d", m.RayHits),
			fmt.Sprintf("%d", m.RayMismatches),
		})
	}
	table.SetFooter([]string{"", "", "", "", "", "", "QUERIES", fmt.Sprintf("%d", report.Queries)})
	table.Render()

	return buf.String()
}

func renderNodeTable(index string, nodes []nodeRecord) string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeader([]string{"Depth", "Leaf", "Triangles", "Min", "Max"})
	for _, node := range nodes {
		table.Append([]string{
			fmt.Sprintf("%d", node.Depth),
			fmt.Sprintf("%t", node.Leaf),
			fmt.Sprintf("%d", node.Triangles),
			fmt.Sprintf("%v", node.Min),
			fmt.Sprintf("%v", node.Max),
		})
	}
	table.SetFooter([]string{"", "", "", index, fmt.Sprintf("%d nodes", len(nodes))})
	table.Render()
	return buf.String()
}
