package io

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/ecopia-map/kdweld/internal/index"
	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"
)

// Content of clusters.json
type ClusterReport struct {
	RunID       string            `json:"run_id"`
	CreatedAt   time.Time         `json:"created_at"`
	EpsSame     float64           `json:"eps_same"`
	EpsCluster  float64           `json:"eps_cluster"`
	NumVertices int               `json:"num_input_vertices"`
	NumNodes    int               `json:"num_nodes"`
	NumClusters int               `json:"num_clusters"`
	Bounds      []float64         `json:"bounds,omitempty"`
	PlyOrigin   []float64         `json:"ply_origin,omitempty"` // welded.ply coordinates are relative to it
	Clusters    []*ClusterSummary `json:"clusters"`
}

// Builds the report of a run, sorting the summaries by id. NumClusters counts the rings with more
// than one member.
func NewClusterReport(idx index.ISpatialIndex, numVertices int, summaries []*ClusterSummary) *ClusterReport {
	sort.Slice(summaries, func(i, j int) bool { return summaries[i].ID < summaries[j].ID })

	numClusters := 0
	for _, summary := range summaries {
		if summary.Count > 1 {
			numClusters++
		}
	}

	report := &ClusterReport{
		RunID:       uuid.New().String(),
		CreatedAt:   time.Now().UTC(),
		EpsSame:     idx.EpsSame(),
		EpsCluster:  idx.EpsCluster(),
		NumVertices: numVertices,
		NumNodes:    idx.Len(),
		NumClusters: numClusters,
		Clusters:    summaries,
	}
	if bounds := idx.Bounds(); !bounds.IsEmpty() {
		report.Bounds = bounds.GetAsArray()
	}
	return report
}

// Writes the report as indented JSON, zstd compressed when the path ends in .zst
func WriteReport(filePath string, report *ClusterReport) error {
	content, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}

	file, err := os.Create(filePath)
	if err != nil {
		return err
	}

	if err := writeContent(file, filePath, content); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

func writeContent(file *os.File, filePath string, content []byte) error {
	if !strings.HasSuffix(filePath, ".zst") {
		_, err := file.Write(content)
		return err
	}

	encoder, err := zstd.NewWriter(file, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	if err != nil {
		return err
	}
	if _, err := encoder.Write(content); err != nil {
		encoder.Close()
		return err
	}
	return encoder.Close()
}

// Reads back a report written by WriteReport
func ReadReport(filePath string) (*ClusterReport, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	if strings.HasSuffix(filePath, ".zst") {
		decoder, err := zstd.NewReader(nil)
		if err != nil {
			return nil, err
		}
		defer decoder.Close()

		content, err = decoder.DecodeAll(content, nil)
		if err != nil {
			return nil, fmt.Errorf("decompressing %s: %w", filePath, err)
		}
	}

	var report ClusterReport
	if err := json.Unmarshal(content, &report); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filePath, err)
	}
	return &report, nil
}
