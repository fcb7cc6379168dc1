package io

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/ecopia-map/kdweld/internal/data"
	"github.com/ecopia-map/kdweld/internal/geometry"
	"github.com/ecopia-map/kdweld/internal/index/kd_range"
	"github.com/ecopia-map/kdweld/internal/welder"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// two clusters of three and two points plus an isolated vertex
func sampleRange() *kd_range.KdRange {
	r := kd_range.New(0.001, 0.01)
	for _, p := range []geometry.Point{
		geometry.NewPoint(0, 0, 0),
		geometry.NewPoint(0.005, 0, 0),
		geometry.NewPoint(0, 0.005, 0),
		geometry.NewPoint(10, 10, 10),
		geometry.NewPoint(10.004, 10, 10),
		geometry.NewPoint(-5, 3, 1),
	} {
		r.Append(p)
	}
	return r
}

func runPipeline(t *testing.T, opts *welder.WelderOptions, r *kd_range.KdRange) []*ClusterSummary {
	t.Helper()

	workChannel := make(chan *WorkUnit, 4)
	results := make(chan *ClusterSummary)
	errorChannel := make(chan error, 2)

	var collected []*ClusterSummary
	done := make(chan struct{})
	go func() {
		for summary := range results {
			collected = append(collected, summary)
		}
		close(done)
	}()

	var waitGroup sync.WaitGroup
	waitGroup.Add(1)
	go NewStandardProducer(opts).Produce(workChannel, &waitGroup, r)
	for i := 0; i < 2; i++ {
		waitGroup.Add(1)
		go NewStandardConsumer().Consume(workChannel, results, errorChannel, &waitGroup)
	}
	waitGroup.Wait()
	close(results)
	close(errorChannel)
	<-done

	for err := range errorChannel {
		require.NoError(t, err)
	}
	return collected
}

func TestPipeline_SummarizesEveryRing(t *testing.T) {
	opts := &welder.WelderOptions{WelderClusterOptions: &welder.WelderClusterOptions{}}
	summaries := runPipeline(t, opts, sampleRange())
	require.Len(t, summaries, 3)

	report := NewClusterReport(sampleRange(), 6, summaries)
	assert.Equal(t, 2, report.NumClusters)
	assert.Equal(t, 6, report.NumNodes)

	first := report.Clusters[0]
	assert.Equal(t, 0, first.ID)
	assert.Equal(t, []int{0, 1, 2}, first.Members)
	assert.Equal(t, 3, first.Count)
	assert.Equal(t, 6, first.Weight)

	second := report.Clusters[1]
	assert.Equal(t, []int{3, 4}, second.Members)
	assert.InDelta(t, 10.002, second.Center[0], 1e-9)

	isolated := report.Clusters[2]
	assert.Equal(t, []int{5}, isolated.Members)
	assert.Equal(t, 0, isolated.Weight)
	assert.Equal(t, []float64{-5, 3, 1}, isolated.Center)
}

func TestPipeline_ClusteredOnly(t *testing.T) {
	opts := &welder.WelderOptions{WelderClusterOptions: &welder.WelderClusterOptions{ClusteredOnly: true}}
	summaries := runPipeline(t, opts, sampleRange())
	assert.Len(t, summaries, 2)
}

func TestPipeline_EmptyIndex(t *testing.T) {
	summaries := runPipeline(t, &welder.WelderOptions{}, kd_range.NewDefault())
	assert.Empty(t, summaries)

	report := NewClusterReport(kd_range.NewDefault(), 0, summaries)
	assert.Nil(t, report.Bounds)
	assert.Equal(t, 0, report.NumClusters)
}

func TestWriteReport_PlainAndCompressed(t *testing.T) {
	r := sampleRange()
	summaries := runPipeline(t, &welder.WelderOptions{}, r)
	report := NewClusterReport(r, 6, summaries)
	dir := t.TempDir()

	for _, name := range []string{"clusters.json", "clusters.json.zst"} {
		path := filepath.Join(dir, name)
		require.NoError(t, WriteReport(path, report))

		read, err := ReadReport(path)
		require.NoError(t, err)
		assert.Equal(t, report.RunID, read.RunID)
		assert.Equal(t, report.Clusters, read.Clusters)
		assert.Equal(t, 0.01, read.EpsCluster)
	}

	raw, err := os.ReadFile(filepath.Join(dir, "clusters.json.zst"))
	require.NoError(t, err)
	assert.Equal(t, []byte{0x28, 0xb5, 0x2f, 0xfd}, raw[:4])
}

func TestWriteWeldMap(t *testing.T) {
	points := []*data.Point{
		data.NewPoint(geometry.NewPoint(0, 0, 0), "wall", &data.PointExtend{FileIndex: 0, LineNumber: 1}),
		data.NewPoint(geometry.NewPoint(0, 0, 0), "slab", &data.PointExtend{FileIndex: 1, LineNumber: 7}),
	}
	path := filepath.Join(t.TempDir(), "weld.csv")
	require.NoError(t, WriteWeldMap(path, points, []int{0, 0}))

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()
	records, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)

	assert.Equal(t, [][]string{
		{"vertex", "file", "line", "tag", "node"},
		{"0", "0", "1", "wall", "0"},
		{"1", "1", "7", "slab", "0"},
	}, records)

	assert.Error(t, WriteWeldMap(path, points, []int{0}))
}

func TestWriteReport_KeepsPlyOrigin(t *testing.T) {
	r := sampleRange()
	report := NewClusterReport(r, 6, runPipeline(t, &welder.WelderOptions{}, r))
	report.PlyOrigin = []float64{2.5, 6.5, 5.5}

	path := filepath.Join(t.TempDir(), "clusters.json")
	require.NoError(t, WriteReport(path, report))

	read, err := ReadReport(path)
	require.NoError(t, err)
	assert.Equal(t, []float64{2.5, 6.5, 5.5}, read.PlyOrigin)
}

func TestWriters_ReportCreateErrors(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing")
	report := NewClusterReport(kd_range.NewDefault(), 0, nil)

	assert.Error(t, WriteReport(filepath.Join(missing, "clusters.json"), report))
	assert.Error(t, WriteReport(filepath.Join(missing, "clusters.json.zst"), report))
	assert.Error(t, WriteWeldMap(filepath.Join(missing, "weld.csv"), nil, nil))
}
