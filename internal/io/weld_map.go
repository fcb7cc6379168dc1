package io

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/ecopia-map/kdweld/internal/data"
)

// Writes weld.csv: for each input vertex, in input order, the node it was welded to
func WriteWeldMap(filePath string, points []*data.Point, nodeIDs []int) error {
	if len(points) != len(nodeIDs) {
		return fmt.Errorf("weld map: %d vertices but %d node ids", len(points), len(nodeIDs))
	}

	file, err := os.Create(filePath)
	if err != nil {
		return err
	}

	if err := writeWeldRecords(file, points, nodeIDs); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

func writeWeldRecords(file *os.File, points []*data.Point, nodeIDs []int) error {
	writer := csv.NewWriter(file)
	if err := writer.Write([]string{"vertex", "file", "line", "tag", "node"}); err != nil {
		return err
	}

	for i, point := range points {
		fileIndex, lineNumber := "", ""
		if point.PointExtend != nil {
			fileIndex = strconv.Itoa(point.PointExtend.FileIndex)
			lineNumber = strconv.Itoa(point.PointExtend.LineNumber)
		}
		record := []string{strconv.Itoa(i), fileIndex, lineNumber, point.Tag, strconv.Itoa(nodeIDs[i])}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}
