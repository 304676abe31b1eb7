package importer

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/iqrahapp/iqrah-mobile-sub001/internal/database"
	"github.com/iqrahapp/iqrah-mobile-sub001/pkg/models"
)

// Sheet names expected in a content workbook.
const (
	SheetNodes      = "Nodes"
	SheetEdges      = "Edges"
	SheetImportance = "Importance"
)

// Result holds the outcome of an import operation.
type Result struct {
	Nodes      int
	Edges      int
	Importance int
	Skipped    int
	Errors     []string
}

// Importer loads content graph data — nodes, edges and importance
// scores — into the content store. Content is static: imports happen at
// provisioning time, never during a review.
type Importer struct {
	graph *database.GraphRepository
}

// New creates an importer writing through the given graph repository.
func New(graph *database.GraphRepository) *Importer {
	return &Importer{graph: graph}
}

// ImportContent reads content from the given path. A directory is
// expected to contain nodes.csv, edges.csv and importance.csv; any other
// path is treated as an Excel workbook with Nodes/Edges/Importance sheets.
func (im *Importer) ImportContent(ctx context.Context, path string) (*Result, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat content path: %w", err)
	}
	if info.IsDir() {
		return im.importFromCSVDir(ctx, path)
	}
	return im.importFromExcel(ctx, path)
}

func (im *Importer) importFromExcel(ctx context.Context, path string) (*Result, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	result := &Result{Errors: make([]string, 0)}

	for _, sheet := range []string{SheetNodes, SheetEdges, SheetImportance} {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
		}
		for i, row := range rows {
			// Skip the header row.
			if i == 0 {
				continue
			}
			if err := im.processRow(ctx, sheet, row, result); err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("%s row %d: %v", sheet, i+1, err))
				result.Skipped++
			}
		}
	}
	return result, nil
}

func (im *Importer) importFromCSVDir(ctx context.Context, dir string) (*Result, error) {
	result := &Result{Errors: make([]string, 0)}

	files := []struct {
		name  string
		sheet string
	}{
		{"nodes.csv", SheetNodes},
		{"edges.csv", SheetEdges},
		{"importance.csv", SheetImportance},
	}

	for _, fc := range files {
		file, err := os.Open(filepath.Join(dir, fc.name))
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", fc.name, err)
		}
		reader := csv.NewReader(file)
		reader.FieldsPerRecord = -1

		rowNum := 0
		for {
			row, err := reader.Read()
			if err == io.EOF {
				break
			}
			if err != nil {
				file.Close()
				return nil, fmt.Errorf("error reading %s: %w", fc.name, err)
			}
			rowNum++
			if rowNum == 1 {
				continue // header
			}
			if err := im.processRow(ctx, fc.sheet, row, result); err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("%s row %d: %v", fc.name, rowNum, err))
				result.Skipped++
			}
		}
		file.Close()
	}
	return result, nil
}

func (im *Importer) processRow(ctx context.Context, sheet string, row []string, result *Result) error {
	switch sheet {
	case SheetNodes:
		node, err := parseNodeRow(row)
		if err != nil {
			return err
		}
		if err := im.graph.UpsertNode(ctx, node); err != nil {
			return err
		}
		result.Nodes++
	case SheetEdges:
		edge, err := parseEdgeRow(row)
		if err != nil {
			return err
		}
		if err := im.graph.InsertEdge(ctx, edge); err != nil {
			return err
		}
		result.Edges++
	case SheetImportance:
		score, err := parseImportanceRow(row)
		if err != nil {
			return err
		}
		if err := im.graph.UpsertImportance(ctx, score); err != nil {
			return err
		}
		result.Importance++
	}
	return nil
}

// parseNodeRow expects: id, kind.
func parseNodeRow(row []string) (models.Node, error) {
	if len(row) < 2 {
		return models.Node{}, fmt.Errorf("expected 2 columns, got %d", len(row))
	}
	id := strings.TrimSpace(row[0])
	if id == "" {
		return models.Node{}, fmt.Errorf("empty node id")
	}
	kind := models.NodeKind(strings.TrimSpace(row[1]))
	switch kind {
	case models.NodeWordInstance, models.NodeVerse, models.NodeChapter, models.NodeLemma, models.NodeRoot:
	default:
		return models.Node{}, fmt.Errorf("unknown node kind %q", kind)
	}
	return models.Node{ID: id, Kind: kind}, nil
}

// parseEdgeRow expects: source_id, target_id, kind, dist, param1[, param2].
func parseEdgeRow(row []string) (models.Edge, error) {
	if len(row) < 5 {
		return models.Edge{}, fmt.Errorf("expected at least 5 columns, got %d", len(row))
	}
	edge := models.Edge{
		SourceID: strings.TrimSpace(row[0]),
		TargetID: strings.TrimSpace(row[1]),
		Kind:     models.EdgeKind(strings.TrimSpace(row[2])),
		Dist:     models.DistKind(strings.TrimSpace(row[3])),
	}
	if edge.SourceID == "" || edge.TargetID == "" {
		return models.Edge{}, fmt.Errorf("empty edge endpoint")
	}
	switch edge.Kind {
	case models.EdgeDependency, models.EdgeKnowledge:
	default:
		return models.Edge{}, fmt.Errorf("unknown edge kind %q", edge.Kind)
	}
	switch edge.Dist {
	case models.DistConstant, models.DistNormal, models.DistBeta:
	default:
		return models.Edge{}, fmt.Errorf("unknown distribution %q", edge.Dist)
	}

	var err error
	edge.Param1, err = strconv.ParseFloat(strings.TrimSpace(row[4]), 64)
	if err != nil {
		return models.Edge{}, fmt.Errorf("bad param1: %v", err)
	}
	if len(row) > 5 && strings.TrimSpace(row[5]) != "" {
		edge.Param2, err = strconv.ParseFloat(strings.TrimSpace(row[5]), 64)
		if err != nil {
			return models.Edge{}, fmt.Errorf("bad param2: %v", err)
		}
	}
	return edge, nil
}

// parseImportanceRow expects: node_id, influence, foundational.
func parseImportanceRow(row []string) (models.ImportanceScore, error) {
	if len(row) < 3 {
		return models.ImportanceScore{}, fmt.Errorf("expected 3 columns, got %d", len(row))
	}
	score := models.ImportanceScore{NodeID: strings.TrimSpace(row[0])}
	if score.NodeID == "" {
		return models.ImportanceScore{}, fmt.Errorf("empty node id")
	}
	var err error
	score.Influence, err = strconv.ParseFloat(strings.TrimSpace(row[1]), 64)
	if err != nil {
		return models.ImportanceScore{}, fmt.Errorf("bad influence: %v", err)
	}
	score.Foundational, err = strconv.ParseFloat(strings.TrimSpace(row[2]), 64)
	if err != nil {
		return models.ImportanceScore{}, fmt.Errorf("bad foundational: %v", err)
	}
	return score, nil
}
