// Package cobol recovers a lightweight static model of a COBOL
// compilation unit: paragraph boundaries, the perform/call graph, file
// I/O, copybook dependencies, and division presence. It prefers an
// authoritative external parse when one is available and degrades to
// textual heuristics when it is not.
package cobol

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"cobscan/internal/artifact"
	"cobscan/internal/engine"
	"cobscan/internal/logging"
	"cobscan/internal/source"
)

// Analyzer runs the extraction pipeline for one document at a time.
type Analyzer struct {
	eng     engine.Engine // nil means heuristic-only
	workers int
	logger  *logging.Logger
}

// New creates an Analyzer. eng may be nil when no external engine is
// configured or reachable.
func New(eng engine.Engine, workers int, logger *logging.Logger) *Analyzer {
	if workers <= 0 {
		workers = 1
	}
	return &Analyzer{eng: eng, workers: workers, logger: logger}
}

// Analyze produces the structural model for doc. An engine parse
// rejection is terminal and surfaces as the run's error; everything
// downstream of a successful (or absent) parse tolerates partial input
// and never fails.
func (a *Analyzer) Analyze(ctx context.Context, doc *source.Document) (*artifact.Result, error) {
	runID := uuid.New().String()
	a.logger.Debug("analysis started", map[string]interface{}{
		"runId":  runID,
		"file":   doc.Path,
		"format": string(doc.Format),
		"bytes":  doc.Len(),
	})

	engineID := engine.HeuristicID
	names := HeuristicNames()
	var divisions artifact.Divisions
	var programID string

	if a.eng != nil {
		st, err := a.eng.Parse(ctx, doc.Path, doc.Format)
		if err != nil {
			return nil, err
		}
		engineID = a.eng.ID()
		names = AuthoritativeNames(st.ParagraphNames)
		divisions = DivisionsFromEngine(st.Divisions)
		programID = st.ProgramID
	} else {
		divisions = DetectDivisions(doc)
		programID = DetectProgramID(doc)
	}

	index := BuildIndex(doc, names)
	copybooks := ScanCopybooks(doc)
	paragraphs := a.extractAll(doc, index)

	result := &artifact.Result{
		Status:       artifact.StatusOK,
		Engine:       engineID,
		ProgramID:    programID,
		SourceFormat: string(doc.Format),
		File:         doc.Path,
		Divisions:    divisions,
		Paragraphs:   paragraphs,
		Copybooks:    copybooks,
	}
	result.Notes = append(result.Notes, "sourceFormat="+string(doc.Format))
	result.Notes = append(result.Notes, "engine="+engineID)
	result.Notes = append(result.Notes, fmt.Sprintf("paragraphs.count=%d", len(paragraphs)))
	result.Notes = append(result.Notes, fmt.Sprintf("copybooks.count=%d", len(copybooks)))
	result.Notes = append(result.Notes, index.Diagnostics...)

	a.logger.Info("analysis complete", map[string]interface{}{
		"runId":      runID,
		"file":       doc.Path,
		"engine":     engineID,
		"paragraphs": len(paragraphs),
		"copybooks":  len(copybooks),
	})
	return result, nil
}

// extractAll runs per-paragraph fact extraction across a bounded worker
// pool. Paragraph bodies share no state, so scheduling order is free;
// results land in an index-addressed slice to keep document order in the
// artifact.
func (a *Analyzer) extractAll(doc *source.Document, index *Index) []artifact.Paragraph {
	spans := index.Spans
	out := make([]artifact.Paragraph, len(spans))
	if len(spans) == 0 {
		return out
	}

	workers := a.workers
	if workers > len(spans) {
		workers = len(spans)
	}

	var wg sync.WaitGroup
	work := make(chan int)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range work {
				span := spans[i]
				facts := ExtractFacts(doc.Slice(span.Start, span.End))
				out[i] = artifact.Paragraph{
					Name:     span.Name,
					Performs: facts.Performs,
					Calls:    facts.Calls,
					IoOps:    facts.IoOps,
				}
			}
		}()
	}
	for i := range spans {
		work <- i
	}
	close(work)
	wg.Wait()
	return out
}
