package dataprocessing

import (
	"packtrack/pkg/contracts/domain"
)

// Input is one engine invocation: the two source tables and the column
// mapping chosen for them
type Input struct {
	Scans    domain.Table
	Contents domain.Table
	Mapping  Mapping
}

// Result holds the engine output. Records and Table.Rows are parallel.
type Result struct {
	Records   []domain.JoinedRecord
	Summaries []domain.ShipmentSummary
	Table     domain.Table
}

// Shipments returns the number of distinct shipments in the result
func (r *Result) Shipments() int {
	return len(r.Summaries)
}

// Engine runs the packing pipeline. It holds no mutable state and is safe
// for concurrent use.
type Engine struct {
	classifier *Classifier
}

// NewEngine creates an engine around the given classifier. A nil classifier
// uses the default rules.
func NewEngine(classifier *Classifier) *Engine {
	if classifier == nil {
		classifier = NewClassifier(DefaultRules())
	}
	return &Engine{classifier: classifier}
}

// Classifier returns the classifier the engine was built with
func (e *Engine) Classifier() *Classifier {
	return e.classifier
}

// Run validates the mapping and then computes durations, joins scans to
// contents, aggregates per shipment, classifies and projects the result.
// A *SchemaError is returned before any computation when the mapping does
// not fit the tables. An empty join is not an error.
func (e *Engine) Run(in Input) (*Result, error) {
	if err := in.Mapping.Validate(in.Scans, in.Contents); err != nil {
		return nil, err
	}

	sc, cc := in.Mapping.Scan, in.Mapping.Contents
	scans := ComputeDurations(ExtractScans(in.Scans, sc))
	items := ExtractItems(in.Contents, cc)

	joined := Join(scans, items)
	summaries := e.classifier.ClassifyAll(Aggregate(joined, e.classifier.Rules().HandlingBonuses))

	scanExtra := extraNames(in.Scans, extraColumns(in.Scans, sc.ScanDate, sc.ScanTime, sc.Operator, sc.ShipmentID))
	contentsExtra := extraNames(in.Contents, extraColumns(in.Contents, cc.ShipmentID, cc.ItemCode, cc.Quantity))
	records, table := Project(joined, summaries, scanExtra, contentsExtra)

	return &Result{
		Records:   records,
		Summaries: summaries,
		Table:     table,
	}, nil
}
