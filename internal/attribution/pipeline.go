// Package attribution wires the record parser, symbol classifier,
// dependency resolver, and attribution tree into the end-to-end
// conversion pipeline.
package attribution

import (
	"context"
	"io"

	"github.com/bloatmap/internal/attrtree"
	"github.com/bloatmap/internal/deps"
	"github.com/bloatmap/internal/metafile"
	"github.com/bloatmap/internal/parser/bloaty"
	"github.com/bloatmap/internal/symbol"
	apperrors "github.com/bloatmap/pkg/errors"
	"github.com/bloatmap/pkg/model"
	"github.com/bloatmap/pkg/parallel"
	"github.com/bloatmap/pkg/utils"
)

// Options is the resolved configuration for one conversion. The caller
// (CLI layer) resolves defaults; the pipeline holds no implicit ones.
type Options struct {
	// OutputName keys the single output entry of the report.
	OutputName string

	// LockPath locates the dependency lock document. Load failures degrade
	// to empty dependency information.
	LockPath string

	// MaxDepth bounds the emission depth; 0 means unbounded.
	MaxDepth int

	// NoSections excludes unclassified branches from the report entirely.
	NoSections bool

	// MaxWorkers bounds classification parallelism; 0 picks a default.
	MaxWorkers int
}

// Result carries the converted report and conversion statistics.
type Result struct {
	Metafile     *metafile.Metafile
	Tree         *attrtree.Tree
	Records      int
	Classified   int
	Unclassified int
	Skipped      int
}

// Pipeline converts a size-record stream into a metafile report.
type Pipeline struct {
	opts   Options
	logger utils.Logger
}

// New creates a pipeline with the given resolved options.
func New(opts Options, logger utils.Logger) *Pipeline {
	if logger == nil {
		logger = utils.NopLogger{}
	}
	return &Pipeline{opts: opts, logger: logger}
}

// classifiedRecord pairs a record with its classification outcome.
type classifiedRecord struct {
	record     *model.SizeRecord
	symbolName string
	class      symbol.Classification
	classified bool
}

// Run converts the size report read from r. source identifies the input
// ("standard input" or a file path) in parse errors.
func (p *Pipeline) Run(ctx context.Context, r io.Reader, source string) (*Result, error) {
	records, err := bloaty.NewParser(nil).Parse(ctx, r)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeParseError,
			"failed to parse size report from "+source, err)
	}
	p.logger.Debug("parsed %d size records from %s", len(records), source)

	// Classification is pure, so it fans out across workers; tree inserts
	// mutate shared ancestor totals and stay on this goroutine.
	cfg := parallel.DefaultConfig()
	if p.opts.MaxWorkers > 0 {
		cfg = cfg.WithWorkers(p.opts.MaxWorkers)
	}
	classified, err := parallel.Map(ctx, cfg, records, classifyRecord)
	if err != nil {
		return nil, err
	}

	targets := make(map[string]struct{})
	for _, cr := range classified {
		if cr.classified {
			targets[cr.class.Owner] = struct{}{}
		}
	}
	resolver := p.buildResolver(targets)

	result := &Result{Tree: attrtree.New(), Records: len(records)}
	for _, cr := range classified {
		path := attributionPath(cr, resolver)
		if cr.classified {
			result.Classified++
		} else {
			result.Unclassified++
		}
		if p.opts.NoSections && path[0] == model.SectionsName {
			result.Skipped++
			continue
		}
		result.Tree.Insert(path, cr.record.VMSize, cr.record.FileSize)
	}

	result.Metafile = metafile.Build(
		result.Tree.Flatten(p.opts.MaxDepth),
		p.opts.OutputName,
		model.RootName,
		result.Tree.Root().TotalFileSize,
	)
	return result, nil
}

// classifyRecord substitutes the placeholder owner for empty symbols and
// classifies the result.
func classifyRecord(record *model.SizeRecord) classifiedRecord {
	name := record.Symbols
	if name == "" {
		name = model.UnknownName
	}
	class, ok := symbol.Classify(name)
	return classifiedRecord{
		record:     record,
		symbolName: name,
		class:      class,
		classified: ok,
	}
}

// buildResolver loads the lock document and builds the resolver over the
// observed owners. Dependency attribution is an enrichment: a missing or
// unparsable lock document downgrades to trivial chains.
func (p *Pipeline) buildResolver(targets map[string]struct{}) *deps.Resolver {
	pkgs, err := deps.LoadLockfile(p.opts.LockPath)
	if err != nil {
		p.logger.Warn("dependency information unavailable, attributing without chains: %v", err)
		return deps.NewResolver(nil, targets)
	}
	p.logger.Debug("loaded %d packages from %s", len(pkgs), p.opts.LockPath)
	return deps.NewResolver(deps.NewGraph(pkgs), targets)
}

// attributionPath combines classifier and resolver output into the full
// insertion path for one record.
func attributionPath(cr classifiedRecord, resolver *deps.Resolver) []string {
	if !cr.classified {
		raw := symbol.SplitSegments(cr.symbolName)
		path := make([]string, 0, 2+len(raw))
		path = append(path, model.SectionsName, cr.record.Sections)
		return append(path, raw...)
	}

	chain := resolver.GetPath(cr.class.Owner)
	path := make([]string, 0, len(chain)+len(cr.class.Segments))
	path = append(path, chain...)
	path = append(path, cr.record.Sections)
	return append(path, cr.class.Segments[1:]...)
}
