// Package bloaty parses per-symbol binary size reports produced by a size
// profiler in CSV mode. Each row carries a section name, a mangled symbol
// name, a virtual-memory size, and an on-disk size.
package bloaty

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/bloatmap/pkg/model"
)

// Column names required in the report header.
const (
	columnSections = "sections"
	columnSymbols  = "symbols"
	columnVMSize   = "vmsize"
	columnFileSize = "filesize"
)

// ParserOptions holds configuration options for the report parser.
type ParserOptions struct {
	// StrictRows fails on a malformed data row instead of skipping it.
	// A missing or incomplete header is always fatal.
	StrictRows bool
}

// DefaultParserOptions returns default parser options.
func DefaultParserOptions() *ParserOptions {
	return &ParserOptions{StrictRows: true}
}

// Parser implements the size-report parser.
type Parser struct {
	opts *ParserOptions
}

// NewParser creates a new size-report parser.
func NewParser(opts *ParserOptions) *Parser {
	if opts == nil {
		opts = DefaultParserOptions()
	}
	return &Parser{opts: opts}
}

// Parse reads the whole record stream from the reader. Rows with empty
// symbol columns are kept as-is; the pipeline substitutes the placeholder
// owner before classification.
func (p *Parser) Parse(ctx context.Context, reader io.Reader) ([]*model.SizeRecord, error) {
	cr := csv.NewReader(reader)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.LazyQuotes = true

	columns, err := p.readHeader(cr)
	if err != nil {
		return nil, err
	}

	var records []*model.SizeRecord
	rowNum := 1
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", rowNum, err)
		}
		rowNum++

		record, err := p.parseRow(row, columns)
		if err != nil {
			if p.opts.StrictRows {
				return nil, fmt.Errorf("row %d: %w", rowNum, err)
			}
			continue
		}
		records = append(records, record)
	}

	return records, nil
}

// columnIndexes maps the required column names to their positions.
type columnIndexes struct {
	sections, symbols, vmsize, filesize int
}

func (p *Parser) readHeader(cr *csv.Reader) (*columnIndexes, error) {
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	cols := &columnIndexes{sections: -1, symbols: -1, vmsize: -1, filesize: -1}
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case columnSections:
			cols.sections = i
		case columnSymbols:
			cols.symbols = i
		case columnVMSize:
			cols.vmsize = i
		case columnFileSize:
			cols.filesize = i
		}
	}
	if cols.sections < 0 || cols.symbols < 0 || cols.vmsize < 0 || cols.filesize < 0 {
		return nil, fmt.Errorf("header is missing required columns (want %s, %s, %s, %s)",
			columnSections, columnSymbols, columnVMSize, columnFileSize)
	}
	return cols, nil
}

func (p *Parser) parseRow(row []string, cols *columnIndexes) (*model.SizeRecord, error) {
	max := cols.sections
	for _, i := range []int{cols.symbols, cols.vmsize, cols.filesize} {
		if i > max {
			max = i
		}
	}
	if len(row) <= max {
		return nil, fmt.Errorf("row has %d columns, need at least %d", len(row), max+1)
	}

	vmsize, err := strconv.ParseUint(strings.TrimSpace(row[cols.vmsize]), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid vmsize %q: %w", row[cols.vmsize], err)
	}
	filesize, err := strconv.ParseUint(strings.TrimSpace(row[cols.filesize]), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid filesize %q: %w", row[cols.filesize], err)
	}

	return &model.SizeRecord{
		Sections: row[cols.sections],
		Symbols:  row[cols.symbols],
		VMSize:   vmsize,
		FileSize: filesize,
	}, nil
}
