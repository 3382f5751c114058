package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/salesdash/backend/internal/domain/sales"
	"github.com/salesdash/backend/internal/infrastructure/csvfile"
	"github.com/salesdash/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// DefaultBatchSize is the number of rows accumulated before a flush.
const DefaultBatchSize = 50

// Result summarizes one ingestion run.
//
// ProcessedRows counts every row of a successfully flushed batch, including
// rows that were individually skipped; SkippedRows breaks those out. Rows
// of a batch whose flush failed are counted in TotalRows only.
type Result struct {
	TotalRows     int `json:"totalRows"`
	ProcessedRows int `json:"processedRows"`
	SkippedRows   int `json:"skippedRows"`
}

// Pipeline ingests a sales CSV stream into the store.
//
// A producer goroutine reads and batches rows; the consumer resolves
// references and flushes each batch in one insert. The batch channel has
// capacity one, so the reader stalls while a flush is in progress instead
// of buffering the whole file in memory.
type Pipeline struct {
	customers sales.CustomerRepository
	products  sales.ProductRepository
	sales     sales.SaleRepository
	logger    *zap.Logger
	metrics   *telemetry.BusinessMetrics
	batchSize int
}

// PipelineOption configures a Pipeline.
type PipelineOption func(*Pipeline)

// WithBatchSize overrides the default flush threshold.
func WithBatchSize(n int) PipelineOption {
	return func(p *Pipeline) {
		if n > 0 {
			p.batchSize = n
		}
	}
}

// WithMetrics attaches ingestion counters. A nil receiver disables them.
func WithMetrics(bm *telemetry.BusinessMetrics) PipelineOption {
	return func(p *Pipeline) {
		p.metrics = bm
	}
}

// NewPipeline creates an ingestion pipeline.
func NewPipeline(
	customers sales.CustomerRepository,
	products sales.ProductRepository,
	saleRepo sales.SaleRepository,
	logger *zap.Logger,
	opts ...PipelineOption,
) *Pipeline {
	p := &Pipeline{
		customers: customers,
		products:  products,
		sales:     saleRepo,
		logger:    logger,
		batchSize: DefaultBatchSize,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run ingests one CSV stream. Batches are flushed sequentially; a flush
// failure aborts the run, leaving earlier batches committed. Row-level
// failures are logged and skipped without affecting the batch.
//
// The caller owns the underlying file and its cleanup.
func (p *Pipeline) Run(ctx context.Context, r io.Reader) (*Result, error) {
	start := time.Now()

	result, err := p.run(ctx, r)
	elapsed := time.Since(start)

	if err != nil {
		p.recordRun(ctx, telemetry.IngestStatusFailed, elapsed, result)
		return result, err
	}

	p.recordRun(ctx, telemetry.IngestStatusSuccess, elapsed, result)
	p.logger.Info("Ingestion completed",
		zap.Int("total_rows", result.TotalRows),
		zap.Int("processed_rows", result.ProcessedRows),
		zap.Int("skipped_rows", result.SkippedRows),
		zap.Duration("elapsed", elapsed),
	)
	return result, nil
}

func (p *Pipeline) run(ctx context.Context, r io.Reader) (*Result, error) {
	result := &Result{}

	parser, err := csvfile.NewParser(r)
	if err != nil {
		return result, fmt.Errorf("failed to open CSV: %w", err)
	}
	if err := parser.ParseHeader(); err != nil {
		return result, fmt.Errorf("failed to read CSV header: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Capacity one: at most one batch is staged while another flushes.
	batches := make(chan []*csvfile.Row, 1)
	readErr := make(chan error, 1)

	go p.produce(ctx, parser, batches, readErr)

	resolver := NewResolver(p.customers, p.products, p.logger)

	for batch := range batches {
		result.TotalRows += len(batch)
		if err := p.flushBatch(ctx, resolver, batch, result); err != nil {
			return result, err
		}
		// Skipped rows still belong to a flushed batch and count as
		// processed; downstream totals depend on this.
		result.ProcessedRows += len(batch)
	}

	if err := <-readErr; err != nil {
		return result, err
	}
	return result, nil
}

// produce reads rows into batches and hands them to the consumer. It owns
// closing the batch channel and always reports its outcome on readErr.
func (p *Pipeline) produce(ctx context.Context, parser *csvfile.Parser, batches chan<- []*csvfile.Row, readErr chan<- error) {
	defer close(batches)

	batch := make([]*csvfile.Row, 0, p.batchSize)
	send := func(rows []*csvfile.Row) bool {
		select {
		case batches <- rows:
			return true
		case <-ctx.Done():
			readErr <- ctx.Err()
			return false
		}
	}

	for {
		row, err := parser.ReadRow()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			readErr <- fmt.Errorf("failed to read CSV row: %w", err)
			return
		}
		if row.IsEmpty() {
			continue
		}

		batch = append(batch, row)
		if len(batch) == p.batchSize {
			if !send(batch) {
				return
			}
			batch = make([]*csvfile.Row, 0, p.batchSize)
		}
	}

	if len(batch) > 0 && !send(batch) {
		return
	}
	readErr <- nil
}

// flushBatch builds sales for each row of the batch and persists them in a
// single insert. Rows that fail to map or resolve are logged and skipped;
// an insert failure aborts the whole run.
func (p *Pipeline) flushBatch(ctx context.Context, resolver *Resolver, batch []*csvfile.Row, result *Result) error {
	pending := make([]*sales.Sale, 0, len(batch))

	for _, row := range batch {
		sale, err := p.buildSale(ctx, resolver, row)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			p.logger.Warn("Skipping row",
				zap.Int("line", row.LineNumber),
				zap.Error(err),
			)
			result.SkippedRows++
			continue
		}
		pending = append(pending, sale)
	}

	if len(pending) == 0 {
		return nil
	}
	if err := p.sales.SaveBatch(ctx, pending); err != nil {
		return fmt.Errorf("failed to flush batch of %d sales: %w", len(pending), err)
	}
	return nil
}

// buildSale maps one row and resolves its customer and product references.
func (p *Pipeline) buildSale(ctx context.Context, resolver *Resolver, row *csvfile.Row) (*sales.Sale, error) {
	mapped, err := MapRow(row)
	if err != nil {
		return nil, err
	}

	customer, err := resolver.ResolveCustomer(ctx, mapped.CustomerName, mapped.CustomerRegion, mapped.CustomerType)
	if err != nil {
		return nil, err
	}
	product, err := resolver.ResolveProduct(ctx, mapped.ProductName, mapped.ProductCategory, mapped.UnitPrice)
	if err != nil {
		return nil, err
	}

	return sales.NewSale(customer.ID, product.ID, mapped.Quantity, mapped.TotalRevenue, mapped.ReportDate)
}

// recordRun emits run-level metrics when a recorder is attached.
func (p *Pipeline) recordRun(ctx context.Context, status telemetry.IngestStatus, elapsed time.Duration, result *Result) {
	if p.metrics == nil {
		return
	}
	p.metrics.RecordIngestRun(ctx, status, elapsed)
	if result == nil {
		return
	}
	p.metrics.RecordIngestRows(ctx, telemetry.RowStatusProcessed, int64(result.ProcessedRows-result.SkippedRows))
	p.metrics.RecordIngestRows(ctx, telemetry.RowStatusSkipped, int64(result.SkippedRows))
}
