package render

import (
	"context"
	"fmt"
	"time"

	"github.com/klauspost/compress/zstd"

	"salesreports/internal/core/id"
	"salesreports/internal/domain/salesreport"
	"salesreports/internal/infrastructure/storage/postgres"
)

// CompressionAlgo specifies the compression algorithm used for stored bodies.
type CompressionAlgo string

const (
	CompressionNone CompressionAlgo = "none"
	CompressionZstd CompressionAlgo = "zstd"
)

// defaultCompressThreshold is the body size above which documents are
// compressed before storage.
const defaultCompressThreshold = 10 * 1024

// Archive retains rendered report documents in the report_archive table.
// Large bodies are zstd-compressed. Implements salesreport.DocumentArchive.
type Archive struct {
	txm               *postgres.TxManager
	encoder           *zstd.Encoder
	compressThreshold int
}

// NewArchive creates a new report archive.
func NewArchive(txm *postgres.TxManager) (*Archive, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}
	return &Archive{
		txm:               txm,
		encoder:           encoder,
		compressThreshold: defaultCompressThreshold,
	}, nil
}

// Store implements salesreport.DocumentArchive.
func (a *Archive) Store(ctx context.Context, scope salesreport.Scope, f salesreport.Filter, contentType string, body []byte) error {
	algo := CompressionNone
	var compressed []byte
	if len(body) > a.compressThreshold {
		compressed = a.encoder.EncodeAll(body, nil)
		body = nil
		algo = CompressionZstd
	}

	sql := `
		INSERT INTO report_archive (
			id, company_id, user_id, start_date, end_date,
			content_type, body, body_compressed, compression_algo, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := a.txm.GetQuerier(ctx).Exec(ctx, sql,
		id.New(), scope.CompanyID, scope.UserID, f.StartDate, f.EndDate,
		contentType, body, compressed, string(algo), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("store report document: %w", err)
	}
	return nil
}

// Ensure interface compliance
var _ salesreport.DocumentArchive = (*Archive)(nil)
