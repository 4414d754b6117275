package repository

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yachiey/ocr-final/internal/common"
	"github.com/yachiey/ocr-final/internal/entity"
)

// ResultRepository stores extraction results as documents: the full
// structured record plus the owning user, image reference, and raw model
// text. Storage only; the sole read path is listing by owner.
type ResultRepository interface {
	SaveResult(ctx context.Context, res *entity.OCRResult) (*entity.OCRResult, error)
	ListResults(ctx context.Context, userID string) ([]*entity.OCRResult, error)
}

type resultRepository struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewResultRepository(pool *pgxpool.Pool, logger *slog.Logger) ResultRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &resultRepository{pool: pool, logger: logger}
}

// EnsureSchema creates the results table when it does not exist yet.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS ocr_results (
	id          UUID PRIMARY KEY,
	user_id     TEXT,
	extraction  JSONB NOT NULL,
	raw_text    TEXT NOT NULL DEFAULT '',
	image_path  TEXT NOT NULL DEFAULT '',
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS ocr_results_user_id_idx ON ocr_results (user_id);
CREATE INDEX IF NOT EXISTS ocr_results_created_at_idx ON ocr_results (created_at);`
	if _, err := pool.Exec(ctx, ddl); err != nil {
		return common.WrapError(err, "ensure schema")
	}
	return nil
}

func (r *resultRepository) SaveResult(ctx context.Context, res *entity.OCRResult) (*entity.OCRResult, error) {
	if res.ID == uuid.Nil {
		res.ID = uuid.New()
	}
	if res.CreatedAt.IsZero() {
		res.CreatedAt = time.Now().UTC()
	}

	doc, err := json.Marshal(res.Extraction)
	if err != nil {
		return nil, common.WrapError(err, "marshal extraction")
	}

	const q = `
INSERT INTO ocr_results (id, user_id, extraction, raw_text, image_path, created_at)
VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err := r.pool.Exec(ctx, q, res.ID, res.UserID, doc, res.RawText, res.ImagePath, res.CreatedAt); err != nil {
		r.logger.Error("repository.save_result", "error", err)
		return nil, common.WrapError(err, "save result")
	}

	r.logger.Info("repository.save_result.ok", "id", res.ID, "image_path", res.ImagePath)
	return res, nil
}

func (r *resultRepository) ListResults(ctx context.Context, userID string) ([]*entity.OCRResult, error) {
	const q = `
SELECT id, user_id, extraction, raw_text, image_path, created_at
FROM ocr_results
WHERE ($1 = '' OR user_id = $1)
ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, q, userID)
	if err != nil {
		r.logger.Error("repository.list_results", "error", err)
		return nil, common.WrapError(err, "list results")
	}
	defer rows.Close()

	var out []*entity.OCRResult
	for rows.Next() {
		var (
			rec entity.OCRResult
			doc []byte
		)
		if err := rows.Scan(&rec.ID, &rec.UserID, &doc, &rec.RawText, &rec.ImagePath, &rec.CreatedAt); err != nil {
			return nil, common.WrapError(err, "scan result")
		}
		if err := json.Unmarshal(doc, &rec.Extraction); err != nil {
			return nil, common.WrapError(err, "unmarshal extraction")
		}
		out = append(out, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, common.WrapError(err, "iterate results")
	}
	return out, nil
}
