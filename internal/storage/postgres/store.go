package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hyli-org/explorer/internal/model"
)

// Schema creates the tables the store writes to.
const Schema = `
CREATE TABLE IF NOT EXISTS decoded_blobs (
	tx_hash        TEXT    NOT NULL,
	blob_index     INTEGER NOT NULL,
	block_height   BIGINT  NOT NULL,
	contract_name  TEXT    NOT NULL,
	domain         TEXT    NOT NULL,
	version        INTEGER NOT NULL,
	envelope       TEXT    NOT NULL,
	action         TEXT    NOT NULL,
	action_id      TEXT,
	fallback_from  INTEGER,
	decoded        JSONB   NOT NULL,
	created_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (tx_hash, blob_index)
);
CREATE TABLE IF NOT EXISTS processed_events (
	block_hash    TEXT    NOT NULL,
	event_index   BIGINT  NOT NULL,
	kind          TEXT    NOT NULL,
	block_height  BIGINT  NOT NULL,
	tx_hash       TEXT    NOT NULL,
	severity      TEXT    NOT NULL,
	description   TEXT    NOT NULL,
	event         JSONB   NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (block_hash, tx_hash, event_index, kind)
);
CREATE TABLE IF NOT EXISTS decode_errors (
	id             BIGSERIAL PRIMARY KEY,
	source         TEXT   NOT NULL,
	tx_hash        TEXT   NOT NULL,
	block_height   BIGINT NOT NULL,
	item_index     INTEGER NOT NULL,
	contract_name  TEXT,
	error          TEXT   NOT NULL,
	created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS indexer_state (
	name                  TEXT PRIMARY KEY,
	last_processed_block  BIGINT NOT NULL,
	updated_at            TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

// Store provides Postgres persistence for decoded blobs and events.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pg dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Migrate creates missing tables.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// PutDecodedBlobs inserts or updates decoded blobs keyed by (tx_hash, blob_index).
func (s *Store) PutDecodedBlobs(ctx context.Context, blobs []model.DecodedBlob) error {
	if len(blobs) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, blob := range blobs {
		decoded, err := json.Marshal(blob.Decoded)
		if err != nil {
			return fmt.Errorf("marshal decoded blob %s/%d: %w", blob.TxHash, blob.BlobIndex, err)
		}
		batch.Queue(`
			INSERT INTO decoded_blobs (
				tx_hash, blob_index, block_height, contract_name, domain, version,
				envelope, action, action_id, fallback_from, decoded, created_at, updated_at
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,now(),now())
			ON CONFLICT (tx_hash, blob_index)
			DO UPDATE SET
				block_height = EXCLUDED.block_height,
				contract_name = EXCLUDED.contract_name,
				domain = EXCLUDED.domain,
				version = EXCLUDED.version,
				envelope = EXCLUDED.envelope,
				action = EXCLUDED.action,
				action_id = EXCLUDED.action_id,
				fallback_from = EXCLUDED.fallback_from,
				decoded = EXCLUDED.decoded,
				updated_at = now()
		`,
			blob.TxHash,
			blob.BlobIndex,
			int64(blob.BlockHeight),
			blob.ContractName,
			blob.Domain,
			blob.Version,
			blob.Envelope,
			blob.Action,
			nullString(blob.ID),
			nullInt(blob.FallbackFrom),
			decoded,
		)
	}
	return s.exec(ctx, batch, len(blobs))
}

// PutEventRecords inserts or updates events keyed by (block_hash, tx_hash, event_index, kind).
func (s *Store) PutEventRecords(ctx context.Context, records []model.EventRecord) error {
	if len(records) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, rec := range records {
		event, err := json.Marshal(rec.Event)
		if err != nil {
			return fmt.Errorf("marshal event %s/%d: %w", rec.BlockHash, rec.Index, err)
		}
		batch.Queue(`
			INSERT INTO processed_events (
				block_hash, event_index, kind, block_height, tx_hash, severity,
				description, event, created_at, updated_at
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,now(),now())
			ON CONFLICT (block_hash, tx_hash, event_index, kind)
			DO UPDATE SET
				block_height = EXCLUDED.block_height,
				severity = EXCLUDED.severity,
				description = EXCLUDED.description,
				event = EXCLUDED.event,
				updated_at = now()
		`,
			rec.BlockHash,
			int64(rec.Index),
			rec.Kind,
			int64(rec.BlockHeight),
			rec.TxHash,
			rec.Severity,
			rec.Description,
			event,
		)
	}
	return s.exec(ctx, batch, len(records))
}

// PutDecodeErrors appends decode failures.
func (s *Store) PutDecodeErrors(ctx context.Context, errs []model.DecodeError) error {
	if len(errs) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, e := range errs {
		batch.Queue(`
			INSERT INTO decode_errors (source, tx_hash, block_height, item_index, contract_name, error, created_at)
			VALUES ($1,$2,$3,$4,$5,$6,now())
		`,
			e.Source,
			e.TxHash,
			int64(e.BlockHeight),
			e.Index,
			nullString(e.ContractName),
			e.Error,
		)
	}
	return s.exec(ctx, batch, len(errs))
}

func (s *Store) exec(ctx context.Context, batch *pgx.Batch, n int) error {
	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for i := 0; i < n; i++ {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}

// LoadState returns last_processed_block for a name.
func (s *Store) LoadState(ctx context.Context, name string) (uint64, bool, error) {
	if name == "" {
		return 0, false, fmt.Errorf("state name required")
	}
	var ts int64
	row := s.pool.QueryRow(ctx, `SELECT last_processed_block FROM indexer_state WHERE name=$1`, name)
	if err := row.Scan(&ts); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return uint64(ts), true, nil
}

// SaveState upserts last_processed_block for a name.
func (s *Store) SaveState(ctx context.Context, name string, ts uint64) error {
	if name == "" {
		return fmt.Errorf("state name required")
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO indexer_state (name, last_processed_block, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (name) DO UPDATE
		SET last_processed_block = EXCLUDED.last_processed_block, updated_at = now()
	`, name, int64(ts))
	return err
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func nullInt(n int) *int {
	if n == 0 {
		return nil
	}
	return &n
}
