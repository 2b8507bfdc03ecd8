package repository

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
	pgvector "github.com/pgvector/pgvector-go"

	"toonify/internal/domain"
)

var ErrNotFound = errors.New("gallery record not found")

// GalleryRepository persiste personajes terminados y permite buscarlos por
// similitud de personalidad.
type GalleryRepository interface {
	Save(ctx context.Context, rec domain.GalleryRecord) error
	Get(ctx context.Context, id string) (domain.GalleryRecord, error)
	List(ctx context.Context, limit, offset int) ([]domain.GalleryRecord, error)
	Delete(ctx context.Context, id string) error
	SearchSimilar(ctx context.Context, embedding pgvector.Vector, k int) ([]domain.GalleryRecord, error)
}

type PgGalleryRepository struct {
	pool *pgxpool.Pool
}

func NewPgGalleryRepository(pool *pgxpool.Pool) *PgGalleryRepository {
	return &PgGalleryRepository{pool: pool}
}

const galleryColumns = `id, name, age, height, weight, source_photo, image_url, cost, model_used, style, personality, embedding, created_at`

func (r *PgGalleryRepository) Save(ctx context.Context, rec domain.GalleryRecord) error {
	personality, err := json.Marshal(rec.Personality)
	if err != nil {
		return err
	}
	const query = `
		INSERT INTO gallery_characters (
			id, name, age, height, weight, source_photo, image_url, cost, model_used, style, personality, embedding, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			age = EXCLUDED.age,
			height = EXCLUDED.height,
			weight = EXCLUDED.weight,
			image_url = EXCLUDED.image_url,
			cost = EXCLUDED.cost,
			model_used = EXCLUDED.model_used,
			style = EXCLUDED.style,
			personality = EXCLUDED.personality,
			embedding = EXCLUDED.embedding
	`
	_, err = r.pool.Exec(ctx, query,
		rec.ID,
		rec.Name,
		rec.Age,
		rec.Height,
		rec.Weight,
		rec.SourcePhoto,
		rec.ImageURL,
		rec.Cost,
		rec.ModelUsed,
		string(rec.Style),
		personality,
		rec.Embedding,
		rec.CreatedAt,
	)
	return err
}

func (r *PgGalleryRepository) Get(ctx context.Context, id string) (domain.GalleryRecord, error) {
	const query = `SELECT ` + galleryColumns + ` FROM gallery_characters WHERE id = $1`
	rows, err := r.pool.Query(ctx, query, id)
	if err != nil {
		return domain.GalleryRecord{}, err
	}
	defer rows.Close()

	recs, err := scanGalleryRecords(rows)
	if err != nil {
		return domain.GalleryRecord{}, err
	}
	if len(recs) == 0 {
		return domain.GalleryRecord{}, ErrNotFound
	}
	return recs[0], nil
}

func (r *PgGalleryRepository) List(ctx context.Context, limit, offset int) ([]domain.GalleryRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	const query = `
		SELECT ` + galleryColumns + `
		FROM gallery_characters
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanGalleryRecords(rows)
}

func (r *PgGalleryRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM gallery_characters WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SearchSimilar ordena por distancia coseno entre embeddings de personalidad.
func (r *PgGalleryRepository) SearchSimilar(ctx context.Context, embedding pgvector.Vector, k int) ([]domain.GalleryRecord, error) {
	if k <= 0 {
		k = 5
	}
	const query = `
		SELECT ` + galleryColumns + `
		FROM gallery_characters
		ORDER BY embedding <=> $1
		LIMIT $2
	`
	rows, err := r.pool.Query(ctx, query, embedding, k)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanGalleryRecords(rows)
}

func scanGalleryRecords(rows pgxRows) ([]domain.GalleryRecord, error) {
	var recs []domain.GalleryRecord
	for rows.Next() {
		var rec domain.GalleryRecord
		var style string
		var personality []byte
		if err := rows.Scan(
			&rec.ID,
			&rec.Name,
			&rec.Age,
			&rec.Height,
			&rec.Weight,
			&rec.SourcePhoto,
			&rec.ImageURL,
			&rec.Cost,
			&rec.ModelUsed,
			&style,
			&personality,
			&rec.Embedding,
			&rec.CreatedAt,
		); err != nil {
			return nil, err
		}
		rec.Style = domain.CartoonStyle(style)
		if len(personality) > 0 {
			if err := json.Unmarshal(personality, &rec.Personality); err != nil {
				return nil, err
			}
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return recs, nil
}

// pgxRows is a minimal interface to allow scanning from pgx rows and simplify testing.
type pgxRows interface {
	Next() bool
	Scan(...interface{}) error
	Err() error
	Close()
}
