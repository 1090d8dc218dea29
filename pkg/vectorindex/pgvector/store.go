package pgvector

import (
	"context"
	"time"

	"github.com/google/uuid"
	pgv "github.com/pgvector/pgvector-go"
	"gorm.io/gorm"

	"docchat-be/pkg/vectorindex"
)

// ChunkEmbedding is the row model backing the pgvector index. All partitions
// share one table; the partition column scopes every query.
type ChunkEmbedding struct {
	Id             uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Partition      string     `gorm:"type:varchar(255);not null;index"`
	Document       string     `gorm:"type:text"`
	EmbeddingValue pgv.Vector `gorm:"type:vector(768)"` // nomic-embed-text and jina-v2-base-en are 768-dimensional
	Source         string     `gorm:"type:varchar(512)"`
	Page           int        `gorm:"default:0"`
	CreatedAt      time.Time  `gorm:"autoCreateTime"`
}

func (ChunkEmbedding) TableName() string {
	return "chunk_embeddings"
}

// Store implements vectorindex.Index on Postgres with the pgvector extension.
type Store struct {
	db *gorm.DB
}

var _ vectorindex.Index = &Store{}

func NewStore(db *gorm.DB) (*Store, error) {
	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS vector").Error; err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&ChunkEmbedding{}); err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// GetOrCreate is a no-op beyond migration: a partition exists implicitly
// once rows carry its name.
func (s *Store) GetOrCreate(ctx context.Context, name string) error {
	return nil
}

func (s *Store) Add(ctx context.Context, name string, records []vectorindex.Record) error {
	if len(records) == 0 {
		return nil
	}

	rows := make([]*ChunkEmbedding, len(records))
	for i, rec := range records {
		id, err := uuid.Parse(rec.ID)
		if err != nil {
			id = uuid.New()
		}
		rows[i] = &ChunkEmbedding{
			Id:             id,
			Partition:      name,
			Document:       rec.Text,
			EmbeddingValue: pgv.NewVector(rec.Vector),
			Source:         rec.Source,
			Page:           rec.Page,
		}
	}

	// Single Create call -> single transaction, keeping the write atomic.
	return s.db.WithContext(ctx).Create(rows).Error
}

func (s *Store) Search(ctx context.Context, name string, vector []float32, k int) ([]vectorindex.Result, error) {
	if k <= 0 {
		k = 5
	}

	// Cosine distance in pgvector is: 1 - cosine_similarity
	type row struct {
		ChunkEmbedding
		Similarity float64
	}
	var rows []row

	queryVector := pgv.NewVector(vector)

	err := s.db.WithContext(ctx).
		Table("chunk_embeddings").
		Select("chunk_embeddings.*, 1 - (embedding_value <=> ?) as similarity", queryVector).
		Where("partition = ?", name).
		Order("similarity DESC").
		Limit(k).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	results := make([]vectorindex.Result, len(rows))
	for i, r := range rows {
		results[i] = vectorindex.Result{
			Text:   r.Document,
			Source: r.Source,
			Page:   r.Page,
			Score:  r.Similarity,
			Scored: true,
		}
	}
	return results, nil
}

func (s *Store) Delete(ctx context.Context, name string) error {
	return s.db.WithContext(ctx).
		Where("partition = ?", name).
		Delete(&ChunkEmbedding{}).Error
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
