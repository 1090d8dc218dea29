package ingest

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"

	"docchat-be/pkg/embedding"
	"docchat-be/pkg/extract"
	"docchat-be/pkg/rag/session"
	"docchat-be/pkg/splitter"
	"docchat-be/pkg/vectorindex"
)

// File is one uploaded document.
type File struct {
	Name    string
	Content []byte
}

// Outcome reports the result of an ingestion request.
type Outcome struct {
	Success        bool   `json:"success"`
	ChunksCreated  int    `json:"chunks_created"`
	FilesProcessed int    `json:"files_processed"`
	Message        string `json:"message,omitempty"`
	Error          string `json:"error,omitempty"`
	Partition      string `json:"-"`
}

// Ingestor validates uploads, extracts and chunks their text, embeds the
// chunks, and writes everything to the session's partition in one shot.
// Either all chunks of a request land in the index or none do.
type Ingestor struct {
	registry  *session.Registry
	extractor extract.PageExtractor
	splitter  *splitter.Splitter
	embedder  embedding.EmbeddingProvider
	index     vectorindex.Index

	maxFileSizeMB int
	maxFileCount  int

	logger *log.Logger
}

func NewIngestor(
	registry *session.Registry,
	extractor extract.PageExtractor,
	textSplitter *splitter.Splitter,
	embedder embedding.EmbeddingProvider,
	index vectorindex.Index,
	maxFileSizeMB int,
	maxFileCount int,
	logger *log.Logger,
) *Ingestor {
	return &Ingestor{
		registry:      registry,
		extractor:     extractor,
		splitter:      textSplitter,
		embedder:      embedder,
		index:         index,
		maxFileSizeMB: maxFileSizeMB,
		maxFileCount:  maxFileCount,
		logger:        logger,
	}
}

// Ingest processes the uploaded files for the session. Validation failures
// and processing errors both return an unsuccessful Outcome with zero index
// writes.
func (in *Ingestor) Ingest(ctx context.Context, sessionID string, files []File) Outcome {
	if msg := in.validate(files); msg != "" {
		in.logger.Printf("[INGEST] rejected for session %s: %s", sessionID, msg)
		return Outcome{Error: msg}
	}

	var records []vectorindex.Record
	filesProcessed := 0

	for _, file := range files {
		chunks, err := in.processFile(ctx, file)
		if err != nil {
			in.logger.Printf("[INGEST] failed on %s: %v", file.Name, err)
			return Outcome{Error: fmt.Sprintf("Failed to process %s: %v", file.Name, err)}
		}
		if len(chunks) == 0 {
			in.logger.Printf("[INGEST] %s produced no text, skipping", file.Name)
			continue
		}

		records = append(records, chunks...)
		filesProcessed++
	}

	partition := in.registry.GetOrCreatePartition(sessionID)

	if len(records) > 0 {
		if err := in.index.GetOrCreate(ctx, partition); err != nil {
			return Outcome{Error: fmt.Sprintf("Failed to prepare index: %v", err)}
		}
		if err := in.index.Add(ctx, partition, records); err != nil {
			return Outcome{Error: fmt.Sprintf("Failed to store chunks: %v", err)}
		}
	}

	in.logger.Printf("[INGEST] session %s: %d file(s), %d chunks", sessionID, filesProcessed, len(records))

	return Outcome{
		Success:        true,
		ChunksCreated:  len(records),
		FilesProcessed: filesProcessed,
		Message:        fmt.Sprintf("Processed %d file(s) → %d chunks created", filesProcessed, len(records)),
		Partition:      partition,
	}
}

func (in *Ingestor) validate(files []File) string {
	if len(files) == 0 {
		return "No files provided"
	}
	if len(files) > in.maxFileCount {
		return fmt.Sprintf("Too many files: %d (max %d)", len(files), in.maxFileCount)
	}

	maxBytes := in.maxFileSizeMB * 1024 * 1024
	for _, file := range files {
		if !strings.HasSuffix(strings.ToLower(file.Name), ".pdf") {
			return fmt.Sprintf("Unsupported file type: %s (only PDF is supported)", file.Name)
		}
		if len(file.Content) > maxBytes {
			return fmt.Sprintf("File too large: %s (max %d MB)", file.Name, in.maxFileSizeMB)
		}
	}

	return ""
}

// processFile extracts pages, splits each page into chunks, and embeds them.
func (in *Ingestor) processFile(ctx context.Context, file File) ([]vectorindex.Record, error) {
	pages, err := in.extractor.Extract(file.Name, file.Content)
	if err != nil {
		return nil, err
	}

	var records []vectorindex.Record
	for _, page := range pages {
		if strings.TrimSpace(page.Text) == "" {
			continue
		}

		for _, chunk := range in.splitter.Split(page.Text) {
			resp, err := in.embedder.Generate(ctx, chunk, embedding.TaskDocument)
			if err != nil {
				return nil, fmt.Errorf("embedding failed: %w", err)
			}

			records = append(records, vectorindex.Record{
				ID:     uuid.New().String(),
				Text:   chunk,
				Vector: resp.Values,
				Source: file.Name,
				Page:   page.Number,
			})
		}
	}

	return records, nil
}
