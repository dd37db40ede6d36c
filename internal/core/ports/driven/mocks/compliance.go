package mocks

import "github.com/custodia-labs/lexcore/internal/core/ports/driven"

var (
	_ driven.LegalDocumentStore    = (*MockDocumentStore)(nil)
	_ driven.ChunkStore            = (*MockChunkStore)(nil)
	_ driven.LineageStore          = (*MockLineageStore)(nil)
	_ driven.ChangeDetectionStore  = (*MockChangeDetectionStore)(nil)
	_ driven.BlobStore             = (*MockBlobStore)(nil)
	_ driven.SourceFetcher         = (*MockSourceFetcher)(nil)
	_ driven.EmbeddingService      = (*MockEmbeddingService)(nil)
	_ driven.DistributedLock       = (*MockDistributedLock)(nil)
	_ driven.TaskQueue             = (*MockTaskQueue)(nil)
)
