package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/lexcore/internal/adapters/driven/ai"
	"github.com/custodia-labs/lexcore/internal/adapters/driven/filestore"
	"github.com/custodia-labs/lexcore/internal/chunking"
	"github.com/custodia-labs/lexcore/internal/core/domain"
	"github.com/custodia-labs/lexcore/internal/core/ports/driving"
	"github.com/custodia-labs/lexcore/internal/core/services"
	"github.com/custodia-labs/lexcore/internal/runtime"
)

// corpus command
var corpusCmd = &cobra.Command{
	Use:   "corpus",
	Short: "Manage a file corpus directory",
}

func openCorpus(cmd *cobra.Command) (*filestore.Store, error) {
	dir, _ := cmd.Flags().GetString("dir")
	store, err := filestore.Open(filestore.Config{Root: dir})
	if err != nil {
		return nil, fmt.Errorf("opening corpus: %w", err)
	}
	return store, nil
}

// newIngestion wires an ingestion service over the corpus. The embedding
// provider comes from the --provider flags; EMBEDDING_API_KEY holds the key.
func newIngestion(ctx context.Context, cmd *cobra.Command, store *filestore.Store) (driving.IngestionService, *runtime.Services, error) {
	provider, _ := cmd.Flags().GetString("provider")
	model, _ := cmd.Flags().GetString("model")
	baseURL, _ := cmd.Flags().GetString("base-url")
	rps, _ := cmd.Flags().GetFloat64("rps")

	loc, err := loadLocale(cmd)
	if err != nil {
		return nil, nil, err
	}
	builder, err := chunking.NewBuilder(chunking.Config{Locale: loc})
	if err != nil {
		return nil, nil, err
	}

	svcs := runtime.NewServices(domain.NewRuntimeConfig("files", "none"))
	if provider != "" {
		embedder, err := ai.NewFactory().CreateEmbeddingService(&domain.EmbeddingSettings{
			Provider: domain.EmbeddingProvider(provider),
			Model:    model,
			APIKey:   os.Getenv("EMBEDDING_API_KEY"),
			BaseURL:  baseURL,
		})
		if err != nil {
			return nil, nil, err
		}
		if err := svcs.ValidateAndSetEmbedding(ctx, embedder); err != nil {
			return nil, nil, fmt.Errorf("embedding service unavailable: %w", err)
		}
	}

	ingestion := services.NewIngestionService(services.IngestionConfig{
		Documents:     store.Documents(),
		Chunks:        store.Chunks(),
		Builder:       builder,
		Services:      svcs,
		EmbeddingRate: rps,
	})
	return ingestion, svcs, nil
}

var corpusIngestCmd = &cobra.Command{
	Use:   "ingest DOCUMENT.json...",
	Short: "Chunk documents into the corpus",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		store, err := openCorpus(cmd)
		if err != nil {
			return err
		}
		ingestion, svcs, err := newIngestion(ctx, cmd, store)
		if err != nil {
			return err
		}
		defer svcs.Close()

		docs := make([]*domain.LegalDocument, 0, len(args))
		for _, path := range args {
			doc, err := readDocument(path)
			if err != nil {
				return err
			}
			docs = append(docs, doc)
		}

		results, batchErr := ingestion.IngestBatch(ctx, docs, chunking.DefaultOptions())
		for i, r := range results {
			if r == nil {
				fmt.Fprintf(cmd.OutOrStdout(), "FAILED  %s\n", args[i])
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%-24s %4d chunks  %4d embedded  %s\n", r.DocumentID, r.ChunkCount, r.EmbeddedCount, r.Strategy)
		}
		return batchErr
	},
}

var corpusEmbedCmd = &cobra.Command{
	Use:   "embed",
	Short: "Back-fill missing chunk embeddings",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		store, err := openCorpus(cmd)
		if err != nil {
			return err
		}
		ingestion, svcs, err := newIngestion(ctx, cmd, store)
		if err != nil {
			return err
		}
		defer svcs.Close()

		docs, err := store.Documents().List(ctx)
		if err != nil {
			return err
		}
		total := 0
		for _, doc := range docs {
			n, err := ingestion.BackfillEmbeddings(ctx, doc.ID)
			if errors.Is(err, domain.ErrEmbeddingUnavailable) {
				return errors.New("no embedding provider: pass --provider")
			}
			if err != nil {
				return fmt.Errorf("embedding %s: %w", doc.ID, err)
			}
			total += n
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Embedded %d chunk(s)\n", total)
		return nil
	},
}

var corpusExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write chunk embeddings as batch files",
	RunE: func(cmd *cobra.Command, args []string) error {
		model, _ := cmd.Flags().GetString("model")
		batch, _ := cmd.Flags().GetInt("batch")

		store, err := openCorpus(cmd)
		if err != nil {
			return err
		}
		index, err := store.ExportEmbeddings(cmd.Context(), model, batch)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Exported %d embedding(s) in %d batch(es), %d dimensions\n",
			index.TotalChunks, index.BatchCount, index.Dimensions)
		return nil
	},
}

var corpusImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Load chunk embeddings from batch files",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openCorpus(cmd)
		if err != nil {
			return err
		}
		index, err := store.ImportEmbeddings(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d embedding(s) (model %s)\n", index.TotalChunks, index.Model)
		return nil
	},
}

var corpusInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show corpus metadata",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openCorpus(cmd)
		if err != nil {
			return err
		}
		meta, err := store.Metadata()
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), meta)
	},
}

func init() {
	corpusCmd.PersistentFlags().String("dir", "./corpus", "Corpus directory")

	for _, c := range []*cobra.Command{corpusIngestCmd, corpusEmbedCmd} {
		c.Flags().String("provider", "", "Embedding provider (openai or ollama)")
		c.Flags().String("model", "", "Embedding model")
		c.Flags().String("base-url", "", "Embedding API base URL")
		c.Flags().Float64("rps", 0, "Embedding requests per second (0 = unlimited)")
	}

	corpusExportCmd.Flags().String("model", "", "Embedding model recorded in index.json")
	corpusExportCmd.Flags().Int("batch", filestore.DefaultEmbeddingBatchSize, "Embeddings per batch file")

	corpusCmd.AddCommand(corpusIngestCmd)
	corpusCmd.AddCommand(corpusEmbedCmd)
	corpusCmd.AddCommand(corpusExportCmd)
	corpusCmd.AddCommand(corpusImportCmd)
	corpusCmd.AddCommand(corpusInfoCmd)
}
