package main

import (
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/lexcore/internal/chunking"
	"github.com/custodia-labs/lexcore/internal/core/domain"
	"github.com/custodia-labs/lexcore/internal/lineage"
	"github.com/custodia-labs/lexcore/internal/locale"
	"github.com/custodia-labs/lexcore/internal/scoring"
	"github.com/custodia-labs/lexcore/internal/structure"
	"github.com/custodia-labs/lexcore/internal/versioning"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "lexctl",
	Short:         "Offline tools for legal corpora",
	SilenceUsage:  true,
	SilenceErrors: false,
}

// loadLocale reads the --locale flag; empty selects the built-in table.
func loadLocale(cmd *cobra.Command) (*locale.Locale, error) {
	path, _ := cmd.Flags().GetString("locale")
	loc, err := locale.LoadOrDefault(path)
	if err != nil {
		return nil, fmt.Errorf("loading locale: %w", err)
	}
	return loc, nil
}

func readDocument(path string) (*domain.LegalDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading document: %w", err)
	}
	var doc domain.LegalDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &doc, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// mimeTypeOf guesses from the extension, falling back to plain text.
func mimeTypeOf(path string) string {
	if t := mime.TypeByExtension(filepath.Ext(path)); t != "" {
		return t
	}
	return "text/plain"
}

// parse command
var parseCmd = &cobra.Command{
	Use:   "parse FILE",
	Short: "Split raw legal text into structural units",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		treeID, _ := cmd.Flags().GetString("tree")

		loc, err := loadLocale(cmd)
		if err != nil {
			return err
		}
		parser, err := structure.NewParser(loc)
		if err != nil {
			return err
		}

		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading input: %w", err)
		}

		units := parser.Parse(string(data))
		if treeID != "" {
			return printJSON(cmd.OutOrStdout(), structure.BuildTree(treeID, units))
		}
		return printJSON(cmd.OutOrStdout(), units)
	},
}

// chunk command
var chunkCmd = &cobra.Command{
	Use:   "chunk DOCUMENT.json",
	Short: "Build retrieval chunks for a document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		maxSize, _ := cmd.Flags().GetInt("max-size")
		overlap, _ := cmd.Flags().GetInt("overlap")
		window, _ := cmd.Flags().GetBool("window")
		dedup, _ := cmd.Flags().GetBool("dedup")

		loc, err := loadLocale(cmd)
		if err != nil {
			return err
		}
		doc, err := readDocument(args[0])
		if err != nil {
			return err
		}
		if err := doc.Validate(); err != nil {
			return err
		}

		builder, err := chunking.NewBuilder(chunking.Config{
			Locale:             loc,
			DropNearDuplicates: dedup,
			Dedup:              chunking.DefaultDeduplicatorConfig(),
		})
		if err != nil {
			return err
		}

		chunks := builder.Build(doc, chunking.Options{
			MaxChunkSize:      maxSize,
			OverlapSize:       overlap,
			PreserveStructure: !window,
		})
		return printJSON(cmd.OutOrStdout(), chunks)
	},
}

// diff command
var diffCmd = &cobra.Command{
	Use:   "diff OLD NEW",
	Short: "Compare two editions of a document",
	Long:  "Compares two document JSON files structurally, or two text files with --text.",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		text, _ := cmd.Flags().GetBool("text")
		granularity, _ := cmd.Flags().GetString("granularity")

		if text {
			oldText, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			newText, err := os.ReadFile(args[1])
			if err != nil {
				return err
			}
			segments := versioning.DiffText(string(oldText), string(newText), versioning.ParseGranularity(granularity))
			return printJSON(cmd.OutOrStdout(), segments)
		}

		oldDoc, err := readDocument(args[0])
		if err != nil {
			return err
		}
		newDoc, err := readDocument(args[1])
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), versioning.DiffVersions(oldDoc, newDoc))
	},
}

// custody command
var custodyCmd = &cobra.Command{
	Use:   "custody FILE",
	Short: "Compute or verify the custody record of an edition",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mimeType, _ := cmd.Flags().GetString("mime")
		verify, _ := cmd.Flags().GetString("verify")
		secret, _ := cmd.Flags().GetString("seal-secret")
		documentID, _ := cmd.Flags().GetString("document")

		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading input: %w", err)
		}
		if mimeType == "" {
			mimeType = mimeTypeOf(args[0])
		}

		tracker := lineage.NewTracker(lineage.TrackerConfig{ComputeMD5: true})

		if verify != "" {
			result := tracker.ValidateIntegrity(data, domain.DigitalCustody{SHA256Hash: verify, FileSize: int64(len(data)), MimeType: mimeType})
			if err := printJSON(cmd.OutOrStdout(), result); err != nil {
				return err
			}
			if !result.Valid {
				return fmt.Errorf("%w: %s", domain.ErrIntegrity, args[0])
			}
			return nil
		}

		custody := tracker.ComputeCustody(data, mimeType)
		if secret != "" {
			if documentID == "" {
				documentID = filepath.Base(args[0])
			}
			sealer, err := lineage.NewSealer(secret, nil)
			if err != nil {
				return err
			}
			if custody.Seal, err = sealer.Seal(documentID, custody); err != nil {
				return fmt.Errorf("sealing custody: %w", err)
			}
		}
		return printJSON(cmd.OutOrStdout(), custody)
	},
}

// source command
var sourceCmd = &cobra.Command{
	Use:   "source URL",
	Short: "Score how trustworthy a source URL is",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		loc, err := loadLocale(cmd)
		if err != nil {
			return err
		}
		tracker := lineage.NewTracker(lineage.TrackerConfig{Locale: loc})
		return printJSON(cmd.OutOrStdout(), tracker.ValidateSource(args[0]))
	},
}

// search command
var searchCmd = &cobra.Command{
	Use:   "search QUERY CHUNKS.json",
	Short: "Rank chunks lexically against a query",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		data, err := os.ReadFile(args[1])
		if err != nil {
			return fmt.Errorf("reading chunks: %w", err)
		}
		var chunks []*domain.LegalChunk
		if err := json.Unmarshal(data, &chunks); err != nil {
			return fmt.Errorf("parsing %s: %w", args[1], err)
		}

		query := args[0]
		ranked := make([]*domain.RankedChunk, 0, len(chunks))
		for _, c := range chunks {
			score := scoring.RelevanceSortScore(query, c)
			if score <= 0 {
				continue
			}
			ranked = append(ranked, &domain.RankedChunk{Chunk: c, Score: score})
		}
		sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Score > ranked[j].Score })
		if limit > 0 && len(ranked) > limit {
			ranked = ranked[:limit]
		}

		for _, r := range ranked {
			fmt.Fprintf(cmd.OutOrStdout(), "%6.2f  %s\n", r.Score, r.Chunk.ID)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("locale", "", "Locale table (.yaml or .toml); defaults to Mexican Spanish")

	parseCmd.Flags().String("tree", "", "Build a content tree with this document ID")

	chunkCmd.Flags().Int("max-size", chunking.DefaultMaxChunkSize, "Maximum chunk size in characters")
	chunkCmd.Flags().Int("overlap", chunking.DefaultOverlapSize, "Overlap between chunks")
	chunkCmd.Flags().Bool("window", false, "Use the sliding-window strategy")
	chunkCmd.Flags().Bool("dedup", false, "Drop near-duplicate windows")

	diffCmd.Flags().Bool("text", false, "Diff plain text files")
	diffCmd.Flags().StringP("granularity", "g", "line", "Text diff granularity (line or word)")

	custodyCmd.Flags().String("mime", "", "MIME type (guessed from the extension when empty)")
	custodyCmd.Flags().String("verify", "", "Expected SHA-256 hash")
	custodyCmd.Flags().String("seal-secret", "", "Sign the custody record with this secret")
	custodyCmd.Flags().String("document", "", "Document ID for the seal (default: file name)")

	searchCmd.Flags().IntP("limit", "n", 10, "Maximum results")

	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(chunkCmd)
	rootCmd.AddCommand(diffCmd)
	rootCmd.AddCommand(custodyCmd)
	rootCmd.AddCommand(sourceCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(corpusCmd)
}
