package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"cataloguechat/internal/config"
	"cataloguechat/internal/harvest"
	"cataloguechat/internal/httpclient"
	"cataloguechat/internal/ingest"
	"cataloguechat/internal/rag/embedding"
	"cataloguechat/internal/rag/embedding/googleEmbedding"
	"cataloguechat/internal/rag/embedding/openaiEmbedding"
	"cataloguechat/internal/rag/vectorDB/qdrantDB"
	"cataloguechat/pkg/logging"
)

var (
	flagConfig string
	flagSource string
	flagSince  string
	flagUntil  string
	flagLimit  int
)

var rootCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Harvest catalogue records and load them into the vector store",
	Long: `Harvests records from a configured OAI-PMH source, builds metadata
summaries (plus full text where enabled), chunks them and embeds the
chunks into the qdrant collection the API serves answers from.`,
	RunE: runIngest,
}

func init() {
	rootCmd.Flags().StringVar(&flagConfig, "config", "sources.yaml", "path to the sources config file")
	rootCmd.Flags().StringVar(&flagSource, "source", "", "name of the source to harvest")
	rootCmd.Flags().StringVar(&flagSince, "since", "", "harvest records updated on or after this date (YYYY-MM-DD)")
	rootCmd.Flags().StringVar(&flagUntil, "until", "", "harvest records updated on or before this date (YYYY-MM-DD)")
	rootCmd.Flags().IntVar(&flagLimit, "limit", 50, "maximum records to ingest, 0 for no limit")
	_ = rootCmd.MarkFlagRequired("source")
}

func main() {
	_ = godotenv.Load()
	logging.Init()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runIngest(cmd *cobra.Command, args []string) error {
	logger := logging.NewLogger("ingest")

	sources, err := config.LoadSources(flagConfig)
	if err != nil {
		return err
	}
	source, err := sources.FindSource(flagSource)
	if err != nil {
		return err
	}

	// a signal mid-run cancels the context; the current batch either lands
	// or fails whole, and deterministic ids make the re-run idempotent
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	vectorDB, err := qdrantDB.NewClient(config.QdrantHost(), config.QdrantPort())
	if err != nil {
		return err
	}
	defer vectorDB.Close()

	embedder, err := buildEmbedder(ctx)
	if err != nil {
		return err
	}

	if err := vectorDB.EnsureCollection(ctx, config.CollectionName); err != nil {
		return fmt.Errorf("ensure collection: %w", err)
	}

	cursor := harvest.NewCursor(httpclient.New(config.ScrapeTimeout), harvest.Params{
		Endpoint:       source.Endpoint,
		MetadataPrefix: source.MetadataPrefix,
		Set:            source.Set,
		From:           flagSince,
		Until:          flagUntil,
		Limit:          flagLimit,
	})

	batcher := ingest.NewBatcher(embedder, vectorDB, config.CollectionName, config.BatchSize)
	pipeline := ingest.NewPipeline(batcher, httpclient.New(config.DownloadTimeout), ingest.FulltextOptions{
		Enabled:        source.Fulltext.Enabled,
		AllowedDomains: source.Fulltext.AllowedDomains,
		MaxMB:          source.Fulltext.MaxMB,
	}, filepath.Join(config.DataDir(), "raw"))

	total, err := pipeline.Run(ctx, cursor)
	if err != nil {
		return fmt.Errorf("ingestion run failed after %d chunks: %w", total, err)
	}

	logger.Info("Ingestion finished", "source", source.Name, "chunks", total)
	cmd.Printf("Ingested %d chunks from %s\n", total, source.Name)
	return nil
}

func buildEmbedder(ctx context.Context) (embedding.Embedder, error) {
	switch config.Provider() {
	case "openai":
		baseURL := config.EnvOr("OPENAI_BASE_URL", config.DefaultOpenAIBaseURL)
		return openaiEmbedding.NewClient(baseURL, os.Getenv("OPENAI_API_KEY"), config.EnvOr("OPENAI_EMBED_MODEL", config.DefaultOpenAIEmbedModel)), nil
	case "gemini":
		return googleEmbedding.NewClient(ctx, config.GoogleEmbeddingModel, os.Getenv("GEMINI_API_KEY"))
	default:
		return nil, fmt.Errorf("unknown MODEL_PROVIDER %q", config.Provider())
	}
}
