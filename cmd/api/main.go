// @title           Catalogue Chat API
// @version         1.0
// @description     Question answering over harvested catalogue records.

// @host      localhost:8000
// @BasePath  /
// @schemes   http https
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"cataloguechat/internal/config"
	"cataloguechat/internal/handlers"
	"cataloguechat/internal/rag"
	"cataloguechat/internal/rag/embedding"
	"cataloguechat/internal/rag/embedding/googleEmbedding"
	"cataloguechat/internal/rag/embedding/openaiEmbedding"
	"cataloguechat/internal/rag/llm"
	"cataloguechat/internal/rag/llm/gemini"
	"cataloguechat/internal/rag/llm/openaiChat"
	"cataloguechat/internal/rag/vectorDB/qdrantDB"
	"cataloguechat/internal/server"
	"cataloguechat/pkg/logging"
)

var listenAddr string

func main() {
	_ = godotenv.Load()
	logging.Init()
	logger := logging.NewLogger("main")

	flag.StringVar(&listenAddr, "listen-addr", config.ServerListenAddr, "server listen address")
	flag.Parse()

	ctx := context.Background()

	// a failed pipeline keeps the server up; /rag answers 503 until restart
	svc, initErr := buildService(ctx)
	if initErr != nil {
		logger.Error("RAG pipeline failed to initialize, serving degraded", "error", initErr)
	}
	handler := handlers.NewRagHandler(svc, initErr)

	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)
	stopExecution := make(chan bool, 1)

	go server.CreateServer(listenAddr, handler)
	go server.ShutDownHandler(gracefulShutdown, stopExecution)

	<-stopExecution
	logger.Info("Server stopped")
}

func buildService(ctx context.Context) (rag.Service, error) {
	vectorDB, err := qdrantDB.NewClient(config.QdrantHost(), config.QdrantPort())
	if err != nil {
		return nil, err
	}

	var embedder embedding.Embedder
	var provider llm.Provider

	switch config.Provider() {
	case "openai":
		baseURL := config.EnvOr("OPENAI_BASE_URL", config.DefaultOpenAIBaseURL)
		apiKey := os.Getenv("OPENAI_API_KEY")
		embedder = openaiEmbedding.NewClient(baseURL, apiKey, config.EnvOr("OPENAI_EMBED_MODEL", config.DefaultOpenAIEmbedModel))
		provider = openaiChat.NewClient(baseURL, apiKey, config.EnvOr("OPENAI_CHAT_MODEL", config.DefaultOpenAIChatModel))
	case "gemini":
		apiKey := os.Getenv("GEMINI_API_KEY")
		embedder, err = googleEmbedding.NewClient(ctx, config.GoogleEmbeddingModel, apiKey)
		if err != nil {
			return nil, err
		}
		provider, err = gemini.NewClient(ctx, config.GeminiModelName, apiKey)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown MODEL_PROVIDER %q", config.Provider())
	}

	return rag.NewService(vectorDB, provider, embedder, config.CollectionName), nil
}
