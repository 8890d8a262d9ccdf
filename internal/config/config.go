package config

import (
	"os"
	"strconv"
	"time"
)

const (
	TRACE_ID_KEY = "traceId"

	RATE_LIMIT_PER_SECOND       = 5
	BURST_RATE_LIMIT_PER_SECOND = 10

	//serverTimeouts
	ReadTimeout            = 5 * time.Second
	WriteTimeout           = 60 * time.Second //generation calls can be slow
	IdleTimeout            = 120 * time.Second
	ShutdownContextTimeout = 10 * time.Second

	//server listening port
	ServerListenAddr = ":8000"

	//vectorDB
	CollectionName                      = "catalogue"
	EmbeddingOutputDimensionality int32 = 768
	QdrantGrpcPort                      = 6334
	QdrantUseTLS                        = false
	QdrantPoolSize                      = 1

	//models
	GeminiModelName      = "gemini-2.5-flash-lite-preview-09-2025"
	GoogleEmbeddingModel = "gemini-embedding-001"
	//any OpenAI-compatible endpoint works here; Ollama exposes one at /v1
	DefaultOpenAIBaseURL    = "http://localhost:11434/v1"
	DefaultOpenAIChatModel  = "llama3.1"
	DefaultOpenAIEmbedModel = "nomic-embed-text"

	ModelContext = "You are a helpful assistant that answers questions using the provided document excerpts. " +
		"Cite the numbered sources inline like [1], [2] and keep answers concise."

	//retrieval
	DefaultTopK = 4
	MaxTopK     = 20
	MinQueryLen = 2

	//ingestion
	BatchSize     = 32
	ChunkSize     = 900
	ChunkOverlap  = 150
	MinTextLength = 200

	//downloads
	DownloadReadChunk = 256 * 1024
	DownloadTimeout   = 60 * time.Second
	ScrapeTimeout     = 45 * time.Second
	DefaultMaxMB      = 80

	//http client pooling
	MaxIdleConns        = 50
	MaxIdleConnsPerHost = 25
	IdleConnTimeout     = 60 * time.Second
)

// EnvOr reads an environment variable with a fallback.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func EnvIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

// QdrantHost returns the qdrant grpc host, QDRANT_HOST env or localhost.
func QdrantHost() string {
	return EnvOr("QDRANT_HOST", "localhost")
}

func QdrantPort() int {
	return EnvIntOr("QDRANT_PORT", QdrantGrpcPort)
}

// Provider selects the model backend: "gemini" (default) or "openai".
func Provider() string {
	return EnvOr("MODEL_PROVIDER", "gemini")
}

// DataDir is where downloaded full-text files land during ingestion.
func DataDir() string {
	return EnvOr("DATA_DIR", "data")
}
