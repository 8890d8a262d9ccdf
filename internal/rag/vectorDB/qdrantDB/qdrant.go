package qdrantDB

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"

	"cataloguechat/internal/config"
	"cataloguechat/internal/domain/commonModels"
	"cataloguechat/pkg/logging"
)

var dimension = uint64(config.EmbeddingOutputDimensionality)

// payload keys we write; anything else found on a point lands in Meta.Extra
const (
	payloadDocID    = "doc_id"
	payloadContent  = "content"
	payloadRecordID = "record_id"
	payloadTitle    = "title"
	payloadLabel    = "label"
	payloadURL      = "url"
	payloadChunk    = "chunk"
)

type ClientHolder struct {
	QObj   *qdrant.Client
	logger *logging.Logger
}

func NewClient(host string, port int) (*ClientHolder, error) {
	client, err := qdrant.NewClient(&qdrant.Config{
		Host:     host,
		Port:     port,
		UseTLS:   config.QdrantUseTLS,
		PoolSize: uint(config.QdrantPoolSize),
	})
	if err != nil {
		return nil, fmt.Errorf("qdrant client init failed: %w", err)
	}
	return &ClientHolder{
		QObj:   client,
		logger: logging.NewLogger("Qdrant"),
	}, nil
}

func (db *ClientHolder) Close() error {
	return db.QObj.Close()
}

func (db *ClientHolder) EnsureCollection(ctx context.Context, collectionName string) error {
	if collectionName == "" {
		return errors.New("empty collection name")
	}

	exists, err := db.QObj.CollectionExists(ctx, collectionName)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	db.logger.Info("Creating collection", "name", collectionName, "dimension", dimension)
	return db.QObj.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: collectionName,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     dimension,
			Distance: qdrant.Distance_Cosine,
		}),
	})
}

// pointID derives a stable uuid from the composite chunk id. Qdrant only
// accepts uuid or integer point ids, so the "{record}:{label}:{i}" string
// can't be the point id directly; a v5 uuid of it keeps upserts idempotent.
func pointID(docID string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(docID)).String()
}

func (db *ClientHolder) UpsertBatch(ctx context.Context, collectionName string, ids []string, texts []string, vectors [][]float32, metas []commonModels.ChunkMeta) error {
	if len(ids) != len(vectors) || len(ids) != len(texts) || len(ids) != len(metas) {
		return fmt.Errorf("mismatch: %d ids, %d texts, %d vectors, %d metas", len(ids), len(texts), len(vectors), len(metas))
	}

	points := make([]*qdrant.PointStruct, len(ids))
	for i := range ids {
		points[i] = &qdrant.PointStruct{
			Id:      qdrant.NewID(pointID(ids[i])),
			Vectors: qdrant.NewVectors(vectors[i]...),
			Payload: qdrant.NewValueMap(map[string]any{
				payloadDocID:    ids[i],
				payloadContent:  texts[i],
				payloadRecordID: metas[i].RecordID,
				payloadTitle:    metas[i].Title,
				payloadLabel:    metas[i].Label,
				payloadURL:      metas[i].URL,
				payloadChunk:    metas[i].Chunk,
			}),
		}
	}

	_, err := db.QObj.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: collectionName,
		Points:         points,
		Wait:           qdrant.PtrOf(true),
	})
	if err != nil {
		return fmt.Errorf("qdrant upsert failed: %w", err)
	}
	return nil
}

// Search returns the nearest chunks with qdrant's cosine similarity score,
// higher is better, descending.
func (db *ClientHolder) Search(ctx context.Context, collectionName string, vector []float32, limit int) ([]commonModels.SearchHit, error) {
	if limit < 1 {
		limit = 1
	}

	result, err := db.QObj.Query(ctx, &qdrant.QueryPoints{
		CollectionName: collectionName,
		Query:          qdrant.NewQuery(vector...),
		Limit:          qdrant.PtrOf(uint64(limit)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("qdrant query failed: %w", err)
	}

	hits := make([]commonModels.SearchHit, 0, len(result))
	for _, point := range result {
		meta := commonModels.ChunkMeta{
			RecordID: point.Payload[payloadRecordID].GetStringValue(),
			Title:    point.Payload[payloadTitle].GetStringValue(),
			Label:    point.Payload[payloadLabel].GetStringValue(),
			URL:      point.Payload[payloadURL].GetStringValue(),
			Chunk:    int(point.Payload[payloadChunk].GetIntegerValue()),
		}
		for key, val := range point.Payload {
			switch key {
			case payloadDocID, payloadContent, payloadRecordID, payloadTitle, payloadLabel, payloadURL, payloadChunk:
			default:
				if s := val.GetStringValue(); s != "" {
					if meta.Extra == nil {
						meta.Extra = map[string]string{}
					}
					meta.Extra[key] = s
				}
			}
		}
		hits = append(hits, commonModels.SearchHit{
			Text:  point.Payload[payloadContent].GetStringValue(),
			Score: point.GetScore(),
			Meta:  meta,
		})
	}
	return hits, nil
}
