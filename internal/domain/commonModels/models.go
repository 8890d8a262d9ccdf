package commonModels

// ChunkMeta is the payload stored alongside every chunk vector. It is a fixed
// shape rather than a free-form map so the retrieval contract stays checkable;
// payload keys we don't recognise land in Extra instead of being dropped.
type ChunkMeta struct {
	RecordID string `json:"record_id"`
	Title    string `json:"title"`
	Label    string `json:"label"` //"metadata" or the source filename
	URL      string `json:"url"`
	Chunk    int    `json:"chunk"` //0-based index within the labelled text source
	Extra    map[string]string
}

// SearchHit is one scored retrieval result. Score is the backend's relevance
// signal (cosine similarity with qdrant, higher is better) surfaced as-is;
// swapping store backends means renormalising here.
type SearchHit struct {
	Text  string
	Score float32
	Meta  ChunkMeta
}
