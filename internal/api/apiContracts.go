package api

// requests---------------------

type ChatRequest struct {
	Query string `json:"query" validate:"required" example:"What datasets cover ocean temperature?"`
	K     int    `json:"k,omitempty" example:"4"`
}

// responses--------------------

type Source struct {
	Title    string `json:"title"`
	RecordID string `json:"record_id"`
	URL      string `json:"url,omitempty"`
	Label    string `json:"label,omitempty"`
	Chunk    int    `json:"chunk"`
}

type Hit struct {
	Text   string  `json:"text"`
	Score  float64 `json:"score"`
	Source Source  `json:"source"`
}

type ChatResponse struct {
	Query    string `json:"query"`
	Answer   string `json:"answer"`
	Contexts []Hit  `json:"contexts"`
}

type HealthResponse struct {
	Ok bool `json:"ok" example:"true"`
}

// ErrorResponse is the single error envelope every non-2xx reply uses.
type ErrorResponse struct {
	Detail string `json:"detail" example:"Bad Request"`
}
