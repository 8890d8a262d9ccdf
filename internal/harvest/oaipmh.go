package harvest

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"cataloguechat/internal/metrics"
	"cataloguechat/pkg/logging"
)

// Params configures one ListRecords harvest.
type Params struct {
	Endpoint       string
	MetadataPrefix string
	Set            string
	From           string //passed through verbatim, repositories differ on granularity
	Until          string
	Limit          int //<=0 means no limit
}

// Cursor walks a remote ListRecords stream one record at a time, following
// resumption tokens transparently and stopping at the configured limit.
// Records that fail to normalize are skipped. A cursor is single-use: each
// harvest run opens a fresh one.
type Cursor struct {
	client  *http.Client
	params  Params
	logger  *logging.Logger
	pending [][]byte
	pos     int
	token   string
	started bool
	done    bool
	yielded int
}

func NewCursor(client *http.Client, params Params) *Cursor {
	return &Cursor{
		client: client,
		params: params,
		logger: logging.NewLogger("Harvest Cursor"),
	}
}

// Next returns the next normalized record, or io.EOF when the stream is
// exhausted or the limit is reached.
func (c *Cursor) Next(ctx context.Context) (*Record, error) {
	for {
		if c.params.Limit > 0 && c.yielded >= c.params.Limit {
			return nil, io.EOF
		}

		if c.pos < len(c.pending) {
			raw := c.pending[c.pos]
			c.pos++
			rec, err := Normalize(raw)
			if err != nil {
				// best-effort policy: upstream repositories are not fully
				// schema-conformant, a bad record never kills the harvest
				c.logger.Debug("Dropping unparsable record", "error", err)
				continue
			}
			c.yielded++
			metrics.IncrementRecordsHarvested()
			return rec, nil
		}

		if c.done {
			return nil, io.EOF
		}
		if err := c.fetchPage(ctx); err != nil {
			return nil, err
		}
	}
}

func (c *Cursor) fetchPage(ctx context.Context) error {
	q := url.Values{}
	q.Set("verb", "ListRecords")
	if !c.started {
		q.Set("metadataPrefix", c.params.MetadataPrefix)
		if c.params.Set != "" {
			q.Set("set", c.params.Set)
		}
		if c.params.From != "" {
			q.Set("from", c.params.From)
		}
		if c.params.Until != "" {
			q.Set("until", c.params.Until)
		}
	} else {
		q.Set("resumptionToken", c.token)
	}
	c.started = true

	reqURL := c.params.Endpoint + "?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("build harvest request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("harvest request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("harvest endpoint returned %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read harvest response: %w", err)
	}

	var page struct {
		Error struct {
			Code string `xml:"code,attr"`
			Text string `xml:",chardata"`
		} `xml:"error"`
		ListRecords struct {
			Records []struct {
				Inner []byte `xml:",innerxml"`
			} `xml:"record"`
			ResumptionToken string `xml:"resumptionToken"`
		} `xml:"ListRecords"`
	}
	if err := xml.Unmarshal(body, &page); err != nil {
		return fmt.Errorf("parse harvest response: %w", err)
	}

	if page.Error.Code != "" {
		if page.Error.Code == "noRecordsMatch" {
			c.logger.Info("No records matched the harvest window")
			c.pending, c.pos, c.done = nil, 0, true
			return nil
		}
		return fmt.Errorf("oai-pmh error %s: %s", page.Error.Code, strings.TrimSpace(page.Error.Text))
	}

	c.pending = c.pending[:0]
	c.pos = 0
	for _, r := range page.ListRecords.Records {
		c.pending = append(c.pending, r.Inner)
	}

	c.token = strings.TrimSpace(page.ListRecords.ResumptionToken)
	c.done = c.token == ""
	c.logger.Debug("Fetched harvest page", "records", len(c.pending), "more", !c.done)
	return nil
}
