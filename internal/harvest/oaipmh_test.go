package harvest

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func oaiRecord(id string) string {
	return fmt.Sprintf(`<record>
  <header><identifier>%s</identifier></header>
  <metadata>
    <oai_dc:dc xmlns:oai_dc="http://www.openarchives.org/OAI/2.0/oai_dc/"
               xmlns:dc="http://purl.org/dc/elements/1.1/">
      <dc:title>Title for %s</dc:title>
    </oai_dc:dc>
  </metadata>
</record>`, id, id)
}

func oaiPage(token string, records ...string) string {
	body := ""
	for _, r := range records {
		body += r
	}
	tokenEl := ""
	if token != "" {
		tokenEl = "<resumptionToken>" + token + "</resumptionToken>"
	}
	return fmt.Sprintf(`<?xml version="1.0"?>
<OAI-PMH xmlns="http://www.openarchives.org/OAI/2.0/">
  <ListRecords>%s%s</ListRecords>
</OAI-PMH>`, body, tokenEl)
}

func drain(t *testing.T, c *Cursor) []*Record {
	t.Helper()
	var recs []*Record
	for {
		rec, err := c.Next(context.Background())
		if err == io.EOF {
			return recs
		}
		require.NoError(t, err)
		recs = append(recs, rec)
	}
}

func TestCursor_FollowsResumptionToken(t *testing.T) {
	var tokens []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := r.URL.Query().Get("resumptionToken")
		tokens = append(tokens, token)
		switch token {
		case "":
			assert.Equal(t, "ListRecords", r.URL.Query().Get("verb"))
			assert.Equal(t, "oai_dc", r.URL.Query().Get("metadataPrefix"))
			assert.Equal(t, "2024-01-01", r.URL.Query().Get("from"))
			fmt.Fprint(w, oaiPage("page-2", oaiRecord("oai:t:1"), oaiRecord("oai:t:2")))
		case "page-2":
			// resumption requests must not repeat the initial arguments
			assert.Empty(t, r.URL.Query().Get("metadataPrefix"))
			fmt.Fprint(w, oaiPage("", oaiRecord("oai:t:3")))
		default:
			t.Errorf("unexpected token %q", token)
		}
	}))
	defer srv.Close()

	c := NewCursor(srv.Client(), Params{
		Endpoint:       srv.URL,
		MetadataPrefix: "oai_dc",
		From:           "2024-01-01",
	})
	recs := drain(t, c)

	require.Len(t, recs, 3)
	assert.Equal(t, "oai:t:1", recs[0].ID)
	assert.Equal(t, "oai:t:3", recs[2].ID)
	assert.Equal(t, []string{"", "page-2"}, tokens)
}

func TestCursor_StopsAtLimit(t *testing.T) {
	pages := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pages++
		fmt.Fprint(w, oaiPage("more", oaiRecord("oai:t:1"), oaiRecord("oai:t:2"), oaiRecord("oai:t:3")))
	}))
	defer srv.Close()

	c := NewCursor(srv.Client(), Params{Endpoint: srv.URL, MetadataPrefix: "oai_dc", Limit: 2})
	recs := drain(t, c)

	assert.Len(t, recs, 2)
	assert.Equal(t, 1, pages)
}

func TestCursor_SkipsUnparsableRecords(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// middle record has no content at all; it fails to normalize and
		// must not abort the harvest
		fmt.Fprint(w, oaiPage("",
			oaiRecord("oai:t:1"),
			"<record></record>",
			oaiRecord("oai:t:2"),
		))
	}))
	defer srv.Close()

	c := NewCursor(srv.Client(), Params{Endpoint: srv.URL, MetadataPrefix: "oai_dc"})
	recs := drain(t, c)

	require.Len(t, recs, 2)
	assert.Equal(t, "oai:t:1", recs[0].ID)
	assert.Equal(t, "oai:t:2", recs[1].ID)
}

func TestCursor_NoRecordsMatchIsEmptyNotError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<?xml version="1.0"?>
<OAI-PMH xmlns="http://www.openarchives.org/OAI/2.0/">
  <error code="noRecordsMatch">no records</error>
</OAI-PMH>`)
	}))
	defer srv.Close()

	c := NewCursor(srv.Client(), Params{Endpoint: srv.URL, MetadataPrefix: "oai_dc"})
	recs := drain(t, c)
	assert.Empty(t, recs)
}

func TestCursor_ProtocolErrorFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<?xml version="1.0"?>
<OAI-PMH xmlns="http://www.openarchives.org/OAI/2.0/">
  <error code="badArgument">until is malformed</error>
</OAI-PMH>`)
	}))
	defer srv.Close()

	c := NewCursor(srv.Client(), Params{Endpoint: srv.URL, MetadataPrefix: "oai_dc"})
	_, err := c.Next(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "badArgument")
}
