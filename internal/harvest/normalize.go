package harvest

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Record is the normalized shape every harvested item is reduced to,
// whatever metadata schema the repository served.
type Record struct {
	OAIIdentifier string
	ID            string //DOI when present, else the OAI header identifier
	Title         string
	Creators      string //"; " joined
	Subjects      string //"; " joined
	Description   string
	Date          string
	URL           string
}

// Zenodo serves DataCite (kernel-3 or kernel-4); most other repositories only
// speak oai_dc. Matching is by namespace URI so the repository's choice of
// prefix doesn't matter; the bare-prefix entries cover re-parsed fragments
// where the declaration lived on a stripped ancestor.
func isDataCite(space string) bool {
	return strings.Contains(space, "datacite.org/schema") || space == "d" || space == "datacite"
}

func isDublinCore(space string) bool {
	return strings.Contains(space, "purl.org/dc/elements") || space == "dc"
}

type collected struct {
	oaiID string

	dciteTitle    string
	dciteCreators []string
	dciteSubjects []string
	dciteDesc     string
	dciteYear     string
	dciteURL      string
	dciteDOI      string

	dcTitle       string
	dcCreators    []string
	dcSubjects    []string
	dcDesc        string
	dcDate        string
	dcIdentifiers []string
}

// Normalize parses one raw OAI-PMH record and applies the schema-fallback
// rules: DataCite paths first, Dublin Core second, field by field. Malformed
// XML returns an error; the caller is expected to drop the record and move on.
func Normalize(raw []byte) (*Record, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, errors.New("empty record")
	}

	type frame struct {
		space string
		local string
		attrs []xml.Attr
		text  *strings.Builder
	}

	var stack []frame
	var c collected

	dec := xml.NewDecoder(bytes.NewReader(raw))
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse record xml: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			stack = append(stack, frame{space: t.Name.Space, local: t.Name.Local, attrs: t.Attr, text: &strings.Builder{}})
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].text.Write(t)
			}
		case xml.EndElement:
			if len(stack) == 0 {
				return nil, errors.New("unbalanced record xml")
			}
			el := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			parent := ""
			if len(stack) > 0 {
				parent = stack[len(stack)-1].local
			}
			c.collect(el.space, el.local, parent, el.attrs, strings.TrimSpace(el.text.String()))
		}
	}
	if len(stack) != 0 {
		return nil, errors.New("unbalanced record xml")
	}

	return c.toRecord(), nil
}

func (c *collected) collect(space, local, parent string, attrs []xml.Attr, text string) {
	if local == "identifier" && parent == "header" && c.oaiID == "" {
		c.oaiID = text
		return
	}

	switch {
	case isDataCite(space):
		switch local {
		case "title":
			if c.dciteTitle == "" {
				c.dciteTitle = text
			}
		case "creatorName":
			c.dciteCreators = append(c.dciteCreators, text)
		case "subject":
			c.dciteSubjects = append(c.dciteSubjects, text)
		case "description":
			if c.dciteDesc == "" {
				c.dciteDesc = text
			}
		case "publicationYear":
			if c.dciteYear == "" {
				c.dciteYear = text
			}
		case "identifier":
			switch attrValue(attrs, "identifierType") {
			case "URL":
				if c.dciteURL == "" {
					c.dciteURL = text
				}
			case "DOI":
				if c.dciteDOI == "" {
					c.dciteDOI = text
				}
			}
		}
	case isDublinCore(space):
		switch local {
		case "title":
			if c.dcTitle == "" {
				c.dcTitle = text
			}
		case "creator":
			c.dcCreators = append(c.dcCreators, text)
		case "subject":
			c.dcSubjects = append(c.dcSubjects, text)
		case "description":
			if c.dcDesc == "" {
				c.dcDesc = text
			}
		case "date":
			if c.dcDate == "" {
				c.dcDate = text
			}
		case "identifier":
			c.dcIdentifiers = append(c.dcIdentifiers, text)
		}
	}
}

func attrValue(attrs []xml.Attr, name string) string {
	for _, a := range attrs {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

func (c *collected) toRecord() *Record {
	rec := &Record{OAIIdentifier: c.oaiID}

	rec.Title = firstNonEmpty(c.dciteTitle, c.dcTitle)
	rec.Description = firstNonEmpty(c.dciteDesc, c.dcDesc)
	rec.Date = firstNonEmpty(c.dciteYear, c.dcDate)

	creators := c.dciteCreators
	if len(creators) == 0 {
		creators = c.dcCreators
	}
	rec.Creators = joinNames(creators)

	subjects := c.dciteSubjects
	if len(subjects) == 0 {
		subjects = c.dcSubjects
	}
	rec.Subjects = joinNames(subjects)

	rec.URL = c.dciteURL
	if rec.URL == "" {
		// dc:identifier values are a grab bag; take the first URL-looking one
		for _, id := range c.dcIdentifiers {
			if strings.HasPrefix(id, "http") {
				rec.URL = id
				break
			}
		}
	}

	rec.ID = firstNonEmpty(c.dciteDOI, c.oaiID)
	return rec
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func joinNames(vals []string) string {
	var kept []string
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			kept = append(kept, v)
		}
	}
	return strings.Join(kept, "; ")
}
