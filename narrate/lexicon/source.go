package lexicon

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/dgnsrekt/scriptcast/narrate"
)

// Header synonyms accepted for the two lexicon columns, matched
// case-insensitively after trimming.
var (
	termHeaders   = []string{"term", "word", "original", "text"}
	spokenHeaders = []string{"spoken", "pronunciation", "replacement", "reading"}
)

// CSVSource fetches term/spoken pairs from a tabular resource, either an
// http(s) URL or a local file path.
type CSVSource struct {
	location string
	client   *http.Client
}

// NewCSVSource creates a source for the given location. A nil client uses
// http.DefaultClient for URL locations.
func NewCSVSource(location string, client *http.Client) *CSVSource {
	if client == nil {
		client = http.DefaultClient
	}
	return &CSVSource{location: location, client: client}
}

// Fetch retrieves and parses the lexicon. Network and file errors map to
// ErrSourceUnavailable; data that cannot be parsed into term/spoken pairs
// maps to ErrMalformedSource.
func (s *CSVSource) Fetch(ctx context.Context) ([]Term, error) {
	if s.location == "" {
		return nil, fmt.Errorf("%w: no lexicon source configured", narrate.ErrSourceUnavailable)
	}

	r, err := s.open(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Close() //nolint:errcheck

	terms, err := ParseCSV(r)
	if err != nil {
		return nil, err
	}
	return terms, nil
}

func (s *CSVSource) open(ctx context.Context) (io.ReadCloser, error) {
	if strings.HasPrefix(s.location, "http://") || strings.HasPrefix(s.location, "https://") {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.location, nil)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", narrate.ErrSourceUnavailable, err)
		}
		resp, err := s.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", narrate.ErrSourceUnavailable, err)
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close() //nolint:errcheck
			return nil, fmt.Errorf("%w: HTTP status %d from %s",
				narrate.ErrSourceUnavailable, resp.StatusCode, s.location)
		}
		return resp.Body, nil
	}

	f, err := os.Open(s.location)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", narrate.ErrSourceUnavailable, err)
	}
	return f, nil
}

// ParseCSV reads term/spoken pairs from CSV data. The first row must be a
// header naming the two columns (synonyms accepted); remaining rows supply
// one pair each. Rows with empty term or spoken cells are skipped.
func ParseCSV(r io.Reader) ([]Term, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: empty lexicon data", narrate.ErrMalformedSource)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", narrate.ErrMalformedSource, err)
	}

	termCol, spokenCol, err := resolveColumns(header)
	if err != nil {
		return nil, err
	}

	var terms []Term
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", narrate.ErrMalformedSource, err)
		}
		if len(row) <= termCol || len(row) <= spokenCol {
			continue
		}

		term := strings.TrimSpace(row[termCol])
		spoken := strings.TrimSpace(row[spokenCol])
		if term == "" || spoken == "" {
			continue
		}
		terms = append(terms, Term{Term: term, Spoken: spoken})
	}

	return terms, nil
}

func resolveColumns(header []string) (termCol, spokenCol int, err error) {
	termCol, spokenCol = -1, -1
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(name))
		if termCol < 0 && matchesAny(name, termHeaders) {
			termCol = i
			continue
		}
		if spokenCol < 0 && matchesAny(name, spokenHeaders) {
			spokenCol = i
		}
	}

	if termCol < 0 || spokenCol < 0 {
		return 0, 0, fmt.Errorf("%w: header must name a term column and a spoken column",
			narrate.ErrMalformedSource)
	}
	return termCol, spokenCol, nil
}

func matchesAny(name string, candidates []string) bool {
	for _, c := range candidates {
		if name == c {
			return true
		}
	}
	return false
}
