package catalog

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// SheetSource reads the menu sheet through its CSV export URL
// (e.g. https://docs.google.com/spreadsheets/d/<id>/export?format=csv&gid=<gid>).
// The first row must be a header containing the four catalog columns.
type SheetSource struct {
	URL    string
	Client *http.Client
}

func NewSheetSource(url string, client *http.Client) *SheetSource {
	if client == nil {
		client = http.DefaultClient
	}
	return &SheetSource{URL: url, Client: client}
}

func (s *SheetSource) Fetch(ctx context.Context) ([]Record, error) {
	if strings.TrimSpace(s.URL) == "" {
		return nil, errors.New("sheet url is empty")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/csv")

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("sheet export returned %d", resp.StatusCode)
	}
	return readCSV(resp.Body)
}

func readCSV(r io.Reader) ([]Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	for _, col := range []string{ColCategory, ColItemName, ColPrice, ColAvailability} {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("missing column %q", col)
		}
	}

	cell := func(row []string, col string) string {
		i := idx[col]
		if i >= len(row) {
			return ""
		}
		return row[i]
	}

	var out []Record
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		out = append(out, Record{
			Category:     cell(row, ColCategory),
			ItemName:     cell(row, ColItemName),
			Price:        cell(row, ColPrice),
			Availability: cell(row, ColAvailability),
		})
	}
	return out, nil
}
