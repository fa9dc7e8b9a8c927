package sheetdb

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"
)

const defaultBaseURL = "https://sheets.googleapis.com/v4/spreadsheets"

// RESTClient talks to the spreadsheet service's v4 REST API. Error bodies
// are surfaced verbatim in returned errors so the cache layer can
// signature-match rate limits ("429", RESOURCE_EXHAUSTED) on the text.
type RESTClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

func NewRESTClient(apiKey string) *RESTClient {
	return &RESTClient{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    defaultBaseURL,
		apiKey:     apiKey,
	}
}

func (c *RESTClient) OpenTable(ctx context.Context, id string) (Table, error) {
	t := &restTable{client: c, id: id}
	if _, err := t.meta(ctx); err != nil {
		return nil, fmt.Errorf("failed to open table %s: %w", id, err)
	}
	return t, nil
}

type sheetMeta struct {
	Title string
	GID   int64
}

type restTable struct {
	client *RESTClient
	id     string
}

func (t *restTable) meta(ctx context.Context) ([]sheetMeta, error) {
	var resp struct {
		Sheets []struct {
			Properties struct {
				SheetID int64  `json:"sheetId"`
				Title   string `json:"title"`
			} `json:"properties"`
		} `json:"sheets"`
	}
	u := fmt.Sprintf("%s/%s?fields=sheets.properties", t.client.baseURL, t.id)
	if err := t.client.do(ctx, http.MethodGet, u, nil, &resp); err != nil {
		return nil, err
	}
	metas := make([]sheetMeta, 0, len(resp.Sheets))
	for _, s := range resp.Sheets {
		metas = append(metas, sheetMeta{Title: s.Properties.Title, GID: s.Properties.SheetID})
	}
	return metas, nil
}

func (t *restTable) ListSubtables(ctx context.Context) ([]string, error) {
	metas, err := t.meta(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(metas))
	for _, m := range metas {
		names = append(names, m.Title)
	}
	return names, nil
}

func (t *restTable) Subtable(name string) Subtable {
	return &restSubtable{table: t, name: name}
}

func (t *restTable) SubtableByID(ctx context.Context, id int64) (Subtable, error) {
	metas, err := t.meta(ctx)
	if err != nil {
		return nil, err
	}
	for _, m := range metas {
		if m.GID == id {
			return &restSubtable{table: t, name: m.Title, gid: m.GID, gidOK: true}, nil
		}
	}
	return nil, fmt.Errorf("%w: gid %d", ErrSubtableNotFound, id)
}

type restSubtable struct {
	table *restTable
	name  string
	gid   int64
	gidOK bool
}

func (s *restSubtable) Name() string { return s.name }

// ensureGID resolves the sheet's numeric id when the handle was obtained
// by name. Dimension operations address sheets by id, not title.
func (s *restSubtable) ensureGID(ctx context.Context) error {
	if s.gidOK {
		return nil
	}
	metas, err := s.table.meta(ctx)
	if err != nil {
		return err
	}
	for _, m := range metas {
		if m.Title == s.name {
			s.gid = m.GID
			s.gidOK = true
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrSubtableNotFound, s.name)
}

func (s *restSubtable) valuesURL(ref string) string {
	rng := s.name
	if ref != "" {
		rng = s.name + "!" + ref
	}
	return fmt.Sprintf("%s/%s/values/%s", s.table.client.baseURL, s.table.id, url.PathEscape(rng))
}

func (s *restSubtable) Rows(ctx context.Context) ([][]string, error) {
	var resp struct {
		Values [][]any `json:"values"`
	}
	if err := s.table.client.do(ctx, http.MethodGet, s.valuesURL(""), nil, &resp); err != nil {
		return nil, err
	}
	rows := make([][]string, len(resp.Values))
	for i, row := range resp.Values {
		rows[i] = make([]string, len(row))
		for j, cell := range row {
			rows[i][j] = fmt.Sprint(cell)
		}
	}
	return rows, nil
}

func (s *restSubtable) Records(ctx context.Context) ([]map[string]string, error) {
	rows, err := s.Rows(ctx)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	headers := rows[0]
	records := make([]map[string]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rec := make(map[string]string, len(headers))
		for i, h := range headers {
			if i < len(row) {
				rec[h] = row[i]
			} else {
				rec[h] = ""
			}
		}
		records = append(records, rec)
	}
	return records, nil
}

func (s *restSubtable) WriteRange(ctx context.Context, ref string, rows [][]string) error {
	body := map[string]any{"values": rows}
	u := s.valuesURL(ref) + "?valueInputOption=USER_ENTERED"
	return s.table.client.do(ctx, http.MethodPut, u, body, nil)
}

func (s *restSubtable) WriteCell(ctx context.Context, row, col int, value string) error {
	return s.WriteRange(ctx, A1(row, col), [][]string{{value}})
}

func (s *restSubtable) AppendRows(ctx context.Context, rows [][]string) error {
	body := map[string]any{"values": rows}
	u := s.valuesURL("A1") + ":append?valueInputOption=USER_ENTERED&insertDataOption=INSERT_ROWS"
	return s.table.client.do(ctx, http.MethodPost, u, body, nil)
}

func (s *restSubtable) InsertRows(ctx context.Context, at int, rows [][]string) error {
	if err := s.ensureGID(ctx); err != nil {
		return err
	}
	insert := map[string]any{
		"insertDimension": map[string]any{
			"range": map[string]any{
				"sheetId":    s.gid,
				"dimension":  "ROWS",
				"startIndex": at - 1,
				"endIndex":   at - 1 + len(rows),
			},
		},
	}
	if err := s.batchUpdate(ctx, insert); err != nil {
		return err
	}
	ref := A1Range(at, 1, at+len(rows)-1, maxRowWidth(rows))
	return s.WriteRange(ctx, ref, rows)
}

func (s *restSubtable) DeleteRows(ctx context.Context, indices []int) error {
	if err := s.ensureGID(ctx); err != nil {
		return err
	}
	// Delete bottom-up so earlier deletions do not shift later indices.
	sorted := append([]int(nil), indices...)
	for i := 0; i < len(sorted); i++ {
		for j := i + 1; j < len(sorted); j++ {
			if sorted[j] > sorted[i] {
				sorted[i], sorted[j] = sorted[j], sorted[i]
			}
		}
	}
	for _, idx := range sorted {
		del := map[string]any{
			"deleteDimension": map[string]any{
				"range": map[string]any{
					"sheetId":    s.gid,
					"dimension":  "ROWS",
					"startIndex": idx - 1,
					"endIndex":   idx,
				},
			},
		}
		if err := s.batchUpdate(ctx, del); err != nil {
			return err
		}
	}
	return nil
}

func (s *restSubtable) FindAll(ctx context.Context, text string) ([]CellRef, error) {
	rows, err := s.Rows(ctx)
	if err != nil {
		return nil, err
	}
	var refs []CellRef
	for i, row := range rows {
		for j, cell := range row {
			if cell == text {
				refs = append(refs, CellRef{Row: i + 1, Col: j + 1})
			}
		}
	}
	return refs, nil
}

func (s *restSubtable) batchUpdate(ctx context.Context, request map[string]any) error {
	body := map[string]any{"requests": []any{request}}
	u := fmt.Sprintf("%s/%s:batchUpdate", s.table.client.baseURL, s.table.id)
	return s.table.client.do(ctx, http.MethodPost, u, body, nil)
}

func maxRowWidth(rows [][]string) int {
	w := 1
	for _, row := range rows {
		if len(row) > w {
			w = len(row)
		}
	}
	return w
}

func (c *RESTClient) do(ctx context.Context, method, rawURL string, body, out any) error {
	if c.apiKey != "" {
		sep := "?"
		if bytes.ContainsRune([]byte(rawURL), '?') {
			sep = "&"
		}
		rawURL = rawURL + sep + "key=" + url.QueryEscape(c.apiKey)
	}

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sheets request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("failed to read sheets response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		log.Debug().Int("status", resp.StatusCode).Str("url", rawURL).Msg("sheets API error")
		// Status and body kept in the error text: the cache layer matches
		// rate-limit signatures on it.
		return fmt.Errorf("sheets API returned %d: %s", resp.StatusCode, string(data))
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("failed to decode sheets response: %w", err)
		}
	}
	return nil
}
