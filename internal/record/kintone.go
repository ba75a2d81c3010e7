package record

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// kintonePageSize is the largest page the records API returns.
const kintonePageSize = 500

// Field codes read from each kintone record.
const (
	FieldShapeType = "shapeType"
	FieldKey       = "key"
	FieldLength    = "length"
	FieldWidth     = "width"
	FieldDepth     = "depth"
)

// KintoneField is one field of a kintone REST record: {"type": "...", "value": ...}.
type KintoneField struct {
	Type  string `json:"type"`
	Value any    `json:"value"`
}

// KintoneRecord is a record as returned by /k/v1/records.json.
type KintoneRecord map[string]KintoneField

// KintoneResponse is the body of GET /k/v1/records.json.
type KintoneResponse struct {
	Records    []KintoneRecord `json:"records"`
	TotalCount *string         `json:"totalCount"`
}

// Kintone fetches shape records from a kintone app (or the local record server) over REST.
type Kintone struct {
	baseURL  string
	appID    int
	apiToken string
	client   *http.Client
}

// NewKintone returns a Source reading app appID from baseURL (e.g. https://example.cybozu.com).
// apiToken is sent as X-Cybozu-API-Token when non-empty.
func NewKintone(baseURL string, appID int, apiToken string) *Kintone {
	return &Kintone{
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		appID:    appID,
		apiToken: apiToken,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

// Fetch pages through every record of the app in $id order.
func (k *Kintone) Fetch(ctx context.Context) ([]ShapeRecord, error) {
	var out []ShapeRecord
	for offset := 0; ; offset += kintonePageSize {
		page, total, err := k.fetchPage(ctx, offset)
		if err != nil {
			return nil, err
		}
		for _, r := range page {
			out = append(out, r.ShapeRecord())
		}
		if len(page) < kintonePageSize || (total >= 0 && len(out) >= total) {
			return out, nil
		}
	}
}

func (k *Kintone) fetchPage(ctx context.Context, offset int) ([]KintoneRecord, int, error) {
	q := url.Values{}
	q.Set("app", strconv.Itoa(k.appID))
	q.Set("query", fmt.Sprintf("order by $id asc limit %d offset %d", kintonePageSize, offset))
	q.Set("totalCount", "true")
	u := k.baseURL + "/k/v1/records.json?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("record: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if k.apiToken != "" {
		req.Header.Set("X-Cybozu-API-Token", k.apiToken)
	}
	resp, err := k.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("record: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, 0, fmt.Errorf("record: kintone: %s", resp.Status)
	}
	var body KintoneResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, 0, fmt.Errorf("record: kintone: decode: %w", err)
	}
	total := -1
	if body.TotalCount != nil {
		if n, err := strconv.Atoi(*body.TotalCount); err == nil {
			total = n
		}
	}
	return body.Records, total, nil
}

// ShapeRecord converts the kintone fields into a ShapeRecord. Missing fields become empty strings.
// The record key falls back to the built-in $id field.
func (r KintoneRecord) ShapeRecord() ShapeRecord {
	key := r.str(FieldKey)
	if key == "" {
		key = r.str("$id")
	}
	return ShapeRecord{
		ShapeType: r.str(FieldShapeType),
		Key:       key,
		Length:    r.str(FieldLength),
		Width:     r.str(FieldWidth),
		Depth:     r.str(FieldDepth),
	}
}

func (r KintoneRecord) str(code string) string {
	f, ok := r[code]
	if !ok || f.Value == nil {
		return ""
	}
	switch v := f.Value.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

// NewKintoneRecord builds the REST representation of rec, as the record server sends it.
func NewKintoneRecord(id string, rec ShapeRecord) KintoneRecord {
	return KintoneRecord{
		"$id":          {Type: "__ID__", Value: id},
		FieldShapeType: {Type: "DROP_DOWN", Value: rec.ShapeType},
		FieldKey:       {Type: "SINGLE_LINE_TEXT", Value: rec.Key},
		FieldLength:    {Type: "NUMBER", Value: rec.Length},
		FieldWidth:     {Type: "NUMBER", Value: rec.Width},
		FieldDepth:     {Type: "NUMBER", Value: rec.Depth},
	}
}
