package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/matthewbaird/roster/internal/types"
)

// RemoteStore speaks the employees REST contract: paged, filtered,
// sorted, and counted server-side.
type RemoteStore struct {
	BaseURL string
	Client  *http.Client
}

// NewRemoteStore builds a client for the API at baseURL.
func NewRemoteStore(baseURL string) *RemoteStore {
	return &RemoteStore{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// RemoteError carries the server's detail message, surfaced verbatim
// to the user.
type RemoteError struct {
	Status int
	Detail string
}

func (e *RemoteError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("request failed with status %d", e.Status)
}

// IsNotFound reports whether err is a remote or local not-found.
func IsNotFound(err error) bool {
	if errors.Is(err, ErrNotFound) {
		return true
	}
	var re *RemoteError
	if errors.As(err, &re) {
		return re.Status == http.StatusNotFound
	}
	return false
}

func (s *RemoteStore) do(ctx context.Context, method, path string, query url.Values, body io.Reader, contentType string, out any) error {
	u := s.BaseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := s.Client.Do(req)
	if err != nil {
		return fmt.Errorf("calling %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeRemoteError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s response: %w", path, err)
	}
	return nil
}

func decodeRemoteError(resp *http.Response) error {
	var payload struct {
		Detail string `json:"detail"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&payload)
	return &RemoteError{Status: resp.StatusCode, Detail: payload.Detail}
}

func filterValues(filters types.Filters) url.Values {
	vals := url.Values{}
	for k, v := range filters {
		if v != "" {
			vals.Set(k, v)
		}
	}
	return vals
}

func (s *RemoteStore) List(ctx context.Context, q types.ListQuery) ([]types.Record, error) {
	vals := filterValues(q.Filters)
	vals.Set("skip", strconv.Itoa(q.Offset()))
	vals.Set("limit", strconv.Itoa(q.Limit()))
	if q.Sort.Key != "" {
		vals.Set("sortBy", q.Sort.Key)
		vals.Set("sortDirection", string(q.Sort.Direction))
	}
	var recs []types.Record
	if err := s.do(ctx, http.MethodGet, "/employees", vals, nil, "", &recs); err != nil {
		return nil, err
	}
	return recs, nil
}

func (s *RemoteStore) Count(ctx context.Context, filters types.Filters) (int, error) {
	var payload struct {
		Total int `json:"total"`
	}
	if err := s.do(ctx, http.MethodGet, "/employees/count", filterValues(filters), nil, "", &payload); err != nil {
		return 0, err
	}
	return payload.Total, nil
}

func (s *RemoteStore) Get(ctx context.Context, id string) (types.Record, error) {
	var rec types.Record
	if err := s.do(ctx, http.MethodGet, "/employees/"+url.PathEscape(id), nil, nil, "", &rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *RemoteStore) Create(ctx context.Context, data types.Record) (types.Record, error) {
	body, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	var rec types.Record
	if err := s.do(ctx, http.MethodPost, "/employees", nil, bytes.NewReader(body), "application/json", &rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *RemoteStore) Update(ctx context.Context, id string, data types.Record) (types.Record, error) {
	body, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	var rec types.Record
	if err := s.do(ctx, http.MethodPut, "/employees/"+url.PathEscape(id), nil, bytes.NewReader(body), "application/json", &rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *RemoteStore) Delete(ctx context.Context, id string) error {
	return s.do(ctx, http.MethodDelete, "/employees/"+url.PathEscape(id), nil, nil, "", nil)
}

// BulkImportFile uploads a file to the bulk import endpoint and
// returns the server's created/updated report.
func (s *RemoteStore) BulkImportFile(ctx context.Context, filename string, content io.Reader) (types.ImportReport, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return types.ImportReport{}, err
	}
	if _, err := io.Copy(part, content); err != nil {
		return types.ImportReport{}, err
	}
	if err := mw.Close(); err != nil {
		return types.ImportReport{}, err
	}

	var report types.ImportReport
	if err := s.do(ctx, http.MethodPost, "/employees/bulk-import-file", nil, &buf, mw.FormDataContentType(), &report); err != nil {
		return types.ImportReport{}, err
	}
	return report, nil
}

// ExportExcel downloads the server-rendered spreadsheet for the active
// filters.
func (s *RemoteStore) ExportExcel(ctx context.Context, filters types.Filters) ([]byte, error) {
	u := s.BaseURL + "/employees/export-excel"
	if vals := filterValues(filters); len(vals) > 0 {
		u += "?" + vals.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling export-excel: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, decodeRemoteError(resp)
	}
	return io.ReadAll(resp.Body)
}

// DashboardSummary fetches the aggregated dashboard payload.
func (s *RemoteStore) DashboardSummary(ctx context.Context) (types.DashboardSummary, error) {
	var summary types.DashboardSummary
	err := s.do(ctx, http.MethodGet, "/dashboard-summary", nil, nil, "", &summary)
	return summary, err
}
