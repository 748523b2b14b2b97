package hyveapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/simp-lee/hyve-admin/internal/domain"
)

type listEnvelope[T any] struct {
	Data        []T  `json:"data"`
	TotalCount  *int `json:"totalCount"`
	CurrentPage *int `json:"currentPage"`
	TotalPages  *int `json:"totalPages"`
}

type itemEnvelope struct {
	Data json.RawMessage `json:"data"`
}

func malformed(err error) error {
	return domain.NewAppError(domain.CodeInternal, "the HYVE API returned an unexpected response", err)
}

// DecodeList decodes a list envelope fetched with q. Missing paging fields
// are derived from q and the item count.
func DecodeList[T any](body []byte, q domain.ListQuery) (domain.ListResult[T], error) {
	var env listEnvelope[T]
	if err := json.Unmarshal(body, &env); err != nil {
		return domain.ListResult[T]{}, malformed(fmt.Errorf("decode list: %w", err))
	}
	if env.Data == nil && !bytes.Contains(body, []byte(`"data"`)) {
		return domain.ListResult[T]{}, malformed(fmt.Errorf("decode list: missing data"))
	}

	total := len(env.Data)
	if env.TotalCount != nil {
		total = *env.TotalCount
	}
	result := domain.NewListResult(env.Data, total, q)
	if env.CurrentPage != nil {
		result.CurrentPage = *env.CurrentPage
	}
	if env.TotalPages != nil {
		result.TotalPages = *env.TotalPages
	} else if q.PageSize <= 0 && total > 0 {
		result.TotalPages = 1
	}
	return result, nil
}

// DecodeItem decodes {"data": T}. A body without a data member is decoded as
// T itself.
func DecodeItem[T any](body []byte) (*T, error) {
	var env itemEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, malformed(fmt.Errorf("decode item: %w", err))
	}
	raw := env.Data
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		raw = body
	}
	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, malformed(fmt.Errorf("decode item: %w", err))
	}
	return &out, nil
}

// ListParams encodes q as list endpoint query parameters. Empty filters are
// omitted.
func ListParams(q domain.ListQuery) url.Values {
	v := url.Values{}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.PageSize > 0 {
		v.Set("limit", strconv.Itoa(q.PageSize))
	}
	if q.SortKey != "" {
		v.Set("sortBy", q.SortKey)
		v.Set("sortOrder", string(q.SortDirection))
	}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	for key, value := range q.Filters {
		if value != "" {
			v.Set(key, value)
		}
	}
	return v
}

// List fetches one page of the collection at path.
func List[T any](ctx context.Context, c *Client, path string, q domain.ListQuery) (domain.ListResult[T], error) {
	body, err := c.Get(ctx, path, ListParams(q))
	if err != nil {
		return domain.ListResult[T]{}, err
	}
	return DecodeList[T](body, q)
}

// Item fetches a single resource.
func Item[T any](ctx context.Context, c *Client, path string) (*T, error) {
	body, err := c.Get(ctx, path, nil)
	if err != nil {
		return nil, err
	}
	return DecodeItem[T](body)
}

// Send issues a mutation and decodes the resource it returns.
func Send[T any](ctx context.Context, c *Client, method, path string, payload any) (*T, error) {
	body, err := c.Do(ctx, method, path, nil, payload)
	if err != nil {
		return nil, err
	}
	return DecodeItem[T](body)
}
