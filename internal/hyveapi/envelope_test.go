package hyveapi

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/simp-lee/hyve-admin/internal/domain"
)

func asAppError(err error, target **domain.AppError) bool {
	return errors.As(err, target)
}

type item struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func TestDecodeList(t *testing.T) {
	body := []byte(`{"data":[{"id":"1","name":"a"},{"id":"2","name":"b"}],"totalCount":12,"currentPage":2,"totalPages":6}`)
	got, err := DecodeList[item](body, domain.ListQuery{Page: 2, PageSize: 2})
	if err != nil {
		t.Fatalf("DecodeList() error = %v", err)
	}
	if len(got.Items) != 2 || got.Items[1].Name != "b" {
		t.Errorf("Items = %+v", got.Items)
	}
	if got.TotalCount != 12 || got.CurrentPage != 2 || got.TotalPages != 6 {
		t.Errorf("paging = %d/%d/%d, want 12/2/6", got.TotalCount, got.CurrentPage, got.TotalPages)
	}
}

func TestDecodeList_DerivesMissingPaging(t *testing.T) {
	body := []byte(`{"data":[{"id":"1"}],"totalCount":21}`)
	got, err := DecodeList[item](body, domain.ListQuery{Page: 3, PageSize: 10})
	if err != nil {
		t.Fatalf("DecodeList() error = %v", err)
	}
	if got.CurrentPage != 3 || got.TotalPages != 3 {
		t.Errorf("paging = page %d of %d, want 3 of 3", got.CurrentPage, got.TotalPages)
	}
}

func TestDecodeList_Malformed(t *testing.T) {
	tests := map[string]string{
		"not json":     `<html>`,
		"missing data": `{"items":[]}`,
		"wrong shape":  `{"data":{"id":"1"}}`,
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := DecodeList[item]([]byte(body), domain.ListQuery{}); !domain.IsInternal(err) {
				t.Errorf("DecodeList() error = %v, want internal", err)
			}
		})
	}
}

func TestDecodeItem(t *testing.T) {
	tests := map[string]string{
		"data envelope":    `{"data":{"id":"7","name":"x"}}`,
		"success envelope": `{"success":true,"message":"ok","data":{"id":"7","name":"x"}}`,
		"bare object":      `{"id":"7","name":"x"}`,
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := DecodeItem[item]([]byte(body))
			if err != nil {
				t.Fatalf("DecodeItem() error = %v", err)
			}
			if got.ID != "7" || got.Name != "x" {
				t.Errorf("DecodeItem() = %+v", got)
			}
		})
	}
	if _, err := DecodeItem[item]([]byte(`nope`)); !domain.IsInternal(err) {
		t.Errorf("DecodeItem(garbage) error = %v, want internal", err)
	}
}

func TestListParams(t *testing.T) {
	q := domain.ListQuery{
		Page: 1, PageSize: 25, SortKey: "hourlyRate", SortDirection: domain.SortAsc,
		Search:  "ana",
		Filters: map[string]string{"experienceLevel": "EXPERT", "status": ""},
	}
	v := ListParams(q)
	want := map[string]string{"page": "1", "limit": "25", "sortBy": "hourlyRate", "sortOrder": "asc", "search": "ana", "experienceLevel": "EXPERT"}
	for k, w := range want {
		if got := v.Get(k); got != w {
			t.Errorf("%s = %q, want %q", k, got, w)
		}
	}
	if v.Has("status") {
		t.Error("empty filter should be omitted")
	}
	if ListParams(domain.ListQuery{}).Has("sortBy") {
		t.Error("sortBy should be omitted without a sort key")
	}
}

func TestList_SendsQuery(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("page"); got != "1" {
			t.Errorf("page = %q, want 1", got)
		}
		if got := r.URL.Query().Get("experienceLevel"); got != "EXPERT" {
			t.Errorf("experienceLevel = %q, want EXPERT", got)
		}
		writeJSON(w, http.StatusOK, map[string]any{"data": []item{{ID: "1"}}, "totalCount": 1, "currentPage": 1, "totalPages": 1})
	}, nil)

	res, err := List[item](context.Background(), c, "/admin/freelancers", domain.ListQuery{
		Page: 1, PageSize: 10, Filters: map[string]string{"experienceLevel": "EXPERT"},
	})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(res.Items) != 1 {
		t.Errorf("Items = %+v", res.Items)
	}
}
