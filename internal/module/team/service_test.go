package team

import (
	"context"
	"net/http"
	"testing"

	"github.com/simp-lee/hyve-admin/internal/domain"
	"github.com/simp-lee/hyve-admin/internal/hyveapi/hyveapitest"
)

func TestService_ListDecodesTeams(t *testing.T) {
	srv, api := hyveapitest.New(t, hyveapitest.Page([]domain.Team{{ID: "t1", Name: "Core", MemberCount: 4}}, 1, 1, 1))
	got, err := NewService(api).List(context.Background(), domain.ListQuery{Page: 1, PageSize: 10, Filters: map[string]string{"status": domain.TeamActive}})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(got.Items) != 1 || got.Items[0].MemberCount != 4 {
		t.Errorf("List() = %+v", got)
	}
	if q := srv.Last(t).Query; q.Get("status") != "ACTIVE" {
		t.Errorf("status param = %q", q.Get("status"))
	}
}

func TestService_Update(t *testing.T) {
	tests := []struct {
		name    string
		in      domain.TeamUpdate
		wantErr bool
	}{
		{"valid", domain.TeamUpdate{Name: "Core", Status: domain.TeamInactive}, false},
		{"blank name", domain.TeamUpdate{Name: " ", Status: domain.TeamActive}, true},
		{"unknown status", domain.TeamUpdate{Name: "Core", Status: "ARCHIVED"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, api := hyveapitest.New(t, hyveapitest.Data(domain.Team{ID: "t1", Name: tt.in.Name}))
			_, err := NewService(api).Update(context.Background(), "t1", tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Update() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if len(srv.Requests()) != 0 {
					t.Error("invalid update reached the API")
				}
				return
			}
			if req := srv.Last(t); req.Method != http.MethodPatch || req.Path != "/admin/teams/t1" {
				t.Errorf("request = %s %s", req.Method, req.Path)
			}
		})
	}
}

func TestService_DeleteForbidden(t *testing.T) {
	_, api := hyveapitest.New(t, hyveapitest.Fail(http.StatusForbidden, "only admins can disband teams"))
	err := NewService(api).Delete(context.Background(), "t1")
	if !domain.IsForbidden(err) || domain.UserMessage(err, "") != "only admins can disband teams" {
		t.Errorf("Delete() error = %v", err)
	}
}
