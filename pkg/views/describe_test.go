package views

import (
	"net/http"
	"strings"
	"testing"

	"github.com/me/restkit/pkg/pagination"
	"github.com/me/restkit/pkg/serializer"
)

func TestDescribe(t *testing.T) {
	repo := &accountRepo{}
	cfg := Config[account]{Default: serializer.JSON[account]{}}

	list, err := NewList(cfg, repo, &Paginators[account]{
		Page: &pagination.PageNumber[account]{PageSize: 10},
	})
	if err != nil {
		t.Fatalf("NewList: %v", err)
	}
	ops := list.Describe()
	if len(ops) != 1 {
		t.Fatalf("ops = %d, want 1", len(ops))
	}
	if ops[0].Method != http.MethodGet || !ops[0].List || !ops[0].Paginated {
		t.Errorf("list op = %+v", ops[0])
	}
	if !strings.Contains(ops[0].Response, "JSON") {
		t.Errorf("Response = %q, want serializer name", ops[0].Response)
	}
	if strings.Contains(ops[0].Response, "/") {
		t.Errorf("Response = %q carries import paths", ops[0].Response)
	}

	destroy, err := NewDestroy(cfg, repo, repo)
	if err != nil {
		t.Fatalf("NewDestroy: %v", err)
	}
	ops = destroy.Describe()
	if ops[0].Status != http.StatusOK || !ops[0].Minimal {
		t.Errorf("destroy op = %+v", ops[0])
	}

	update, err := NewUpdate(cfg, repo, repo)
	if err != nil {
		t.Fatalf("NewUpdate: %v", err)
	}
	ops = update.Describe()
	if len(ops) != 2 {
		t.Fatalf("update ops = %d, want PUT and PATCH", len(ops))
	}
}
