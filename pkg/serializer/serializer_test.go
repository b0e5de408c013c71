package serializer

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

type transferRequest struct {
	Account string `json:"account"`
	Amount  int    `json:"amount"`
	Note    string `json:"note"`
}

func decodeReq(t *testing.T, body string) *http.Request {
	t.Helper()
	return httptest.NewRequest("POST", "/transfers", strings.NewReader(body))
}

func TestJSON_Decode(t *testing.T) {
	s := JSON[transferRequest]{}
	var dst transferRequest
	err := s.Decode(decodeReq(t, `{"account":"acc_1","amount":100}`), &dst)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if dst.Account != "acc_1" || dst.Amount != 100 {
		t.Errorf("decoded = %+v", dst)
	}
}

func TestJSON_Decode_InvalidBody(t *testing.T) {
	s := JSON[transferRequest]{}
	var dst transferRequest
	err := s.Decode(decodeReq(t, `{`), &dst)
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
	if len(vErr.Fields[NonFieldKey]) == 0 {
		t.Errorf("Fields = %v, want non_field_errors entry", vErr.Fields)
	}
}

func TestJSON_Decode_TypeMismatch(t *testing.T) {
	s := JSON[transferRequest]{}
	var dst transferRequest
	err := s.Decode(decodeReq(t, `{"amount":"lots"}`), &dst)
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
	if len(vErr.Fields["amount"]) == 0 {
		t.Errorf("Fields = %v, want amount entry", vErr.Fields)
	}
}

func TestJSON_Decode_PartialMerge(t *testing.T) {
	s := JSON[transferRequest]{}
	dst := transferRequest{Account: "acc_1", Amount: 100, Note: "rent"}
	err := s.Decode(decodeReq(t, `{"amount":250}`), &dst)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if dst.Amount != 250 {
		t.Errorf("Amount = %d, want 250", dst.Amount)
	}
	if dst.Account != "acc_1" || dst.Note != "rent" {
		t.Errorf("untouched fields lost: %+v", dst)
	}
}

func TestJSON_Validate(t *testing.T) {
	s := JSON[transferRequest]{
		Validate: func(v *transferRequest) error {
			if v.Amount <= 0 {
				return NewValidationError("amount", "Must be a positive amount.")
			}
			return nil
		},
	}
	var dst transferRequest
	err := s.Decode(decodeReq(t, `{"account":"acc_1","amount":-5}`), &dst)
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
	if got := vErr.Fields["amount"]; len(got) != 1 || got[0] != "Must be a positive amount." {
		t.Errorf("Fields = %v", vErr.Fields)
	}

	if err := s.Decode(decodeReq(t, `{"amount":10}`), &dst); err != nil {
		t.Errorf("valid payload rejected: %v", err)
	}
}

func TestJSON_Encode(t *testing.T) {
	plain := JSON[transferRequest]{}
	v := transferRequest{Account: "acc_1", Amount: 100}
	got, err := plain.Encode(v)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if got.(transferRequest) != v {
		t.Errorf("Encode = %+v, want value unchanged", got)
	}

	shaped := JSON[transferRequest]{
		Transform: func(v transferRequest) (any, error) {
			return map[string]any{"account": v.Account}, nil
		},
	}
	got, err = shaped.Encode(v)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	m := got.(map[string]any)
	if m["account"] != "acc_1" {
		t.Errorf("Encode = %v", m)
	}
	if _, ok := m["amount"]; ok {
		t.Error("Transform output leaked amount")
	}
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("amount", "Required.").Add("account", "Required.")
	if got := err.Error(); got != "validation failed on account, amount" {
		t.Errorf("Error() = %q", got)
	}
	err.Add("amount", "Must be positive.")
	if len(err.Fields["amount"]) != 2 {
		t.Errorf("Fields = %v", err.Fields)
	}
}
