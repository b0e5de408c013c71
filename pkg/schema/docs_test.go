package schema

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeDoc(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

const transactionsDoc = `
TransactionListView:
  GET:
    operationId: listTransactions
    summary: List transactions
    description: Paged transaction listing.
    x-code-samples:
      - lang: shell
        label: curl
        source: curl http://api.test/transactions/
TransferView:
  POST:
    summary: Execute a transfer
    deprecated: true
`

func TestDocs_Lookup(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "transactions.yaml", transactionsDoc)
	writeDoc(t, dir, "notes.txt", "ignored")

	docs := NewDocs(testLogger(), dir)

	o, ok := docs.Lookup("TransactionListView", "GET")
	if !ok {
		t.Fatal("override not found")
	}
	if o.OperationID != "listTransactions" {
		t.Errorf("OperationID = %q", o.OperationID)
	}
	if len(o.CodeSamples) != 1 || o.CodeSamples[0].Lang != "shell" {
		t.Errorf("CodeSamples = %+v", o.CodeSamples)
	}

	if _, ok := docs.Lookup("TransactionListView", "DELETE"); ok {
		t.Error("unexpected override for DELETE")
	}
	if _, ok := docs.Lookup("UnknownView", "GET"); ok {
		t.Error("unexpected override for unknown view")
	}
}

func TestDocs_MissingDirAndBadYAML(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "bad.yaml", "{not yaml: [")
	writeDoc(t, dir, "good.yaml", "V:\n  GET:\n    summary: ok\n")

	docs := NewDocs(testLogger(), filepath.Join(dir, "missing"), dir)
	if o, ok := docs.Lookup("V", "GET"); !ok || o.Summary != "ok" {
		t.Errorf("good file not loaded: %+v ok=%v", o, ok)
	}
}

func TestDocs_LaterFilesWin(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "a.yaml", "V:\n  GET:\n    summary: first\n")
	writeDoc(t, dir, "b.yaml", "V:\n  GET:\n    summary: second\n")

	docs := NewDocs(testLogger(), dir)
	o, _ := docs.Lookup("V", "GET")
	if o.Summary != "second" {
		t.Errorf("Summary = %q, want later file to win", o.Summary)
	}
}

func TestDocs_Apply(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "transactions.yaml", transactionsDoc)
	docs := NewDocs(testLogger(), dir)

	ops := []Operation{
		{Method: "GET", Status: 200, Summary: "described"},
		{Method: "POST", Status: 201},
	}
	out := docs.Apply("TransactionListView", ops)
	if out[0].Summary != "List transactions" {
		t.Errorf("Summary = %q, want override", out[0].Summary)
	}
	if out[0].Status != 200 {
		t.Errorf("Status = %d, want described value kept", out[0].Status)
	}
	if out[1].Summary != "" {
		t.Errorf("POST Summary = %q, want untouched", out[1].Summary)
	}
	if ops[0].Summary != "described" {
		t.Error("Apply mutated its input")
	}
}
