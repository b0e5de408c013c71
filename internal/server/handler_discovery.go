package server

import (
	"net/http"

	"github.com/me/restkit/pkg/envelope"
	"github.com/me/restkit/pkg/schema"
)

// operationInfo is the wire form of one described view method.
type operationInfo struct {
	Method      string `json:"method"`
	Status      int    `json:"status"`
	Request     string `json:"request,omitempty"`
	Response    string `json:"response,omitempty"`
	List        bool   `json:"list,omitempty"`
	Paginated   bool   `json:"paginated,omitempty"`
	Minimal     bool   `json:"minimal,omitempty"`
	OperationID string `json:"operation_id,omitempty"`
	Summary     string `json:"summary,omitempty"`
	Description string `json:"description,omitempty"`
	Deprecated  bool   `json:"deprecated,omitempty"`
}

type endpointInfo struct {
	Path        string          `json:"path"`
	Description string          `json:"description"`
	Operations  []operationInfo `json:"operations"`
}

type discoveryResponse struct {
	Name        string         `json:"name"`
	Version     string         `json:"version"`
	Description string         `json:"description"`
	Endpoints   []endpointInfo `json:"endpoints"`
}

// describe records an endpoint for the discovery listing. view keys the
// documentation overrides applied to its operations.
func (s *Server) describe(path, description, view string, ops []schema.Operation) {
	info := endpointInfo{Path: path, Description: description}
	for _, op := range s.docs.Apply(view, ops) {
		info.Operations = append(info.Operations, operationInfo{
			Method:      op.Method,
			Status:      op.Status,
			Request:     op.Request,
			Response:    op.Response,
			List:        op.List,
			Paginated:   op.Paginated,
			Minimal:     op.Minimal,
			OperationID: op.OperationID,
			Summary:     op.Summary,
			Description: op.Description,
			Deprecated:  op.Deprecated,
		})
	}
	s.endpoints = append(s.endpoints, info)
}

func (s *Server) handleDiscovery(w http.ResponseWriter, r *http.Request) {
	envelope.Write(w, http.StatusOK, discoveryResponse{
		Name:        "restkit ledger API",
		Version:     "v1",
		Description: "Accounts, transactions and transfers behind the enveloped response convention",
		Endpoints:   s.endpoints,
	})
}
