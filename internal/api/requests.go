package api

import (
	"net/http"

	"shareit/internal/models"
)

func (s *HTTPServer) handleCreateRequest(w http.ResponseWriter, r *http.Request, userID int64) {
	var body itemRequestRequest
	if !s.readBody(w, r, &body) {
		return
	}

	req, err := s.svc.Requests.CreateRequest(r.Context(), userID, body.Description)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toItemRequestResponse(req, nil))
}

func (s *HTTPServer) handleListOwnRequests(w http.ResponseWriter, r *http.Request, userID int64) {
	views, err := s.svc.Requests.ListOwnRequests(r.Context(), userID)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toItemRequestResponses(views))
}

func (s *HTTPServer) handleListOtherRequests(w http.ResponseWriter, r *http.Request, userID int64) {
	views, err := s.svc.Requests.ListOtherRequests(r.Context(), userID)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toItemRequestResponses(views))
}

func (s *HTTPServer) handleGetRequest(w http.ResponseWriter, r *http.Request, userID int64) {
	requestID, ok := pathID(w, r, "requestId")
	if !ok {
		return
	}
	view, err := s.svc.Requests.GetRequest(r.Context(), userID, requestID)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toItemRequestResponse(&view.ItemRequest, view.Items))
}

func toItemRequestResponses(views []*models.ItemRequestView) []itemRequestResponse {
	out := make([]itemRequestResponse, 0, len(views))
	for _, v := range views {
		out = append(out, toItemRequestResponse(&v.ItemRequest, v.Items))
	}
	return out
}
