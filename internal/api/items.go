package api

import (
	"net/http"

	"shareit/internal/models"
)

func (s *HTTPServer) handleCreateItem(w http.ResponseWriter, r *http.Request, userID int64) {
	var body createItemRequest
	if !s.readBody(w, r, &body) {
		return
	}

	item := &models.Item{
		Name:        *body.Name,
		Description: *body.Description,
		Available:   *body.Available,
		RequestID:   body.RequestID,
	}

	created, err := s.svc.Items.CreateItem(r.Context(), userID, item)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toItemResponse(created))
}

func (s *HTTPServer) handleUpdateItem(w http.ResponseWriter, r *http.Request, userID int64) {
	itemID, ok := pathID(w, r, "itemId")
	if !ok {
		return
	}
	var body updateItemRequest
	if !s.readBody(w, r, &body) {
		return
	}

	patch := models.ItemPatch{Name: body.Name, Description: body.Description, Available: body.Available}
	item, err := s.svc.Items.UpdateItem(r.Context(), userID, itemID, patch)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toItemResponse(item))
}

func (s *HTTPServer) handleGetItem(w http.ResponseWriter, r *http.Request, userID int64) {
	itemID, ok := pathID(w, r, "itemId")
	if !ok {
		return
	}
	view, err := s.svc.Items.GetItem(r.Context(), userID, itemID)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toItemViewResponse(view))
}

func (s *HTTPServer) handleListOwnerItems(w http.ResponseWriter, r *http.Request, userID int64) {
	views, err := s.svc.Items.ListOwnerItems(r.Context(), userID)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toItemViewResponses(views))
}

func (s *HTTPServer) handleSearchItems(w http.ResponseWriter, r *http.Request, userID int64) {
	items, err := s.svc.Items.Search(r.Context(), userID, r.URL.Query().Get("text"))
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	out := make([]itemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, toItemResponse(item))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *HTTPServer) handleSearchListings(w http.ResponseWriter, r *http.Request, userID int64) {
	views, err := s.svc.Items.SearchListings(r.Context(), userID, r.URL.Query().Get("text"))
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toItemViewResponses(views))
}

func (s *HTTPServer) handleCreateComment(w http.ResponseWriter, r *http.Request, userID int64) {
	itemID, ok := pathID(w, r, "itemId")
	if !ok {
		return
	}
	var body commentRequest
	if !s.readBody(w, r, &body) {
		return
	}

	comment, err := s.svc.Items.CreateComment(r.Context(), userID, itemID, body.Text)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toCommentResponse(comment))
}

func toItemViewResponses(views []*models.ItemView) []itemViewResponse {
	out := make([]itemViewResponse, 0, len(views))
	for _, v := range views {
		out = append(out, toItemViewResponse(v))
	}
	return out
}
