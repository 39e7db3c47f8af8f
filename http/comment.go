package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/jbekker/capescout"
)

func (s *Server) handleCommentList(w http.ResponseWriter, r *http.Request) {
	propertyID := chi.URLParam(r, "propertyID")

	// Listing comments for a missing property is a 404, same as
	// fetching the property itself.
	if _, err := s.PropertyService.FindPropertyByID(r.Context(), propertyID); err != nil {
		s.Error(w, r, err)
		return
	}

	comments, err := s.CommentService.FindCommentsByPropertyID(r.Context(), propertyID)
	if err != nil {
		s.Error(w, r, err)
		return
	}
	if comments == nil {
		comments = []*capescout.Comment{}
	}
	render.JSON(w, r, map[string]any{"total": len(comments), "comments": comments})
}

func (s *Server) handleCommentCreate(w http.ResponseWriter, r *http.Request) {
	var c capescout.Comment
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		s.Error(w, r, capescout.Errorf(capescout.EINVALID, "invalid JSON body"))
		return
	}
	c.PropertyID = chi.URLParam(r, "propertyID")

	if err := s.CommentService.CreateComment(r.Context(), &c); err != nil {
		s.Error(w, r, err)
		return
	}
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, &c)
}

func (s *Server) handleCommentLike(w http.ResponseWriter, r *http.Request) {
	likes, err := s.CommentService.LikeComment(r.Context(), chi.URLParam(r, "commentID"))
	if err != nil {
		s.Error(w, r, err)
		return
	}
	render.JSON(w, r, map[string]any{"total_likes": likes})
}
