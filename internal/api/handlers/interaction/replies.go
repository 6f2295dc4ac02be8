package interaction

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"Loom/internal/api/handlers/common"
	"Loom/internal/api/middleware"
	"Loom/internal/core/replies"
)

type replyRequest struct {
	ParentID string `json:"parentId"`
	Content  string `json:"content"`
}

// replyNode is the nested JSON shape of a reply thread.
type replyNode struct {
	*replies.Reply
	Replies []*replyNode `json:"replies"`
}

func toNodes(roots []*replies.Node) []*replyNode {
	out := make([]*replyNode, 0, len(roots))
	for _, n := range roots {
		out = append(out, &replyNode{Reply: n.Reply, Replies: toNodes(n.Children)})
	}
	return out
}

// CreateReply handles POST /api/posts/{postId}/replies. An empty parentId
// creates a top-level reply.
func (h *Handler) CreateReply(w http.ResponseWriter, r *http.Request) {
	var req replyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.WriteProblem(w, r, h.logger, http.StatusBadRequest, "invalid request body")
		return
	}

	reply, err := h.replies.Create(
		r.Context(),
		chi.URLParam(r, "postId"),
		req.ParentID,
		middleware.GetUserID(r.Context()),
		req.Content,
	)
	if err != nil {
		h.writeReplyError(w, r, err)
		return
	}
	common.WriteJSON(w, h.logger, http.StatusCreated, reply)
}

// UpdateReply handles PUT /api/posts/{postId}/replies/{replyId}.
func (h *Handler) UpdateReply(w http.ResponseWriter, r *http.Request) {
	var req replyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.WriteProblem(w, r, h.logger, http.StatusBadRequest, "invalid request body")
		return
	}

	reply, err := h.replies.Update(
		r.Context(),
		chi.URLParam(r, "replyId"),
		middleware.GetUserID(r.Context()),
		req.Content,
	)
	if err != nil {
		h.writeReplyError(w, r, err)
		return
	}
	common.WriteJSON(w, h.logger, http.StatusOK, reply)
}

// DeleteReply handles DELETE /api/posts/{postId}/replies/{replyId}. The
// whole subtree goes with it.
func (h *Handler) DeleteReply(w http.ResponseWriter, r *http.Request) {
	err := h.replies.Delete(r.Context(), chi.URLParam(r, "replyId"), middleware.GetUserID(r.Context()))
	if err != nil {
		h.writeReplyError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetReplies handles GET /api/posts/{postId}/replies, returning the nested
// thread with siblings in creation order.
func (h *Handler) GetReplies(w http.ResponseWriter, r *http.Request) {
	flat, err := h.replies.GetAllByPost(r.Context(), chi.URLParam(r, "postId"))
	if err != nil {
		h.writeReplyError(w, r, err)
		return
	}
	common.WriteJSON(w, h.logger, http.StatusOK, toNodes(replies.BuildTree(flat)))
}
