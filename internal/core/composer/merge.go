package composer

import (
	"Loom/internal/rpc"
)

// summaryArena holds the user summaries for one composition. Every record in
// the final document that references a user borrows the same entry, so the
// batch response is shared without cloning. Lookup of an unknown id returns
// a stable empty summary for that id.
type summaryArena struct {
	summaries map[string]*rpc.UserSummary
}

func newSummaryArena(batch *rpc.BatchUsersSummary) *summaryArena {
	arena := &summaryArena{summaries: make(map[string]*rpc.UserSummary)}
	if batch != nil {
		for _, summary := range batch.Users {
			arena.summaries[summary.ID] = summary
		}
	}
	return arena
}

func (a *summaryArena) lookup(userID string) *rpc.UserSummary {
	if summary, ok := a.summaries[userID]; ok {
		return summary
	}
	summary := &rpc.UserSummary{ID: userID}
	a.summaries[userID] = summary
	return summary
}

func (a *summaryArena) lookupAll(userIDs []string) []*rpc.UserSummary {
	result := make([]*rpc.UserSummary, len(userIDs))
	for i, id := range userIDs {
		result[i] = a.lookup(id)
	}
	return result
}

// collectUserIDs walks every post author and, recursively, every reply
// author in the interaction entries, returning the deduplicated union.
func collectUserIDs(postList []*rpc.Post, interactions map[string]*rpc.PostInteraction, extra ...string) []string {
	seen := make(map[string]struct{})
	var ids []string
	add := func(id string) {
		if id == "" {
			return
		}
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	for _, post := range postList {
		add(post.UserID)
	}
	var walk func([]*rpc.Reply)
	walk = func(rs []*rpc.Reply) {
		for _, r := range rs {
			add(r.UserID)
			walk(r.Replies)
		}
	}
	for _, inter := range interactions {
		walk(inter.Replies)
	}
	for _, id := range extra {
		add(id)
	}
	return ids
}

// indexInteractions keys a batch response by post id. Nil entries are
// skipped; absent posts fall back to the zero value at merge time.
func indexInteractions(batch *rpc.BatchPostInteractions) map[string]*rpc.PostInteraction {
	index := make(map[string]*rpc.PostInteraction)
	if batch == nil {
		return index
	}
	for _, inter := range batch.Interactions {
		if inter != nil {
			index[inter.PostID] = inter
		}
	}
	return index
}

// composePost joins one post with its interaction entry and the arena. A
// missing interaction entry defaults to zero likes, zero views, no replies.
func composePost(post *rpc.Post, inter *rpc.PostInteraction, arena *summaryArena) *ComposedPost {
	if inter == nil {
		inter = rpc.ZeroInteraction(post.ID)
	}
	return &ComposedPost{
		ID:             post.ID,
		Text:           post.Text,
		Files:          post.Files,
		CreatedAt:      post.CreatedAt,
		UpdatedAt:      post.UpdatedAt,
		Likes:          inter.Likes,
		Views:          inter.Views,
		UserInteracted: inter.UserInteracted,
		User:           arena.lookup(post.UserID),
		Replies:        composeReplies(inter.Replies, arena),
	}
}

func composeReplies(wire []*rpc.Reply, arena *summaryArena) []*ComposedReply {
	result := make([]*ComposedReply, 0, len(wire))
	for _, r := range wire {
		result = append(result, &ComposedReply{
			ID:             r.ID,
			PostID:         r.PostID,
			ParentID:       r.ParentID,
			Content:        r.Content,
			CreatedAt:      r.CreatedAt,
			Likes:          r.Likes,
			Views:          r.Views,
			UserInteracted: r.UserInteracted,
			User:           arena.lookup(r.UserID),
			Replies:        composeReplies(r.Replies, arena),
		})
	}
	return result
}
