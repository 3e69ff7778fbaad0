package services

import "github.com/socialite-app/backend/internal/models"

// BuildCommentTree assembles flat comment rows into a parent -> children
// forest. Two passes: the first indexes every node by id, the second
// attaches each node to its parent when that parent is part of the batch.
// A node whose declared parent is absent (excluded by pagination, for
// example) is promoted to a root rather than dropped. Children keep the
// input order; nothing is re-sorted.
func BuildCommentTree(comments []models.Comment) []*models.Comment {
	nodes := make([]*models.Comment, len(comments))
	index := make(map[string]*models.Comment, len(comments))
	for i := range comments {
		node := &comments[i]
		node.Children = nil
		nodes[i] = node
		index[node.ID.String()] = node
	}

	var roots []*models.Comment
	for _, node := range nodes {
		if node.ParentID != nil {
			if parent, ok := index[node.ParentID.String()]; ok {
				parent.Children = append(parent.Children, node)
				continue
			}
		}
		roots = append(roots, node)
	}
	return roots
}
