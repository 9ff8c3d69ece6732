package service

import "sharehub/internal/models"

// BuildThread groups a flat, oldest-first comment list into top-level comments
// with their replies. Replies whose parent is not in the list are dropped.
func BuildThread(comments []*models.Comment) []*models.ThreadComment {
	roots := make([]*models.ThreadComment, 0, len(comments))
	replies := make(map[uint][]*models.Comment)

	for _, c := range comments {
		if c.ParentID == nil {
			roots = append(roots, &models.ThreadComment{Comment: c})
			continue
		}
		replies[*c.ParentID] = append(replies[*c.ParentID], c)
	}

	for _, root := range roots {
		root.Replies = replies[root.ID]
		if root.Replies == nil {
			root.Replies = []*models.Comment{}
		}
	}
	return roots
}
