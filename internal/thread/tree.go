package thread

import (
	"routehub-client/internal/domain"
	"routehub-client/internal/dto"
)

// Entry is one node of a flattened thread with its nesting depth (roots are 0)
type Entry struct {
	Node  *domain.CommentNode
	Depth int
}

// visitSet remembers nodes by pointer and by id so that a node reachable twice,
// or a copy of an ancestor carrying the same id, is only visited once.
type visitSet struct {
	ptrs map[*domain.CommentNode]struct{}
	ids  map[string]struct{}
}

func newVisitSet() *visitSet {
	return &visitSet{
		ptrs: make(map[*domain.CommentNode]struct{}),
		ids:  make(map[string]struct{}),
	}
}

// visit marks n and reports whether it was unseen
func (v *visitSet) visit(n *domain.CommentNode) bool {
	if _, ok := v.ptrs[n]; ok {
		return false
	}
	if n.ID != "" {
		if _, ok := v.ids[n.ID]; ok {
			return false
		}
		v.ids[n.ID] = struct{}{}
	}
	v.ptrs[n] = struct{}{}
	return true
}

// Flatten lists the forest depth-first, parents before children, keeping each
// level's sibling order. It never mutates the tree and stops at nodes it has
// already emitted, so cyclic input terminates.
func Flatten(roots []*domain.CommentNode) []Entry {
	out := make([]Entry, 0, len(roots))
	seen := newVisitSet()

	stack := make([]Entry, 0, len(roots))
	for i := len(roots) - 1; i >= 0; i-- {
		if roots[i] != nil {
			stack = append(stack, Entry{Node: roots[i]})
		}
	}

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !seen.visit(top.Node) {
			continue
		}
		out = append(out, top)

		children := top.Node.Children
		for i := len(children) - 1; i >= 0; i-- {
			if children[i] != nil {
				stack = append(stack, Entry{Node: children[i], Depth: top.Depth + 1})
			}
		}
	}
	return out
}

// CountDescendants returns the number of distinct nodes below node at any depth.
// node itself is never counted, even if a cycle leads back to it.
func CountDescendants(node *domain.CommentNode) int {
	if node == nil {
		return 0
	}
	seen := newVisitSet()
	seen.visit(node)

	count := 0
	stack := append([]*domain.CommentNode(nil), node.Children...)
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n == nil || !seen.visit(n) {
			continue
		}
		count++
		stack = append(stack, n.Children...)
	}
	return count
}

// CountNodes returns the number of distinct nodes in the forest
func CountNodes(roots []*domain.CommentNode) int {
	return len(Flatten(roots))
}

// FindNode returns the node with the given id anywhere in the forest
func FindNode(roots []*domain.CommentNode, id string) *domain.CommentNode {
	if id == "" {
		return nil
	}
	for _, e := range Flatten(roots) {
		if e.Node.ID == id {
			return e.Node
		}
	}
	return nil
}

// record is one arena slot: a node and the id of the parent it should hang under
type record struct {
	node     *domain.CommentNode
	parentID string
}

// arena holds every node of a payload by id before the tree is assembled
type arena struct {
	records []*record
	byID    map[string]*record
}

func newArena() *arena {
	return &arena{byID: make(map[string]*record)}
}

// add stores n unless its id is already taken; the first occurrence wins
func (a *arena) add(n *domain.CommentNode, parentID string) bool {
	if _, dup := a.byID[n.ID]; dup {
		return false
	}
	r := &record{node: n, parentID: parentID}
	a.records = append(a.records, r)
	a.byID[n.ID] = r
	return true
}

// assemble groups records by parent in one pass and attaches children in
// delivery order. Records whose parent is unknown become roots. Records left
// unreachable (their parents form a cycle) are promoted to roots with the
// parent link cut, so every node appears exactly once.
func (a *arena) assemble() []*domain.CommentNode {
	buckets := make(map[string][]*record, len(a.records))
	var roots []*record
	for _, r := range a.records {
		if r.parentID == "" || a.byID[r.parentID] == nil || r.parentID == r.node.ID {
			roots = append(roots, r)
			continue
		}
		buckets[r.parentID] = append(buckets[r.parentID], r)
	}

	placed := make(map[string]bool, len(a.records))
	attach := func(root *record) {
		placed[root.node.ID] = true
		queue := []*record{root}
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			for _, child := range buckets[cur.node.ID] {
				if placed[child.node.ID] {
					continue
				}
				placed[child.node.ID] = true
				child.node.ParentID = cur.node.ID
				cur.node.Children = append(cur.node.Children, child.node)
				queue = append(queue, child)
			}
		}
	}

	out := make([]*domain.CommentNode, 0, len(roots))
	for _, r := range roots {
		r.node.ParentID = ""
		out = append(out, r.node)
		attach(r)
	}
	for _, r := range a.records {
		if placed[r.node.ID] {
			continue
		}
		r.node.ParentID = ""
		out = append(out, r.node)
		attach(r)
	}
	return out
}

// BuildTree converts the API payload into comment nodes. The payload may be
// nested (replies inside replies), flat (replies listed at the top level with
// parentCommentId set) or a mix of both. Nesting wins over parentCommentId.
// Nodes without an id are dropped and their replies move up to the nearest
// kept ancestor. Repeated ids keep their first occurrence.
func BuildTree(routeID string, items []dto.CommentDetailDto) []*domain.CommentNode {
	type frame struct {
		item     *dto.CommentBasicDto
		parentID string
	}

	a := newArena()
	stack := make([]frame, 0, len(items))
	for i := len(items) - 1; i >= 0; i-- {
		basic := items[i].AsBasic()
		parentID := ""
		if basic.ParentCommentID != nil {
			parentID = *basic.ParentCommentID
		}
		stack = append(stack, frame{item: &basic, parentID: parentID})
	}

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		childParent := f.parentID
		if f.item.ID != "" {
			childParent = f.item.ID
			if _, dup := a.byID[f.item.ID]; !dup {
				a.add(toNode(routeID, f.item, f.parentID), f.parentID)
			}
		}

		replies := f.item.Replies
		for i := len(replies) - 1; i >= 0; i-- {
			stack = append(stack, frame{item: &replies[i], parentID: childParent})
		}
	}

	return a.assemble()
}

func toNode(routeID string, item *dto.CommentBasicDto, parentID string) *domain.CommentNode {
	n := &domain.CommentNode{
		ID:        item.ID,
		RouteID:   item.RouteID,
		AuthorID:  item.UserID,
		Author:    item.User.ToAuthor(),
		Content:   item.Content,
		CreatedAt: item.CreatedDate.Time,
		ParentID:  parentID,
	}
	if n.RouteID == "" {
		n.RouteID = routeID
	}
	if n.AuthorID == "" {
		n.AuthorID = n.Author.ID
	}
	return n
}

// index maps every node id of the forest to its node
func index(roots []*domain.CommentNode) map[string]*domain.CommentNode {
	entries := Flatten(roots)
	idx := make(map[string]*domain.CommentNode, len(entries))
	for _, e := range entries {
		if e.Node.ID != "" {
			idx[e.Node.ID] = e.Node
		}
	}
	return idx
}
