package thread

import (
	"fmt"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"routehub-client/internal/domain"
	"routehub-client/internal/dto"
)

// parentsFrom turns random seeds into a valid parent table: node i hangs under
// an earlier node or is top-level (-1).
func parentsFrom(seeds []int) []int {
	parents := make([]int, len(seeds))
	for i, s := range seeds {
		parents[i] = s%(i+1) - 1
	}
	return parents
}

func flatPayload(parents []int) []dto.CommentDetailDto {
	items := make([]dto.CommentDetailDto, len(parents))
	for i, p := range parents {
		parent := ""
		if p >= 0 {
			parent = fmt.Sprintf("c%d", p)
		}
		items[i] = flatItem(fmt.Sprintf("c%d", i), parent)
	}
	return items
}

// nestedPayload re-encodes a forest as the nested API shape
func nestedPayload(roots []*domain.CommentNode) []dto.CommentDetailDto {
	var toBasic func(n *domain.CommentNode) dto.CommentBasicDto
	toBasic = func(n *domain.CommentNode) dto.CommentBasicDto {
		b := reply(n.ID)
		for _, c := range n.Children {
			b.Replies = append(b.Replies, toBasic(c))
		}
		return b
	}
	out := make([]dto.CommentDetailDto, 0, len(roots))
	for _, r := range roots {
		b := toBasic(r)
		out = append(out, dto.CommentDetailDto{ID: b.ID, Content: b.Content, Replies: b.Replies})
	}
	return out
}

// **Property: every delivered node appears exactly once under its parent**
func TestProperty_FlatPayloadBuildsExactForest(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("BuildTree keeps every node once with the delivered parent", prop.ForAll(
		func(seeds []int) bool {
			parents := parentsFrom(seeds)
			roots := BuildTree("r1", flatPayload(parents))

			entries := Flatten(roots)
			if len(entries) != len(parents) {
				t.Logf("expected %d nodes, got %d", len(parents), len(entries))
				return false
			}
			for _, e := range entries {
				var i int
				fmt.Sscanf(e.Node.ID, "c%d", &i)
				want := ""
				if parents[i] >= 0 {
					want = fmt.Sprintf("c%d", parents[i])
				}
				if e.Node.ParentID != want {
					t.Logf("node %s: parent %q, want %q", e.Node.ID, e.Node.ParentID, want)
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.IntRange(0, 1000)),
	))

	properties.TestingRun(t)
}

// **Property: descendant counts of the roots add up to the whole forest**
func TestProperty_DescendantCountsAddUp(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("roots plus their descendants equal the node count", prop.ForAll(
		func(seeds []int) bool {
			roots := BuildTree("r1", flatPayload(parentsFrom(seeds)))
			total := len(roots)
			for _, r := range roots {
				total += CountDescendants(r)
			}
			return total == len(seeds) && total == CountNodes(roots)
		},
		gen.SliceOf(gen.IntRange(0, 1000)),
	))

	properties.TestingRun(t)
}

// **Property: nested and flat encodings of the same forest build the same tree**
func TestProperty_NestedRoundTrip(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("re-nesting a built forest yields the same flattened shape", prop.ForAll(
		func(seeds []int) bool {
			roots := BuildTree("r1", flatPayload(parentsFrom(seeds)))
			rebuilt := BuildTree("r1", nestedPayload(roots))

			a, b := shape(roots), shape(rebuilt)
			if len(a) != len(b) {
				return false
			}
			for i := range a {
				if a[i] != b[i] {
					return false
				}
			}
			// Flatten is pure: a second pass gives the same result
			again := shape(rebuilt)
			for i := range b {
				if b[i] != again[i] {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.IntRange(0, 1000)),
	))

	properties.TestingRun(t)
}
