package hierarchy

import (
	"github.com/poiesic/condensit/core"
)

// GroupByBudget partitions nodes into ordered groups whose combined token
// counts stay within tokenBudget. Nodes are never split here; a single node
// over the budget forms a group of its own (the backend's context handling
// decides its fate, not this layer).
func GroupByBudget(nodes []*core.HierarchyNode, tokenBudget int) [][]*core.HierarchyNode {
	var groups [][]*core.HierarchyNode
	var current []*core.HierarchyNode
	currentTokens := 0

	for _, node := range nodes {
		if len(current) > 0 && currentTokens+node.TokenCount > tokenBudget {
			groups = append(groups, current)
			current = nil
			currentTokens = 0
		}
		current = append(current, node)
		currentTokens += node.TokenCount
	}
	if len(current) > 0 {
		groups = append(groups, current)
	}
	return groups
}
