package application

import "scaffale/internal/domain"

// Re-export domain types for use by adapters
type (
	Location       = domain.StorageLocation
	LocationType   = domain.LocationType
	Item           = domain.InventoryItem
	CollectionType = domain.CollectionType
	Rule           = domain.ClassificationRule
)

// TreeNode is a location with its nested children, ready to render
type TreeNode struct {
	Location  Location
	Path      string
	ItemCount int
	Children  []*TreeNode
}

// Walk visits the node and its descendants depth-first
func (n *TreeNode) Walk(fn func(node *TreeNode, depth int)) {
	n.walk(fn, 0)
}

func (n *TreeNode) walk(fn func(node *TreeNode, depth int), depth int) {
	fn(n, depth)
	for _, child := range n.Children {
		child.walk(fn, depth+1)
	}
}

// LocatedItem is an item together with the breadcrumb of its location
type LocatedItem struct {
	Item Item
	Path string
}
