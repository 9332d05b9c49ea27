package figma

// FrameType is the node type tag Figma assigns to frames. Frame resolution
// by name only matches nodes of this type.
const FrameType = "FRAME"

// FindNode returns the first node in the tree rooted at root for which
// pred returns true, searching depth-first, pre-order, left-to-right.
// Returns nil if no node matches.
func FindNode(root *Node, pred func(*Node) bool) *Node {
	if root == nil {
		return nil
	}
	if pred(root) {
		return root
	}
	for i := range root.Children {
		if found := FindNode(&root.Children[i], pred); found != nil {
			return found
		}
	}
	return nil
}

// FindNodeByID returns the node with the given ID, or nil if the tree
// contains no such node.
func FindNodeByID(root *Node, id string) *Node {
	return FindNode(root, func(n *Node) bool { return n.ID == id })
}

// FindNodesByID resolves each ID independently from the tree root and
// returns the matches in input order, with nil entries for IDs not present
// in the tree. Each lookup is a full traversal; callers with very large
// trees and many IDs accept the repeated walks.
func FindNodesByID(root *Node, ids []string) []*Node {
	nodes := make([]*Node, len(ids))
	for i, id := range ids {
		nodes[i] = FindNodeByID(root, id)
	}
	return nodes
}

// FindFrameIDByName returns the ID of the first frame-typed node whose
// name equals name, or "" if none exists. Nodes with a matching name but a
// different type are skipped, though their children are still searched.
func FindFrameIDByName(root *Node, name string) string {
	found := FindNode(root, func(n *Node) bool {
		return n.Name == name && n.Type == FrameType
	})
	if found == nil {
		return ""
	}
	return found.ID
}
