// SPDX-License-Identifier: MIT
package groupstream

// REF: https://www.geeksforgeeks.org/generic-tree-level-order-traversal

import (
	"context"
	"errors"
	"fmt"

	"github.com/davecgh/go-spew/spew"
	"github.com/sirupsen/logrus"
)

type (
	// Tree holds the groups of a stream as an n-ary tree below a synthetic root.
	//
	// Synchronization is unnecessary, the type is designed for single write multiple read.
	Tree struct {
		logger logrus.FieldLogger
		debug  bool

		// root has no Group; its children are the top-level groups.
		root *Node

		size int
	}

	// Node is a Group placed in a Tree.
	Node struct {
		group Group

		// index is the Group's position in the parsed List, -1 for the root.
		index int

		// parent contains a reference to the enclosing Node.
		parent *Node

		// children holds the enclosed nodes in opening order.
		children Nodes
	}

	// Nodes is a type wrapper for []*Node.
	Nodes []*Node

	// LevelList holds Nodes by level, the top level first.
	LevelList []Nodes

	// TraverseComm defines a channel to communicate info between Tree operations & it's callers.
	TraverseComm struct {
		node     *Node
		err      error
		newPeers bool
	}

	// TreeOption defines the Tree functional option type.
	TreeOption func(*Tree)
)

const traverseBufferSize = 10

// Errors encountered when handling a Tree.
var (
	ErrBuildTree = errors.New("failed to build group tree")
	ErrNoGroups  = errors.New("tree lacks groups")
)

// WithTreeLogger configures the logger option.
func WithTreeLogger(logger logrus.FieldLogger) TreeOption {
	return func(t *Tree) { t.logger = logger }
}

// WithTreeDebug configures the debug option.
func WithTreeDebug(debug bool) TreeOption { return func(t *Tree) { t.debug = debug } }

// BuildTree links a List into a Tree.
//
// The parent of a Group at depth d is the latest preceding Group at depth d-1; a Group lacking
// one is placed at the top level.
func BuildTree(ctx context.Context, groups List, opts ...TreeOption) (t *Tree, err error) {
	t = &Tree{
		logger: logrus.New(),
		root:   &Node{index: -1},
	}
	for _, opt := range opts {
		opt(t)
	}

	defer func() {
		if err != nil {
			// Skip expensive operation if not debug.
			if t.debug {
				t.logger.Debugf("partial tree: %s", spew.Sprint(t.root))
			}

			err = fmt.Errorf("%w: %w", ErrBuildTree, err)
			t = nil
		}
	}()

	latest := make(map[int]*Node)
	for index, group := range groups {
		select {
		case <-ctx.Done():
			err = ctx.Err()
			return
		default:
		}

		parent, ok := latest[group.Depth-1]
		if !ok {
			parent = t.root
		}

		node := &Node{group: group, index: index, parent: parent}
		parent.children = append(parent.children, node)
		latest[group.Depth] = node
		t.size++
	}

	return
}

// Len is the number of groups in the Tree.
func (t *Tree) Len() int { return t.size }

// Top lists the top-level nodes.
func (t *Tree) Top() Nodes { return t.root.children }

// Group retrieves the Node's Group.
func (n *Node) Group() Group { return n.group }

// Index retrieves the Group's position in the parsed List.
func (n *Node) Index() int { return n.index }

// Parent retrieves a reference to the enclosing Node.
//
// Value is nil for top-level nodes.
func (n *Node) Parent() *Node {
	if n.parent == nil || n.parent.index < 0 {
		return nil
	}

	return n.parent
}

// Children lists the immediately enclosed nodes.
func (n *Node) Children() Nodes { return n.children }

// Walk performs breadth-first traversal on a Tree, pushing its nodes to its channel argument.
//
// The synthetic root is sent first. A context.Context is used to terminate the walk operation.
func (t *Tree) Walk(ctx context.Context, traverseChan chan TraverseComm) {
	defer close(traverseChan)

	// Level order traversal.
	queue := Nodes{t.root}

	var front *Node

	for {
		queueLen := len(queue)
		if queueLen < 1 {
			break
		}

		newPeers := true
		for queueLen > 0 {
			front, queue = queue[0], queue[1:]
			queueLen--

			select {
			case <-ctx.Done():
				// Received context cancellation.
				traverseChan <- TraverseComm{err: ctx.Err()}
				return
			default:
			}

			// Send node to caller via the channel.
			traverseChan <- TraverseComm{node: front, newPeers: newPeers}
			newPeers = false

			queue = append(queue, front.children...)
		}
	}
}

// ByLevel lists the Tree's nodes by level.
func (t *Tree) ByLevel(ctx context.Context) (levels LevelList, err error) {
	levels = make(LevelList, 0)
	traverseChan := make(chan TraverseComm, traverseBufferSize)

	go t.Walk(ctx, traverseChan)

	var peers Nodes
	for resl := range traverseChan {
		if err = resl.err; err != nil {
			// Drain the walk.
			for range traverseChan {
			}
			return
		}

		if !resl.newPeers {
			peers = append(peers, resl.node)
			continue
		}

		if len(peers) > 0 {
			levels = append(levels, peers)
		}
		peers = Nodes{resl.node}
	}

	if len(peers) > 0 {
		levels = append(levels, peers)
	}

	// Omit the root from the list.
	levels = levels[1:]

	if t.debug {
		t.logger.Debugf("levels: %s", spew.Sprint(levels.Depths()))
	}

	if len(levels) < 1 {
		err = ErrNoGroups
	}

	return
}

// Leaves returns the nodes enclosing no other group, in level order.
func (t *Tree) Leaves(ctx context.Context) (leaves Nodes, err error) {
	leaves = make(Nodes, 0)
	traverseChan := make(chan TraverseComm, traverseBufferSize)

	go t.Walk(ctx, traverseChan)

	for resl := range traverseChan {
		if err = resl.err; err != nil {
			for range traverseChan {
			}
			return
		}

		if resl.node != t.root && len(resl.node.children) < 1 {
			leaves = append(leaves, resl.node)
		}
	}

	if len(leaves) < 1 {
		err = ErrNoGroups
	}

	return
}

// LevelScores sums the depths of each level of the Tree.
func (t *Tree) LevelScores(ctx context.Context) (scores []int, err error) {
	levels, err := t.ByLevel(ctx)
	if err != nil {
		return
	}

	scores = make([]int, len(levels))
	for index, depths := range levels.Depths() {
		scores[index] = sum(depths...)
	}

	return
}

// Groups returns the Groups of the Nodes.
func (n Nodes) Groups() (groups List) {
	groups = make(List, len(n))
	for index := range n {
		groups[index] = n[index].group
	}

	return
}

// Depths returns the Group depths for each level.
func (l LevelList) Depths() (depths [][]int) {
	depths = make([][]int, len(l))
	for index := range l {
		depths[index] = l[index].Groups().Depths()
	}

	return
}
