package main

import (
	"container/heap"
	"slices"
)

// searchNode is an entry of the A* open set
type searchNode struct {
	id     int
	g, f   float64 // cost so far, and cost so far plus the straight-line estimate
	parent *searchNode
	slot   int // position in the heap, kept current by openQueue
}

// openQueue is a min-heap on f
type openQueue []*searchNode

func (q openQueue) Len() int           { return len(q) }
func (q openQueue) Less(i, j int) bool { return q[i].f < q[j].f }

func (q openQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].slot, q[j].slot = i, j
}

func (q *openQueue) Push(x any) {
	n := x.(*searchNode)
	n.slot = len(*q)
	*q = append(*q, n)
}

func (q *openQueue) Pop() any {
	old := *q
	last := len(old) - 1
	n := old[last]
	old[last] = nil
	n.slot = -1
	*q = old[:last]
	return n
}

// AStarPath computes the cheapest path between two nodes. Edge costs are
// rest lengths, so the straight-line distance is an admissible heuristic.
// It returns the node ids along the path, the path cost and whether a path
// was found.
func AStarPath(graph *Graph, startIdx, endIdx int) ([]int, float64, bool) {
	if graph == nil || len(graph.Nodes) == 0 {
		return nil, 0, false
	}
	if _, ok := graph.Nodes[startIdx]; !ok {
		return nil, 0, false
	}
	endPoint, ok := graph.Nodes[endIdx]
	if !ok {
		return nil, 0, false
	}
	estimate := func(id int) float64 {
		return graph.Nodes[id].Distance(endPoint)
	}

	open := &openQueue{}
	start := &searchNode{id: startIdx, f: estimate(startIdx)}
	heap.Push(open, start)
	pending := map[int]*searchNode{startIdx: start}
	done := make(map[int]bool)

	for open.Len() > 0 {
		current := heap.Pop(open).(*searchNode)
		delete(pending, current.id)

		if current.id == endIdx {
			var path []int
			for n := current; n != nil; n = n.parent {
				path = append(path, n.id)
			}
			slices.Reverse(path)
			return path, current.g, true
		}
		done[current.id] = true

		for _, edge := range graph.Edges[current.id] {
			if done[edge.To] {
				continue
			}
			g := current.g + edge.Cost

			next, queued := pending[edge.To]
			switch {
			case !queued:
				next = &searchNode{id: edge.To, g: g, f: g + estimate(edge.To), parent: current}
				heap.Push(open, next)
				pending[edge.To] = next
			case g < next.g:
				next.f += g - next.g
				next.g = g
				next.parent = current
				heap.Fix(open, next.slot)
			}
		}
	}

	return nil, 0, false
}

// BellArc is the spring path from the left margin over the apex to the
// right margin
type BellArc struct {
	Path   []int // vertex ids, left margin first
	Length float64
}

// BellArcLength follows the passive springs from tip to tip. On a valid
// mesh the graph is a single chain, so the path visits every bell vertex.
func BellArcLength(mesh *Mesh) (BellArc, bool) {
	g := NewGraph(mesh.BellPoints(), mesh.PassiveLinks())
	path, length, ok := AStarPath(g, mesh.Layout.Half, mesh.Layout.Total-1)
	return BellArc{Path: path, Length: length}, ok
}
