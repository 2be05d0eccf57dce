package main

// Graph is the undirected spring network of a mesh, used for connectivity
// and path queries
type Graph struct {
	Nodes map[int]Point
	Edges map[int][]Edge
}

// Edge represents a connection between two nodes with a cost
type Edge struct {
	To   int     // Index of the destination node
	Cost float64 // Rest length of the spring
}

// NewGraph builds a graph over points from the given links
func NewGraph(points []Point, links []Link) *Graph {
	g := &Graph{
		Nodes: make(map[int]Point, len(points)),
		Edges: make(map[int][]Edge, len(points)),
	}
	for i, p := range points {
		g.Nodes[i] = p
	}
	for _, l := range links {
		g.Edges[l.From] = append(g.Edges[l.From], Edge{To: l.To, Cost: l.RestLength})
		g.Edges[l.To] = append(g.Edges[l.To], Edge{To: l.From, Cost: l.RestLength})
	}
	return g
}

// Degree returns the number of springs attached to node id
func (g *Graph) Degree(id int) int {
	return len(g.Edges[id])
}

// ReachableFrom returns the set of nodes reachable from start
func (g *Graph) ReachableFrom(start int) map[int]bool {
	seen := map[int]bool{start: true}
	queue := []int{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, e := range g.Edges[cur] {
			if !seen[e.To] {
				seen[e.To] = true
				queue = append(queue, e.To)
			}
		}
	}
	return seen
}

// IsConnected reports whether every node can be reached from node 0
func (g *Graph) IsConnected() bool {
	if len(g.Nodes) == 0 {
		return true
	}
	return len(g.ReachableFrom(0)) == len(g.Nodes)
}
