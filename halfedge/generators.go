package halfedge

// Generators returns a basis of the first homology group of a closed mesh by
// tree-cotree decomposition. Each generator is a dual loop given as the
// halfedges it crosses. A closed surface of genus g has 2g generators;
// meshes with boundary get none.
func (m *Mesh) Generators() [][]int {
	if len(m.Boundaries) > 0 || len(m.Vertices) == 0 || len(m.Faces) == 0 {
		return nil
	}

	vparent := m.primalTree()
	inTree := func(h int) bool {
		u, v := m.Halfedges[h].Vertex, m.Head(h)
		return vparent[u] == v || vparent[v] == u
	}
	fparent := m.dualCotree(inTree)
	inCotree := func(h int) bool {
		f, g := m.Halfedges[h].Face, m.Halfedges[m.Halfedges[h].Twin].Face
		return fparent[f] == g || fparent[g] == f
	}

	var gens [][]int
	for _, e := range m.Edges {
		h := e.Halfedge
		if inTree(h) || inCotree(h) {
			continue
		}
		p1 := m.pathToRoot(m.Halfedges[h].Face, fparent)
		p2 := m.pathToRoot(m.Halfedges[m.Halfedges[h].Twin].Face, fparent)
		i, j := len(p1)-1, len(p2)-1
		for i >= 0 && j >= 0 && p1[i] == p2[j] {
			i--
			j--
		}
		gen := []int{h}
		for k := 0; k <= i; k++ {
			gen = append(gen, m.Halfedges[p1[k]].Twin)
		}
		for k := j; k >= 0; k-- {
			gen = append(gen, p2[k])
		}
		gens = append(gens, gen)
	}
	return gens
}

// primalTree is a breadth first spanning tree of the vertex graph rooted at
// vertex 0. The root is its own parent.
func (m *Mesh) primalTree() []int {
	parent := make([]int, len(m.Vertices))
	for i := range parent {
		parent[i] = -1
	}
	parent[0] = 0
	queue := []int{0}
	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		for w := range m.VertexVertices(u, true) {
			if parent[w] < 0 {
				parent[w] = u
				queue = append(queue, w)
			}
		}
	}
	return parent
}

// dualCotree is a breadth first spanning tree of the face graph rooted at
// face 0 that never crosses an edge of the primal tree.
func (m *Mesh) dualCotree(inTree func(h int) bool) []int {
	parent := make([]int, len(m.Faces))
	for i := range parent {
		parent[i] = -1
	}
	parent[0] = 0
	queue := []int{0}
	for len(queue) > 0 {
		f := queue[0]
		queue = queue[1:]
		for h := range m.FaceHalfedges(f, true) {
			if inTree(h) {
				continue
			}
			g := m.Halfedges[m.Halfedges[h].Twin].Face
			if parent[g] < 0 {
				parent[g] = f
				queue = append(queue, g)
			}
		}
	}
	return parent
}

// pathToRoot lists, for each step from f towards the cotree root, the
// halfedge of the child face shared with its parent.
func (m *Mesh) pathToRoot(f int, parent []int) []int {
	var path []int
	for parent[f] != f {
		p := parent[f]
		path = append(path, m.sharedHalfedge(f, p))
		f = p
	}
	return path
}

func (m *Mesh) sharedHalfedge(f, g int) int {
	for h := range m.FaceHalfedges(f, true) {
		if m.Halfedges[m.Halfedges[h].Twin].Face == g {
			return h
		}
	}
	return -1
}
