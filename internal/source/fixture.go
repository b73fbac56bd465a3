package source

// Node is an in-memory ObjectNode, used to build object trees directly in
// tests (and by anything else that already has a parsed tree in memory)
// without going through a real parser.
type Node struct {
	name     string
	path     TypePath
	vars     map[string]Variable
	procs    map[string]ProcDecl
	children []ObjectNode
}

// NewNode builds an empty Node at the given type path. The last element of
// path is taken as the node's name; an empty path names the root node.
func NewNode(path TypePath) *Node {
	name := ""
	if len(path) > 0 {
		name = path[len(path)-1]
	}
	return &Node{
		name:  name,
		path:  path,
		vars:  map[string]Variable{},
		procs: map[string]ProcDecl{},
	}
}

func (n *Node) Name() string                    { return n.name }
func (n *Node) Path() TypePath                  { return n.path }
func (n *Node) Vars() map[string]Variable       { return n.vars }
func (n *Node) Procs() map[string]ProcDecl      { return n.procs }
func (n *Node) Children() []ObjectNode          { return n.children }

// AddVar records a variable declaration on this node.
func (n *Node) AddVar(name string, v Variable) {
	n.vars[name] = v
}

// AddProc records a proc declaration on this node. Calling it more than
// once for the same name appends an additional overload value, modeling
// the multi-value over-declaration case the semantic builder warns about.
func (n *Node) AddProc(name string, value Value) {
	decl := n.procs[name]
	decl.Values = append(decl.Values, value)
	n.procs[name] = decl
}

// AddChild attaches a child node.
func (n *Node) AddChild(child *Node) {
	n.children = append(n.children, child)
}

// Tree is an in-memory ObjectTree.
type Tree struct {
	root *Node
}

// NewTree builds a Tree rooted at an empty-path Node.
func NewTree() *Tree {
	return &Tree{root: NewNode(nil)}
}

// Root returns the root node, available for callers to populate directly.
func (t *Tree) Root() ObjectNode { return t.root }

// RootNode returns the concrete root Node, for callers that need the
// mutation methods Node exposes beyond the ObjectNode interface.
func (t *Tree) RootNode() *Node { return t.root }

// Index is an in-memory AnnotationIndex keyed by exact Location.
type Index struct {
	entries map[Location][]Annotation
}

// NewIndex builds an empty Index.
func NewIndex() *Index {
	return &Index{entries: map[Location][]Annotation{}}
}

// Add records an annotation as covering the given location.
func (idx *Index) Add(loc Location, ann Annotation) {
	idx.entries[loc] = append(idx.entries[loc], ann)
}

// At returns every annotation recorded at loc.
func (idx *Index) At(loc Location) []Annotation {
	return idx.entries[loc]
}
