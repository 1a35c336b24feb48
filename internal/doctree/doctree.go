package doctree

import "strings"

// DocTree is the root of a document outline.
type DocTree struct {
	Title    string     `json:"title"`              // Document title (from metadata or filename)
	Children []*DocNode `json:"children,omitempty"` // Top-level sections
}

// DocNode is a recursive section in the document tree.
type DocNode struct {
	Title    string     `json:"title,omitempty"` // Headline text without markers (empty for leaf text)
	Level    int        `json:"level,omitempty"` // Marker count; 0 means one deeper than the parent
	Text     string     `json:"text,omitempty"`  // Body before the first subsection
	Line     int        `json:"line"`            // 0-indexed buffer line of the headline
	Offset   int        `json:"offset"`          // Buffer offset of the headline
	Page     int        `json:"page,omitempty"`  // Source page (0 if N/A)
	Folded   bool       `json:"folded,omitempty"`
	Hidden   bool       `json:"hidden,omitempty"` // Headline itself lies inside a fold
	Children []*DocNode `json:"children,omitempty"`
}

// Builder assembles a DocTree from a flat sequence of headings and text,
// nesting each heading under the nearest preceding heading of lower level.
type Builder struct {
	root  *DocNode
	stack []*DocNode
	text  strings.Builder
}

func NewBuilder() *Builder {
	root := &DocNode{}
	return &Builder{root: root, stack: []*DocNode{root}}
}

// Heading appends n as a new section. Text added afterwards belongs to n.
func (b *Builder) Heading(n *DocNode) {
	b.flush()
	if n.Level < 1 {
		n.Level = 1
	}
	// Pop until the top has a lower level; the root has level 0.
	for len(b.stack) > 1 && b.stack[len(b.stack)-1].Level >= n.Level {
		b.stack = b.stack[:len(b.stack)-1]
	}
	parent := b.stack[len(b.stack)-1]
	parent.Children = append(parent.Children, n)
	b.stack = append(b.stack, n)
}

// Text appends a paragraph to the current section.
func (b *Builder) Text(t string) {
	if strings.TrimSpace(t) == "" {
		return
	}
	if b.text.Len() > 0 {
		b.text.WriteString("\n\n")
	}
	b.text.WriteString(t)
}

func (b *Builder) flush() {
	t := strings.Trim(b.text.String(), "\n")
	b.text.Reset()
	if strings.TrimSpace(t) == "" {
		return
	}
	top := b.stack[len(b.stack)-1]
	if top.Text != "" {
		top.Text += "\n\n" + t
	} else {
		top.Text = t
	}
}

// Tree finishes the build. Text before the first heading becomes a leading
// untitled node.
func (b *Builder) Tree(title string) *DocTree {
	b.flush()
	tree := &DocTree{Title: title, Children: b.root.Children}
	if b.root.Text != "" {
		tree.Children = append([]*DocNode{{Text: b.root.Text}}, tree.Children...)
	}
	return tree
}

// Render writes tree as outline text: one marker-prefixed line per titled
// node, blocks separated by blank lines.
func Render(tree *DocTree, marker byte) string {
	var blocks []string
	var walk func(nodes []*DocNode, depth int)
	walk = func(nodes []*DocNode, depth int) {
		for _, n := range nodes {
			if n.Title != "" {
				level := n.Level
				if level < 1 {
					level = depth
				}
				title := strings.Join(strings.Fields(n.Title), " ")
				blocks = append(blocks, strings.Repeat(string(marker), level)+" "+title)
			}
			if t := strings.Trim(n.Text, "\n"); strings.TrimSpace(t) != "" {
				blocks = append(blocks, t)
			}
			walk(n.Children, depth+1)
		}
	}
	walk(tree.Children, 1)
	if len(blocks) == 0 {
		return ""
	}
	return strings.Join(blocks, "\n\n") + "\n"
}
