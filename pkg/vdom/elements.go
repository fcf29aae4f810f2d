package vdom

// El returns a factory for the given tag.
func El(tag string) func(props Props, children ...any) *Node {
	return func(props Props, children ...any) *Node {
		return Build(tag, props, children...)
	}
}

// Common elements.
var (
	Div     = El("div")
	Span    = El("span")
	P       = El("p")
	A       = El("a")
	B       = El("b")
	I       = El("i")
	H1      = El("h1")
	H2      = El("h2")
	Ul      = El("ul")
	Li      = El("li")
	Button  = El("button")
	Input   = El("input")
	Label   = El("label")
	Section = El("section")
)
