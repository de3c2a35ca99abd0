package solver

// Stats counts the work done by a Context.
type Stats struct {
	// Minimizations is the number of completed Minimize calls.
	Minimizations int
	// States is the number of assignments Minimize evaluated.
	States int64
	// Nodes is the number of branch and bound nodes SolveLinear expanded.
	Nodes int64
}

// Context owns the configuration and counters of one solver. A Context is
// not safe for concurrent use; give each goroutine its own.
type Context struct {
	opts  Options
	stats Stats
}

// New returns a Context with opts applied over DefaultOptions.
func New(opts ...Option) *Context {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Context{opts: o}
}

// Options returns the configuration of c.
func (c *Context) Options() Options { return c.opts }

// Stats returns the counters accumulated so far.
func (c *Context) Stats() Stats { return c.stats }
