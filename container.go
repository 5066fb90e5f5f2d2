package danmaku

// Container is the core's view of the host surface: whether it is mounted
// and the size it had when last measured.
type Container struct {
	surface       Surface
	width, height float64
}

// Mount attaches the container to s and measures it.
func (c *Container) Mount(s Surface) error {
	if c.IsMounted() {
		return ErrAlreadyMounted
	}
	c.surface = s
	c.format()
	return nil
}

// Unmount detaches the container. Unmounting twice is a no-op.
func (c *Container) Unmount() {
	c.surface = nil
}

// IsMounted reports whether the container has a surface.
func (c *Container) IsMounted() bool {
	return c.surface != nil
}

// Resize re-measures the surface.
func (c *Container) Resize() error {
	if !c.IsMounted() {
		return ErrNotMounted
	}
	c.format()
	return nil
}

// Surface returns the mounted surface, or nil.
func (c *Container) Surface() Surface { return c.surface }

// Width returns the last measured width.
func (c *Container) Width() float64 { return c.width }

// Height returns the last measured height.
func (c *Container) Height() float64 { return c.height }

func (c *Container) format() {
	c.width, c.height = c.surface.Size()
}
