package gfxtest

// Platform serves framebuffer sizes from a script and counts event calls.
type Platform struct {
	// Sizes is consumed one entry per FramebufferSize call; the last entry
	// repeats forever.
	Sizes [][2]int

	SizeCalls  int
	WaitCalls  int
	PollCalls  int
	CloseAfter func() bool

	closed bool
}

func NewPlatform(width, height int) *Platform {
	return &Platform{Sizes: [][2]int{{width, height}}}
}

func (p *Platform) FramebufferSize() (int, int) {
	p.SizeCalls++
	size := p.Sizes[0]
	if len(p.Sizes) > 1 {
		p.Sizes = p.Sizes[1:]
	}
	return size[0], size[1]
}

func (p *Platform) WaitEvents() { p.WaitCalls++ }

func (p *Platform) PollEvents() { p.PollCalls++ }

func (p *Platform) SetShouldClose(close bool) { p.closed = close }

func (p *Platform) ShouldClose() bool {
	if p.closed {
		return true
	}
	return p.CloseAfter != nil && p.CloseAfter()
}
