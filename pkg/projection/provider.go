package projection

import (
	"sync"
)

// Provider hands out a process-wide Engine, constructing it once on
// first use. The underlying predictor model is expensive to load and
// read-only afterwards, so a single lazily built instance is shared by
// every caller.
type Provider struct {
	build func() (Engine, error)

	once   sync.Once
	engine Engine
	err    error
}

// NewProvider creates a provider that builds its engine with the given
// constructor on first Get.
func NewProvider(build func() (Engine, error)) *Provider {
	return &Provider{build: build}
}

// Get returns the shared engine, building it on the first call. The
// construction error, if any, is sticky and returned to every caller.
func (p *Provider) Get() (Engine, error) {
	p.once.Do(func() {
		p.engine, p.err = p.build()
	})
	return p.engine, p.err
}
