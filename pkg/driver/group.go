package driver

import (
	"math/rand/v2"
	"strings"
	"sync/atomic"

	"github.com/brickingsoft/errors"
)

// LoadBalancer picks the index of the driver to use next, -1 when drivers is empty.
type LoadBalancer interface {
	Next(drivers []*Driver) (n int)
}

type RoundRobinLoadBalancer struct {
	pos atomic.Uint32
}

func (lb *RoundRobinLoadBalancer) Next(drivers []*Driver) (n int) {
	size := uint32(len(drivers))
	if size == 0 {
		n = -1
		return
	}
	if size == 1 {
		n = 0
		return
	}
	pos := lb.pos.Add(1)
	n = int(pos % size)
	return
}

type RandomLoadBalancer struct{}

func (lb *RandomLoadBalancer) Next(drivers []*Driver) (n int) {
	size := len(drivers)
	if size == 0 {
		n = -1
		return
	}
	if size == 1 {
		n = 0
		return
	}
	return rand.IntN(size)
}

// LeastLoadBalancer picks the driver with the fewest pending operations.
type LeastLoadBalancer struct{}

func (lb *LeastLoadBalancer) Next(drivers []*Driver) (n int) {
	size := len(drivers)
	if size == 0 {
		n = -1
		return
	}
	n = 0
	least := drivers[0].Pending()
	for i := 1; i < size; i++ {
		if pending := drivers[i].Pending(); pending < least {
			least = pending
			n = i
		}
	}
	return
}

// ParseLoadBalancer accepts "round_robin", "random" and "least".
func ParseLoadBalancer(s string) (LoadBalancer, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "round_robin", "roundrobin":
		return &RoundRobinLoadBalancer{}, nil
	case "random":
		return &RandomLoadBalancer{}, nil
	case "least":
		return &LeastLoadBalancer{}, nil
	default:
		return nil, errors.New(
			"invalid load balancer",
			errors.WithMeta(errMetaPkgKey, errMetaPkgVal),
			errors.WithMeta("balancer", s),
		)
	}
}

// Group is a set of independent drivers, one per worker.
type Group struct {
	drivers []*Driver
	lb      LoadBalancer
	closed  atomic.Bool
}

// NewGroup
// create size drivers sharing options. A nil lb means round robin.
func NewGroup(size int, lb LoadBalancer, options ...Option) (g *Group, err error) {
	if size < 1 {
		size = 1
	}
	if lb == nil {
		lb = &RoundRobinLoadBalancer{}
	}
	drivers := make([]*Driver, 0, size)
	for i := 0; i < size; i++ {
		d, dErr := New(append(options[:len(options):len(options)], withIndex(i))...)
		if dErr != nil {
			for _, created := range drivers {
				_ = created.Close()
			}
			err = errors.New(
				"new group failed",
				errors.WithMeta(errMetaPkgKey, errMetaPkgVal),
				errors.WithWrap(dErr),
			)
			return
		}
		drivers = append(drivers, d)
	}
	g = &Group{
		drivers: drivers,
		lb:      lb,
	}
	return
}

// Next returns the driver picked by the load balancer.
func (g *Group) Next() *Driver {
	n := g.lb.Next(g.drivers)
	if n < 0 || n >= len(g.drivers) {
		return g.drivers[0]
	}
	return g.drivers[n]
}

func (g *Group) Drivers() []*Driver {
	return g.drivers
}

func (g *Group) Len() int {
	return len(g.drivers)
}

// Pending sums the pending operations of every driver.
func (g *Group) Pending() (n int) {
	for _, d := range g.drivers {
		n += d.Pending()
	}
	return
}

// Close closes every driver, errors are joined.
func (g *Group) Close() error {
	if !g.closed.CompareAndSwap(false, true) {
		return nil
	}
	var errs []error
	for _, d := range g.drivers {
		if err := d.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}
