// Package fio queries file attributes through an asynchronous driver that runs either on
// io_uring or on epoll with direct syscalls.
package fio

import (
	"fmt"
	"sync"

	"github.com/brickingsoft/errors"
	"github.com/brickingsoft/fio/pkg/driver"
)

type Options struct {
	Drivers       int
	LoadBalancer  driver.LoadBalancer
	DriverOptions []driver.Option
}

type Option func(*Options)

// WithDrivers
// setup how many independent drivers the default group holds, default is 1.
func WithDrivers(n int) Option {
	return func(o *Options) {
		if n > 0 {
			o.Drivers = n
		}
	}
}

// WithLoadBalancer
// setup how Open picks a driver of the default group, default is round robin.
func WithLoadBalancer(lb driver.LoadBalancer) Option {
	return func(o *Options) {
		if lb != nil {
			o.LoadBalancer = lb
		}
	}
}

// WithDriverOptions
// setup options applied to every driver of the default group.
func WithDriverOptions(options ...driver.Option) Option {
	return func(o *Options) {
		o.DriverOptions = append(o.DriverOptions, options...)
	}
}

var (
	drivers   *driver.Group = nil
	driversMu sync.Mutex
)

// Startup
// create the default driver group.
//
// A default group is created on first use, call Startup at the beginning of the program to
// customize it. Calling it again without Shutdown fails.
func Startup(options ...Option) (err error) {
	defer func() {
		if r := recover(); r != nil {
			switch e := r.(type) {
			case error:
				err = e
				break
			case string:
				err = errors.New(e)
				break
			default:
				err = errors.New(fmt.Sprintf("%+v", r))
				break
			}
		}
	}()
	driversMu.Lock()
	defer driversMu.Unlock()
	if drivers != nil {
		err = errors.From(ErrStarted)
		return
	}
	drivers, err = newGroup(options...)
	return
}

// Shutdown
// close the default driver group. In-flight operations fail, a later Open creates a new group.
func Shutdown() error {
	driversMu.Lock()
	defer driversMu.Unlock()
	if drivers == nil {
		return nil
	}
	err := drivers.Close()
	drivers = nil
	return err
}

// Drivers
// get the default driver group, creating it with default options when needed.
func Drivers() (*driver.Group, error) {
	driversMu.Lock()
	defer driversMu.Unlock()
	if drivers == nil {
		g, err := newGroup()
		if err != nil {
			return nil, err
		}
		drivers = g
	}
	return drivers, nil
}

func newGroup(options ...Option) (*driver.Group, error) {
	opts := Options{
		Drivers: 1,
	}
	for _, option := range options {
		option(&opts)
	}
	g, err := driver.NewGroup(opts.Drivers, opts.LoadBalancer, opts.DriverOptions...)
	if err != nil {
		return nil, errors.New(
			"startup failed",
			errors.WithMeta(errMetaPkgKey, errMetaPkgVal),
			errors.WithWrap(err),
		)
	}
	return g, nil
}
