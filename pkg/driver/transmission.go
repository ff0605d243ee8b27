package driver

import (
	"syscall"
	"time"
)

// CurvePoint says how long the completion loop waits for N completions.
type CurvePoint struct {
	N       uint32
	Timeout time.Duration
}

// Curve is expected in ascending N order.
type Curve []CurvePoint

// Transmission steps along a Curve, Up after a full batch and Down after a timeout.
type Transmission interface {
	Up() (uint32, *syscall.Timespec)
	Down() (uint32, *syscall.Timespec)
}

var defaultCurve = Curve{
	{1, 10 * time.Microsecond},
	{8, 50 * time.Microsecond},
	{16, 100 * time.Microsecond},
	{32, 200 * time.Microsecond},
	{64, 500 * time.Microsecond},
}

func NewCurveTransmission(curve Curve) Transmission {
	times := make([]WaitNTime, 0, len(curve))
	for _, t := range curve {
		n := t.N
		if n < 1 || t.Timeout < 1 {
			continue
		}
		timeout := syscall.NsecToTimespec(t.Timeout.Nanoseconds())
		times = append(times, WaitNTime{
			n:    n,
			time: &timeout,
		})
	}
	if len(times) == 0 {
		timeout := syscall.NsecToTimespec((15 * time.Second).Nanoseconds())
		times = append(times, WaitNTime{n: 1, time: &timeout})
	}
	return &CurveTransmission{
		curve: times,
		size:  len(times),
		idx:   -1,
	}
}

type WaitNTime struct {
	n    uint32
	time *syscall.Timespec
}

type CurveTransmission struct {
	curve []WaitNTime
	size  int
	idx   int
}

func (tran *CurveTransmission) Up() (uint32, *syscall.Timespec) {
	if tran.idx == tran.size-1 {
		return tran.curve[tran.idx].n, tran.curve[tran.idx].time
	}
	tran.idx++
	return tran.curve[tran.idx].n, tran.curve[tran.idx].time
}

func (tran *CurveTransmission) Down() (uint32, *syscall.Timespec) {
	if tran.idx <= 0 {
		tran.idx = 0
		return tran.curve[0].n, tran.curve[0].time
	}
	tran.idx--
	return tran.curve[tran.idx].n, tran.curve[tran.idx].time
}
