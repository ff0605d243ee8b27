package driver

// Direction is the readiness an operation waits for under the readiness backend.
type Direction uint8

const (
	// DirectionNone means the operation is attempted eagerly and retried on would-block.
	DirectionNone Direction = iota
	DirectionRead
	DirectionWrite
)

func (d Direction) String() string {
	switch d {
	case DirectionRead:
		return "read"
	case DirectionWrite:
		return "write"
	default:
		return "none"
	}
}

// io_uring opcodes (include/uapi/linux/io_uring.h).
const (
	OpNop         uint8 = 0
	OpAsyncCancel uint8 = 14
	OpClose       uint8 = 19
	OpStatx       uint8 = 21
	OpRead        uint8 = 22
)

// Entry is a backend neutral completion queue submission. The completion backend copies it
// into a ring slot and tags it with the operation's correlation id.
type Entry struct {
	OpCode      uint8
	Flags       uint8
	Fd          int32
	Off         uint64
	Addr        uint64
	Len         uint32
	OpcodeFlags uint32
}

// OpAble is implemented once per operation kind so that it runs under either backend.
//
// Both Entry and Attempt must leave the operation's output in the same state on success,
// so a single read step serves both backends.
type OpAble interface {
	// Name is used for errors and metrics.
	Name() string
	// Fd is the descriptor the operation is pinned to while it is in flight.
	Fd() *SharedFd
	// Entry builds the completion descriptor.
	Entry() Entry
	// Interest declares the readiness direction to wait for before attempting.
	Interest() Direction
	// Attempt performs the syscall once without blocking.
	Attempt() (int, error)
}
