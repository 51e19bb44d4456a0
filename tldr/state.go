package tldr

// State is a step in producing a TLDR or raw body for one RFC.
type State int

// States, in the order a successful uncached request visits them.
const (
	Idle State = iota
	CacheCheck
	CacheHit
	CacheMiss
	Fetching
	Deriving
	Persisting
	Done
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case CacheCheck:
		return "cache_check"
	case CacheHit:
		return "cache_hit"
	case CacheMiss:
		return "cache_miss"
	case Fetching:
		return "fetching"
	case Deriving:
		return "deriving"
	case Persisting:
		return "persisting"
	case Done:
		return "done"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transitions follow s.
func (s State) Terminal() bool {
	return s == Done || s == Failed
}

// Transition reports a state change of one task.
type Transition struct {
	Op     string
	Number int
	From   State
	To     State
	Err    error
}

// tracker records the state of one task and reports each change.
type tracker struct {
	op     string
	number int
	state  State
	notify func(Transition)
}

func (t *tracker) to(next State) {
	t.emit(next, nil)
}

// fail moves to Failed and returns err unchanged.
func (t *tracker) fail(err error) error {
	t.emit(Failed, err)
	return err
}

func (t *tracker) emit(next State, err error) {
	tr := Transition{Op: t.op, Number: t.number, From: t.state, To: next, Err: err}
	t.state = next
	t.notify(tr)
}
