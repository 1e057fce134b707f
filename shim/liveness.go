package shim

import (
	"sync"

	monoshim "github.com/hostbridge/monoshim"
	"github.com/hostbridge/monoshim/errors"
	"github.com/hostbridge/monoshim/variant"
)

// LivenessObjectsFunc receives a batch of live objects during a walk.
// arr points at the object vector, count is its length, userdata is the
// value passed to LivenessAllocate.
type LivenessObjectsFunc func(arr uintptr, count int32, userdata uintptr)

// LivenessWorldStartFunc runs when the walk restarts the world.
type LivenessWorldStartFunc func(userdata uintptr)

// LivenessCallbacks are the caller hooks for one liveness calculation.
// OnObjects is required; OnWorldStart is optional.
type LivenessCallbacks struct {
	OnObjects    LivenessObjectsFunc
	OnWorldStart LivenessWorldStartFunc
}

// livenessLedger tracks the liveness states this shim allocated, so
// walk and free operations can reject handles the runtime never issued
// or that were already freed, before any foreign call is made.
type livenessLedger struct {
	mu     sync.Mutex
	states map[monoshim.LivenessState]struct{}
}

func (l *livenessLedger) init() {
	l.states = make(map[monoshim.LivenessState]struct{})
}

func (l *livenessLedger) add(st monoshim.LivenessState) {
	l.mu.Lock()
	l.states[st] = struct{}{}
	l.mu.Unlock()
}

func (l *livenessLedger) check(st monoshim.LivenessState) error {
	l.mu.Lock()
	_, ok := l.states[st]
	l.mu.Unlock()
	if !ok {
		return errors.InvalidHandle("unknown or freed liveness state")
	}
	return nil
}

func (l *livenessLedger) remove(st monoshim.LivenessState) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.states[st]; !ok {
		return errors.InvalidHandle("unknown or freed liveness state")
	}
	delete(l.states, st)
	return nil
}

// LivenessAllocate allocates a liveness calculation state. filter
// restricts the walk to instances of that class (nil class walks
// everything); maxCount bounds the per-batch object vector; userdata is
// handed back to both callbacks.
//
// The returned state must be released with LivenessFree.
func (s *Shim) LivenessAllocate(filter monoshim.Class, maxCount int, cbs LivenessCallbacks, userdata uintptr) (monoshim.LivenessState, error) {
	if cbs.OnObjects == nil {
		return 0, errors.InvalidInput(errors.PhaseCall, "liveness callbacks require OnObjects")
	}
	if maxCount <= 0 {
		return 0, errors.InvalidInput(errors.PhaseCall, "liveness max count must be positive")
	}

	onObjects, err := s.callbacks.make(s, cbs.OnObjects)
	if err != nil {
		return 0, err
	}
	onWorldStart, err := s.callbacks.make(s, cbs.OnWorldStart)
	if err != nil {
		return 0, err
	}

	r, err := s.call(variant.CapLivenessAllocate,
		uintptr(filter), uintptr(maxCount), onObjects, userdata, onWorldStart)
	if err != nil {
		return 0, err
	}
	if r == 0 {
		return 0, errors.ForeignCall(string(variant.CapLivenessAllocate), 0)
	}

	st := monoshim.LivenessState(r)
	s.liveness.add(st)
	return st, nil
}

// LivenessStopWorld stops every other thread ahead of a walk. The
// foreign call blocks until the world is stopped.
func (s *Shim) LivenessStopWorld(st monoshim.LivenessState) error {
	if err := s.liveness.check(st); err != nil {
		return err
	}
	_, err := s.call(variant.CapLivenessStopWorld, uintptr(st))
	return err
}

// LivenessWalkFromRoot walks objects reachable from root, feeding
// batches to the state's OnObjects callback.
func (s *Shim) LivenessWalkFromRoot(root monoshim.Object, st monoshim.LivenessState) error {
	if root.IsNil() {
		return errors.InvalidHandle("nil root object")
	}
	if err := s.liveness.check(st); err != nil {
		return err
	}
	_, err := s.call(variant.CapLivenessFromRoot, uintptr(root), uintptr(st))
	return err
}

// LivenessWalkFromStatics walks objects reachable from static fields.
func (s *Shim) LivenessWalkFromStatics(st monoshim.LivenessState) error {
	if err := s.liveness.check(st); err != nil {
		return err
	}
	_, err := s.call(variant.CapLivenessFromStatics, uintptr(st))
	return err
}

// LivenessStartWorld restarts the world after a walk.
func (s *Shim) LivenessStartWorld(st monoshim.LivenessState) error {
	if err := s.liveness.check(st); err != nil {
		return err
	}
	_, err := s.call(variant.CapLivenessStartWorld, uintptr(st))
	return err
}

// LivenessFinalize finalizes a walk before the state is freed.
func (s *Shim) LivenessFinalize(st monoshim.LivenessState) error {
	if err := s.liveness.check(st); err != nil {
		return err
	}
	_, err := s.call(variant.CapLivenessFinalize, uintptr(st))
	return err
}

// LivenessFree releases the state. The handle is invalid afterwards and
// further operations on it fail with invalid_handle.
func (s *Shim) LivenessFree(st monoshim.LivenessState) error {
	if err := s.liveness.remove(st); err != nil {
		return err
	}
	_, err := s.call(variant.CapLivenessFree, uintptr(st))
	return err
}
