package shim

import (
	monoshim "github.com/hostbridge/monoshim"
	"github.com/hostbridge/monoshim/errors"
	"github.com/hostbridge/monoshim/variant"
)

// EventMask selects which profiler event families the runtime reports.
// Values follow the runtime's own event flag encoding.
type EventMask uint32

const (
	EventNone             EventMask = 0
	EventAppDomainEvents  EventMask = 1 << 0
	EventAssemblyEvents   EventMask = 1 << 1
	EventModuleEvents     EventMask = 1 << 2
	EventClassEvents      EventMask = 1 << 3
	EventJITCompilation   EventMask = 1 << 4
	EventInlining         EventMask = 1 << 5
	EventExceptions       EventMask = 1 << 6
	EventAllocations      EventMask = 1 << 7
	EventGCEvents         EventMask = 1 << 8
	EventThreads          EventMask = 1 << 9
	EventRemoting         EventMask = 1 << 10
	EventTransitions      EventMask = 1 << 11
	EventEnterLeave       EventMask = 1 << 12
	EventCoverage         EventMask = 1 << 13
	EventInsCoverage      EventMask = 1 << 14
	EventStatistical      EventMask = 1 << 15
	EventMethodEvents     EventMask = 1 << 16
	EventMonitorEvents    EventMask = 1 << 17
	EventIomapEvents      EventMask = 1 << 18
	EventGCMoves          EventMask = 1 << 19
)

// ProfileFunc is the profiler shutdown hook.
type ProfileFunc func(prof monoshim.Profiler)

// ProfileThreadFunc observes managed thread start and end.
type ProfileThreadFunc func(prof monoshim.Profiler, tid uintptr)

// ProfileAllocFunc observes a managed allocation.
type ProfileAllocFunc func(prof monoshim.Profiler, obj monoshim.Object, klass monoshim.Class)

// ProfileMethodFunc observes method enter or leave.
type ProfileMethodFunc func(prof monoshim.Profiler, method monoshim.Method)

// ProfileExceptionFunc observes a thrown managed exception.
type ProfileExceptionFunc func(prof monoshim.Profiler, obj monoshim.Object)

// ProfileExceptionClauseFunc observes execution of an exception clause.
type ProfileExceptionClauseFunc func(prof monoshim.Profiler, method monoshim.Method, clauseType int32, clauseNum int32)

// ProfileGCFunc observes a garbage collection phase change.
type ProfileGCFunc func(prof monoshim.Profiler, event int32, generation int32)

// ProfileGCResizeFunc observes heap resizes.
type ProfileGCResizeFunc func(prof monoshim.Profiler, newSize int64)

// ProfileJITResultFunc observes JIT compilation completing.
type ProfileJITResultFunc func(prof monoshim.Profiler, method monoshim.Method, jinfo uintptr, result int32)

// InstallProfiler registers prof with the runtime and a shutdown hook to
// run when the runtime tears the profiler down. Installed callbacks stay
// referenced for the life of the process; the runtime offers no
// uninstall.
func (s *Shim) InstallProfiler(prof monoshim.Profiler, shutdown ProfileFunc) error {
	cb, err := s.callbacks.make(s, shutdown)
	if err != nil {
		return err
	}
	_, err = s.call(variant.CapProfilerInstall, uintptr(prof), cb)
	return err
}

// InstallThreadCallbacks registers thread start and end observers. At
// least one must be non-nil.
func (s *Shim) InstallThreadCallbacks(start, end ProfileThreadFunc) error {
	if start == nil && end == nil {
		return errors.InvalidInput(errors.PhaseCall, "thread callbacks require start or end")
	}
	startCB, err := s.callbacks.make(s, start)
	if err != nil {
		return err
	}
	endCB, err := s.callbacks.make(s, end)
	if err != nil {
		return err
	}
	_, err = s.call(variant.CapProfilerInstallThread, startCB, endCB)
	return err
}

// InstallAllocationCallback registers an allocation observer. Takes
// effect only when EventAllocations is set.
func (s *Shim) InstallAllocationCallback(alloc ProfileAllocFunc) error {
	if alloc == nil {
		return errors.InvalidInput(errors.PhaseCall, "nil allocation callback")
	}
	cb, err := s.callbacks.make(s, alloc)
	if err != nil {
		return err
	}
	_, err = s.call(variant.CapProfilerInstallAllocation, cb)
	return err
}

// InstallEnterLeaveCallbacks registers method enter and leave observers.
// At least one must be non-nil.
func (s *Shim) InstallEnterLeaveCallbacks(enter, leave ProfileMethodFunc) error {
	if enter == nil && leave == nil {
		return errors.InvalidInput(errors.PhaseCall, "enter-leave callbacks require enter or leave")
	}
	enterCB, err := s.callbacks.make(s, enter)
	if err != nil {
		return err
	}
	leaveCB, err := s.callbacks.make(s, leave)
	if err != nil {
		return err
	}
	_, err = s.call(variant.CapProfilerInstallEnterLeave, enterCB, leaveCB)
	return err
}

// InstallExceptionCallbacks registers throw, method-leave and clause
// observers for managed exceptions. At least one must be non-nil.
func (s *Shim) InstallExceptionCallbacks(throw ProfileExceptionFunc, leave ProfileMethodFunc, clause ProfileExceptionClauseFunc) error {
	if throw == nil && leave == nil && clause == nil {
		return errors.InvalidInput(errors.PhaseCall, "exception callbacks all nil")
	}
	throwCB, err := s.callbacks.make(s, throw)
	if err != nil {
		return err
	}
	leaveCB, err := s.callbacks.make(s, leave)
	if err != nil {
		return err
	}
	clauseCB, err := s.callbacks.make(s, clause)
	if err != nil {
		return err
	}
	_, err = s.call(variant.CapProfilerInstallException, throwCB, leaveCB, clauseCB)
	return err
}

// InstallGCCallbacks registers collection and heap-resize observers.
// Takes effect only when EventGCEvents is set.
func (s *Shim) InstallGCCallbacks(event ProfileGCFunc, resize ProfileGCResizeFunc) error {
	if event == nil && resize == nil {
		return errors.InvalidInput(errors.PhaseCall, "gc callbacks require event or resize")
	}
	eventCB, err := s.callbacks.make(s, event)
	if err != nil {
		return err
	}
	resizeCB, err := s.callbacks.make(s, resize)
	if err != nil {
		return err
	}
	_, err = s.call(variant.CapProfilerInstallGC, eventCB, resizeCB)
	return err
}

// InstallJITEndCallback registers a JIT compilation completion observer.
func (s *Shim) InstallJITEndCallback(end ProfileJITResultFunc) error {
	if end == nil {
		return errors.InvalidInput(errors.PhaseCall, "nil jit end callback")
	}
	cb, err := s.callbacks.make(s, end)
	if err != nil {
		return err
	}
	_, err = s.call(variant.CapProfilerInstallJITEnd, cb)
	return err
}

// SetProfilerEvents selects which event families the runtime reports to
// installed callbacks.
func (s *Shim) SetProfilerEvents(mask EventMask) error {
	_, err := s.call(variant.CapProfilerSetEvents, uintptr(mask))
	return err
}
