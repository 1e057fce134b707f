package shim

import (
	"testing"

	monoshim "github.com/hostbridge/monoshim"
	"github.com/hostbridge/monoshim/errors"
)

func newLivenessRuntime() *testRuntime {
	tr := newLegacyRuntime()
	tr.export("mono_unity_liveness_allocate_struct", func(args []uintptr) uintptr {
		return 0xabc0
	})
	tr.export("mono_unity_liveness_stop_gc_world", nil)
	tr.export("mono_unity_liveness_start_gc_world", nil)
	tr.export("mono_unity_liveness_calculation_from_root", nil)
	tr.export("mono_unity_liveness_calculation_from_statics", nil)
	tr.export("mono_unity_liveness_finalize", nil)
	tr.export("mono_unity_liveness_free_struct", nil)
	return tr
}

func noopObjects(arr uintptr, count int32, userdata uintptr) {}

func TestLivenessLifecycle(t *testing.T) {
	tr := newLivenessRuntime()
	s := tr.attach(t)

	st, err := s.LivenessAllocate(0, 64, LivenessCallbacks{OnObjects: noopObjects}, 0x11)
	if err != nil {
		t.Fatalf("LivenessAllocate() error = %v", err)
	}
	if st != monoshim.LivenessState(0xabc0) {
		t.Errorf("state = %#x", uintptr(st))
	}

	// The allocate call carries filter, max count, objects callback,
	// userdata, world-start callback.
	call := tr.inv.lastCall()
	if len(call.args) != 5 {
		t.Fatalf("allocate args = %#v", call.args)
	}
	if call.args[1] != 64 || call.args[3] != 0x11 {
		t.Errorf("maxCount/userdata args = %#v", call.args)
	}
	if call.args[2] == 0 {
		t.Error("objects callback pointer must be non-null")
	}
	if call.args[4] != 0 {
		t.Error("absent world-start callback should pass the null pointer")
	}

	if err := s.LivenessStopWorld(st); err != nil {
		t.Fatalf("LivenessStopWorld() error = %v", err)
	}
	if err := s.LivenessWalkFromRoot(monoshim.Object(0x99), st); err != nil {
		t.Fatalf("LivenessWalkFromRoot() error = %v", err)
	}
	if err := s.LivenessWalkFromStatics(st); err != nil {
		t.Fatalf("LivenessWalkFromStatics() error = %v", err)
	}
	if err := s.LivenessStartWorld(st); err != nil {
		t.Fatalf("LivenessStartWorld() error = %v", err)
	}
	if err := s.LivenessFinalize(st); err != nil {
		t.Fatalf("LivenessFinalize() error = %v", err)
	}
	if err := s.LivenessFree(st); err != nil {
		t.Fatalf("LivenessFree() error = %v", err)
	}
}

func TestLivenessFreedStateRejected(t *testing.T) {
	tr := newLivenessRuntime()
	s := tr.attach(t)

	st, err := s.LivenessAllocate(0, 8, LivenessCallbacks{OnObjects: noopObjects}, 0)
	if err != nil {
		t.Fatalf("LivenessAllocate() error = %v", err)
	}
	if err := s.LivenessFree(st); err != nil {
		t.Fatalf("LivenessFree() error = %v", err)
	}

	calls := tr.inv.callCount()
	if err := s.LivenessStopWorld(st); !errors.IsInvalidHandle(err) {
		t.Errorf("freed state StopWorld error = %v, want invalid_handle", err)
	}
	if err := s.LivenessFree(st); !errors.IsInvalidHandle(err) {
		t.Errorf("double free error = %v, want invalid_handle", err)
	}
	if got := tr.inv.callCount(); got != calls {
		t.Errorf("rejected operations reached the runtime (%d calls)", got-calls)
	}
}

func TestLivenessUnknownStateRejected(t *testing.T) {
	s := newLivenessRuntime().attach(t)
	if err := s.LivenessWalkFromStatics(monoshim.LivenessState(0xdead)); !errors.IsInvalidHandle(err) {
		t.Errorf("unknown state error = %v, want invalid_handle", err)
	}
}

func TestLivenessAllocateValidation(t *testing.T) {
	s := newLivenessRuntime().attach(t)

	if _, err := s.LivenessAllocate(0, 8, LivenessCallbacks{}, 0); err == nil {
		t.Error("missing OnObjects should fail")
	}
	if _, err := s.LivenessAllocate(0, 0, LivenessCallbacks{OnObjects: noopObjects}, 0); err == nil {
		t.Error("non-positive max count should fail")
	}
}

func TestLivenessWalkNilRoot(t *testing.T) {
	tr := newLivenessRuntime()
	s := tr.attach(t)
	st, err := s.LivenessAllocate(0, 8, LivenessCallbacks{OnObjects: noopObjects}, 0)
	if err != nil {
		t.Fatalf("LivenessAllocate() error = %v", err)
	}
	if err := s.LivenessWalkFromRoot(0, st); !errors.IsInvalidHandle(err) {
		t.Errorf("nil root error = %v, want invalid_handle", err)
	}
}
