package shim

import (
	"testing"

	monoshim "github.com/hostbridge/monoshim"
	"github.com/hostbridge/monoshim/errors"
)

func newProfilerRuntime() *testRuntime {
	tr := newLegacyRuntime()
	tr.export("mono_profiler_install", nil)
	tr.export("mono_profiler_install_thread", nil)
	tr.export("mono_profiler_install_allocation", nil)
	tr.export("mono_profiler_install_enter_leave", nil)
	tr.export("mono_profiler_install_exception", nil)
	tr.export("mono_profiler_install_gc", nil)
	tr.export("mono_profiler_install_jit_end", nil)
	tr.export("mono_profiler_set_events", nil)
	return tr
}

func TestInstallProfiler(t *testing.T) {
	tr := newProfilerRuntime()
	s := tr.attach(t)

	err := s.InstallProfiler(monoshim.Profiler(0x77), func(p monoshim.Profiler) {})
	if err != nil {
		t.Fatalf("InstallProfiler() error = %v", err)
	}
	call := tr.inv.lastCall()
	if len(call.args) != 2 || call.args[0] != 0x77 {
		t.Errorf("install args = %#v", call.args)
	}
	if call.args[1] == 0 {
		t.Error("shutdown callback pointer must be non-null")
	}
}

func TestInstallThreadCallbacksValidation(t *testing.T) {
	tr := newProfilerRuntime()
	s := tr.attach(t)

	if err := s.InstallThreadCallbacks(nil, nil); err == nil {
		t.Error("both callbacks nil should fail")
	}

	err := s.InstallThreadCallbacks(func(p monoshim.Profiler, tid uintptr) {}, nil)
	if err != nil {
		t.Fatalf("InstallThreadCallbacks() error = %v", err)
	}
	call := tr.inv.lastCall()
	if call.args[0] == 0 || call.args[1] != 0 {
		t.Errorf("thread callback args = %#v, want start set and end null", call.args)
	}
}

func TestInstallCallbacksNilValidation(t *testing.T) {
	s := newProfilerRuntime().attach(t)

	cases := []struct {
		name string
		call func() error
	}{
		{"allocation", func() error { return s.InstallAllocationCallback(nil) }},
		{"enter-leave", func() error { return s.InstallEnterLeaveCallbacks(nil, nil) }},
		{"exception", func() error { return s.InstallExceptionCallbacks(nil, nil, nil) }},
		{"gc", func() error { return s.InstallGCCallbacks(nil, nil) }},
		{"jit-end", func() error { return s.InstallJITEndCallback(nil) }},
	}
	for _, tc := range cases {
		err := tc.call()
		e, ok := err.(*errors.Error)
		if !ok || e.Kind != errors.KindInvalidInput {
			t.Errorf("%s: error = %v, want invalid_input", tc.name, err)
		}
	}
}

func TestSetProfilerEvents(t *testing.T) {
	tr := newProfilerRuntime()
	s := tr.attach(t)

	mask := EventAllocations | EventGCEvents | EventEnterLeave
	if err := s.SetProfilerEvents(mask); err != nil {
		t.Fatalf("SetProfilerEvents() error = %v", err)
	}
	call := tr.inv.lastCall()
	if call.args[0] != uintptr(mask) {
		t.Errorf("event mask = %#x, want %#x", call.args[0], uintptr(mask))
	}
}

func TestProfilerUnavailableExport(t *testing.T) {
	// Legacy runtime without any profiler exports.
	s := newLegacyRuntime().attach(t)
	err := s.SetProfilerEvents(EventAllocations)
	if !errors.IsUnsupported(err) {
		t.Errorf("SetProfilerEvents() error = %v, want unsupported", err)
	}
}
