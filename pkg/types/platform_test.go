// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"runtime"
	"testing"
)

func TestPlatformValidate(t *testing.T) {
	t.Parallel()

	for _, p := range Platforms() {
		if err := p.Validate(); err != nil {
			t.Errorf("%q.Validate() = %v, want nil", p, err)
		}
	}

	err := Platform("freebsd").Validate()
	if !errors.Is(err, ErrInvalidPlatform) {
		t.Errorf("Validate() error = %v, want ErrInvalidPlatform", err)
	}
}

func TestPlatformIsPOSIX(t *testing.T) {
	t.Parallel()

	if !PlatformLinux.IsPOSIX() || !PlatformMacOS.IsPOSIX() {
		t.Error("linux and macos must be POSIX platforms")
	}
	if PlatformWindows.IsPOSIX() {
		t.Error("windows must not be a POSIX platform")
	}
}

func TestHostPlatform(t *testing.T) {
	t.Parallel()

	want := PlatformLinux
	switch runtime.GOOS {
	case "windows":
		want = PlatformWindows
	case "darwin":
		want = PlatformMacOS
	}
	if got := HostPlatform(); got != want {
		t.Errorf("HostPlatform() = %q, want %q", got, want)
	}
}
