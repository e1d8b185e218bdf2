// SPDX-License-Identifier: MPL-2.0

// Package toolchain drives the external native build that produces the
// shader-compiler artifacts: CMake configure, build and install steps.
//
// The steps run through the Runner capability. ExecRunner starts host
// processes; tests substitute a stub that records invocations, returns a
// chosen exit status and seeds a fake build tree. The packaging core only
// waits for the process and inspects its exit status.
package toolchain
