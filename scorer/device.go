package scorer

import (
	"fmt"
	"runtime"
	"strings"

	"golang.org/x/sys/cpu"

	"github.com/hupe1980/poseact/distance"
)

// Device selects where a scorer runs its computation.
// In-process scorers only run on the CPU; remote scorers forward the
// selection to the model server.
type Device uint8

const (
	// DeviceAuto lets the scorer pick.
	DeviceAuto Device = iota
	// DeviceCPU forces CPU execution.
	DeviceCPU
	// DeviceCUDA requests a CUDA accelerator.
	DeviceCUDA
)

func (d Device) String() string {
	switch d {
	case DeviceAuto:
		return "auto"
	case DeviceCPU:
		return "cpu"
	case DeviceCUDA:
		return "cuda"
	default:
		return "unknown"
	}
}

// ParseDevice parses a device name. "cuda:0" style suffixes are accepted.
func ParseDevice(s string) (Device, error) {
	name, _, _ := strings.Cut(strings.ToLower(strings.TrimSpace(s)), ":")
	switch name {
	case "", "auto":
		return DeviceAuto, nil
	case "cpu":
		return DeviceCPU, nil
	case "cuda", "gpu":
		return DeviceCUDA, nil
	default:
		return DeviceAuto, fmt.Errorf("unknown device %q", s)
	}
}

// Capabilities describes the host CPU as seen by in-process scorers.
type Capabilities struct {
	Arch   string
	CPUs   int
	AVX2   bool
	AVX512 bool
	NEON   bool
}

// String returns a compact summary such as "amd64/8cpu/avx2".
func (c Capabilities) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s/%dcpu", c.Arch, c.CPUs)
	if c.AVX512 {
		b.WriteString("/avx512")
	} else if c.AVX2 {
		b.WriteString("/avx2")
	}
	if c.NEON {
		b.WriteString("/neon")
	}
	return b.String()
}

// WideVectors reports whether the CPU has wide SIMD units.
func (c Capabilities) WideVectors() bool {
	return c.AVX2 || c.AVX512 || c.NEON
}

// Kernel picks the frame similarity kernel for this CPU: unrolled loops
// when wide vector units can run the independent accumulators in parallel,
// a plain loop otherwise.
func (c Capabilities) Kernel() distance.Kernel {
	if c.WideVectors() {
		return distance.KernelUnrolled
	}
	return distance.KernelPlain
}

// DetectCapabilities reports the CPU features of the host.
func DetectCapabilities() Capabilities {
	return Capabilities{
		Arch:   runtime.GOARCH,
		CPUs:   runtime.GOMAXPROCS(0),
		AVX2:   cpu.X86.HasAVX2 && cpu.X86.HasFMA,
		AVX512: cpu.X86.HasAVX512F,
		NEON:   cpu.ARM64.HasASIMD,
	}
}
