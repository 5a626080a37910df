package cpu

import (
	"fmt"
	"runtime"
	"strings"

	"golang.org/x/sys/cpu"

	"github.com/nozzle/kernelplan/internal/parallel"
)

// DeviceInfo describes the host the executor runs on.
type DeviceInfo struct {
	Arch     string
	Workers  int
	Features []string
}

func (d DeviceInfo) String() string {
	return fmt.Sprintf("%s, %d workers, features: %s", d.Arch, d.Workers, strings.Join(d.Features, " "))
}

// Device reports the host architecture, the default worker count and the
// instruction set extensions relevant to the generator and matmul kernels.
func Device() DeviceInfo {
	d := DeviceInfo{Arch: runtime.GOARCH, Workers: parallel.NumWorkers()}
	add := func(name string, ok bool) {
		if ok {
			d.Features = append(d.Features, name)
		}
	}
	switch runtime.GOARCH {
	case "amd64", "386":
		add("SSE4", cpu.X86.HasSSE41 || cpu.X86.HasSSE42)
		add("AVX", cpu.X86.HasAVX)
		add("AVX2", cpu.X86.HasAVX2)
		add("AVX512F", cpu.X86.HasAVX512F)
		add("FMA", cpu.X86.HasFMA)
		// MULX gives the flag-free wide multiply Philox relies on.
		add("BMI2", cpu.X86.HasBMI2)
	case "arm64":
		add("ASIMD", cpu.ARM64.HasASIMD)
		add("FP", cpu.ARM64.HasFP)
		add("ATOMICS", cpu.ARM64.HasATOMICS)
		add("SVE", cpu.ARM64.HasSVE)
	}
	if len(d.Features) == 0 {
		d.Features = []string{"scalar"}
	}
	return d
}
