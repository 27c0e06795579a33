//go:build linux

// Package thread pins the calling goroutine's OS thread to one CPU core,
// which keeps frame pacing steady on busy machines.
package thread

/*
   #define _GNU_SOURCE
   #include <sched.h>
   #include <pthread.h>

   int set_cpu_affinity(int core_id) {
       cpu_set_t cpuset;
       CPU_ZERO(&cpuset);
       CPU_SET(core_id, &cpuset);
       return pthread_setaffinity_np(pthread_self(), sizeof(cpu_set_t), &cpuset);
   }
*/
import "C"

import (
	"runtime"
	"syscall"

	"github.com/pkg/errors"
)

// Pin locks the calling goroutine to its OS thread and restricts that
// thread to core. On failure the goroutine is unlocked again.
func Pin(core int) error {
	if core < 0 || core >= runtime.NumCPU() {
		return errors.Errorf("cpu %d out of range [0, %d)", core, runtime.NumCPU())
	}

	runtime.LockOSThread()
	if rc := C.set_cpu_affinity(C.int(core)); rc != 0 {
		runtime.UnlockOSThread()
		return errors.Wrapf(syscall.Errno(rc), "pin to cpu %d", core)
	}
	return nil
}

// Unpin releases the goroutine from its OS thread.
func Unpin() {
	runtime.UnlockOSThread()
}
