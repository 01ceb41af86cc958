// Package vulkan implements the frame loop's device, queue and swapchain
// contracts on top of github.com/vulkan-go/vulkan.
package vulkan

import (
	"unsafe"

	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"

	"frameloop/gfx"
	"frameloop/log"
)

var logger = log.New("vulkan")

// Handles are carried through gfx.Handle as the raw 64 bit value of the
// Vulkan object, which on 64 bit targets is a pointer into driver memory.

func toHandle(p unsafe.Pointer) gfx.Handle {
	return gfx.Handle(uintptr(p))
}

func toPointer(h gfx.Handle) unsafe.Pointer {
	return unsafe.Pointer(uintptr(h))
}

func check(res vk.Result, what string) error {
	if err := vk.Error(res); err != nil {
		return errors.Wrapf(err, "failed to %s", what)
	}
	return nil
}

// safeString terminates s with a NUL byte as vulkan-go expects for C
// strings.
func safeString(s string) string {
	if len(s) == 0 || s[len(s)-1] != 0 {
		return s + "\x00"
	}
	return s
}

func safeStrings(list []string) []string {
	result := make([]string, len(list))
	for i, s := range list {
		result[i] = safeString(s)
	}
	return result
}
