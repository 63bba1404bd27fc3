//go:build windows

package vmem

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

func reserve(n int) ([]byte, error) {
	addr, err := windows.VirtualAlloc(0, uintptr(n), windows.MEM_RESERVE, windows.PAGE_NOACCESS)
	if err != nil {
		return nil, err
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(addr)), n), nil
}

func commit(span []byte) error {
	_, err := windows.VirtualAlloc(addressOf(span), uintptr(len(span)), windows.MEM_COMMIT, windows.PAGE_READWRITE)
	return err
}

func decommit(span []byte) error {
	return windows.VirtualFree(addressOf(span), uintptr(len(span)), windows.MEM_DECOMMIT)
}

func release(region []byte) error {
	return windows.VirtualFree(addressOf(region), 0, windows.MEM_RELEASE)
}

func addressOf(span []byte) uintptr {
	return uintptr(unsafe.Pointer(unsafe.SliceData(span)))
}
