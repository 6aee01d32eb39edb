//go:build !linux

package tasksched

func PinToCPU(int) error {
	return ErrPinUnsupported
}
