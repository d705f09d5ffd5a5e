package kernel

import "chime/internal/buildinfo"

// ABIRevision identifies the kernel call surface. Bump it whenever a
// public operation changes shape so images and loaders can refuse to
// mix.
const ABIRevision = 1

// ABIInfo is the build-time identity reported by SyscallABI.
type ABIInfo struct {
	Revision      int
	TickFrequency uint32
	Version       string
	Commit        string
}

// SyscallABI returns the kernel's build-time ABI identity. It is a
// pure probe: no kernel state is touched and no lock is taken.
func SyscallABI() ABIInfo {
	return ABIInfo{
		Revision:      ABIRevision,
		TickFrequency: TickFrequency,
		Version:       buildinfo.Version,
		Commit:        buildinfo.Commit,
	}
}
