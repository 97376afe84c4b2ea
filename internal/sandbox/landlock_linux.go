//go:build linux

package sandbox

import (
	"fmt"
	"syscall"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Filesystem rights known to each Landlock ABI version. Everything handled but
// not granted by a rule is denied.
const (
	fsRightsV1 = unix.LANDLOCK_ACCESS_FS_EXECUTE |
		unix.LANDLOCK_ACCESS_FS_WRITE_FILE |
		unix.LANDLOCK_ACCESS_FS_READ_FILE |
		unix.LANDLOCK_ACCESS_FS_READ_DIR |
		unix.LANDLOCK_ACCESS_FS_REMOVE_DIR |
		unix.LANDLOCK_ACCESS_FS_REMOVE_FILE |
		unix.LANDLOCK_ACCESS_FS_MAKE_CHAR |
		unix.LANDLOCK_ACCESS_FS_MAKE_DIR |
		unix.LANDLOCK_ACCESS_FS_MAKE_REG |
		unix.LANDLOCK_ACCESS_FS_MAKE_SOCK |
		unix.LANDLOCK_ACCESS_FS_MAKE_FIFO |
		unix.LANDLOCK_ACCESS_FS_MAKE_BLOCK |
		unix.LANDLOCK_ACCESS_FS_MAKE_SYM
	fsRightsV2 = fsRightsV1 | unix.LANDLOCK_ACCESS_FS_REFER
	fsRightsV3 = fsRightsV2 | unix.LANDLOCK_ACCESS_FS_TRUNCATE
	fsRightsV5 = fsRightsV3 | unix.LANDLOCK_ACCESS_FS_IOCTL_DEV

	readOnly = unix.LANDLOCK_ACCESS_FS_READ_FILE | unix.LANDLOCK_ACCESS_FS_READ_DIR
)

// ABI returns the Landlock ABI version of the running kernel, or 0 when
// Landlock is not available.
func ABI() int {
	v, _, errno := unix.Syscall(unix.SYS_LANDLOCK_CREATE_RULESET, 0, 0, unix.LANDLOCK_CREATE_RULESET_VERSION)
	if errno != 0 {
		return 0
	}
	return int(v)
}

func handledRights(abi int) uint64 {
	switch {
	case abi >= 5:
		return fsRightsV5
	case abi >= 3:
		return fsRightsV3
	case abi == 2:
		return fsRightsV2
	default:
		return fsRightsV1
	}
}

// Restrict leaves dir readable and denies every other filesystem access for
// all threads of the process. Sockets are not affected. On kernels without
// Landlock it returns Unsupported and a nil error.
func Restrict(dir string) (Status, error) {
	abi := ABI()
	if abi < 1 {
		return Unsupported, nil
	}

	attr := unix.LandlockRulesetAttr{Access_fs: handledRights(abi)}
	rfd, _, errno := unix.Syscall(unix.SYS_LANDLOCK_CREATE_RULESET,
		uintptr(unsafe.Pointer(&attr)), unsafe.Sizeof(attr), 0)
	if errno != 0 {
		if unsupported(errno) {
			return Unsupported, nil
		}
		return Unsupported, fmt.Errorf("landlock create ruleset: %w", errno)
	}
	defer unix.Close(int(rfd))

	dfd, err := unix.Open(dir, unix.O_PATH|unix.O_CLOEXEC|unix.O_DIRECTORY, 0)
	if err != nil {
		return Unsupported, fmt.Errorf("open %s: %w", dir, err)
	}
	defer unix.Close(dfd)

	rule := unix.LandlockPathBeneathAttr{Allowed_access: readOnly, Parent_fd: int32(dfd)}
	if _, _, errno := unix.Syscall6(unix.SYS_LANDLOCK_ADD_RULE, rfd,
		unix.LANDLOCK_RULE_PATH_BENEATH, uintptr(unsafe.Pointer(&rule)), 0, 0, 0); errno != 0 {
		return Unsupported, fmt.Errorf("landlock add rule for %s: %w", dir, errno)
	}

	if _, _, errno := syscall.AllThreadsSyscall(syscall.SYS_PRCTL, unix.PR_SET_NO_NEW_PRIVS, 1, 0); errno != 0 {
		if unsupported(errno) {
			return Unsupported, nil
		}
		return Unsupported, fmt.Errorf("prctl no_new_privs: %w", errno)
	}
	if _, _, errno := syscall.AllThreadsSyscall(unix.SYS_LANDLOCK_RESTRICT_SELF, rfd, 0, 0); errno != 0 {
		if unsupported(errno) {
			return Unsupported, nil
		}
		return Unsupported, fmt.Errorf("landlock restrict self: %w", errno)
	}
	return Enforced, nil
}

// AllThreadsSyscall reports ENOTSUP when the binary is built with cgo.
func unsupported(errno syscall.Errno) bool {
	return errno == unix.ENOSYS || errno == unix.EOPNOTSUPP
}
