//go:build unix

package fs

import (
	"golang.org/x/sys/unix"
)

func statfsSpace(root string, kind SpaceKind) (int64, error) {
	var st unix.Statfs_t
	if err := unix.Statfs(root, &st); err != nil {
		return 0, err
	}
	bsize := int64(st.Bsize)
	switch kind {
	case SpaceTotal:
		return int64(st.Blocks) * bsize, nil
	case SpaceFree:
		return int64(st.Bfree) * bsize, nil
	case SpaceUsable:
		return int64(st.Bavail) * bsize, nil
	}
	return 0, errInvalidMode
}
