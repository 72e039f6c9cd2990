//go:build !unix

package fs

func statfsSpace(root string, kind SpaceKind) (int64, error) {
	return 0, errUnsupported
}
