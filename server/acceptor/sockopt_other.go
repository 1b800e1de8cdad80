//go:build !unix

package acceptor

import "syscall"

func setSocketOptions(network, address string, c syscall.RawConn) error {
	return nil
}
