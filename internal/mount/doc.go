// Package mount wraps the mount, umount and showmount helpers used to
// reach dump targets on local and NFS file systems.
package mount
