// Package ownership hands files written under sudo back to the invoking user.
package ownership

import (
	"fmt"
	"os"
	"os/user"
	"strconv"
)

// Identity is the user a file should belong to.
type Identity struct {
	User string
	UID  int
	GID  int
	// Elevated is set when the process runs as root on behalf of User.
	Elevated bool
}

// Resolve returns the invoking identity. Under sudo this is the user named
// by SUDO_USER/SUDO_UID/SUDO_GID, otherwise the current user.
func Resolve() (Identity, error) {
	return resolve(os.Getenv, os.Geteuid())
}

func resolve(getenv func(string) string, euid int) (Identity, error) {
	if name := getenv("SUDO_USER"); name != "" && euid == 0 {
		uid, err := strconv.Atoi(getenv("SUDO_UID"))
		if err != nil {
			return Identity{}, fmt.Errorf("parsing SUDO_UID: %w", err)
		}
		gid, err := strconv.Atoi(getenv("SUDO_GID"))
		if err != nil {
			return Identity{}, fmt.Errorf("parsing SUDO_GID: %w", err)
		}
		return Identity{User: name, UID: uid, GID: gid, Elevated: true}, nil
	}

	current, err := user.Current()
	if err != nil {
		return Identity{}, fmt.Errorf("looking up current user: %w", err)
	}
	uid, _ := strconv.Atoi(current.Uid)
	gid, _ := strconv.Atoi(current.Gid)
	return Identity{User: current.Username, UID: uid, GID: gid}, nil
}

// Fix chowns path to the identity. It does nothing unless elevated.
func (id Identity) Fix(path string) error {
	if !id.Elevated {
		return nil
	}
	if err := os.Chown(path, id.UID, id.GID); err != nil {
		return fmt.Errorf("restoring ownership of %s to %s: %w", path, id.User, err)
	}
	return nil
}
