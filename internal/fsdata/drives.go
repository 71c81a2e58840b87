package fsdata

import (
	"bufio"
	"io"
	"os"
	"strings"
)

// Drive is one mounted filesystem worth showing in the drive list.
type Drive struct {
	Device     string
	MountPoint string
	FSType     string
}

// pseudoFS lists filesystem types that are plumbing, not storage.
var pseudoFS = map[string]bool{
	"proc": true, "sysfs": true, "devtmpfs": true, "devpts": true,
	"cgroup": true, "cgroup2": true, "securityfs": true, "pstore": true,
	"bpf": true, "tracefs": true, "debugfs": true, "configfs": true,
	"fusectl": true, "mqueue": true, "hugetlbfs": true, "ramfs": true,
	"autofs": true, "binfmt_misc": true, "rpc_pipefs": true,
	"nsfs": true, "overlay": true, "squashfs": true, "tmpfs": true,
}

// Drives returns the mounted filesystems, falling back to the root
// filesystem on platforms without /proc/mounts.
func Drives() []Drive {
	file, err := os.Open("/proc/mounts")
	if err != nil {
		return []Drive{{Device: "root", MountPoint: string(os.PathSeparator)}}
	}
	defer file.Close()

	drives := parseMounts(file)
	if len(drives) == 0 {
		return []Drive{{Device: "root", MountPoint: string(os.PathSeparator)}}
	}
	return drives
}

// parseMounts reads /proc/mounts-formatted data, keeping real storage
// mounts and skipping pseudo filesystems. Malformed lines are ignored.
func parseMounts(r io.Reader) []Drive {
	var drives []Drive
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 3 {
			continue
		}
		device, mount, fstype := fields[0], fields[1], fields[2]
		if pseudoFS[fstype] {
			continue
		}
		// Octal escapes per the mounts format; spaces are the common one.
		mount = strings.ReplaceAll(mount, `\040`, " ")
		if seen[mount] {
			continue
		}
		seen[mount] = true
		drives = append(drives, Drive{Device: device, MountPoint: mount, FSType: fstype})
	}
	return drives
}
