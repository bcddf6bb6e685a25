// Package config loads the device table used to probe virtual devices.
//
// The table is YAML:
//
//	devices:
//	  - name: vDev-Ax
//	    size: 512
//	    permission: rdwr
//	    serial: VDEV-AX-1111
//
// Permissions are rdonly, wronly or rdwr, or the numeric values 1, 2 and 3.
// Devices are probed in table order, so the first entry becomes vDev-0.
package config
