package i2cdev

import (
	"context"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"github.com/pilebones/go-udev/crawler"
	"github.com/pilebones/go-udev/netlink"

	"candela/internal/logging"
)

// Candidate is an i2c device node that may lead to a display.
type Candidate struct {
	// Path is the device node, e.g. "/dev/i2c-4".
	Path string
	// SysPath is the kobject directory the node was found under.
	SysPath string
	// Bus is the adapter number, used for deterministic ordering.
	Bus int
}

// Candidates walks the udev device tree and returns the i2c device nodes
// worth probing for a display, ordered by bus number. Unless allBuses is
// set, only adapters hanging off a DRM device are returned; system
// management buses routinely lock up when probed at the DDC/CI address.
func Candidates(ctx context.Context, allBuses bool, logger *slog.Logger) ([]Candidate, error) {
	queue := make(chan crawler.Device)
	errs := make(chan error)
	quit := crawler.ExistingDevices(queue, errs, deviceRules())

	var out []Candidate
	for {
		select {
		case <-ctx.Done():
			close(quit)
			return nil, ctx.Err()
		case err := <-errs:
			logging.WarnWithContext(logger, "udev walk error", "udev_walk_error",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check /sys permissions"),
				logging.String(logging.FieldImpact, "some i2c buses may be missed"),
			)
		case dev, ok := <-queue:
			if !ok {
				sort.Slice(out, func(i, j int) bool { return out[i].Bus < out[j].Bus })
				return out, nil
			}
			if c, ok := candidateFrom(dev, allBuses); ok {
				out = append(out, c)
			} else if logger != nil {
				logger.Debug("skipping i2c adapter",
					logging.String("kobj", dev.KObj),
					logging.Bool("all_buses", allBuses),
				)
			}
		}
	}
}

// deviceRules matches uevent records of i2c character devices.
func deviceRules() netlink.Matcher {
	rules := &netlink.RuleDefinitions{}
	rules.AddRule(netlink.RuleDefinition{
		Env: map[string]string{"DEVNAME": `i2c-\d+`},
	})
	return rules
}

func candidateFrom(dev crawler.Device, allBuses bool) (Candidate, bool) {
	devname := dev.Env["DEVNAME"]
	bus, ok := busNumber(devname)
	if !ok {
		return Candidate{}, false
	}
	if !allBuses && !strings.Contains(dev.KObj, "/drm/") {
		return Candidate{}, false
	}
	return Candidate{Path: "/dev/" + devname, SysPath: dev.KObj, Bus: bus}, true
}

func busNumber(devname string) (int, bool) {
	num, ok := strings.CutPrefix(devname, "i2c-")
	if !ok {
		return 0, false
	}
	bus, err := strconv.Atoi(num)
	if err != nil {
		return 0, false
	}
	return bus, true
}

// OpenCandidate opens a candidate and records its sysfs provenance for
// cross-source correlation.
func OpenCandidate(c Candidate) (*Device, error) {
	d, err := Open(c.Path)
	if err != nil {
		return nil, err
	}
	d.sysPath = c.SysPath
	return d, nil
}
