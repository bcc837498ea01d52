package scan

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"candela/internal/backend"
	"candela/internal/backend/i2cdev"
	"candela/internal/backend/xrandr"
	"candela/internal/config"
	"candela/internal/correlate"
	"candela/internal/ddc"
	"candela/internal/display"
	"candela/internal/edid"
	"candela/internal/identity"
	"candela/internal/logging"
)

// busDevice is the control-capable side of a correlation: an open transport
// with hardware provenance.
type busDevice interface {
	ddc.Handle
	Path() string
	SysPath() string
}

// platformOutput is a windowing-system record of a connected display.
type platformOutput interface {
	ddc.Handle
	Name() string
	RawEDID() []byte
}

// busNode is one probed transport together with the EDID captured while
// establishing that a display actually answers on it.
type busNode struct {
	dev  busDevice
	edid []byte
}

// Result is one completed enumeration pass.
type Result struct {
	// PassID tags every log record of the pass for correlation.
	PassID   string
	Displays []*display.Display
}

// Close releases every display in the result.
func (r *Result) Close() error {
	var first error
	for _, d := range r.Displays {
		if err := d.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Find returns the displays whose merged info matches q, in pass order.
func (r *Result) Find(q display.Query) []*display.Display {
	var out []*display.Display
	for _, d := range r.Displays {
		if q.Matches(d.Info()) {
			out = append(out, d)
		}
	}
	return out
}

// Enumerate runs one pass over the enabled backends. Only context
// cancellation aborts it; backend and per-device failures are logged and the
// pass continues with what it has.
func Enumerate(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Result, error) {
	passID := uuid.NewString()
	log := logging.NewComponentLogger(logger, "scan").
		With(logging.String(logging.FieldPassID, passID))

	var nodes []busNode
	if cfg.BackendEnabled(backend.I2CDevice) {
		var err error
		nodes, err = probeI2C(ctx, cfg, log)
		if err != nil {
			return nil, err
		}
	}

	var outputs []platformOutput
	if cfg.BackendEnabled(backend.XRandR) {
		src := xrandr.New(cfg.X11.Display, log)
		outs, err := src.Outputs()
		if err != nil {
			logging.WarnWithContext(log, "backend enumeration failed", "backend_failed",
				logging.Error(err),
				logging.String(logging.FieldBackend, backend.XRandR.String()),
				logging.String(logging.FieldErrorHint, "is an X server running and DISPLAY set?"),
				logging.String(logging.FieldImpact, "displays only visible to xrandr are missing from this pass"),
			)
		}
		for _, o := range outs {
			outputs = append(outputs, o)
		}
		// Output records carry their data; the connection is no longer needed.
		_ = src.Close()
	}

	displays := assemble(cfg.Scan.EDIDReadBytes, log, nodes, outputs)
	log.Info("enumeration complete",
		logging.Int("displays", len(displays)),
		logging.Int("i2c_nodes", len(nodes)),
		logging.Int("xrandr_outputs", len(outputs)),
	)
	return &Result{PassID: passID, Displays: displays}, nil
}

// probeI2C opens each candidate device node and keeps the ones a display
// answers on.
func probeI2C(ctx context.Context, cfg *config.Config, log *slog.Logger) ([]busNode, error) {
	var candidates []i2cdev.Candidate
	if len(cfg.I2C.Devices) > 0 {
		for _, path := range cfg.I2C.Devices {
			candidates = append(candidates, i2cdev.Candidate{Path: path})
		}
	} else {
		var err error
		candidates, err = i2cdev.Candidates(ctx, cfg.I2C.AllBuses, log)
		if err != nil {
			return nil, err
		}
	}

	var nodes []busNode
	for _, c := range candidates {
		if ctx.Err() != nil {
			for _, n := range nodes {
				_ = n.dev.Close()
			}
			return nil, ctx.Err()
		}
		dev, err := i2cdev.OpenCandidate(c)
		if err != nil {
			if errors.Is(err, ddc.ErrDeviceBusy) {
				logging.WarnWithContext(log, "device held by another process", "device_busy",
					logging.String("device", c.Path),
					logging.String(logging.FieldBackend, backend.I2CDevice.String()),
					logging.String(logging.FieldErrorHint, "wait for the other ddc client to finish"),
					logging.String(logging.FieldImpact, "display skipped this pass"),
				)
			} else {
				logging.WarnWithContext(log, "cannot open device", "device_open_failed",
					logging.Error(err),
					logging.String("device", c.Path),
					logging.String(logging.FieldBackend, backend.I2CDevice.String()),
					logging.String(logging.FieldErrorHint, "check permissions on the i2c device node"),
					logging.String(logging.FieldImpact, "display skipped this pass"),
				)
			}
			continue
		}
		raw := readEDID(dev, cfg.Scan.EDIDReadBytes)
		if raw == nil {
			// No EDID; a display may still answer DDC/CI directly.
			if _, err := dev.GetVCPFeature(ddc.FeatureVersion); err != nil {
				log.Debug("no display on bus",
					logging.String("device", c.Path),
				)
				_ = dev.Close()
				continue
			}
		}
		nodes = append(nodes, busNode{dev: dev, edid: raw})
	}
	return nodes, nil
}

// readEDID fetches and validates the EDID, returning nil when the bus has
// none to offer.
func readEDID(dev busDevice, size int) []byte {
	if size < edid.BlockSize {
		size = edid.BlockSize
	}
	buf := make([]byte, size)
	n, err := dev.ReadEDID(0, buf)
	if err != nil || n < edid.BlockSize {
		return nil
	}
	raw := buf[:n]
	if _, err := edid.Parse(raw); err != nil {
		return nil
	}
	return raw
}

// assemble correlates the two source lists and mints one Display per
// physical device.
func assemble(edidBytes int, log *slog.Logger, nodes []busNode, outputs []platformOutput) []*display.Display {
	res := correlate.MatchPositional(nodes, outputs, edidTier, connectorTier)
	reg := identity.NewRegistry()

	var displays []*display.Display
	add := func(id string, h ddc.Handle, b backend.Backend) {
		d := display.New(id, h)
		d.SetEDIDReadSize(edidBytes)
		// Seed the identification cache from the enumeration-time EDID so
		// Info is usable before any explicit update. Handles built here
		// serve this from the bytes already read, without wire traffic.
		if err := d.UpdateEDID(); err != nil {
			origin := b
			if ob, ok := ddc.ErrorBackend(err); ok {
				origin = ob
			}
			logging.WarnWithContext(log, "edid prefetch failed", "edid_prefetch_failed",
				logging.Error(err),
				logging.String(logging.FieldDisplayID, id),
				logging.String(logging.FieldBackend, origin.String()),
				logging.String(logging.FieldErrorHint, "the device answered enumeration but not the follow-up read"),
				logging.String(logging.FieldImpact, "record starts without EDID identification"),
			)
		}
		displays = append(displays, d)
		log.Debug("display registered",
			logging.String(logging.FieldDisplayID, id),
			logging.String(logging.FieldBackend, b.String()),
		)
	}

	for _, p := range res.Pairs {
		id := mintID(reg, len(displays),
			p.B.Name(),
			strings.TrimPrefix(p.A.dev.Path(), "/dev/"),
			modelName(p.A.edid),
		)
		raw := p.A.edid
		if raw == nil {
			raw = p.B.RawEDID()
		}
		add(id, newCompositeHandle(p.A.dev, p.B, raw), p.A.dev.Backend())
	}
	for _, n := range res.UnmatchedA {
		id := mintID(reg, len(displays),
			strings.TrimPrefix(n.dev.Path(), "/dev/"),
			modelName(n.edid),
		)
		add(id, newCompositeHandle(n.dev, nil, n.edid), n.dev.Backend())
	}
	for _, o := range res.UnmatchedB {
		id := mintID(reg, len(displays),
			o.Name(),
			modelName(o.RawEDID()),
		)
		add(id, o, o.Backend())
	}
	return displays
}

// edidTier: records with byte-identical base EDID blocks are the same
// display.
func edidTier(n busNode, o platformOutput) bool {
	a, b := n.edid, o.RawEDID()
	return len(a) >= edid.BlockSize && len(b) >= edid.BlockSize &&
		bytes.Equal(a[:edid.BlockSize], b[:edid.BlockSize])
}

// connectorTier: the sysfs path of a DRM-owned i2c bus embeds the connector
// directory, e.g. ".../card0-DP-1/i2c-4/...".
func connectorTier(n busNode, o platformOutput) bool {
	sys := n.dev.SysPath()
	name := o.Name()
	return sys != "" && name != "" && strings.Contains(sys, "-"+name+"/")
}

// mintID claims the first free candidate, falling back to the positional
// index which cannot collide.
func mintID(reg *identity.Registry, index int, candidates ...string) string {
	var id string
	for _, c := range candidates {
		if c == "" {
			continue
		}
		if got, ok := reg.Insert(c); ok {
			id = got
			break
		}
	}
	return reg.Indexed(id, index)
}

// genericModelNames are placeholder labels some displays and KVMs report;
// they would collide across distinct devices, so they never become ids.
var genericModelNames = map[string]struct{}{
	"Generic PnP Monitor": {},
	"Generic Monitor":     {},
	"LCD Monitor":         {},
	"Monitor":             {},
}

func modelName(raw []byte) string {
	if raw == nil {
		return ""
	}
	parsed, err := edid.Parse(raw)
	if err != nil {
		return ""
	}
	if _, generic := genericModelNames[parsed.ModelName]; generic {
		return ""
	}
	return parsed.ModelName
}
