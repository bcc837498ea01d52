package xrandr

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"

	"candela/internal/backend"
	"candela/internal/ddc"
	"candela/internal/logging"
)

const edidPropertyName = "EDID"

// Source owns one X server connection, established lazily on first use so
// constructing the source never fails on headless systems.
type Source struct {
	display string
	logger  *slog.Logger

	once    sync.Once
	xu      *xgbutil.XUtil
	connErr error
}

// New returns a source for the given DISPLAY, or the environment default
// when display is empty.
func New(display string, logger *slog.Logger) *Source {
	return &Source{
		display: display,
		logger:  logging.NewComponentLogger(logger, "xrandr"),
	}
}

func (s *Source) conn() (*xgbutil.XUtil, error) {
	s.once.Do(func() {
		xu, err := xgbutil.NewConnDisplay(s.display)
		if err != nil {
			s.connErr = fmt.Errorf("connect to X server: %w", err)
			return
		}
		if err := randr.Init(xu.Conn()); err != nil {
			xu.Conn().Close()
			s.connErr = fmt.Errorf("randr init: %w", err)
			return
		}
		s.xu = xu
	})
	return s.xu, s.connErr
}

// Close drops the X connection if one was established.
func (s *Source) Close() error {
	if s.xu != nil {
		s.xu.Conn().Close()
	}
	return nil
}

// Outputs lists the connected RandR outputs with whatever EDID the X server
// exposes for them. Per-output failures are logged and skipped.
func (s *Source) Outputs() ([]*Output, error) {
	xu, err := s.conn()
	if err != nil {
		return nil, ddc.WrapBackend(backend.XRandR, "connect", err)
	}
	conn := xu.Conn()

	resources, err := randr.GetScreenResources(conn, xu.RootWin()).Reply()
	if err != nil {
		return nil, ddc.WrapBackend(backend.XRandR, "screen resources", err)
	}

	edidAtom := s.edidAtom(xu)

	var outputs []*Output
	for _, out := range resources.Outputs {
		info, err := randr.GetOutputInfo(conn, out, resources.ConfigTimestamp).Reply()
		if err != nil {
			logging.WarnWithContext(s.logger, "output query failed", "randr_output_failed",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "the output may have been reconfigured mid-scan"),
				logging.String(logging.FieldImpact, "one output skipped"),
			)
			continue
		}
		if info.Connection != randr.ConnectionConnected {
			continue
		}
		o := &Output{name: string(info.Name)}
		if edidAtom != xproto.AtomNone {
			o.edid = s.readEDIDProperty(xu, out, edidAtom, o.name)
		}
		outputs = append(outputs, o)
	}
	return outputs, nil
}

func (s *Source) edidAtom(xu *xgbutil.XUtil) xproto.Atom {
	reply, err := xproto.InternAtom(xu.Conn(), true,
		uint16(len(edidPropertyName)), edidPropertyName).Reply()
	if err != nil || reply == nil {
		return xproto.AtomNone
	}
	return reply.Atom
}

func (s *Source) readEDIDProperty(xu *xgbutil.XUtil, out randr.Output, atom xproto.Atom, name string) []byte {
	// Type AtomNone means AnyPropertyType.
	prop, err := randr.GetOutputProperty(xu.Conn(), out, atom, xproto.AtomNone,
		0, 256, false, false).Reply()
	if err != nil {
		s.logger.Debug("no EDID property",
			logging.String("output", name),
			logging.Error(err),
		)
		return nil
	}
	if prop.Format != 8 || len(prop.Data) == 0 {
		return nil
	}
	return append([]byte(nil), prop.Data...)
}

// Output is one connected RandR output. It satisfies the display handle
// contract but can only serve cached EDID bytes.
type Output struct {
	name string
	edid []byte
}

// Name is the connector name the X server reports, e.g. "DP-2".
func (o *Output) Name() string { return o.name }

// RawEDID returns the cached EDID property without copying, nil when the X
// server exposes none.
func (o *Output) RawEDID() []byte { return o.edid }

func (o *Output) Backend() backend.Backend { return backend.XRandR }

func (o *Output) ReadEDID(offset uint8, buf []byte) (int, error) {
	if len(o.edid) == 0 {
		return 0, ddc.ErrUnsupported
	}
	if int(offset) >= len(o.edid) {
		return 0, nil
	}
	return copy(buf, o.edid[offset:]), nil
}

func (o *Output) CapabilitiesString() ([]byte, error) {
	return nil, ddc.ErrUnsupported
}

func (o *Output) GetVCPFeature(ddc.FeatureCode) (ddc.Value, error) {
	return ddc.Value{}, ddc.ErrUnsupported
}

func (o *Output) SetVCPFeature(ddc.FeatureCode, uint16) error {
	return ddc.ErrUnsupported
}

func (o *Output) SaveSettings() error { return ddc.ErrUnsupported }

func (o *Output) TableRead(ddc.FeatureCode) ([]byte, error) {
	return nil, ddc.ErrUnsupported
}

func (o *Output) TableWrite(ddc.FeatureCode, uint16, []byte) error {
	return ddc.ErrUnsupported
}

// Close is a no-op; the X connection belongs to the Source.
func (o *Output) Close() error { return nil }
