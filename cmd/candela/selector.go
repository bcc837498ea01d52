package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"candela/internal/backend"
	"candela/internal/ddc"
	"candela/internal/display"
	"candela/internal/logging"
	"candela/internal/scan"
)

// selectorFlags are the shared display selection flags. All given criteria
// must match; with none given every display matches.
type selectorFlags struct {
	id           string
	backend      string
	manufacturer string
	model        string
	serial       string
}

func (s *selectorFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&s.id, "display", "d", "", "Select by display identifier")
	cmd.Flags().StringVar(&s.backend, "backend", "", "Select by backend (i2c-dev, xrandr)")
	cmd.Flags().StringVar(&s.manufacturer, "manufacturer", "", "Select by EDID manufacturer code, e.g. DEL")
	cmd.Flags().StringVar(&s.model, "model", "", "Select by model name")
	cmd.Flags().StringVar(&s.serial, "serial", "", "Select by serial number")
}

func (s *selectorFlags) query() (display.Query, error) {
	var queries []display.Query
	if s.id != "" {
		queries = append(queries, display.IDIs(s.id))
	}
	if s.backend != "" {
		b, err := backend.Parse(s.backend)
		if err != nil {
			return nil, err
		}
		queries = append(queries, display.BackendIs(b))
	}
	if s.manufacturer != "" {
		queries = append(queries, display.ManufacturerIs(s.manufacturer))
	}
	if s.model != "" {
		queries = append(queries, display.ModelNameIs(s.model))
	}
	if s.serial != "" {
		queries = append(queries, display.SerialNumberIs(s.serial))
	}
	if len(queries) == 0 {
		return display.Any(), nil
	}
	return display.And(queries...), nil
}

// withDisplays enumerates, refreshes identification on every display, and
// hands the matching ones to fn. The enumeration result is closed when fn
// returns.
func withDisplays(ctx *commandContext, cmd *cobra.Command, q display.Query, forceCaps bool, fn func([]*display.Display) error) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	logger := ctx.ensureLogger()

	res, err := scan.Enumerate(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer res.Close()

	for _, d := range res.Displays {
		if err := d.UpdateFast(forceCaps); err != nil {
			// Composite handles span two backends; the error's provenance
			// names the one that actually failed.
			origin := d.Backend()
			if b, ok := ddc.ErrorBackend(err); ok {
				origin = b
			}
			logging.WarnWithContext(logger, "display identification failed", "display_update_failed",
				logging.Error(err),
				logging.String(logging.FieldDisplayID, d.ID()),
				logging.String(logging.FieldBackend, origin.String()),
				logging.String(logging.FieldErrorHint, "the display may be powering down or the cable flaky"),
				logging.String(logging.FieldImpact, "record shown with partial identification"),
			)
		}
	}

	return fn(res.Find(q))
}

// requireOne narrows a match list to exactly one display.
func requireOne(displays []*display.Display) (*display.Display, error) {
	switch len(displays) {
	case 0:
		return nil, fmt.Errorf("no display matches the given selector")
	case 1:
		return displays[0], nil
	default:
		ids := make([]string, len(displays))
		for i, d := range displays {
			ids[i] = d.ID()
		}
		return nil, fmt.Errorf("selector matches %d displays (%s); narrow it with --display",
			len(displays), strings.Join(ids, ", "))
	}
}

// parseFeatureCode accepts "10", "0x10" and "DF".
func parseFeatureCode(s string) (ddc.FeatureCode, error) {
	trimmed := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "0x")
	v, err := strconv.ParseUint(trimmed, 16, 8)
	if err != nil {
		return 0, fmt.Errorf("feature code %q: want a hex byte like 10 or 0xDF", s)
	}
	return ddc.FeatureCode(v), nil
}

// parseFeatureValue accepts decimal by default and hex with a 0x prefix.
func parseFeatureValue(s string) (uint16, error) {
	trimmed := strings.TrimSpace(s)
	base := 10
	if rest, ok := strings.CutPrefix(strings.ToLower(trimmed), "0x"); ok {
		trimmed, base = rest, 16
	}
	v, err := strconv.ParseUint(trimmed, base, 16)
	if err != nil {
		return 0, fmt.Errorf("feature value %q: want 0..65535", s)
	}
	return uint16(v), nil
}
