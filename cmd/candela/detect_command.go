package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"candela/internal/display"
)

// displayReport is the JSON shape of one detected display.
type displayReport struct {
	ID           string `json:"id"`
	Backend      string `json:"backend"`
	Manufacturer string `json:"manufacturer,omitempty"`
	Model        string `json:"model,omitempty"`
	Serial       string `json:"serial,omitempty"`
	ProductCode  string `json:"product_code,omitempty"`
	MCCSVersion  string `json:"mccs_version,omitempty"`
	HasEDID      bool   `json:"has_edid"`
	Features     int    `json:"features"`
}

func reportFor(d *display.Display) displayReport {
	info := d.Info()
	r := displayReport{
		ID:       info.ID,
		Backend:  info.Backend.String(),
		HasEDID:  len(info.EDIDData) > 0,
		Features: info.MCCSDatabase.Len(),
	}
	if info.ManufacturerID != nil {
		r.Manufacturer = *info.ManufacturerID
	}
	if info.ModelName != nil {
		r.Model = *info.ModelName
	}
	if info.SerialNumber != nil {
		r.Serial = *info.SerialNumber
	}
	if info.ModelID != nil {
		r.ProductCode = fmt.Sprintf("%#04x", *info.ModelID)
	}
	if info.MCCSVersion != nil {
		r.MCCSVersion = info.MCCSVersion.String()
	}
	return r
}

func newDetectCommand(ctx *commandContext) *cobra.Command {
	var forceCaps bool
	sel := &selectorFlags{}

	cmd := &cobra.Command{
		Use:   "detect",
		Short: "Enumerate attached displays",
		Long: `Detect probes every enabled backend, merges records that describe the
same physical display, and prints one line per display found.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := sel.query()
			if err != nil {
				return err
			}
			return withDisplays(ctx, cmd, q, forceCaps, func(displays []*display.Display) error {
				if ctx.jsonOutput() {
					reports := make([]displayReport, len(displays))
					for i, d := range displays {
						reports[i] = reportFor(d)
					}
					return writeJSON(cmd, reports)
				}

				out := cmd.OutOrStdout()
				if len(displays) == 0 {
					fmt.Fprintln(out, "No displays found.")
					return nil
				}
				headers := []string{"ID", "BACKEND", "MANUFACTURER", "MODEL", "SERIAL", "MCCS"}
				rows := make([][]string, 0, len(displays))
				for _, d := range displays {
					r := reportFor(d)
					rows = append(rows, []string{r.ID, r.Backend, r.Manufacturer, r.Model, r.Serial, r.MCCSVersion})
				}
				fmt.Fprintln(out, renderTable(out, headers, rows, nil))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&forceCaps, "capabilities", false, "Fetch capability strings even when EDID identifies the display (slower)")
	sel.register(cmd)
	return cmd
}
