package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"candela/internal/display"
)

// infoReport extends the detect report with the feature table.
type infoReport struct {
	displayReport
	VersionPair     string          `json:"edid_version,omitempty"`
	SerialID        *uint32         `json:"serial_id,omitempty"`
	ManufactureWeek *uint8          `json:"manufacture_week,omitempty"`
	ManufactureYear *uint8          `json:"manufacture_year,omitempty"`
	FeatureTable    []featureReport `json:"feature_table,omitempty"`
}

type featureReport struct {
	Code   string   `json:"code"`
	Name   string   `json:"name,omitempty"`
	Access string   `json:"access"`
	Values []uint16 `json:"values,omitempty"`
}

func infoFor(d *display.Display) infoReport {
	info := d.Info()
	r := infoReport{displayReport: reportFor(d)}
	if info.VersionPair != nil {
		r.VersionPair = fmt.Sprintf("%d.%d", info.VersionPair.Version, info.VersionPair.Revision)
	}
	r.SerialID = info.SerialID
	r.ManufactureWeek = info.ManufactureWeek
	r.ManufactureYear = info.ManufactureYear

	codes := info.MCCSDatabase.Codes()
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })
	for _, code := range codes {
		f, _ := info.MCCSDatabase.Get(code)
		r.FeatureTable = append(r.FeatureTable, featureReport{
			Code:   fmt.Sprintf("%#02x", uint8(code)),
			Name:   f.Name,
			Access: f.Access.String(),
			Values: f.Values,
		})
	}
	return r
}

func newInfoCommand(ctx *commandContext) *cobra.Command {
	sel := &selectorFlags{}

	cmd := &cobra.Command{
		Use:   "info",
		Short: "Show everything known about one display",
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := sel.query()
			if err != nil {
				return err
			}
			return withDisplays(ctx, cmd, q, true, func(displays []*display.Display) error {
				d, err := requireOne(displays)
				if err != nil {
					return err
				}
				r := infoFor(d)
				if ctx.jsonOutput() {
					return writeJSON(cmd, r)
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Display:       %s (%s)\n", r.ID, r.Backend)
				if r.Manufacturer != "" {
					fmt.Fprintf(out, "Manufacturer:  %s\n", r.Manufacturer)
				}
				if r.Model != "" {
					fmt.Fprintf(out, "Model:         %s\n", r.Model)
				}
				if r.ProductCode != "" {
					fmt.Fprintf(out, "Product code:  %s\n", r.ProductCode)
				}
				if r.Serial != "" {
					fmt.Fprintf(out, "Serial:        %s\n", r.Serial)
				}
				if r.SerialID != nil {
					fmt.Fprintf(out, "Serial id:     %d\n", *r.SerialID)
				}
				if r.ManufactureWeek != nil && r.ManufactureYear != nil {
					fmt.Fprintf(out, "Manufactured:  week %d, %d\n", *r.ManufactureWeek, 1990+int(*r.ManufactureYear))
				}
				if r.VersionPair != "" {
					fmt.Fprintf(out, "EDID version:  %s\n", r.VersionPair)
				}
				if r.MCCSVersion != "" {
					fmt.Fprintf(out, "MCCS version:  %s\n", r.MCCSVersion)
				}
				fmt.Fprintf(out, "EDID present:  %s\n", yesNo(r.HasEDID))

				if len(r.FeatureTable) > 0 {
					fmt.Fprintln(out)
					headers := []string{"CODE", "NAME", "ACCESS", "VALUES"}
					rows := make([][]string, 0, len(r.FeatureTable))
					for _, f := range r.FeatureTable {
						rows = append(rows, []string{f.Code, f.Name, f.Access, formatValues(f.Values)})
					}
					fmt.Fprintln(out, renderTable(out, headers, rows, nil))
				}
				return nil
			})
		},
	}

	sel.register(cmd)
	return cmd
}

func formatValues(values []uint16) string {
	if len(values) == 0 {
		return ""
	}
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprintf("%#02x", v)
	}
	return strings.Join(parts, " ")
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
