package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"candela/internal/display"
)

type capabilitiesReport struct {
	Display  string            `json:"display"`
	Protocol string            `json:"protocol,omitempty"`
	Type     string            `json:"type,omitempty"`
	Model    string            `json:"model,omitempty"`
	Version  string            `json:"mccs_version,omitempty"`
	Commands []string          `json:"commands,omitempty"`
	Features []featureReport   `json:"features,omitempty"`
	Other    map[string]string `json:"other,omitempty"`
}

func newCapabilitiesCommand(ctx *commandContext) *cobra.Command {
	sel := &selectorFlags{}
	var raw bool

	cmd := &cobra.Command{
		Use:     "capabilities",
		Aliases: []string{"caps"},
		Short:   "Fetch and decode a display's capability string",
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
				caps := d.Capabilities()
				if caps == nil {
					return fmt.Errorf("%s does not report capabilities", d.ID())
				}
				out := cmd.OutOrStdout()

				if raw {
					rawCaps, err := d.Handle().CapabilitiesString()
					if err != nil {
						return fmt.Errorf("fetch capability string from %s: %w", d.ID(), err)
					}
					fmt.Fprintln(out, string(rawCaps))
					return nil
				}

				report := capabilitiesReport{
					Display:  d.ID(),
					Protocol: caps.Protocol,
					Type:     caps.Type,
					Model:    caps.Model,
					Other:    caps.Other,
				}
				if caps.Version != nil {
					report.Version = caps.Version.String()
				}
				for _, c := range caps.Commands {
					report.Commands = append(report.Commands, fmt.Sprintf("%#02x", c))
				}
				info := infoFor(d)
				report.Features = info.FeatureTable

				if ctx.jsonOutput() {
					return writeJSON(cmd, report)
				}

				fmt.Fprintf(out, "Display:   %s\n", report.Display)
				if report.Protocol != "" {
					fmt.Fprintf(out, "Protocol:  %s\n", report.Protocol)
				}
				if report.Type != "" {
					fmt.Fprintf(out, "Type:      %s\n", report.Type)
				}
				if report.Model != "" {
					fmt.Fprintf(out, "Model:     %s\n", report.Model)
				}
				if report.Version != "" {
					fmt.Fprintf(out, "MCCS:      %s\n", report.Version)
				}
				if len(report.Commands) > 0 {
					fmt.Fprintf(out, "Commands:  %s\n", strings.Join(report.Commands, " "))
				}
				if len(report.Features) > 0 {
					fmt.Fprintln(out)
					headers := []string{"CODE", "NAME", "ACCESS", "VALUES"}
					rows := make([][]string, 0, len(report.Features))
					for _, f := range report.Features {
						rows = append(rows, []string{f.Code, f.Name, f.Access, formatValues(f.Values)})
					}
					fmt.Fprintln(out, renderTable(out, headers, rows, nil))
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "Print the undecoded capability string")
	sel.register(cmd)
	return cmd
}
