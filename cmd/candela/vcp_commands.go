package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"candela/internal/ddc"
	"candela/internal/display"
)

type vcpReport struct {
	Display string `json:"display"`
	Code    string `json:"code"`
	Name    string `json:"name,omitempty"`
	Current uint16 `json:"current"`
	Maximum uint16 `json:"maximum"`
	Type    string `json:"type"`
}

func newGetVCPCommand(ctx *commandContext) *cobra.Command {
	sel := &selectorFlags{}

	cmd := &cobra.Command{
		Use:   "getvcp <feature>",
		Short: "Read a VCP feature value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code, err := parseFeatureCode(args[0])
			if err != nil {
				return err
			}
			q, err := sel.query()
			if err != nil {
				return err
			}
			return withDisplays(ctx, cmd, q, false, func(displays []*display.Display) error {
				d, err := requireOne(displays)
				if err != nil {
					return err
				}
				value, err := d.Handle().GetVCPFeature(code)
				if err != nil {
					return fmt.Errorf("read feature %#02x from %s: %w", uint8(code), d.ID(), err)
				}

				name := featureName(d, code)
				report := vcpReport{
					Display: d.ID(),
					Code:    fmt.Sprintf("%#02x", uint8(code)),
					Name:    name,
					Current: value.Current,
					Maximum: value.Maximum,
					Type:    valueTypeName(value.Type),
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, report)
				}
				label := report.Code
				if name != "" {
					label = fmt.Sprintf("%s (%s)", report.Code, name)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s = %d / %d\n", d.ID(), label, value.Current, value.Maximum)
				return nil
			})
		},
	}

	sel.register(cmd)
	return cmd
}

func newSetVCPCommand(ctx *commandContext) *cobra.Command {
	sel := &selectorFlags{}
	var save bool

	cmd := &cobra.Command{
		Use:   "setvcp <feature> <value>",
		Short: "Write a VCP feature value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			code, err := parseFeatureCode(args[0])
			if err != nil {
				return err
			}
			value, err := parseFeatureValue(args[1])
			if err != nil {
				return err
			}
			q, err := sel.query()
			if err != nil {
				return err
			}
			return withDisplays(ctx, cmd, q, false, func(displays []*display.Display) error {
				d, err := requireOne(displays)
				if err != nil {
					return err
				}
				if err := d.Handle().SetVCPFeature(code, value); err != nil {
					return fmt.Errorf("write feature %#02x on %s: %w", uint8(code), d.ID(), err)
				}
				if save {
					if err := d.Handle().SaveSettings(); err != nil {
						return fmt.Errorf("save settings on %s: %w", d.ID(), err)
					}
				}
				if !ctx.jsonOutput() {
					fmt.Fprintf(cmd.OutOrStdout(), "%s: %#02x set to %d\n", d.ID(), uint8(code), value)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&save, "save", false, "Ask the display to persist its settings afterwards")
	sel.register(cmd)
	return cmd
}

func newSaveCommand(ctx *commandContext) *cobra.Command {
	sel := &selectorFlags{}

	cmd := &cobra.Command{
		Use:   "save",
		Short: "Ask a display to persist its current settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := sel.query()
			if err != nil {
				return err
			}
			return withDisplays(ctx, cmd, q, false, func(displays []*display.Display) error {
				d, err := requireOne(displays)
				if err != nil {
					return err
				}
				if err := d.Handle().SaveSettings(); err != nil {
					return fmt.Errorf("save settings on %s: %w", d.ID(), err)
				}
				if !ctx.jsonOutput() {
					fmt.Fprintf(cmd.OutOrStdout(), "%s: settings saved\n", d.ID())
				}
				return nil
			})
		},
	}

	sel.register(cmd)
	return cmd
}

func featureName(d *display.Display, code ddc.FeatureCode) string {
	if f, ok := d.Info().MCCSDatabase.Get(code); ok {
		return f.Name
	}
	return ""
}

func valueTypeName(t ddc.ValueType) string {
	if t == ddc.Momentary {
		return "momentary"
	}
	return "set-parameter"
}
