package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/NethermindEth/juno-cheatnet/trace"
	"github.com/NethermindEth/juno-cheatnet/utils"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

const eventsF = "events"

func TraceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trace <file.json>",
		Short: "Render call traces saved as JSON",
		Long:  `This command renders one call trace, or a JSON array of them, as a table with one row per call.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			traces, err := decodeTraces(data)
			if err != nil {
				return fmt.Errorf("decode %s: %w", args[0], err)
			}
			withEvents, err := cmd.Flags().GetBool(eventsF)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, t := range traces {
				t.Render(out)
				if withEvents {
					renderEvents(cmd, t)
				}
			}
			return nil
		},
	}
	cmd.Flags().Bool(eventsF, false, "Also list the events emitted by each call")
	return cmd
}

func decodeTraces(data []byte) ([]*trace.CallTrace, error) {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var traces []*trace.CallTrace
		if err := json.Unmarshal(data, &traces); err != nil {
			return nil, err
		}
		return traces, nil
	}
	t := new(trace.CallTrace)
	if err := json.Unmarshal(data, t); err != nil {
		return nil, err
	}
	return []*trace.CallTrace{t}, nil
}

func renderEvents(cmd *cobra.Command, t *trace.CallTrace) {
	table := tablewriter.NewWriter(cmd.OutOrStdout())
	table.SetHeader([]string{"Emitter", "Order", "Keys", "Data"})
	table.SetAutoWrapText(false)
	t.Walk(func(node *trace.CallTrace, _ int) {
		for i := range node.Events {
			ev := &node.Events[i]
			table.Append([]string{
				ev.Emitter.String(),
				fmt.Sprint(ev.Order),
				utils.FeltArrToString(ev.Keys),
				utils.FeltArrToString(ev.Data),
			})
		}
	})
	table.Render()
}
