package trace

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/NethermindEth/juno-cheatnet/cheats"
	"github.com/NethermindEth/juno-cheatnet/starknet"
	"github.com/NethermindEth/juno-cheatnet/utils"
	"github.com/olekukonko/tablewriter"
)

// CallTrace is the finalized view of one invocation and everything it called
type CallTrace struct {
	EntryPoint starknet.CallEntryPoint     `json:"entry_point"`
	Cheats     cheats.Resolved             `json:"cheats"`
	Mocked     bool                        `json:"mocked,omitempty"`
	Result     Result                      `json:"result"`
	Resources  starknet.ExecutionResources `json:"used_execution_resources"`
	Events     []Event                     `json:"events"`
	Calls      []*CallTrace                `json:"nested_calls"`
}

// Walk visits the tree in pre-order
func (t *CallTrace) Walk(fn func(node *CallTrace, depth int)) {
	t.walk(fn, 0)
}

func (t *CallTrace) walk(fn func(*CallTrace, int), depth int) {
	fn(t, depth)
	for _, c := range t.Calls {
		c.walk(fn, depth+1)
	}
}

func (t *CallTrace) Len() int {
	n := 0
	t.Walk(func(*CallTrace, int) { n++ })
	return n
}

// Render writes a one-row-per-call summary table
func (t *CallTrace) Render(w io.Writer) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Call", "Contract", "Selector", "Caller", "Kind", "Result", "Steps", "Events"})
	table.SetAutoWrapText(false)
	t.Walk(func(node *CallTrace, depth int) {
		entry := &node.EntryPoint
		kind := entry.CallType.String()
		if node.Mocked {
			kind += " (mocked)"
		}
		result := node.Result.Kind.String()
		if !node.Result.OK() {
			result += ": " + node.Result.Describe()
		} else if len(node.Result.Retdata) > 0 {
			result += " " + utils.FeltArrToString(node.Result.Retdata)
		}
		table.Append([]string{
			strings.Repeat("  ", depth) + strconv.Itoa(depth),
			entry.StorageAddress.String(),
			entry.EntryPointSelector.String(),
			entry.CallerAddress.String(),
			kind,
			result,
			fmt.Sprint(node.Resources.Steps),
			fmt.Sprint(len(node.Events)),
		})
	})
	table.Render()
}
