package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/NethermindEth/juno-cheatnet/core/felt"
	"github.com/NethermindEth/juno-cheatnet/fork"
	"github.com/NethermindEth/juno-cheatnet/starknet"
	"github.com/NethermindEth/juno-cheatnet/state"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

const countF = "count"

var errNotForking = errors.New("no fork configured, set --fork-url")

func ForkCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fork",
		Short: "Read state of the forked chain",
		Long: `This command reads state through the same layered reader the runtime uses,
pinned to the configured fork block.`,
	}
	cmd.AddCommand(forkStorageCmd(a), forkNonceCmd(a), forkClassHashCmd(a), forkClassCmd(a), forkBlockCmd(a))
	return cmd
}

// withFork opens the configured fork for the duration of fn
func (a *app) withFork(ctx context.Context, fn func(ref *fork.Reference, st *state.State) error) error {
	if !a.cfg.Forking() {
		return errNotForking
	}
	ref, closeFn, err := a.cfg.OpenFork(ctx, a.log)
	if err != nil {
		return err
	}
	err = fn(ref, state.New(ref, a.log))
	if closeErr := closeFn(); err == nil {
		err = closeErr
	}
	return err
}

func forkStorageCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "storage <address> <key>",
		Short: "Read consecutive storage values of a contract",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := starknet.ParseAddress(args[0])
			if err != nil {
				return err
			}
			key, err := felt.FromString[felt.Felt](args[1])
			if err != nil {
				return fmt.Errorf("storage key %q: %w", args[1], err)
			}
			count, err := cmd.Flags().GetUint64(countF)
			if err != nil {
				return err
			}

			return a.withFork(cmd.Context(), func(_ *fork.Reference, st *state.State) error {
				table := tablewriter.NewWriter(cmd.OutOrStdout())
				table.SetHeader([]string{"Key", "Value"})
				k := key
				for range count {
					v, err := st.Storage(cmd.Context(), addr, k)
					if err != nil {
						return err
					}
					table.Append([]string{k.String(), v.String()})
					k.Add(&k, &felt.One)
				}
				table.Render()
				return nil
			})
		},
	}
	cmd.Flags().Uint64(countF, 1, "Number of consecutive keys to read")
	return cmd
}

func forkNonceCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "nonce <address>",
		Short: "Read the nonce of a contract",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := starknet.ParseAddress(args[0])
			if err != nil {
				return err
			}
			return a.withFork(cmd.Context(), func(_ *fork.Reference, st *state.State) error {
				nonce, err := st.Nonce(cmd.Context(), addr)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), nonce.String())
				return err
			})
		},
	}
}

func forkClassHashCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "class-hash <address>",
		Short: "Read the class hash of a contract, 0x0 when not deployed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := starknet.ParseAddress(args[0])
			if err != nil {
				return err
			}
			return a.withFork(cmd.Context(), func(_ *fork.Reference, st *state.State) error {
				classHash, err := st.ClassHash(cmd.Context(), addr)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), classHash.String())
				return err
			})
		},
	}
}

func forkClassCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "class <class-hash>",
		Short: "List the entry points of a compiled class",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			classHash, err := felt.FromString[felt.ClassHash](args[0])
			if err != nil {
				return fmt.Errorf("class hash %q: %w", args[0], err)
			}
			return a.withFork(cmd.Context(), func(_ *fork.Reference, st *state.State) error {
				class, err := st.CompiledClass(cmd.Context(), classHash)
				if err != nil {
					return err
				}
				table := tablewriter.NewWriter(cmd.OutOrStdout())
				table.SetHeader([]string{"Type", "Selector", "Offset"})
				for _, group := range []struct {
					kind starknet.EntryPointType
					eps  []starknet.CompiledEntryPoint
				}{
					{starknet.External, class.EntryPoints.External},
					{starknet.L1Handler, class.EntryPoints.L1Handler},
					{starknet.Constructor, class.EntryPoints.Constructor},
				} {
					for _, ep := range group.eps {
						table.Append([]string{group.kind.String(), ep.Selector.String(), strconv.FormatUint(ep.Offset, 10)})
					}
				}
				table.SetFooter([]string{"Bytecode", strconv.Itoa(len(class.Bytecode)), ""})
				table.Render()
				return nil
			})
		},
	}
}

func forkBlockCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "block",
		Short: "Print the header of the pinned fork block",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withFork(cmd.Context(), func(ref *fork.Reference, _ *state.State) error {
				header := ref.Header()
				out, err := json.MarshalIndent(&struct {
					fork.BlockHeader
					ChainID felt.Felt `json:"chain_id"`
				}{header, ref.ChainID()}, "", "  ")
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
				return err
			})
		},
	}
}
