package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/Urethramancer/ucode/microcode"
	"github.com/spf13/cobra"
)

func main() {
	var output string

	root := &cobra.Command{
		Use:   "ucdis <code-rom> <opcode-map>",
		Short: "Disassemble a bit-slice CPU microcode ROM into a control-flow listing",
		Long: `ucdis decodes a microcode ROM dump (one 64-bit word per line, base 16)
into a symbolic listing: per-address micro-operations, sequencer control
transfers with resolved targets, opcode dispatch labels, and a mux-select
distribution for hardware sanity-checking.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(args[0], args[1], output)
		},
	}
	root.Flags().StringVarP(&output, "output", "o", "", "write the listing to a file instead of stdout")
	root.CompletionOptions.DisableDefaultCmd = true
	root.SilenceUsage = true

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(romPath, mapPath, output string) error {
	rom, err := loadROM(romPath)
	if err != nil {
		return err
	}
	opmap, err := loadOpcodeMap(mapPath)
	if err != nil {
		return err
	}

	listing := microcode.Explore(rom, opmap)
	for _, rec := range listing.Anomalies() {
		slog.Warn("decode anomaly", "addr", fmt.Sprintf("%03x", rec.Addr), "seq", rec.Seq)
	}

	text := listing.String()
	if output == "" {
		fmt.Print(text)
		return nil
	}
	if err := os.WriteFile(output, []byte(text), 0644); err != nil {
		return fmt.Errorf("writing listing: %w", err)
	}
	return nil
}

func loadROM(path string) ([]uint64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	rom, err := microcode.ReadROM(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rom, nil
}

func loadOpcodeMap(path string) ([]uint16, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	opmap, err := microcode.ReadOpcodeMap(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return opmap, nil
}
