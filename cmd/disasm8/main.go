package main

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strconv"

	"disasm8"

	cli "github.com/urfave/cli/v2"
)

func listDFS(file string) error {
	data, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("reading %s: %w", file, err)
	}
	img, err := disasm8.ParseDFS(data)
	if err != nil {
		return err
	}
	fmt.Printf("Disk Title  %s\n", img.Title)
	fmt.Printf("Num Files   %d\n", len(img.Entries))
	fmt.Printf("Boot Option %d\n", img.BootOpt)
	fmt.Printf("Disk Cycle  0x%02X\n\n", img.Cycle)

	fmt.Println("Filename  Length   LoadAddr ExecAddr Sector")
	for _, e := range img.Entries {
		fmt.Printf("%-9s %6d %08X %08X %6d\n", e.FullName(), e.Length, e.LoadAddr, e.ExecAddr, e.StartSect)
	}
	return nil
}

func extractFromDFS(file string, names []string, outDir string) error {
	data, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("reading %s: %w", file, err)
	}
	img, err := disasm8.ParseDFS(data)
	if err != nil {
		return err
	}
	wanted := make(map[string]bool)
	for _, n := range names {
		wanted[n] = true
	}
	for _, e := range img.Entries {
		if len(wanted) > 0 && !wanted[e.FullName()] && !wanted[e.Name] {
			continue
		}
		bytes, err := disasm8.ExtractFromDFS(data, e)
		if err != nil {
			return err
		}
		outPath := filepath.Join(outDir, e.Name)
		if err := os.WriteFile(outPath, bytes, 0644); err != nil {
			return fmt.Errorf("writing %s: %w", outPath, err)
		}
		fmt.Printf("extracted %s -> %s\n", e.FullName(), outPath)
	}
	return nil
}

func formatterFor(c *cli.Context) (disasm8.Formatter, error) {
	beebasm := c.Bool("beebasm")
	acme := c.Bool("acme")
	xa := c.Bool("xa")
	lower := c.Bool("lower")
	upper := c.Bool("upper")
	if lower && upper {
		return nil, cli.Exit("--lower and --upper are mutually exclusive", 1)
	}
	if (beebasm && acme) || (beebasm && xa) || (acme && xa) {
		return nil, cli.Exit("only one of --beebasm, --acme, --xa may be given", 1)
	}
	lowerCase := !upper

	switch {
	case acme:
		return &disasm8.AcmeFormatter{Lower: lowerCase}, nil
	case xa:
		return &disasm8.XaFormatter{Lower: lowerCase}, nil
	default:
		return &disasm8.BeebasmFormatter{Lower: lowerCase}, nil
	}
}

func disasmCmd(c *cli.Context) error {
	args := c.Args()
	if args.Len() < 1 {
		return cli.Exit("insufficient arguments", 1)
	}
	file := args.First()

	loadAddr := disasm8.BinaryAddr(0)
	if s := c.String("loadaddr"); s != "" {
		v, err := strconv.ParseUint(s, 0, 32)
		if err != nil {
			return cli.Exit("could not parse --loadaddr", 1)
		}
		loadAddr = disasm8.BinaryAddr(v)
	}

	f, err := formatterFor(c)
	if err != nil {
		return err
	}

	ctx := disasm8.NewContext(disasm8.DefaultConfig(), disasm8.NewInstructionSet6502())
	if err := ctx.Load(loadAddr, file, ""); err != nil {
		return cli.Exit(err.Error(), 1)
	}
	disasm8.DefaultLabelMakerHook(ctx.Labels)

	for _, addr := range c.StringSlice("codeaddrs") {
		v, err := strconv.ParseUint(addr, 0, 32)
		if err != nil {
			return cli.Exit(fmt.Sprintf("could not parse codeaddr %q", addr), 1)
		}
		if err := ctx.Entry(disasm8.BinaryAddr(v), ""); err != nil {
			return cli.Exit(err.Error(), 1)
		}
	}

	if err := ctx.Go(os.Stdout, f); err != nil {
		return cli.Exit(err.Error(), 1)
	}
	for _, d := range ctx.Diagnostics {
		fmt.Fprintf(os.Stderr, "warning: %s\n", d)
	}
	return nil
}

func main() {
	app := &cli.App{
		Name:  path.Base(os.Args[0]),
		Usage: "static disassembler for 8-bit/6502 binaries and BBC Micro DFS images",
		Commands: []*cli.Command{
			{
				Name:      "list",
				Usage:     "list the catalog of a DFS disk image",
				ArgsUsage: "<image>",
				Action: func(c *cli.Context) error {
					if c.Args().Len() < 1 {
						return cli.Exit("insufficient arguments", 1)
					}
					return listDFS(c.Args().First())
				},
			},
			{
				Name:      "extract",
				Usage:     "extract files from a DFS disk image",
				ArgsUsage: "<image> [filename...]",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "outdir", Value: "."},
				},
				Action: func(c *cli.Context) error {
					if c.Args().Len() < 1 {
						return cli.Exit("insufficient arguments", 1)
					}
					return extractFromDFS(c.Args().First(), c.Args().Tail(), c.String("outdir"))
				},
			},
			{
				Name:      "disasm",
				Usage:     "disassemble a raw binary file",
				ArgsUsage: "<file>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "loadaddr"},
					&cli.StringSliceFlag{Name: "codeaddrs"},
					&cli.BoolFlag{Name: "beebasm", Usage: "generate beebasm-style output (default)"},
					&cli.BoolFlag{Name: "acme", Usage: "generate acme-style output"},
					&cli.BoolFlag{Name: "xa", Usage: "generate xa-style output"},
					&cli.BoolFlag{Name: "lower", Usage: "generate lower-case output (default)"},
					&cli.BoolFlag{Name: "upper", Usage: "generate upper-case output"},
				},
				Action: disasmCmd,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
