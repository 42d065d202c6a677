// Mockup — Garment mockup generation.
//
// Usage:
//
//	mockup -o <file> --design <path> [--template <id|path>] [options]
//	mockup templates [--assets <dir>]
//	mockup serve [--port 8080]
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/craftpress/mockup/clients/server"
	"github.com/craftpress/mockup/pkg/catalog"
	"github.com/craftpress/mockup/pkg/compositor"
	"github.com/craftpress/mockup/pkg/exporter"
	"github.com/craftpress/mockup/pkg/studio"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "render":
		if err := run(os.Args[2:]); err != nil {
			fatal(err)
		}
	case "templates":
		if err := runTemplates(os.Args[2:]); err != nil {
			fatal(err)
		}
	case "serve":
		if err := server.RunServe(os.Args[2:]); err != nil {
			fatal(err)
		}
	case "help", "-h", "--help":
		printUsage()
	default:
		// Default: render mode (all flags on root).
		if err := run(os.Args[1:]); err != nil {
			fatal(err)
		}
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("mockup", flag.ExitOnError)

	var (
		output     string
		templateID string
		designPath string
		method     string
		assetDir   string
		background string
		x          float64
		y          float64
		size       float64
		rotation   float64
		opacity    float64
		wrinkle    float64
		pressure   float64
	)

	fs.StringVar(&output, "o", "", "Output file path (.png or .bmp)")
	fs.StringVar(&output, "output", "", "Output file path (.png or .bmp)")
	fs.StringVar(&templateID, "template", "tshirt-white", "Catalog template id, or a path to a garment photo")
	fs.StringVar(&designPath, "design", "", "Path to the design artwork (optional)")
	fs.StringVar(&method, "method", "", "Print method (default: template's own)")
	fs.StringVar(&assetDir, "assets", "assets", "Template asset directory")
	fs.StringVar(&background, "background", "#ffffff", "Canvas background color (hex)")
	fs.Float64Var(&x, "x", studio.DefaultX, "Design center X, percent of canvas")
	fs.Float64Var(&y, "y", studio.DefaultY, "Design center Y, percent of canvas")
	fs.Float64Var(&size, "size", studio.DefaultSize, "Design width, percent of canvas")
	fs.Float64Var(&rotation, "rotation", 0, "Rotation in degrees, clockwise")
	fs.Float64Var(&opacity, "opacity", 1, "Design opacity")
	fs.Float64Var(&wrinkle, "wrinkle", 0.5, "Fabric displacement intensity")
	fs.Float64Var(&pressure, "pressure", 0.8, "Print pressure")

	fs.Usage = printUsage
	if err := fs.Parse(args); err != nil {
		return err
	}

	if output == "" {
		printUsage()
		return fmt.Errorf("output file is required (-o)")
	}

	bg, err := compositor.ParseHexColor(background)
	if err != nil {
		return fmt.Errorf("background: %w", err)
	}

	// Resolve the template: a catalog id, or any other string as a
	// garment photo path (no displacement map in that case).
	cat := catalog.New(assetDir)
	in := compositor.Input{Background: bg}
	tpl, catErr := cat.Get(templateID)
	if catErr == nil {
		in.Template = tpl.ImagePath
		in.DisplacementMap = tpl.DisplacementPath
		in.Method = tpl.DefaultMethod
	} else {
		if _, statErr := os.Stat(templateID); statErr != nil {
			return fmt.Errorf("template %q: not in catalog and not a readable file", templateID)
		}
		in.Template = templateID
		in.Method = catalog.MethodScreenPrint
	}

	if method != "" {
		m, err := catalog.ParseMethod(method)
		if err != nil {
			return err
		}
		in.Method = m
	}

	// Clamp placement through the studio state rules so CLI renders
	// match interactive ones.
	st := studio.DefaultState()
	st.SetPosition(x, y)
	st.SetSize(size)
	st.SetRotation(rotation)
	st.SetOpacity(opacity)
	st.SetWrinkle(wrinkle)
	st.SetPressure(pressure)
	in.Placement = st.Placement()
	in.Design = designPath

	fmt.Printf("Rendering: %s\n", output)
	img, err := compositor.NewRenderer(nil).Render(context.Background(), in)
	if err != nil {
		return err
	}

	if err := exporter.Write(output, img); err != nil {
		return err
	}
	fmt.Printf("Done: %s\n", output)
	return nil
}

func runTemplates(args []string) error {
	fs := flag.NewFlagSet("templates", flag.ExitOnError)
	var assetDir string
	fs.StringVar(&assetDir, "assets", "assets", "Template asset directory")
	if err := fs.Parse(args); err != nil {
		return err
	}

	for _, tpl := range catalog.New(assetDir).List() {
		if tpl.Custom {
			fmt.Printf("%-14s %s (upload slot)\n", tpl.ID, tpl.Name)
			continue
		}
		fmt.Printf("%-14s %s  method=%s  image=%s\n", tpl.ID, tpl.Name, tpl.DefaultMethod, tpl.ImagePath)
	}
	return nil
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func printUsage() {
	fmt.Print(`Mockup — Garment Mockup Generation (Pure Go)

USAGE:
    mockup -o <file> --design <path> [--template <id|path>] [options]
    mockup templates [--assets <dir>]
    mockup serve [--port 8080]

RENDER MODE:
    -o, --output <path>    Output file (.png or .bmp)
    --template <id|path>   Catalog id (see 'mockup templates') or garment photo path
    --design <path>        Design artwork; omit to render the bare template
    --method <name>        screen-print | dtg | embroidery | vinyl
    --assets <dir>         Template asset directory (default: assets)
    --background <hex>     Canvas background color (default: #ffffff)
    --x <pct> --y <pct>    Design center on the canvas (default: 50, 40)
    --size <pct>           Design width, percent of canvas (default: 30)
    --rotation <deg>       Clockwise rotation (default: 0)
    --opacity <0.2-1>      Design opacity (default: 1)
    --wrinkle <0-1>        Fabric displacement intensity (default: 0.5)
    --pressure <0.3-1.5>   Print pressure (default: 0.8)

UI SERVER:
    mockup serve [--port 8080]      Start the mockup studio API server

EXAMPLES:
    mockup templates
    mockup serve
    mockup -o mockup.png --design logo.png
    mockup -o mockup.png --design logo.png --template hoodie-black --method embroidery
    mockup -o mockup.bmp --design logo.png --size 45 --rotation 15 --pressure 1.2
    mockup -o blank.png --template photos/my-shirt.jpg
`)
}
