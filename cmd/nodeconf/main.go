// Command nodeconf writes a default node config template or validates an
// existing config file.
package main

import (
	"flag"
	"log"

	"plcnode/internal/config"
)

func main() {
	format := flag.String("format", "", "template format: yaml|toml|json (defaults to the output extension)")
	output := flag.String("output", "plcnode.yaml", "output path for config template")
	validate := flag.Bool("validate", false, "validate an existing config file")
	input := flag.String("input", "plcnode.yaml", "config path for validation")
	force := flag.Bool("force", false, "overwrite existing config file")
	flag.Parse()

	if *validate {
		cfg, err := config.Load(*input)
		if err != nil {
			log.Fatal(err)
		}
		log.Printf("Validated config for node %q at %s", cfg.Node.Name, *input)
		return
	}

	switch *format {
	case "", config.FormatYAML, config.FormatTOML, config.FormatJSON:
	default:
		log.Fatalf("unknown format: %s", *format)
	}
	if err := config.WriteTemplate(*output, *format, *force); err != nil {
		log.Fatal(err)
	}
	log.Printf("Wrote config template to %s", *output)
}
