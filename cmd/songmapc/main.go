// Command songmapc compiles a chart script into songmap JSON for the game.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	songmap "github.com/cbegin/songmap-go"
)

func main() {
	var (
		chartPath = flag.String("file", "", "path to a chart script")
		outPath   = flag.String("o", "", "output path (default stdout)")
		seed      = flag.Int64("seed", 0, "seed for the random spawners")
		window    = flag.Float64("group-window", 0.25, "adjacency window in beats for midi note grouping")
		indent    = flag.Bool("indent", false, "pretty-print the JSON output")
	)
	flag.Parse()

	if *chartPath == "" {
		log.Fatal("songmapc: -file is required")
	}
	m, err := songmap.BuildFile(*chartPath,
		songmap.WithSeed(*seed),
		songmap.WithGroupWindow(*window),
	)
	if err != nil {
		log.Fatal(err)
	}

	var data []byte
	if *indent {
		data, err = json.MarshalIndent(m, "", "  ")
	} else {
		data, err = json.Marshal(m)
	}
	if err != nil {
		log.Fatal(err)
	}
	data = append(data, '\n')

	if *outPath == "" {
		os.Stdout.Write(data)
	} else if err := os.WriteFile(*outPath, data, 0o644); err != nil {
		log.Fatal(err)
	}
	fmt.Fprintf(os.Stderr, "songmapc: %d commands\n", m.Len())
}
