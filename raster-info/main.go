package main

import (
	"bufio"
	"encoding/json"
	"log"
	"os"

	"github.com/nci/rastercmp/raster"
	"github.com/nci/rastercmp/srs"
)

func ensure(err error) {
	if err != nil {
		log.Fatal(err)
	}
}

func main() {

	if len(os.Args) != 2 {
		log.Fatal("Please provide a path to a raster file or '-' for reading from stdin")
	}

	path := os.Args[1]

	if path == "-" {
		scanner := bufio.NewScanner(os.Stdin)
		scanner.Scan()
		path = scanner.Text()
	}

	info, err := raster.Open(path)
	ensure(err)

	if info.ProjWKT != "" {
		info.Proj4, err = srs.ToProj4(info.ProjWKT)
		if err != nil {
			log.Printf("proj4 export: %v", err)
		}
	}

	out, err := json.Marshal(info)
	ensure(err)

	_, err = os.Stdout.Write(append(out, '\n'))
	ensure(err)
}
