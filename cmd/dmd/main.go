// Command dmd downloads the vendor data reports the offline catalog
// generation step consumes (reports/blocks.json, reports/registries.json).
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	get "github.com/hashicorp/go-getter"
)

func main() {
	var (
		base     = flag.String("base", "https://github.com/PrismarineJS/minecraft-data.git", "base url")
		platform = flag.String("platform", "pc", "platform of reports")
		ver      = flag.String("version", "1.18.2", "version of reports")
		out      = flag.String("o", "./reports", "output dir path")
	)
	flag.Parse()

	if *out == "" {
		panic("output dir path required")
	}

	if *platform == "" {
		panic("platform required")
	}

	if *ver == "" {
		panic("version required")
	}

	path := fmt.Sprintf("%s/%s-%s", *out, *platform, *ver)

	if err := os.RemoveAll(path); err != nil {
		panic(err)
	}

	log.Default().Printf("start downloading reports %s", path)

	url := fmt.Sprintf("git::%s//data/%s/%s", *base, *platform, *ver)

	if err := get.Get(path, url); err != nil {
		panic(err)
	}

	log.Default().Printf("done downloading reports %s", path)
}
