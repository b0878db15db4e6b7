package main

import (
	"fmt"
	"os"

	"chanakya/internal/config"
)

func main() {
	path := ""
	if len(os.Args) > 1 {
		path = os.Args[1]
	}
	cfg, err := config.Load(path)
	if err != nil {
		panic(err)
	}
	out, err := config.Encode(cfg)
	if err != nil {
		panic(err)
	}
	fmt.Printf("# %s (timeout=%s)\n%s", cfg.Paths.ConfigPath, cfg.Timeout(), out)
}
