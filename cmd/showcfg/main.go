package main

import (
	"fmt"
	"os"

	"voxscribe/internal/config"

	"github.com/pelletier/go-toml/v2"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}
	out, err := toml.Marshal(cfg)
	if err != nil {
		panic(err)
	}
	fmt.Printf("# %s\n", cfg.Paths.ConfigPath)
	_, _ = os.Stdout.Write(out)
}
