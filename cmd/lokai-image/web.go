package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/pkg/browser"

	cfgpkg "lokai/internal/config"
)

var openBrowser = browser.OpenURL

// lokai-image web
func cmdWeb(args []string) error {
	var cf commonFlags

	fs := flag.NewFlagSet("web", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	addCommonFlags(fs, &cf)

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	setupLogger(cf.logLevel)
	fileCfg, err := cfgpkg.LoadFile(cf.config)
	if err != nil {
		return err
	}
	envOv, apiKey := cfgpkg.FromEnv()
	cfg := cfgpkg.Merge(fileCfg, envOv, cfgpkg.Overrides{}, apiKey)

	// The web UI lives at the server root, above the API path.
	uiURL := strings.TrimSuffix(strings.TrimRight(cfg.SDXLURL, "/"), "/api")
	fmt.Printf("opening web ui: %s\n", uiURL)
	return openBrowser(uiURL)
}
