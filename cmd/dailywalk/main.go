// Command dailywalk is the CLI for the DailyWalk scripture reader.
// It parses citations, renders verses from a local document, manages the
// offline cache, and runs the reading server.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path"

	"github.com/alecthomas/kong"

	dwerrors "github.com/dailywalk/dailywalk/core/errors"
	"github.com/dailywalk/dailywalk/core/numeral"
	"github.com/dailywalk/dailywalk/core/reference"
	"github.com/dailywalk/dailywalk/core/render"
	"github.com/dailywalk/dailywalk/core/scripture"
	"github.com/dailywalk/dailywalk/internal/gateway"
	"github.com/dailywalk/dailywalk/internal/logging"
	"github.com/dailywalk/dailywalk/internal/web"
)

const version = "0.1.0"

// CLI defines the command-line interface for dailywalk.
var CLI struct {
	// Global flags
	LogLevel  string `name:"log-level" default:"info" enum:"debug,info,warn,error" help:"Log level"`
	LogFormat string `name:"log-format" default:"text" enum:"json,text" help:"Log output format"`

	Parse   ParseCmd   `cmd:"" help:"Parse a citation into a chapter range"`
	Render  RenderCmd  `cmd:"" help:"Render a citation against a scripture document"`
	Convert ConvertCmd `cmd:"" help:"Convert a Chinese numeral to an integer"`
	Install InstallCmd `cmd:"" help:"Pre-populate the offline cache from an upstream origin"`
	Serve   ServeCmd   `cmd:"" help:"Start the reading server"`
	Version VersionCmd `cmd:"" help:"Print version information"`
}

// ParseCmd parses a citation and prints the structured reference as JSON.
type ParseCmd struct {
	Citation string `arg:"" help:"Citation to parse (e.g. 创一至二章, 诗102)"`
}

func (c *ParseCmd) Run() error {
	ref := reference.Parse(c.Citation)
	if ref == nil {
		return dwerrors.NewValidation("citation", fmt.Sprintf("unparseable citation: %s", c.Citation))
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(ref)
}

// RenderCmd renders a citation from a local document file.
type RenderCmd struct {
	Citation string `arg:"" help:"Citation to render"`
	Data     string `name:"data" short:"d" required:"" type:"existingfile" help:"Scripture document (xml, json, sqlite; .xz accepted)"`
}

func (c *RenderCmd) Run() error {
	doc, fp, err := scripture.Load(c.Data)
	if err != nil {
		return err
	}
	if closer, ok := doc.(*scripture.SQLiteDocument); ok {
		defer closer.Close()
	}
	logging.DataLoaded(c.Data, fp)
	fmt.Print(render.Render(c.Citation, doc))
	return nil
}

// ConvertCmd converts a Chinese numeral string to an integer.
type ConvertCmd struct {
	Numeral string `arg:"" help:"Chinese numeral (e.g. 一百零二)"`
}

func (c *ConvertCmd) Run() error {
	fmt.Println(numeral.Convert(c.Numeral))
	return nil
}

// InstallCmd prefetches the offline manifest into a filesystem cache store
// and activates the version, deleting stale version stores.
type InstallCmd struct {
	Upstream string `name:"upstream" required:"" help:"Origin to fetch from (e.g. https://walk.example.org)"`
	CacheDir string `name:"cache-dir" default:".dailywalk-cache" help:"Offline store directory"`
	Version  string `name:"cache-version" default:"v1" help:"Cache version name"`
	DataPath string `name:"data-path" default:"/bible.xml" help:"Upstream path of the data file"`
}

func (c *InstallCmd) Run() error {
	store, err := gateway.NewFSStore(c.CacheDir)
	if err != nil {
		return err
	}
	gw, err := gateway.New(gateway.Config{
		Version:    c.Version,
		Origin:     c.Upstream,
		Manifest:   []string{"/", c.DataPath},
		DataSuffix: path.Ext(c.DataPath),
		Store:      store,
	})
	if err != nil {
		return err
	}
	ctx := context.Background()
	if err := gw.Install(ctx); err != nil {
		return err
	}
	if err := gw.Activate(ctx); err != nil {
		return err
	}
	fmt.Printf("installed and activated cache version %s in %s\n", c.Version, c.CacheDir)
	return nil
}

// ServeCmd starts the reading server.
type ServeCmd struct {
	Port     int      `name:"port" default:"8080" help:"Port to listen on"`
	Data     string   `name:"data" short:"d" help:"Local scripture document path"`
	Upstream string   `name:"upstream" help:"Origin to fetch the document from; empty serves local data only"`
	DataPath string   `name:"data-path" default:"/bible.xml" help:"Upstream path of the data file"`
	CacheDir string   `name:"cache-dir" help:"Offline store directory; empty keeps the cache in memory"`
	Version  string   `name:"cache-version" default:"v1" help:"Offline cache version"`
	Origins  []string `name:"cors-origin" help:"Allowed CORS origins; empty allows all"`
}

func (c *ServeCmd) Run() error {
	return web.Start(web.Config{
		Port:     c.Port,
		DataFile: c.Data,
		Upstream: c.Upstream,
		DataPath: c.DataPath,
		CacheDir: c.CacheDir,
		Version:  c.Version,
		Origins:  c.Origins,
	})
}

// VersionCmd prints version information.
type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Printf("dailywalk %s\n", version)
	return nil
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("dailywalk"),
		kong.Description("DailyWalk - scripture citation engine and offline reader"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)
	logging.InitLogger(logging.ParseLevel(CLI.LogLevel), logging.ParseFormat(CLI.LogFormat))
	err := ctx.Run(ctx)
	ctx.FatalIfErrorf(err)
}
